package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func newState(id string) *domain.State {
	st := domain.NewState(id, "client-1", "detailed", 12)
	st.Answers.Name = "Acme Store"
	st.Answers.ContactEmail = "owner@acme.test"
	return st
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := newDocumentStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	require.NoError(t, secureStore.Save(ctx, "s1", newState("s1")))

	stored, err := underlyingStore.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Sealed)
	assert.Empty(t, stored.Answers.Name, "answers must not leak into the envelope")
	assert.Empty(t, stored.UserID)
	assert.Equal(t, "detailed", stored.Layout)
	assert.NotContains(t, underlyingStore.raw("s1"), "Acme Store")
	assert.NotContains(t, underlyingStore.raw("s1"), "owner@acme.test")
	assert.NotContains(t, underlyingStore.raw("s1"), "client-1")

	loaded, err := secureStore.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Store", loaded.Answers.Name)
	assert.Equal(t, "owner@acme.test", loaded.Answers.ContactEmail)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := newDocumentStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	require.NoError(t, secureStoreOld.Save(ctx, "s1", newState("s1")))

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "s1")
	require.NoError(t, err, "fallback key should decrypt")
	assert.Equal(t, "Acme Store", loaded.Answers.Name)

	loaded.Answers.Name = "Rotated"
	require.NoError(t, secureStoreNew.Save(ctx, "s1", loaded))

	_, err = secureStoreOld.Load(ctx, "s1")
	assert.Error(t, err, "old key alone cannot read new-key data")
}

func TestEncryptionMiddleware_RefusesPlainState(t *testing.T) {
	underlyingStore := newDocumentStore()
	ctx := context.Background()
	require.NoError(t, underlyingStore.Save(ctx, "s1", newState("s1")))

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	_, err := secureStore.Load(ctx, "s1")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, middleware.NewEncryptionMiddleware(
		middleware.EncryptionConfig{ActiveKey: generateKey(t)},
	)(newDocumentStore()))
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
	_, err = middleware.ParseKey("not base64!")
	assert.Error(t, err)
}
