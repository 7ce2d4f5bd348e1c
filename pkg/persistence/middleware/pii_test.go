package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := newDocumentStore()
	secureStore := middleware.NewPIIMiddleware(append(middleware.DefaultPIIPatterns, "^categories$"))(underlyingStore)

	ctx := context.Background()
	state := newState("s1")
	state.Answers.ContactPhone = "+20 100 000 0000"
	state.Answers.LogoAvailable = true
	state.Answers.Ecommerce = &domain.EcommerceDetails{Categories: []string{"fashion", "toys"}}

	require.NoError(t, secureStore.Save(ctx, "s1", state))

	// The caller's state is untouched.
	assert.Equal(t, "owner@acme.test", state.Answers.ContactEmail)
	assert.Equal(t, []string{"fashion", "toys"}, state.Answers.Ecommerce.Categories)

	stored, err := underlyingStore.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Store", stored.Answers.Name)
	assert.Equal(t, middleware.Mask, stored.Answers.ContactEmail)
	assert.Equal(t, middleware.Mask, stored.Answers.ContactPhone)
	assert.Empty(t, stored.Answers.ContactName, "empty values stay empty")
	assert.True(t, stored.Answers.LogoAvailable)
	require.NotNil(t, stored.Answers.Ecommerce)
	assert.Equal(t, []string{middleware.Mask}, stored.Answers.Ecommerce.Categories)
	assert.NotContains(t, underlyingStore.raw("s1"), "+20 100 000 0000")
}

func TestChain_Order(t *testing.T) {
	underlyingStore := newDocumentStore()
	store := middleware.Chain(underlyingStore,
		middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", newState("s1")))

	stored, err := underlyingStore.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Sealed)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded.Answers.ContactEmail)
}
