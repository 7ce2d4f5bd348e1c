package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/domain"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, "client-1", "detailed", 12)
		state.CurrentStep = 4
		state.History = append(state.History, 2, 3, 4)
		state.Generation = 2
		state.Answers.Name = "Acme Store"
		state.Answers.ProjectType = domain.ProjectEcommerce
		state.Answers.Sections = []string{"home", "faq"}
		state.Answers.SocialMedia.Instagram = "@acme"
		state.Answers.EcommerceOrNew().Categories = []string{"fashion"}

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, 4, loaded.CurrentStep)
		assert.Equal(t, []int{1, 2, 3, 4}, loaded.History)
		assert.Equal(t, uint64(2), loaded.Generation)
		assert.Equal(t, "client-1", loaded.UserID)
		assert.Equal(t, state.Answers.Name, loaded.Answers.Name)
		assert.Equal(t, []string{"home", "faq"}, loaded.Answers.Sections)
		assert.Equal(t, "@acme", loaded.Answers.SocialMedia.Instagram)
		require.NotNil(t, loaded.Answers.Ecommerce)
		assert.Equal(t, []string{"fashion"}, loaded.Answers.Ecommerce.Categories)
	})

	t.Run("Load is isolated from later mutation", func(t *testing.T) {
		state := domain.NewState(sessionID, "client-1", "classic", 9)
		state.Answers.Sections = []string{"home"}
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.Answers.Sections[0] = "mutated"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []string{"home"}, loaded.Answers.Sections)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "client-1", "classic", 9))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "client-1", "classic", 9))
		_ = store.Save(ctx, id2, domain.NewState(id2, "client-2", "classic", 9))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
