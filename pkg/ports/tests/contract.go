package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// ProjectStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.ProjectStore.
func ProjectStoreContractTest(t *testing.T, store ports.ProjectStore) {
	t.Helper()
	ctx := context.Background()

	sub := domain.Submission{
		ClientID:    "client-contract",
		Name:        "Acme Store",
		Description: "A shop",
		Goal:        "ecommerce",
		Status:      domain.ProjectStatusNew,
		Progress:    0,
		ProjectData: domain.Answers{
			Name:        "Acme Store",
			ProjectType: domain.ProjectEcommerce,
			Features:    []string{"payments"},
			ProjectDetails: domain.ProjectDetails{
				Ecommerce: &domain.EcommerceDetails{Categories: []string{"fashion"}},
			},
		},
	}

	t.Run("CreateProject", func(t *testing.T) {
		p, err := store.CreateProject(ctx, sub)
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, sub.ClientID, p.ClientID)
		assert.Equal(t, sub.Name, p.Name)
		assert.Equal(t, sub.Goal, p.Goal)
		assert.Equal(t, domain.ProjectStatusNew, p.Status)
		assert.Zero(t, p.Progress)
		assert.False(t, p.CreatedAt.IsZero())
		assert.False(t, p.UpdatedAt.IsZero())
		require.NotNil(t, p.ProjectData.Ecommerce)
		assert.Equal(t, []string{"fashion"}, p.ProjectData.Ecommerce.Categories)
	})

	t.Run("Distinct IDs", func(t *testing.T) {
		a, err := store.CreateProject(ctx, sub)
		require.NoError(t, err)
		b, err := store.CreateProject(ctx, sub)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("ListProjects", func(t *testing.T) {
		other := sub
		other.ClientID = "client-other"
		_, err := store.CreateProject(ctx, other)
		require.NoError(t, err)

		list, err := store.ListProjects(ctx, sub.ClientID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(list), 3)
		for _, p := range list {
			assert.Equal(t, sub.ClientID, p.ClientID)
		}

		empty, err := store.ListProjects(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
