package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// ProjectStore persists finished submissions as project records.
type ProjectStore interface {
	// CreateProject stores the payload and returns the record with its
	// generated ID and timestamps. Idempotency is not guaranteed.
	CreateProject(ctx context.Context, sub domain.Submission) (*domain.Project, error)

	// ListProjects returns the projects of a client, newest first.
	ListProjects(ctx context.Context, clientID string) ([]*domain.Project, error)
}
