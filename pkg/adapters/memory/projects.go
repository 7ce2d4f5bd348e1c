package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/intake/pkg/domain"
)

// ProjectStore implements ports.ProjectStore in memory.
type ProjectStore struct {
	mu       sync.RWMutex
	projects []*domain.Project
	now      func() time.Time
}

// NewProjectStore creates an empty project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{now: time.Now}
}

// CreateProject stores the submission under a fresh UUID.
func (s *ProjectStore) CreateProject(ctx context.Context, sub domain.Submission) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &domain.Project{
		ID:          uuid.NewString(),
		ClientID:    sub.ClientID,
		Name:        sub.Name,
		Description: sub.Description,
		Goal:        sub.Goal,
		Status:      sub.Status,
		Progress:    sub.Progress,
		Price:       sub.EstimatedPrice,
		ProjectData: sub.ProjectData.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.projects = append(s.projects, p)
	s.mu.Unlock()

	out := *p
	return &out, nil
}

// ListProjects returns the client's projects, newest first.
func (s *ProjectStore) ListProjects(ctx context.Context, clientID string) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Project
	for _, p := range s.projects {
		if p.ClientID == clientID {
			cp := *p
			cp.ProjectData = p.ProjectData.Clone()
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
