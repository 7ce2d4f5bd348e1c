package middleware_test

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// documentStore keeps each wizard as the JSON document a file or redis store
// would write, so tests can check what reaches the disk.
type documentStore struct {
	docs map[string][]byte
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string][]byte)}
}

// raw returns the persisted document of a session.
func (s *documentStore) raw(sessionID string) string {
	return string(s.docs[sessionID])
}

func (s *documentStore) Save(_ context.Context, sessionID string, state *domain.State) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.docs[sessionID] = doc
	return nil
}

func (s *documentStore) Load(_ context.Context, sessionID string) (*domain.State, error) {
	doc, ok := s.docs[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var state domain.State
	if err := json.Unmarshal(doc, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *documentStore) Delete(_ context.Context, sessionID string) error {
	delete(s.docs, sessionID)
	return nil
}

func (s *documentStore) List(context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

var _ ports.StateStore = (*documentStore)(nil)
