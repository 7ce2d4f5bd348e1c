package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// Mask replaces masked text values.
const Mask = "***"

// DefaultPIIPatterns match the contact details collected on the last step.
var DefaultPIIPatterns = []string{`^contact(Name|Email|Phone)$`}

type piiMiddleware struct {
	next   ports.StateStore
	masker *Masker
}

// NewPIIMiddleware creates a middleware that masks answers whose keys match the patterns.
func NewPIIMiddleware(patternStrings []string) Middleware {
	masker := NewMasker(patternStrings)
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, masker: masker}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	masked, err := m.masker.MaskState(state)
	if err != nil {
		return err
	}
	return m.next.Save(ctx, sessionID, masked)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Masker hides answer values whose JSON key matches one of its patterns.
// Nested records (socialMedia, project details) are walked too.
type Masker struct {
	patterns []*regexp.Regexp
}

// NewMasker compiles the patterns. It panics on an invalid expression.
func NewMasker(patternStrings []string) *Masker {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return &Masker{patterns: patterns}
}

// MaskState returns a copy of state with matching answers masked.
// The input is not modified.
func (m *Masker) MaskState(state *domain.State) (*domain.State, error) {
	raw, err := json.Marshal(state.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}

	m.maskMap(tree)

	raw, err = json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal masked answers: %w", err)
	}
	cloned := state.Snapshot()
	cloned.Answers = domain.Answers{}
	if err := json.Unmarshal(raw, &cloned.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal masked answers: %w", err)
	}
	return cloned, nil
}

func (m *Masker) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// maskMap masks text and text lists in place. Flags keep their value so the
// record still decodes into its typed form.
func (m *Masker) maskMap(tree map[string]any) {
	for k, v := range tree {
		switch val := v.(type) {
		case map[string]any:
			m.maskMap(val)
		case string:
			if val != "" && m.matches(k) {
				tree[k] = Mask
			}
		case []any:
			if len(val) > 0 && m.matches(k) {
				tree[k] = []any{Mask}
			}
		}
	}
}
