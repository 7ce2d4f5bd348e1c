package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/steps"
)

// SetField replaces the value at path. The input state is left untouched.
func (e *Engine) SetField(ctx context.Context, state *domain.State, path string, value any) (*domain.State, error) {
	f, err := e.resolve(state, path)
	if err != nil || f == nil {
		return e.unresolved(state, path, err)
	}

	next := e.next(state)
	if err := f.Set(&next.Answers, value); err != nil {
		return nil, err
	}
	if path == "projectType" && e.policy == domain.DetailsReset {
		next.Answers.Keep(next.Answers.ProjectType)
	}

	e.emitField(ctx, next, path, false)
	return next, nil
}

// ToggleArrayMember removes item from the set at path if present, appends it otherwise.
func (e *Engine) ToggleArrayMember(ctx context.Context, state *domain.State, path, item string) (*domain.State, error) {
	f, err := e.resolve(state, path)
	if err != nil || f == nil {
		return e.unresolved(state, path, err)
	}

	next := e.next(state)
	if err := f.Toggle(&next.Answers, item); err != nil {
		return nil, err
	}

	e.emitField(ctx, next, path, true)
	return next, nil
}

// SetFields applies several values in path order. Nothing is applied unless every value is accepted.
func (e *Engine) SetFields(ctx context.Context, state *domain.State, values map[string]any) (*domain.State, error) {
	if err := e.editable(state); err != nil {
		return nil, err
	}
	l, err := e.Layout(state)
	if err != nil {
		return nil, err
	}
	// projectType first, so its details fields pass the variant check.
	ordered := make([]string, 0, len(values))
	if _, ok := values["projectType"]; ok {
		ordered = append(ordered, "projectType")
	}
	for _, p := range l.Paths() {
		if _, ok := values[p]; ok && p != "projectType" {
			ordered = append(ordered, p)
		}
	}
	for p := range values {
		if _, err := l.Field(p); err != nil {
			if _, err := e.unresolved(state, p, err); err != nil {
				return nil, err
			}
		}
	}

	current := state
	for _, p := range ordered {
		next, err := e.SetField(ctx, current, p, values[p])
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// resolve finds the field for path and checks it may be written.
func (e *Engine) resolve(state *domain.State, path string) (*steps.Field, error) {
	if err := e.editable(state); err != nil {
		return nil, err
	}
	l, err := e.Layout(state)
	if err != nil {
		return nil, err
	}
	f, err := l.Field(path)
	if err != nil {
		return nil, err
	}
	if f.Variant != "" && f.Variant != state.Answers.ProjectType {
		return nil, fmt.Errorf("%w: %s belongs to %s, project type is %q",
			domain.ErrInactiveVariant, path, f.Variant, state.Answers.ProjectType)
	}
	return f, nil
}

func (e *Engine) unresolved(state *domain.State, path string, err error) (*domain.State, error) {
	if e.lenient && errors.Is(err, domain.ErrInvalidFieldPath) {
		e.logger.Warn("ignoring unknown field path", "session_id", state.SessionID, "path", path)
		return state, nil
	}
	return nil, err
}

func (e *Engine) emitField(ctx context.Context, state *domain.State, path string, toggle bool) {
	if e.hooks.OnFieldChange == nil {
		return
	}
	e.hooks.OnFieldChange(ctx, &domain.FieldEvent{
		EventBase: e.base(domain.EventFieldChange, state),
		Path:      path,
		Toggle:    toggle,
	})
}
