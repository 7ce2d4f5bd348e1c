package runtime

import (
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/steps"
)

// View renders the current step of the wizard.
func (e *Engine) View(state *domain.State) (*domain.View, error) {
	l, err := e.Layout(state)
	if err != nil {
		return nil, err
	}
	s, err := l.Step(state.CurrentStep)
	if err != nil {
		return nil, err
	}

	translate := func(key string) string {
		return e.translator.Translate(state.Locale, key)
	}

	movable := e.editable(state) == nil
	required := make(map[string]bool, len(l.Required))
	for _, p := range l.Required {
		required[p] = true
	}

	v := &domain.View{
		SessionID:   state.SessionID,
		Layout:      l.Name,
		Step:        state.CurrentStep,
		TotalSteps:  state.TotalSteps,
		Key:         s.Key,
		Title:       translate(s.TitleKey()),
		Submission:  state.Submission,
		LastError:   state.LastError,
		ProjectID:   state.ProjectID,
		CanPrevious: movable && state.CurrentStep > 1,
		CanNext:     movable && state.CurrentStep < state.TotalSteps,
		CanSubmit:   e.CanSubmit(state),
		Missing:     l.Missing(&state.Answers),
	}

	for _, f := range l.Visible(state.CurrentStep, state.Answers.ProjectType) {
		v.Fields = append(v.Fields, fieldView(f, &state.Answers, translate, required[f.Path]))
	}

	if state.IsFinalStep() {
		v.Summary = l.Summary(&state.Answers, translate)
	}
	return v, nil
}

func fieldView(f *steps.Field, a *domain.Answers, translate func(string) string, required bool) domain.FieldView {
	return domain.FieldView{
		Path:     f.Path,
		Type:     f.Type.Name(),
		Kind:     string(f.Kind),
		Label:    translate(f.Label()),
		Options:  f.Options,
		Value:    f.Get(a),
		Required: required,
	}
}
