package runtime

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/intake/pkg/domain"
)

// Ticket identifies one submit attempt. A store response is applied only when
// its ticket still matches the session.
type Ticket struct {
	SessionID  string    `json:"session_id"`
	Generation uint64    `json:"generation"`
	CreatedAt  time.Time `json:"created_at"`
	IssuedAt   time.Time `json:"issued_at"`
}

// Missing returns the required paths that are still empty.
func (e *Engine) Missing(state *domain.State) []string {
	l, err := e.Layout(state)
	if err != nil {
		return nil
	}
	return l.Missing(&state.Answers)
}

// CanSubmit reports whether Submit would be accepted now.
func (e *Engine) CanSubmit(state *domain.State) bool {
	return e.checkSubmit(state) == nil
}

func (e *Engine) checkSubmit(state *domain.State) error {
	switch {
	case state.Closed():
		return domain.ErrWizardClosed
	case e.InFlight(state):
		return domain.ErrSubmissionInFlight
	case !state.IsFinalStep():
		return domain.ErrNotFinalStep
	}
	if missing := e.Missing(state); len(missing) > 0 {
		return &domain.MissingFieldsError{Paths: missing}
	}
	return nil
}

// BuildSubmission assembles the payload for the project store. It has no side effects.
func (e *Engine) BuildSubmission(state *domain.State) (domain.Submission, error) {
	l, err := e.Layout(state)
	if err != nil {
		return domain.Submission{}, err
	}
	a := state.Answers.Clone()

	sub := domain.Submission{
		ClientID:    state.UserID,
		Name:        strings.TrimSpace(a.Name),
		Description: firstNonEmpty(a.ShortDescription, a.Description),
		Goal:        l.Goal(&a),
		Status:      domain.ProjectStatusNew,
		Progress:    0,
		ProjectData: a,
	}
	if e.pricing != nil {
		sub.EstimatedPrice = e.pricing.Estimate(sub.Goal, &a).Total
	}
	return sub, nil
}

// BeginSubmit moves the wizard to Submitting and returns the payload to hand
// to the project store. On a validation gap the state is not changed.
func (e *Engine) BeginSubmit(ctx context.Context, state *domain.State) (*domain.State, domain.Submission, Ticket, error) {
	if err := e.checkSubmit(state); err != nil {
		return nil, domain.Submission{}, Ticket{}, err
	}
	sub, err := e.BuildSubmission(state)
	if err != nil {
		return nil, domain.Submission{}, Ticket{}, err
	}

	next := e.next(state)
	next.Submission = domain.SubmissionSubmitting
	next.Generation++
	next.LastError = ""

	ticket := Ticket{
		SessionID:  next.SessionID,
		Generation: next.Generation,
		CreatedAt:  next.CreatedAt,
		IssuedAt:   next.UpdatedAt,
	}

	if e.hooks.OnSubmit != nil {
		e.hooks.OnSubmit(ctx, &domain.SubmitEvent{
			EventBase:  e.base(domain.EventSubmit, next),
			Generation: next.Generation,
		})
	}
	return next, sub, ticket, nil
}

// CompleteSubmit applies the project store response for ticket.
// A response for a superseded attempt or a restarted session returns
// domain.ErrStaleSubmission and leaves the state alone.
func (e *Engine) CompleteSubmit(ctx context.Context, state *domain.State, ticket Ticket, project *domain.Project, cause error) (*domain.State, error) {
	if !e.current(state, ticket) {
		e.logger.Warn("dropping stale submission result",
			"session_id", ticket.SessionID,
			"generation", ticket.Generation,
			"current_generation", state.Generation,
		)
		e.emitResult(ctx, state, ticket, "", true, true)
		return state, domain.ErrStaleSubmission
	}

	next := e.next(state)
	if cause != nil || project == nil {
		if cause == nil {
			cause = errNoProject
		}
		next.Submission = domain.SubmissionFailed
		next.LastError = cause.Error()
		next.CurrentStep = next.TotalSteps
		e.emitResult(ctx, next, ticket, "", true, false)
		return next, &domain.SubmissionError{SessionID: next.SessionID, Err: cause}
	}

	next.Submission = domain.SubmissionSucceeded
	next.ProjectID = project.ID
	e.emitResult(ctx, next, ticket, project.ID, false, false)
	return next, nil
}

// DropSubmit reports a response whose session no longer exists.
func (e *Engine) DropSubmit(ctx context.Context, ticket Ticket) {
	e.logger.Warn("dropping submission result for cancelled session",
		"session_id", ticket.SessionID,
		"generation", ticket.Generation,
	)
	if e.hooks.OnSubmitResult != nil {
		e.hooks.OnSubmitResult(ctx, &domain.SubmitEvent{
			EventBase:  domain.EventBase{Timestamp: e.now(), Type: domain.EventSubmitResult, SessionID: ticket.SessionID},
			Generation: ticket.Generation,
			Duration:   e.now().Sub(ticket.IssuedAt),
			IsError:    true,
			Stale:      true,
		})
	}
}

func (e *Engine) current(state *domain.State, ticket Ticket) bool {
	return state.SessionID == ticket.SessionID &&
		state.Submission == domain.SubmissionSubmitting &&
		state.Generation == ticket.Generation &&
		state.CreatedAt.Equal(ticket.CreatedAt)
}

func (e *Engine) emitResult(ctx context.Context, state *domain.State, ticket Ticket, projectID string, isError, stale bool) {
	if e.hooks.OnSubmitResult == nil {
		return
	}
	e.hooks.OnSubmitResult(ctx, &domain.SubmitEvent{
		EventBase:  e.base(domain.EventSubmitResult, state),
		Generation: ticket.Generation,
		ProjectID:  projectID,
		Duration:   e.now().Sub(ticket.IssuedAt),
		IsError:    isError,
		Stale:      stale,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
