package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter    EventType = "step_enter"
	EventStepLeave    EventType = "step_leave"
	EventFieldChange  EventType = "field_change"
	EventSubmit       EventType = "submit"
	EventSubmitResult EventType = "submit_result"
	EventCancel       EventType = "cancel"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Layout    string    `json:"layout"`
}

// StepEvent represents entry or exit from a step.
type StepEvent struct {
	EventBase
	Step int `json:"step"`
}

// FieldEvent represents a field mutation.
type FieldEvent struct {
	EventBase
	Path   string `json:"path"`
	Toggle bool   `json:"toggle,omitempty"`
}

// SubmitEvent represents a submit attempt or its outcome.
type SubmitEvent struct {
	EventBase
	Generation uint64        `json:"generation"`
	ProjectID  string        `json:"project_id,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	IsError    bool          `json:"is_error,omitempty"`
	Stale      bool          `json:"stale,omitempty"`
}

// LifecycleHooks defines callbacks for wizard observability.
type LifecycleHooks struct {
	OnStepEnter    func(context.Context, *StepEvent)
	OnStepLeave    func(context.Context, *StepEvent)
	OnFieldChange  func(context.Context, *FieldEvent)
	OnSubmit       func(context.Context, *SubmitEvent)
	OnSubmitResult func(context.Context, *SubmitEvent)
	OnCancel       func(context.Context, *EventBase)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepEnter:    chain(h.OnStepEnter, other.OnStepEnter),
		OnStepLeave:    chain(h.OnStepLeave, other.OnStepLeave),
		OnFieldChange:  chain(h.OnFieldChange, other.OnFieldChange),
		OnSubmit:       chain(h.OnSubmit, other.OnSubmit),
		OnSubmitResult: chain(h.OnSubmitResult, other.OnSubmitResult),
		OnCancel:       chain(h.OnCancel, other.OnCancel),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
