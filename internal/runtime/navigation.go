package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
)

// Next advances one step. It is a no-op on the last step.
func (e *Engine) Next(ctx context.Context, state *domain.State) (*domain.State, error) {
	if err := e.editable(state); err != nil {
		return nil, err
	}
	if state.CurrentStep >= state.TotalSteps {
		return state, nil
	}
	return e.moveTo(ctx, state, state.CurrentStep+1), nil
}

// Previous goes back one step. It is a no-op on the first step.
func (e *Engine) Previous(ctx context.Context, state *domain.State) (*domain.State, error) {
	if err := e.editable(state); err != nil {
		return nil, err
	}
	if state.CurrentStep <= 1 {
		return state, nil
	}
	return e.moveTo(ctx, state, state.CurrentStep-1), nil
}

// JumpTo moves directly to step, which must be adjacent to the current step
// or already visited.
func (e *Engine) JumpTo(ctx context.Context, state *domain.State, step int) (*domain.State, error) {
	if err := e.editable(state); err != nil {
		return nil, err
	}
	if step < 1 || step > state.TotalSteps {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidStep, step, state.TotalSteps)
	}
	if step == state.CurrentStep {
		return state, nil
	}
	adjacent := step == state.CurrentStep+1 || step == state.CurrentStep-1
	if !adjacent && !state.Visited(step) {
		return nil, fmt.Errorf("%w: step %d has not been visited", domain.ErrInvalidStep, step)
	}
	return e.moveTo(ctx, state, step), nil
}

func (e *Engine) moveTo(ctx context.Context, state *domain.State, step int) *domain.State {
	e.emitStep(ctx, e.hooks.OnStepLeave, domain.EventStepLeave, state, state.CurrentStep)

	next := e.next(state)
	next.CurrentStep = step
	if !next.Visited(step) {
		next.History = append(next.History, step)
	}

	e.emitStep(ctx, e.hooks.OnStepEnter, domain.EventStepEnter, next, step)
	return next
}
