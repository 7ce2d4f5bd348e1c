package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/domain"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var (
		entered, left []int
		fields        []string
		submits       []uint64
		results       []*domain.SubmitEvent
		cancels       int
	)

	hooks := domain.LifecycleHooks{
		OnStepEnter:   func(_ context.Context, e *domain.StepEvent) { entered = append(entered, e.Step) },
		OnStepLeave:   func(_ context.Context, e *domain.StepEvent) { left = append(left, e.Step) },
		OnFieldChange: func(_ context.Context, e *domain.FieldEvent) { fields = append(fields, e.Path) },
		OnSubmit:      func(_ context.Context, e *domain.SubmitEvent) { submits = append(submits, e.Generation) },
		OnSubmitResult: func(_ context.Context, e *domain.SubmitEvent) {
			results = append(results, e)
		},
		OnCancel: func(_ context.Context, e *domain.EventBase) {
			cancels++
			assert.Equal(t, domain.EventCancel, e.Type)
		},
	}

	e := runtime.NewEngine(runtime.WithLifecycleHooks(hooks), runtime.WithClock(fixedClock()))
	ctx := context.Background()

	s := start(t, e, "classic")
	s = mustSet(t, e, s, "name", "Acme")
	s = mustToggle(t, e, s, "sections", "home")
	s = mustSet(t, e, s, "description", "Shop")
	s, err := e.Next(ctx, s)
	require.NoError(t, err)
	s, err = e.Previous(ctx, s)
	require.NoError(t, err)

	// No-op moves emit nothing.
	_, err = e.Previous(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 1}, entered)
	assert.Equal(t, []int{1, 2}, left)
	assert.Equal(t, []string{"name", "sections", "description"}, fields)

	s = advanceToEnd(t, e, s)
	submitting, _, ticket, err := e.BeginSubmit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, submits)

	_, err = e.CompleteSubmit(ctx, submitting, ticket, nil, errors.New("boom"))
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.False(t, results[0].Stale)
	assert.Positive(t, results[0].Duration)

	e.DropSubmit(ctx, ticket)
	require.Len(t, results, 2)
	assert.True(t, results[1].Stale)

	e.Cancel(ctx, s)
	assert.Equal(t, 1, cancels)
}

func TestEngine_HooksMergeAcrossOptions(t *testing.T) {
	var calls []string
	first := domain.LifecycleHooks{OnStepEnter: func(context.Context, *domain.StepEvent) { calls = append(calls, "first") }}
	second := domain.LifecycleHooks{OnStepEnter: func(context.Context, *domain.StepEvent) { calls = append(calls, "second") }}

	e := runtime.NewEngine(runtime.WithLifecycleHooks(first), runtime.WithLifecycleHooks(second))
	_ = start(t, e, "classic")

	assert.Equal(t, []string{"first", "second"}, calls)
}
