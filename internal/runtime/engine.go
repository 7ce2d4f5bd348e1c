package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/pricing"
	"github.com/aretw0/intake/pkg/steps"
)

// Engine is the wizard state machine.
// It is stateless: every transition takes a state and returns the next one
// without mutating its input. A transition that changes nothing returns the
// input pointer unchanged.
type Engine struct {
	policy     domain.DetailsPolicy
	lenient    bool
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	translator ports.Translator
	pricing    *pricing.Table
	now        func() time.Time

	submitTimeout time.Duration
}

// DefaultSubmitTimeout bounds how long a submission may stay in flight.
// Past it, a wizard left in submitting (a crashed process, a lost completion
// save) counts as failed and accepts a new submit.
const DefaultSubmitTimeout = 2 * time.Minute

// Option configures the Engine.
type Option func(*Engine)

// WithDetailsPolicy selects what happens to inactive project-details variants.
func WithDetailsPolicy(p domain.DetailsPolicy) Option {
	return func(e *Engine) {
		if p.Valid() {
			e.policy = p
		}
	}
}

// WithLenientPaths turns unknown field paths into logged no-ops instead of errors.
func WithLenientPaths() Option {
	return func(e *Engine) {
		e.lenient = true
	}
}

// WithLifecycleHooks registers observers for wizard events.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(h)
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTranslator sets the translator used for step titles and labels.
func WithTranslator(t ports.Translator) Option {
	return func(e *Engine) {
		e.translator = t
	}
}

// WithPricing attaches estimates from the given table to submissions.
func WithPricing(t *pricing.Table) Option {
	return func(e *Engine) {
		e.pricing = t
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithSubmitTimeout overrides DefaultSubmitTimeout. Non-positive values are ignored.
func WithSubmitTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.submitTimeout = d
		}
	}
}

// NewEngine creates an engine with the retain policy and strict paths.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		policy:     domain.DetailsRetain,
		logger:     logging.NewNop(),
		translator: ports.KeyTranslator{},
		now:        time.Now,

		submitTimeout: DefaultSubmitTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured details policy.
func (e *Engine) Policy() domain.DetailsPolicy {
	return e.policy
}

// Start creates a fresh wizard on step 1 of the named layout.
func (e *Engine) Start(ctx context.Context, sessionID, userID, layout, locale string) (*domain.State, error) {
	l, err := steps.Lookup(layout)
	if err != nil {
		return nil, err
	}
	state := domain.NewState(sessionID, userID, l.Name, l.TotalSteps())
	state.Locale = locale
	state.CreatedAt = e.now()
	state.UpdatedAt = state.CreatedAt

	e.emitStep(ctx, e.hooks.OnStepEnter, domain.EventStepEnter, state, 1)
	return state, nil
}

// Layout resolves the layout of a state.
func (e *Engine) Layout(state *domain.State) (*steps.Layout, error) {
	return steps.Lookup(state.Layout)
}

// Cancel reports the cancellation of a wizard. The caller discards the state.
func (e *Engine) Cancel(ctx context.Context, state *domain.State) {
	if e.hooks.OnCancel != nil {
		ev := e.base(domain.EventCancel, state)
		e.hooks.OnCancel(ctx, &ev)
	}
}

// next copies the state for a mutation and stamps it. An abandoned submission
// is recorded as failed on the copy.
func (e *Engine) next(state *domain.State) *domain.State {
	n := state.Snapshot()
	if e.abandoned(state) {
		n.Submission = domain.SubmissionFailed
		n.LastError = errSubmitTimedOut.Error()
	}
	n.UpdatedAt = e.now()
	return n
}

// InFlight reports whether a submission is outstanding and not yet abandoned.
func (e *Engine) InFlight(state *domain.State) bool {
	return state.Submission == domain.SubmissionSubmitting && !e.abandoned(state)
}

func (e *Engine) abandoned(state *domain.State) bool {
	return state.Submission == domain.SubmissionSubmitting &&
		e.now().Sub(state.UpdatedAt) >= e.submitTimeout
}

// editable rejects changes to a submitted wizard or one whose answers are
// with the project store.
func (e *Engine) editable(state *domain.State) error {
	switch {
	case state.Closed():
		return domain.ErrWizardClosed
	case e.InFlight(state):
		return domain.ErrSubmissionInFlight
	}
	return nil
}

func (e *Engine) base(t domain.EventType, state *domain.State) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: state.SessionID,
		Layout:    state.Layout,
	}
}

func (e *Engine) emitStep(ctx context.Context, hook func(context.Context, *domain.StepEvent), t domain.EventType, state *domain.State, step int) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{EventBase: e.base(t, state), Step: step})
}
