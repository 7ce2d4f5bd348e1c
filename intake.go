package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/pricing"
	"github.com/aretw0/intake/pkg/session"
	"github.com/aretw0/intake/pkg/steps"
)

// Observer is told about every persisted change of a wizard.
// next is nil when the wizard was cancelled.
type Observer func(ctx context.Context, prev, next *domain.State)

// Service is the high-level entry point of the intake wizard.
// It owns the session store and calls the collaborators (project store,
// notifier, translator, host) at the right moments.
type Service struct {
	engine     *runtime.Engine
	sessions   *session.Manager
	projects   ports.ProjectStore
	notifier   ports.Notifier
	translator ports.Translator
	host       ports.Host
	pricing    *pricing.Table
	observers  []Observer
	logger     *slog.Logger

	store      ports.StateStore
	locker     ports.DistributedLocker
	hooks      domain.LifecycleHooks
	engineOpts []runtime.Option
	newID      func() string
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithStore sets where wizard sessions are kept (default: in memory).
func WithStore(store ports.StateStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLocker enables distributed per-session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

// WithProjectStore sets the store receiving submissions (default: in memory).
func WithProjectStore(store ports.ProjectStore) Option {
	return func(s *Service) {
		s.projects = store
	}
}

// WithNotifier sets the user feedback channel.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithTranslator sets the localization source for titles, labels and notifications.
func WithTranslator(t ports.Translator) Option {
	return func(s *Service) {
		s.translator = t
	}
}

// WithHost registers the callbacks fired when a wizard creates a project or is cancelled.
func WithHost(h ports.Host) Option {
	return func(s *Service) {
		s.host = h
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithPricing attaches price estimates computed from table.
func WithPricing(table *pricing.Table) Option {
	return func(s *Service) {
		s.pricing = table
	}
}

// WithDetailsPolicy selects what happens to project details of a type that is
// no longer selected.
func WithDetailsPolicy(p domain.DetailsPolicy) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, runtime.WithDetailsPolicy(p))
	}
}

// WithLenientPaths logs and ignores writes to undeclared field paths.
func WithLenientPaths() Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, runtime.WithLenientPaths())
	}
}

// WithSubmitTimeout sets how long a submission may stay in flight before the
// wizard accepts a new submit.
func WithSubmitTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, runtime.WithSubmitTimeout(d))
	}
}

// WithObserver registers a listener for persisted state changes.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observers = append(s.observers, o)
	}
}

// WithIDGenerator overrides how session IDs are generated.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// New initializes a Service. Without options everything runs in memory.
func New(opts ...Option) *Service {
	s := &Service{
		notifier:   ports.NopNotifier{},
		translator: ports.KeyTranslator{},
		host:       ports.HostFuncs{},
		logger:     logging.NewNop(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = memory.NewStore()
	}
	if s.projects == nil {
		s.projects = memory.NewProjectStore()
	}

	sessionOpts := []session.Option{session.WithLogger(s.logger)}
	if s.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(s.locker))
	}
	s.sessions = session.NewManager(s.store, sessionOpts...)

	engineOpts := []runtime.Option{
		runtime.WithLogger(s.logger),
		runtime.WithTranslator(s.translator),
		runtime.WithLifecycleHooks(s.hooks),
	}
	if s.pricing != nil {
		engineOpts = append(engineOpts, runtime.WithPricing(s.pricing))
	}
	s.engine = runtime.NewEngine(append(engineOpts, s.engineOpts...)...)
	return s
}

// Sessions exposes the session manager, e.g. for listing sessions.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Layout returns the step schema registered under name.
func (s *Service) Layout(name string) (*steps.Layout, error) {
	if name == "" {
		name = steps.DefaultLayout
	}
	return steps.Lookup(name)
}

// Start creates a wizard for userID. An empty sessionID gets a generated one,
// an empty layout the default. Starting an existing session resumes it.
func (s *Service) Start(ctx context.Context, sessionID, userID, layout, locale string) (*domain.State, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	l, err := s.Layout(layout)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = s.newID()
	}
	if m, ok := s.translator.(interface{ Match(string) string }); ok {
		locale = m.Match(locale)
	}

	var startErr error
	state, created, err := s.sessions.LoadOrStart(ctx, sessionID, func() *domain.State {
		var st *domain.State
		st, startErr = s.engine.Start(ctx, sessionID, userID, l.Name, locale)
		return st
	})
	if startErr != nil {
		return nil, startErr
	}
	if err != nil {
		return nil, err
	}
	if !created && state.UserID != userID {
		return nil, fmt.Errorf("session %q belongs to another user: %w", sessionID, domain.ErrSessionNotFound)
	}
	if created {
		s.notify(ctx, nil, state)
		s.logger.Info("wizard started", "session_id", sessionID, "layout", l.Name)
	}
	return state, nil
}

// Load returns the current state of a wizard.
func (s *Service) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return s.sessions.Load(ctx, sessionID)
}

// View renders the current step of a wizard.
func (s *Service) View(ctx context.Context, sessionID string) (*domain.View, error) {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.engine.View(state)
}

// Render builds the view of an already loaded state.
func (s *Service) Render(state *domain.State) (*domain.View, error) {
	return s.engine.View(state)
}

// Next advances one step. It is a no-op on the last step.
func (s *Service) Next(ctx context.Context, sessionID string) (*domain.State, error) {
	return s.update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		return s.engine.Next(ctx, st)
	})
}

// Previous goes back one step. It is a no-op on the first step.
func (s *Service) Previous(ctx context.Context, sessionID string) (*domain.State, error) {
	return s.update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		return s.engine.Previous(ctx, st)
	})
}

// JumpTo moves to an adjacent or already visited step.
func (s *Service) JumpTo(ctx context.Context, sessionID string, step int) (*domain.State, error) {
	return s.update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		return s.engine.JumpTo(ctx, st, step)
	})
}

// SetField replaces the value at path.
func (s *Service) SetField(ctx context.Context, sessionID, path string, value any) (*domain.State, error) {
	return s.update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		return s.engine.SetField(ctx, st, path, value)
	})
}

// SetFields applies several writes atomically.
func (s *Service) SetFields(ctx context.Context, sessionID string, values map[string]any) (*domain.State, error) {
	return s.update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		return s.engine.SetFields(ctx, st, values)
	})
}

// Toggle adds item to the set at path, or removes it when present.
func (s *Service) Toggle(ctx context.Context, sessionID, path, item string) (*domain.State, error) {
	return s.update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		return s.engine.ToggleArrayMember(ctx, st, path, item)
	})
}

// Estimate prices the current answers. Without a pricing table the defaults apply.
func (s *Service) Estimate(ctx context.Context, sessionID string) (pricing.Estimate, error) {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return pricing.Estimate{}, err
	}
	l, err := s.engine.Layout(state)
	if err != nil {
		return pricing.Estimate{}, err
	}
	table := s.pricing
	if table == nil {
		table = pricing.Default()
	}
	return table.Estimate(l.Goal(&state.Answers), &state.Answers), nil
}

// Submit hands the answers to the project store. Only one attempt per
// wizard runs at a time; a second call while one is outstanding fails with
// domain.ErrSubmissionInFlight. The session lock is not held while the
// project store works; edits and navigation fail with
// domain.ErrSubmissionInFlight until the outcome is recorded.
func (s *Service) Submit(ctx context.Context, sessionID string) (*domain.State, error) {
	var (
		sub    domain.Submission
		ticket runtime.Ticket
	)
	_, err := s.update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		next, payload, t, err := s.engine.BeginSubmit(ctx, st)
		sub, ticket = payload, t
		return next, err
	})
	if err != nil {
		return nil, err
	}

	project, cause := s.projects.CreateProject(ctx, sub)
	if cause != nil {
		s.logger.Error("project store rejected submission", "session_id", sessionID, "err", cause)
	}

	// The outcome is recorded even if the caller went away meanwhile.
	done := context.WithoutCancel(ctx)

	var failure error
	complete := func(st *domain.State) (*domain.State, error) {
		failure = nil
		next, err := s.engine.CompleteSubmit(done, st, ticket, project, cause)
		var subErr *domain.SubmissionError
		if errors.As(err, &subErr) {
			failure = err
			return next, nil
		}
		return next, err
	}
	final, err := s.update(done, sessionID, complete)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrStaleSubmission) {
		// One more try, so the wizard does not stay in submitting. If this
		// fails too, the submit timeout releases it.
		s.logger.Warn("recording submission outcome failed, retrying", "session_id", sessionID, "err", err)
		final, err = s.update(done, sessionID, complete)
	}
	if errors.Is(err, domain.ErrSessionNotFound) {
		s.engine.DropSubmit(done, ticket)
		if project != nil {
			s.logger.Warn("project created for a cancelled wizard", "session_id", sessionID, "project_id", project.ID)
		}
		return nil, fmt.Errorf("%w: session %q was cancelled", domain.ErrStaleSubmission, sessionID)
	}
	if err != nil {
		return nil, err
	}

	if failure != nil {
		s.notifier.Notify(done, ports.NotifyError, s.message(final, "notify.submit_failed"))
		return final, failure
	}

	s.notifier.Notify(done, ports.NotifySuccess, s.message(final, "notify.project_created"))
	s.host.OnCreated(done, sessionID, project)
	return final, nil
}

// Cancel discards a wizard. A submission still in flight is not aborted;
// its result is dropped when it arrives.
func (s *Service) Cancel(ctx context.Context, sessionID string) error {
	var prev *domain.State
	err := s.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		st, err := s.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if st.Closed() {
			return domain.ErrWizardClosed
		}
		if err := s.sessions.Store().Delete(ctx, sessionID); err != nil {
			return err
		}
		prev = st
		return nil
	})
	if err != nil {
		return err
	}

	s.engine.Cancel(ctx, prev)
	s.notify(ctx, prev, nil)
	s.host.OnCancel(ctx, sessionID)
	s.logger.Info("wizard cancelled", "session_id", sessionID, "submission", prev.Submission)
	return nil
}

// ListProjects returns the projects created by a client.
func (s *Service) ListProjects(ctx context.Context, clientID string) ([]*domain.Project, error) {
	return s.projects.ListProjects(ctx, clientID)
}

// Translate looks a key up for locale.
func (s *Service) Translate(locale, key string) string {
	return s.translator.Translate(locale, key)
}

func (s *Service) update(ctx context.Context, sessionID string, fn func(*domain.State) (*domain.State, error)) (*domain.State, error) {
	var prev *domain.State
	next, err := s.sessions.Update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		prev = st
		return fn(st)
	})
	if err != nil {
		return nil, err
	}
	if next != prev {
		s.notify(ctx, prev, next)
	}
	return next, nil
}

func (s *Service) notify(ctx context.Context, prev, next *domain.State) {
	for _, o := range s.observers {
		o(ctx, prev, next)
	}
}

func (s *Service) message(state *domain.State, key string) string {
	msg := s.translator.Translate(state.Locale, key)
	if key == "notify.submit_failed" && state.LastError != "" {
		msg += ": " + state.LastError
	}
	return msg
}
