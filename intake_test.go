package intake_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// stubProjects lets a test decide how CreateProject answers.
type stubProjects struct {
	calls  atomic.Int32
	create func(ctx context.Context, sub domain.Submission) (*domain.Project, error)
}

func (s *stubProjects) CreateProject(ctx context.Context, sub domain.Submission) (*domain.Project, error) {
	s.calls.Add(1)
	return s.create(ctx, sub)
}

func (s *stubProjects) ListProjects(context.Context, string) ([]*domain.Project, error) {
	return nil, nil
}

func created(id string) func(context.Context, domain.Submission) (*domain.Project, error) {
	return func(_ context.Context, sub domain.Submission) (*domain.Project, error) {
		return &domain.Project{ID: id, ClientID: sub.ClientID, Name: sub.Name, Status: sub.Status}, nil
	}
}

type notification struct {
	kind    ports.NotifyKind
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(_ context.Context, kind ports.NotifyKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{kind, message})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

type recordingHost struct {
	mu        sync.Mutex
	created   []*domain.Project
	cancelled []string
}

func (h *recordingHost) OnCreated(_ context.Context, _ string, p *domain.Project) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created = append(h.created, p)
}

func (h *recordingHost) OnCancel(_ context.Context, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelled = append(h.cancelled, sessionID)
}

func toFinalStep(t *testing.T, svc *intake.Service, id string) {
	t.Helper()
	ctx := context.Background()
	for {
		st, err := svc.Next(ctx, id)
		require.NoError(t, err)
		if st.IsFinalStep() {
			return
		}
	}
}

func startFilled(t *testing.T, svc *intake.Service, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Start(ctx, id, "client-1", "detailed", "")
	require.NoError(t, err)
	_, err = svc.SetField(ctx, id, "name", "Acme Store")
	require.NoError(t, err)
	_, err = svc.SetField(ctx, id, "shortDescription", "A shop")
	require.NoError(t, err)
	toFinalStep(t, svc, id)
}

func TestService_SubmitCreatesProject(t *testing.T) {
	projects := &stubProjects{create: created("p1")}
	notifier := &recordingNotifier{}
	host := &recordingHost{}
	svc := intake.New(
		intake.WithProjectStore(projects),
		intake.WithNotifier(notifier),
		intake.WithHost(host),
	)
	ctx := context.Background()

	startFilled(t, svc, "s1")
	st, err := svc.Submit(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, domain.SubmissionSucceeded, st.Submission)
	assert.Equal(t, "p1", st.ProjectID)
	require.Len(t, host.created, 1)
	assert.Equal(t, "p1", host.created[0].ID)
	assert.Equal(t, []notification{{ports.NotifySuccess, "notify.project_created"}}, notifier.all())

	// The wizard is closed now.
	_, err = svc.Submit(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrWizardClosed)
	_, err = svc.SetField(ctx, "s1", "name", "Other")
	assert.ErrorIs(t, err, domain.ErrWizardClosed)
	assert.ErrorIs(t, svc.Cancel(ctx, "s1"), domain.ErrWizardClosed)
	assert.Len(t, host.created, 1)
	assert.Equal(t, int32(1), projects.calls.Load())
}

func TestService_SubmitPayload(t *testing.T) {
	var got domain.Submission
	projects := &stubProjects{create: func(ctx context.Context, sub domain.Submission) (*domain.Project, error) {
		got = sub
		return &domain.Project{ID: "p1"}, nil
	}}
	svc := intake.New(intake.WithProjectStore(projects))
	ctx := context.Background()

	_, err := svc.Start(ctx, "s1", "client-7", "detailed", "")
	require.NoError(t, err)
	_, err = svc.SetFields(ctx, "s1", map[string]any{
		"name":             "  Acme Store ",
		"shortDescription": "A shop",
		"projectType":      "ecommerce",
	})
	require.NoError(t, err)
	toFinalStep(t, svc, "s1")

	_, err = svc.Submit(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, "client-7", got.ClientID)
	assert.Equal(t, "Acme Store", got.Name)
	assert.Equal(t, "A shop", got.Description)
	assert.Equal(t, "ecommerce", got.Goal)
	assert.Equal(t, domain.ProjectStatusNew, got.Status)
	assert.Zero(t, got.Progress)
	assert.Equal(t, domain.ProjectEcommerce, got.ProjectData.ProjectType)
}

func TestService_SubmitValidationGap(t *testing.T) {
	projects := &stubProjects{create: created("p1")}
	notifier := &recordingNotifier{}
	svc := intake.New(intake.WithProjectStore(projects), intake.WithNotifier(notifier))
	ctx := context.Background()

	_, err := svc.Start(ctx, "s1", "client-1", "detailed", "")
	require.NoError(t, err)
	_, err = svc.SetField(ctx, "s1", "name", "Acme")
	require.NoError(t, err)
	toFinalStep(t, svc, "s1")

	_, err = svc.Submit(ctx, "s1")
	var missing *domain.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"shortDescription"}, missing.Paths)

	st, err := svc.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionIdle, st.Submission)
	assert.Zero(t, st.Generation)
	assert.Zero(t, projects.calls.Load())
	assert.Empty(t, notifier.all())
}

func TestService_SubmitFailureThenRetry(t *testing.T) {
	fail := true
	projects := &stubProjects{create: func(ctx context.Context, sub domain.Submission) (*domain.Project, error) {
		if fail {
			return nil, errors.New("database unavailable")
		}
		return &domain.Project{ID: "p2"}, nil
	}}
	notifier := &recordingNotifier{}
	host := &recordingHost{}
	svc := intake.New(intake.WithProjectStore(projects), intake.WithNotifier(notifier), intake.WithHost(host))
	ctx := context.Background()

	startFilled(t, svc, "s1")
	st, err := svc.Submit(ctx, "s1")

	var subErr *domain.SubmissionError
	require.ErrorAs(t, err, &subErr)
	require.NotNil(t, st)
	assert.Equal(t, domain.SubmissionFailed, st.Submission)
	assert.Equal(t, st.TotalSteps, st.CurrentStep)
	assert.Equal(t, "database unavailable", st.LastError)
	assert.Equal(t, "Acme Store", st.Answers.Name)
	assert.Empty(t, host.created)
	require.Len(t, notifier.all(), 1)
	assert.Equal(t, ports.NotifyError, notifier.all()[0].kind)
	assert.Contains(t, notifier.all()[0].message, "database unavailable")

	fail = false
	st, err = svc.Submit(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionSucceeded, st.Submission)
	assert.Empty(t, st.LastError)
	assert.Equal(t, uint64(2), st.Generation)
	assert.Len(t, host.created, 1)
}

// blockingProjects holds CreateProject until released.
func blockingProjects() (*stubProjects, chan struct{}, chan struct{}) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	return &stubProjects{create: func(ctx context.Context, sub domain.Submission) (*domain.Project, error) {
		started <- struct{}{}
		<-release
		return &domain.Project{ID: "p1", ClientID: sub.ClientID}, nil
	}}, started, release
}

func TestService_SecondSubmitWhileInFlight(t *testing.T) {
	projects, started, release := blockingProjects()
	host := &recordingHost{}
	svc := intake.New(intake.WithProjectStore(projects), intake.WithHost(host))
	ctx := context.Background()
	startFilled(t, svc, "s1")

	type result struct {
		st  *domain.State
		err error
	}
	first := make(chan result, 1)
	go func() {
		st, err := svc.Submit(ctx, "s1")
		first <- result{st, err}
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("CreateProject was not called")
	}

	_, err := svc.Submit(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	// The answers are with the store: edits and navigation wait for the outcome.
	_, err = svc.SetField(ctx, "s1", "name", "Renamed Corp")
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)
	_, err = svc.Previous(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)
	st, err := svc.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionSubmitting, st.Submission)
	assert.True(t, st.IsFinalStep())

	close(release)
	res := <-first
	require.NoError(t, res.err)
	assert.Equal(t, domain.SubmissionSucceeded, res.st.Submission)
	assert.Equal(t, "Acme Store", res.st.Answers.Name)
	assert.Equal(t, int32(1), projects.calls.Load())
	assert.Len(t, host.created, 1)
}

// flakyStore fails the first save that follows a save in submitting, which
// is where the outcome of a submit is recorded.
type flakyStore struct {
	ports.StateStore
	mu       sync.Mutex
	armed    bool
	failures int
	failed   int
}

func (f *flakyStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	f.mu.Lock()
	if f.armed && f.failed < f.failures {
		f.failed++
		f.mu.Unlock()
		return errors.New("store unavailable")
	}
	f.armed = state.Submission == domain.SubmissionSubmitting
	f.mu.Unlock()
	return f.StateStore.Save(ctx, sessionID, state)
}

func TestService_SubmitOutcomeSaveFails(t *testing.T) {
	var calls int
	projects := &stubProjects{create: func(ctx context.Context, sub domain.Submission) (*domain.Project, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("db down")
		}
		return &domain.Project{ID: "p2"}, nil
	}}
	store := &flakyStore{StateStore: memory.NewStore(), failures: 1}
	svc := intake.New(intake.WithStore(store), intake.WithProjectStore(projects))
	ctx := context.Background()
	startFilled(t, svc, "s1")

	st, err := svc.Submit(ctx, "s1")
	var subErr *domain.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, domain.SubmissionFailed, st.Submission)

	persisted, err := svc.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionFailed, persisted.Submission)
	assert.Equal(t, "db down", persisted.LastError)
	assert.Equal(t, "Acme Store", persisted.Answers.Name)

	st, err = svc.Submit(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionSucceeded, st.Submission)
	assert.Equal(t, "p2", st.ProjectID)
	assert.Equal(t, 2, calls)
}

func TestService_SubmitOutcomeLostUntilTimeout(t *testing.T) {
	projects := &stubProjects{create: func(ctx context.Context, sub domain.Submission) (*domain.Project, error) {
		return nil, errors.New("db down")
	}}
	store := &flakyStore{StateStore: memory.NewStore(), failures: 2}
	svc := intake.New(
		intake.WithStore(store),
		intake.WithProjectStore(projects),
		intake.WithSubmitTimeout(50*time.Millisecond),
	)
	ctx := context.Background()
	startFilled(t, svc, "s1")

	_, err := svc.Submit(ctx, "s1")
	require.Error(t, err)
	persisted, err := svc.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionSubmitting, persisted.Submission)

	_, err = svc.Submit(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	time.Sleep(60 * time.Millisecond)

	_, err = svc.Submit(ctx, "s1")
	var subErr *domain.SubmissionError
	require.ErrorAs(t, err, &subErr)
	persisted, err = svc.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionFailed, persisted.Submission)
	assert.Equal(t, "Acme Store", persisted.Answers.Name)
	assert.Equal(t, int32(2), projects.calls.Load())
}

func TestService_CancelWhileInFlight(t *testing.T) {
	projects, started, release := blockingProjects()
	host := &recordingHost{}
	notifier := &recordingNotifier{}
	svc := intake.New(intake.WithProjectStore(projects), intake.WithHost(host), intake.WithNotifier(notifier))
	ctx := context.Background()
	startFilled(t, svc, "s1")

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, "s1")
		errc <- err
	}()
	<-started

	require.NoError(t, svc.Cancel(ctx, "s1"))
	close(release)

	assert.ErrorIs(t, <-errc, domain.ErrStaleSubmission)
	assert.Empty(t, host.created)
	assert.Equal(t, []string{"s1"}, host.cancelled)
	assert.Empty(t, notifier.all())

	_, err := svc.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestService_Cancel(t *testing.T) {
	host := &recordingHost{}
	svc := intake.New(intake.WithHost(host))
	ctx := context.Background()

	_, err := svc.Start(ctx, "s1", "client-1", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, "s1"))
	assert.ErrorIs(t, svc.Cancel(ctx, "s1"), domain.ErrSessionNotFound)
	assert.Equal(t, []string{"s1"}, host.cancelled)
}

func TestService_StartResumesAndChecksOwner(t *testing.T) {
	svc := intake.New(intake.WithIDGenerator(func() string { return "generated" }))
	ctx := context.Background()

	st, err := svc.Start(ctx, "", "client-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "generated", st.SessionID)
	assert.Equal(t, "classic", st.Layout)
	assert.Equal(t, 9, st.TotalSteps)

	_, err = svc.SetField(ctx, "generated", "name", "Acme")
	require.NoError(t, err)

	again, err := svc.Start(ctx, "generated", "client-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.Answers.Name)

	_, err = svc.Start(ctx, "generated", "client-2", "", "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.Start(ctx, "x", "", "", "")
	assert.Error(t, err)
	_, err = svc.Start(ctx, "x", "client-1", "wide", "")
	assert.ErrorIs(t, err, domain.ErrUnknownLayout)
}

func TestService_TogglesAndNavigation(t *testing.T) {
	svc := intake.New()
	ctx := context.Background()

	_, err := svc.Start(ctx, "s1", "client-1", "detailed", "")
	require.NoError(t, err)
	_, err = svc.SetField(ctx, "s1", "projectType", "ecommerce")
	require.NoError(t, err)
	for _, item := range []string{"electronics", "fashion", "electronics"} {
		_, err = svc.Toggle(ctx, "s1", "ecommerceDetails.categories", item)
		require.NoError(t, err)
	}

	st, err := svc.Previous(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentStep)

	st, err = svc.Next(ctx, "s1")
	require.NoError(t, err)
	st, err = svc.JumpTo(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentStep)
	_, err = svc.JumpTo(ctx, "s1", 7)
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	require.NotNil(t, st.Answers.Ecommerce)
	assert.Equal(t, []string{"fashion"}, st.Answers.Ecommerce.Categories)

	_, err = svc.SetField(ctx, "s1", "nope.field", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidFieldPath)
}

func TestService_Observer(t *testing.T) {
	var diffs []*domain.StateDiff
	svc := intake.New(intake.WithObserver(func(_ context.Context, prev, next *domain.State) {
		diffs = append(diffs, domain.Diff(prev, next))
	}))
	ctx := context.Background()

	_, err := svc.Start(ctx, "s1", "client-1", "", "")
	require.NoError(t, err)
	_, err = svc.SetField(ctx, "s1", "name", "Acme")
	require.NoError(t, err)
	// No-op: already on step 1.
	_, err = svc.Previous(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, "s1"))

	require.Len(t, diffs, 3)
	require.NotNil(t, diffs[0])
	assert.Equal(t, 1, *diffs[0].CurrentStep)
	assert.Equal(t, "Acme", diffs[1].Answers["name"])
	assert.Nil(t, diffs[2])
}

func TestService_EstimateAndView(t *testing.T) {
	svc := intake.New()
	ctx := context.Background()

	_, err := svc.Start(ctx, "s1", "client-1", "classic", "")
	require.NoError(t, err)
	_, err = svc.SetFields(ctx, "s1", map[string]any{"goal": "corporate", "pages": "3"})
	require.NoError(t, err)

	est, err := svc.Estimate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 7000.0, est.Total)

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Step)
	assert.False(t, view.CanPrevious)
	assert.True(t, view.CanNext)
	assert.Equal(t, []string{"name", "description"}, view.Missing)

	_, err = svc.View(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
