package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/pricing"
	"github.com/aretw0/intake/pkg/steps"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// ErrRateLimited is returned when a session submits too often.
var ErrRateLimited = errors.New("too many submit attempts")

// Wizard is the part of intake.Service the HTTP API drives.
type Wizard interface {
	Layout(name string) (*steps.Layout, error)
	Start(ctx context.Context, sessionID, userID, layout, locale string) (*domain.State, error)
	Load(ctx context.Context, sessionID string) (*domain.State, error)
	Render(state *domain.State) (*domain.View, error)
	Next(ctx context.Context, sessionID string) (*domain.State, error)
	Previous(ctx context.Context, sessionID string) (*domain.State, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*domain.State, error)
	SetField(ctx context.Context, sessionID, path string, value any) (*domain.State, error)
	Toggle(ctx context.Context, sessionID, path, item string) (*domain.State, error)
	Estimate(ctx context.Context, sessionID string) (pricing.Estimate, error)
	Submit(ctx context.Context, sessionID string) (*domain.State, error)
	Cancel(ctx context.Context, sessionID string) error
	ListProjects(ctx context.Context, clientID string) ([]*domain.Project, error)
}

// Server serves the wizard API.
type Server struct {
	wizard   Wizard
	streams  *StreamManager
	limiter  *sessionLimiter
	registry *prometheus.Registry
	logger   *slog.Logger
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithStreams shares a stream manager that is also registered as a service observer.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.streams = sm
	}
}

// WithSubmitLimit allows one submit per session every interval, with burst.
// A zero interval disables the limit.
func WithSubmitLimit(every time.Duration, burst int) Option {
	return func(s *Server) {
		s.limiter = newSessionLimiter(every, burst)
	}
}

// WithMetrics counts requests into reg and exposes it on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion is reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates the API server.
func NewServer(w Wizard, opts ...Option) *Server {
	s := &Server{
		wizard: w,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.streams == nil {
		s.streams = NewStreamManager(s.logger)
	}
	return s
}

// NewHandler creates a new HTTP handler for the wizard.
func NewHandler(w Wizard, opts ...Option) http.Handler {
	return NewServer(w, opts...).Handler()
}

// Streams returns the server's stream manager.
func (s *Server) Streams() *StreamManager {
	return s.streams
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/layouts/{layout}", s.GetLayout)
	r.Get("/clients/{client}/projects", s.ListProjects)

	r.Route("/wizards", func(r chi.Router) {
		r.Post("/", s.StartWizard)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetWizard)
			r.Delete("/", s.CancelWizard)
			r.Post("/next", s.Next)
			r.Post("/previous", s.Previous)
			r.Post("/jump", s.JumpTo)
			r.Put("/fields", s.SetField)
			r.Post("/toggle", s.Toggle)
			r.Get("/estimate", s.GetEstimate)
			r.Post("/submit", s.Submit)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	var handler http.Handler = r
	if s.registry != nil {
		requests := prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_http_requests_total",
				Help: "HTTP requests by status code and method",
			},
			[]string{"code", "method"},
		)
		s.registry.MustRegister(requests)
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
		handler = promhttp.InstrumentHandlerCounter(requests, r)
	}
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WizardResponse carries the state and the rendered current step.
type WizardResponse struct {
	State *domain.State `json:"state"`
	View  *domain.View  `json:"view"`
}

// StartRequest is the body of POST /wizards.
type StartRequest struct {
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id"`
	Layout    string `json:"layout,omitempty"`
	Locale    string `json:"locale,omitempty"`
}

// FieldRequest is the body of PUT /wizards/{id}/fields.
type FieldRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// ToggleRequest is the body of POST /wizards/{id}/toggle.
type ToggleRequest struct {
	Path string `json:"path"`
	Item string `json:"item"`
}

// JumpRequest is the body of POST /wizards/{id}/jump.
type JumpRequest struct {
	Step int `json:"step"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if s.version != "" {
		resp["version"] = s.version
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetLayout returns the step schema.
func (s *Server) GetLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.wizard.Layout(chi.URLParam(r, "layout"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, l.Describe())
}

// ListProjects returns the projects of a client.
func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.wizard.ListProjects(r.Context(), chi.URLParam(r, "client"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	s.writeJSON(w, http.StatusOK, projects)
}

// StartWizard handles POST /wizards.
func (s *Server) StartWizard(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if !s.decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.UserID) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}
	if body.Locale == "" {
		body.Locale = r.Header.Get("Accept-Language")
	}

	state, err := s.wizard.Start(r.Context(), body.SessionID, body.UserID, body.Layout, body.Locale)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("wizard started", "session_id", state.SessionID, "layout", state.Layout)
	s.respond(w, r, http.StatusCreated, state)
}

// GetWizard returns the state and the current view.
func (s *Server) GetWizard(w http.ResponseWriter, r *http.Request) {
	state, err := s.wizard.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, state)
}

// Next handles POST /wizards/{id}/next.
func (s *Server) Next(w http.ResponseWriter, r *http.Request) {
	state, err := s.wizard.Next(r.Context(), chi.URLParam(r, "id"))
	s.result(w, r, state, err)
}

// Previous handles POST /wizards/{id}/previous.
func (s *Server) Previous(w http.ResponseWriter, r *http.Request) {
	state, err := s.wizard.Previous(r.Context(), chi.URLParam(r, "id"))
	s.result(w, r, state, err)
}

// JumpTo handles POST /wizards/{id}/jump.
func (s *Server) JumpTo(w http.ResponseWriter, r *http.Request) {
	var body JumpRequest
	if !s.decode(w, r, &body) {
		return
	}
	state, err := s.wizard.JumpTo(r.Context(), chi.URLParam(r, "id"), body.Step)
	s.result(w, r, state, err)
}

// SetField handles PUT /wizards/{id}/fields.
func (s *Server) SetField(w http.ResponseWriter, r *http.Request) {
	var body FieldRequest
	if !s.decode(w, r, &body) {
		return
	}
	state, err := s.wizard.SetField(r.Context(), chi.URLParam(r, "id"), body.Path, body.Value)
	s.result(w, r, state, err)
}

// Toggle handles POST /wizards/{id}/toggle.
func (s *Server) Toggle(w http.ResponseWriter, r *http.Request) {
	var body ToggleRequest
	if !s.decode(w, r, &body) {
		return
	}
	state, err := s.wizard.Toggle(r.Context(), chi.URLParam(r, "id"), body.Path, body.Item)
	s.result(w, r, state, err)
}

// GetEstimate prices the current answers.
func (s *Server) GetEstimate(w http.ResponseWriter, r *http.Request) {
	est, err := s.wizard.Estimate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, est)
}

// Submit handles POST /wizards/{id}/submit.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// Unknown sessions never get a bucket.
	if _, err := s.wizard.Load(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.limiter.Allow(id) {
		s.logger.Warn("submit rate limited", "session_id", id)
		s.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: ErrRateLimited.Error()})
		return
	}

	state, err := s.wizard.Submit(r.Context(), id)
	if err != nil {
		var submitErr *domain.SubmissionError
		if errors.As(err, &submitErr) && state != nil {
			// The failed state is the useful part of the answer.
			s.logger.Warn("submission failed", "session_id", id, "err", err)
			s.respond(w, r, http.StatusBadGateway, state)
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.limiter.Forget(id)
	s.logger.Info("submission accepted", "session_id", id, "project_id", state.ProjectID)
	s.respond(w, r, http.StatusOK, state)
}

// CancelWizard handles DELETE /wizards/{id}.
func (s *Server) CancelWizard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.wizard.Cancel(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.limiter.Forget(id)
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents streams state diffs of one wizard (SSE).
// The optional "watch" query keeps only diffs touching the listed parts
// (answers, step, submission).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if _, err := s.wizard.Load(r.Context(), sessionID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		for _, field := range strings.Split(watch, ",") {
			watchList = append(watchList, strings.TrimSpace(field))
		}
	}

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)
	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Name == "" && !wanted(ev.Data, watchList) {
				continue
			}
			if ev.Name != "" {
				fmt.Fprintf(w, "event: %s\n", ev.Name)
			}
			fmt.Fprintf(w, "data: %s\n\n", ev.Data)
			flusher.Flush()
			if ev.Name == EventCancelled {
				return
			}
		}
	}
}

// wanted reports whether a diff touches any watched part. An empty list keeps everything.
func wanted(data string, watchList []string) bool {
	if len(watchList) == 0 {
		return true
	}
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(data), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch field {
		case "answers":
			if len(diff.Answers) > 0 {
				return true
			}
		case "step":
			if diff.CurrentStep != nil {
				return true
			}
		case "submission":
			if diff.Submission != nil || diff.LastError != nil || diff.ProjectID != nil {
				return true
			}
		}
	}
	return false
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) result(w http.ResponseWriter, r *http.Request, state *domain.State, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, state)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, state *domain.State) {
	view, err := s.wizard.Render(state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, status, WizardResponse{State: state, View: view})
}
