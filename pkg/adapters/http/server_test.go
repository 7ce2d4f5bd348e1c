package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake"
	httpadapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/domain"
)

type failingProjects struct{}

func (failingProjects) CreateProject(context.Context, domain.Submission) (*domain.Project, error) {
	return nil, errors.New("store down")
}

func (failingProjects) ListProjects(context.Context, string) ([]*domain.Project, error) {
	return nil, nil
}

func newTestServer(t *testing.T, svcOpts []intake.Option, opts ...httpadapter.Option) (*httptest.Server, *httpadapter.StreamManager) {
	t.Helper()
	streams := httpadapter.NewStreamManager(nil)
	svc := intake.New(append(svcOpts, intake.WithObserver(streams.Observe))...)
	handler := httpadapter.NewHandler(svc, append(opts, httpadapter.WithStreams(streams))...)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, streams
}

func call(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func state(body map[string]any) map[string]any {
	st, _ := body["state"].(map[string]any)
	return st
}

func TestServer_WizardFlow(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, body := call(t, http.MethodPost, srv.URL+"/wizards", httpadapter.StartRequest{
		SessionID: "s1", UserID: "client-1", Layout: "detailed",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1.0, state(body)["current_step"])
	view := body["view"].(map[string]any)
	assert.Equal(t, "basic_info", view["key"])

	resp, _ = call(t, http.MethodPut, srv.URL+"/wizards/s1/fields", httpadapter.FieldRequest{Path: "name", Value: "Acme Store"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, http.MethodPut, srv.URL+"/wizards/s1/fields", httpadapter.FieldRequest{Path: "shortDescription", Value: "A shop"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, http.MethodPut, srv.URL+"/wizards/s1/fields", httpadapter.FieldRequest{Path: "projectType", Value: "ecommerce"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, http.MethodPost, srv.URL+"/wizards/s1/toggle", httpadapter.ToggleRequest{Path: "ecommerceDetails.categories", Item: "fashion"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	answers := state(body)["answers"].(map[string]any)
	assert.Equal(t, []any{"fashion"}, answers["ecommerceDetails"].(map[string]any)["categories"])

	// Submit before the final step.
	resp, _ = call(t, http.MethodPost, srv.URL+"/wizards/s1/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	for i := 0; i < 11; i++ {
		resp, _ = call(t, http.MethodPost, srv.URL+"/wizards/s1/next", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, body = call(t, http.MethodGet, srv.URL+"/wizards/s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 12.0, state(body)["current_step"])
	assert.Equal(t, true, body["view"].(map[string]any)["can_submit"])

	resp, body = call(t, http.MethodPost, srv.URL+"/wizards/s1/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "succeeded", state(body)["submission"])
	assert.NotEmpty(t, state(body)["project_id"])

	resp, _ = call(t, http.MethodPost, srv.URL+"/wizards/s1/submit", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/clients/client-1/projects", nil)
	require.NoError(t, err)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	var projects []domain.Project
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "Acme Store", projects[0].Name)
}

func TestServer_ErrorMapping(t *testing.T) {
	srv, _ := newTestServer(t, []intake.Option{intake.WithProjectStore(failingProjects{})})

	resp, _ := call(t, http.MethodGet, srv.URL+"/wizards/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, http.MethodPost, srv.URL+"/wizards", httpadapter.StartRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, http.MethodPost, srv.URL+"/wizards", httpadapter.StartRequest{UserID: "c", Layout: "wide"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, http.MethodPost, srv.URL+"/wizards", httpadapter.StartRequest{SessionID: "s1", UserID: "c"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := call(t, http.MethodPut, srv.URL+"/wizards/s1/fields", httpadapter.FieldRequest{Path: "nope", Value: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "invalid field path")

	resp, _ = call(t, http.MethodPut, srv.URL+"/wizards/s1/fields", httpadapter.FieldRequest{Path: "name", Value: 42})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, http.MethodPost, srv.URL+"/wizards/s1/jump", httpadapter.JumpRequest{Step: 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for i := 0; i < 8; i++ {
		call(t, http.MethodPost, srv.URL+"/wizards/s1/next", nil)
	}
	resp, body = call(t, http.MethodPost, srv.URL+"/wizards/s1/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, []any{"name", "description"}, body["missing"])

	call(t, http.MethodPut, srv.URL+"/wizards/s1/fields", httpadapter.FieldRequest{Path: "name", Value: "Acme"})
	call(t, http.MethodPut, srv.URL+"/wizards/s1/fields", httpadapter.FieldRequest{Path: "description", Value: "Site"})
	resp, body = call(t, http.MethodPost, srv.URL+"/wizards/s1/submit", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "failed", state(body)["submission"])
	assert.Equal(t, "store down", state(body)["last_error"])

	resp, _ = call(t, http.MethodDelete, srv.URL+"/wizards/s1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = call(t, http.MethodDelete, srv.URL+"/wizards/s1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_SubmitRateLimit(t *testing.T) {
	srv, _ := newTestServer(t,
		[]intake.Option{intake.WithProjectStore(failingProjects{})},
		httpadapter.WithSubmitLimit(time.Hour, 2),
	)
	resp, _ := call(t, http.MethodPost, srv.URL+"/wizards", httpadapter.StartRequest{SessionID: "s1", UserID: "c"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = call(t, http.MethodPost, srv.URL+"/wizards/s1/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = call(t, http.MethodPost, srv.URL+"/wizards/s1/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = call(t, http.MethodPost, srv.URL+"/wizards/s1/submit", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	for i := 0; i < 3; i++ {
		resp, _ = call(t, http.MethodPost, srv.URL+"/wizards/ghost/submit", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
}

func TestServer_LayoutEstimateHealthMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, _ := newTestServer(t, nil, httpadapter.WithMetrics(reg), httpadapter.WithVersion("v1.2.3"))

	resp, body := call(t, http.MethodGet, srv.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "v1.2.3", body["version"])

	resp, body = call(t, http.MethodGet, srv.URL+"/layouts/detailed", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "detailed", body["name"])
	assert.Equal(t, "text", body["schema"].(map[string]any)["shortDescription"])
	resp, _ = call(t, http.MethodGet, srv.URL+"/layouts/wide", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	call(t, http.MethodPost, srv.URL+"/wizards", httpadapter.StartRequest{SessionID: "s1", UserID: "c", Layout: "classic"})
	call(t, http.MethodPut, srv.URL+"/wizards/s1/fields", httpadapter.FieldRequest{Path: "goal", Value: "corporate"})
	resp, body = call(t, http.MethodGet, srv.URL+"/wizards/s1/estimate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 6000.0, body["total"])

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "intake_http_requests_total")
}

func TestServer_SubscribeEvents(t *testing.T) {
	srv, streams := newTestServer(t, nil)
	resp, _ := call(t, http.MethodPost, srv.URL+"/wizards", httpadapter.StartRequest{SessionID: "s1", UserID: "c"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/wizards/s1/events?watch=answers", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	require.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	lines := make(chan string, 32)
	go func() {
		scanner := bufio.NewScanner(stream.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	next := func() string {
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					return ""
				}
				if strings.HasPrefix(line, "data: ") || strings.HasPrefix(line, "event: ") {
					return line
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for event")
				return ""
			}
		}
	}

	assert.Equal(t, "event: ping", next())
	assert.Equal(t, "data: connected", next())
	require.Eventually(t, func() bool { return streams.Subscribers("s1") == 1 }, time.Second, 10*time.Millisecond)

	// Navigation is filtered out by watch=answers.
	call(t, http.MethodPost, srv.URL+"/wizards/s1/next", nil)
	call(t, http.MethodPut, srv.URL+"/wizards/s1/fields", httpadapter.FieldRequest{Path: "fonts", Value: "Cairo"})

	line := next()
	assert.Contains(t, line, `"fonts":"Cairo"`)
	assert.NotContains(t, line, "current_step")

	resp, _ = call(t, http.MethodDelete, srv.URL+"/wizards/s1", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "event: cancelled", next())
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.ErrSessionNotFound:                                     http.StatusNotFound,
		domain.ErrInvalidStep:                                         http.StatusBadRequest,
		&domain.MissingFieldsError{Paths: []string{"name"}}:           http.StatusUnprocessableEntity,
		domain.ErrSubmissionInFlight:                                  http.StatusConflict,
		&domain.SubmissionError{SessionID: "s", Err: errors.New("x")}: http.StatusBadGateway,
		errors.New("boom"):                                            http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, httpadapter.StatusFor(err), err.Error())
	}
}

func TestStreamManager_Observe(t *testing.T) {
	sm := httpadapter.NewStreamManager(nil)
	ch, unsubscribe := sm.Subscribe("s1")
	defer unsubscribe()

	prev := domain.NewState("s1", "c", "classic", 9)
	next := prev.Snapshot()
	next.Answers.Name = "Acme"
	sm.Observe(context.Background(), prev, next)
	sm.Observe(context.Background(), next, next)

	ev := <-ch
	assert.Empty(t, ev.Name)
	assert.Contains(t, ev.Data, `"name":"Acme"`)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event %+v", extra)
	default:
	}

}
