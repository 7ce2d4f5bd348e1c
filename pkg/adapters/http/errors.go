package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/intake/pkg/domain"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// StatusFor maps a wizard error to an HTTP status code.
func StatusFor(err error) int {
	var submitErr *domain.SubmissionError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownLayout):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidFieldPath),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrInactiveVariant),
		errors.Is(err, domain.ErrInvalidStep):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrValidationGap),
		errors.Is(err, domain.ErrNotFinalStep):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrWizardClosed),
		errors.Is(err, domain.ErrStaleSubmission):
		return http.StatusConflict
	case errors.As(err, &submitErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	resp := errorResponse{Error: err.Error()}

	var missing *domain.MissingFieldsError
	if errors.As(err, &missing) {
		resp.Missing = missing.Paths
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
