package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidFieldPath is returned when a path does not resolve to a declared leaf.
var ErrInvalidFieldPath = errors.New("invalid field path")

// ErrInvalidValue is returned when a value does not match the field's declared type or options.
var ErrInvalidValue = errors.New("invalid field value")

// ErrInactiveVariant is returned when writing a project-details field that
// belongs to a project type other than the selected one.
var ErrInactiveVariant = errors.New("field belongs to an inactive project type")

// ErrInvalidStep is returned for out-of-range or unreachable step jumps.
var ErrInvalidStep = errors.New("invalid step")

// ErrNotFinalStep is returned when Submit is called before the last step.
var ErrNotFinalStep = errors.New("submit is only available on the final step")

// ErrValidationGap is returned when required fields are empty at submit time.
var ErrValidationGap = errors.New("required fields are missing")

// ErrSubmissionInFlight is returned when Submit is called while a previous
// attempt is still waiting for the project store.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ErrWizardClosed is returned for any mutation after a successful submission.
var ErrWizardClosed = errors.New("wizard already submitted")

// ErrStaleSubmission is returned when a store response no longer matches
// the session (cancelled or superseded); the response is dropped.
var ErrStaleSubmission = errors.New("stale submission result")

// ErrUnknownLayout is returned when a layout name is not registered.
var ErrUnknownLayout = errors.New("unknown layout")

// FieldPathError wraps ErrInvalidFieldPath with the offending path.
type FieldPathError struct {
	Path string
}

func (e *FieldPathError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidFieldPath, e.Path)
}

func (e *FieldPathError) Unwrap() error { return ErrInvalidFieldPath }

// MissingFieldsError lists the required paths that are still empty.
type MissingFieldsError struct {
	Paths []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationGap, strings.Join(e.Paths, ", "))
}

func (e *MissingFieldsError) Unwrap() error { return ErrValidationGap }

// SubmissionError wraps a project store failure.
type SubmissionError struct {
	SessionID string
	Err       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission for session %s failed: %v", e.SessionID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
