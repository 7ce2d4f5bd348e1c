package domain

import "time"

// SubmissionState tracks the submit lifecycle of a wizard.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"       // Still collecting answers
	SubmissionSubmitting SubmissionState = "submitting" // Waiting for the project store
	SubmissionSucceeded  SubmissionState = "succeeded"  // Sink state: project created
	SubmissionFailed     SubmissionState = "failed"     // Last attempt rejected, retry allowed
)

// State represents the current snapshot of a wizard session.
type State struct {
	// SessionID identifies the wizard instance.
	SessionID string `json:"session_id"`

	// UserID is the client the project will belong to. It is passed in
	// explicitly when the wizard starts.
	UserID string `json:"user_id"`

	// Layout names the step schema driving this session ("classic", "detailed").
	Layout string `json:"layout"`

	// Locale is used to translate titles and notifications.
	Locale string `json:"locale,omitempty"`

	// CurrentStep is 1-indexed and always within [1, TotalSteps].
	CurrentStep int `json:"current_step"`
	TotalSteps  int `json:"total_steps"`

	Answers Answers `json:"answers"`

	Submission SubmissionState `json:"submission"`

	// Generation is bumped on every submit attempt. A store response is only
	// applied when it carries the generation that is still current.
	Generation uint64 `json:"generation"`

	// LastError holds the message of the last failed submission.
	LastError string `json:"last_error,omitempty"`

	// ProjectID is set once the project store accepted the submission.
	ProjectID string `json:"project_id,omitempty"`

	// History tracks the steps visited, in order.
	History []int `json:"history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted form of a whole state when a store keeps
	// an opaque envelope instead of the plain record.
	Sealed string `json:"sealed,omitempty"`
}

// NewState creates a clean state positioned on the first step.
func NewState(sessionID, userID, layout string, totalSteps int) *State {
	return &State{
		SessionID:   sessionID,
		UserID:      userID,
		Layout:      layout,
		CurrentStep: 1,
		TotalSteps:  totalSteps,
		Submission:  SubmissionIdle,
		History:     []int{1},
	}
}

// Snapshot returns a deep copy of the state.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = s.Answers.Clone()
	if s.History != nil {
		next.History = make([]int, len(s.History))
		copy(next.History, s.History)
	}
	return &next
}

// IsFinalStep reports whether the cursor sits on the last step.
func (s *State) IsFinalStep() bool {
	return s.CurrentStep == s.TotalSteps
}

// Visited reports whether step appears in the history.
func (s *State) Visited(step int) bool {
	for _, h := range s.History {
		if h == step {
			return true
		}
	}
	return false
}

// Closed reports whether the wizard reached its sink state.
func (s *State) Closed() bool {
	return s.Submission == SubmissionSucceeded
}
