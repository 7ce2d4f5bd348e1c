package domain

import (
	"encoding/json"
	"reflect"
)

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentStep *int             `json:"current_step,omitempty"`
	Submission  *SubmissionState `json:"submission,omitempty"`
	LastError   *string          `json:"last_error,omitempty"`
	ProjectID   *string          `json:"project_id,omitempty"`

	// Answers contains only changed, added or deleted top-level answer keys.
	// For deletions, the key is present with a nil value.
	Answers map[string]any `json:"answers,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.CurrentStep != newState.CurrentStep {
		diff.CurrentStep = &newState.CurrentStep
	}
	if oldState == nil || oldState.Submission != newState.Submission {
		diff.Submission = &newState.Submission
	}
	if (oldState == nil && newState.LastError != "") || (oldState != nil && oldState.LastError != newState.LastError) {
		diff.LastError = &newState.LastError
	}
	if (oldState == nil && newState.ProjectID != "") || (oldState != nil && oldState.ProjectID != newState.ProjectID) {
		diff.ProjectID = &newState.ProjectID
	}

	diff.Answers = diffAnswers(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffAnswers(old *State, new *State) map[string]any {
	newMap := answersMap(new.Answers)
	delta := make(map[string]any)

	if old == nil {
		for k, v := range newMap {
			delta[k] = v
		}
		if len(delta) == 0 {
			return nil
		}
		return delta
	}

	oldMap := answersMap(old.Answers)
	for k, newVal := range newMap {
		oldVal, exists := oldMap[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}
	for k := range oldMap {
		if _, exists := newMap[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// answersMap flattens the answers to their JSON object form.
func answersMap(a Answers) map[string]any {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil
	}
	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentStep == nil &&
		d.Submission == nil &&
		d.LastError == nil &&
		d.ProjectID == nil &&
		len(d.Answers) == 0
}
