package domain

// View is the presentation of the current step of a wizard.
type View struct {
	SessionID  string          `json:"session_id"`
	Layout     string          `json:"layout"`
	Step       int             `json:"step"`
	TotalSteps int             `json:"total_steps"`
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	Fields     []FieldView     `json:"fields"`
	Submission SubmissionState `json:"submission"`
	LastError  string          `json:"last_error,omitempty"`
	ProjectID  string          `json:"project_id,omitempty"`

	CanPrevious bool     `json:"can_previous"`
	CanNext     bool     `json:"can_next"`
	CanSubmit   bool     `json:"can_submit"`
	Missing     []string `json:"missing,omitempty"`

	// Summary is a markdown recap of every answer, rendered on the final step.
	Summary string `json:"summary,omitempty"`
}

// FieldView is one visible field with its current value.
type FieldView struct {
	Path     string   `json:"path"`
	Type     string   `json:"type"`
	Kind     string   `json:"kind"`
	Label    string   `json:"label"`
	Options  []string `json:"options,omitempty"`
	Value    any      `json:"value"`
	Required bool     `json:"required,omitempty"`
}
