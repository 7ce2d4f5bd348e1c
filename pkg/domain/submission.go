package domain

import "time"

// Project statuses as stored by the project store.
const (
	ProjectStatusNew        = "new"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusReview     = "review"
	ProjectStatusCompleted  = "completed"
)

// Submission is the payload handed to the project store.
// ProjectData embeds the answers verbatim; the store treats it as opaque.
type Submission struct {
	ClientID       string  `json:"client_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Goal           string  `json:"goal"`
	Status         string  `json:"status"`
	Progress       int     `json:"progress"`
	EstimatedPrice float64 `json:"estimated_price,omitempty"`
	ProjectData    Answers `json:"project_data"`
}

// Project is a stored project record.
type Project struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Goal        string    `json:"goal"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	Price       float64   `json:"estimated_price,omitempty"`
	ProjectData Answers   `json:"project_data"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
