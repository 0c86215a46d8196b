package domain

import "time"

// State is the project lifecycle state. The core only ever sets active;
// archived exists for operators flipping projects off without deleting
// their history.
type State string

const (
	StateActive   State = "active"
	StateArchived State = "archived"
)

// RoleAdmin is the membership role given to a project's creator.
const RoleAdmin = "admin"

// Project owns a sequence of rotations. A project that exists always has at
// least one rotation; creation of the two is atomic from the caller's view.
type Project struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description,omitempty"`
	RotationPeriodDays int       `json:"rotation_period_days"`
	StartDate          time.Time `json:"start_date"`
	CreatedBy          string    `json:"created_by"`
	State              State     `json:"state"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Member binds a user to a project under a free-form role tag.
type Member struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
}
