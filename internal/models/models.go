package models

import "time"

// Lead is a registration forwarded to the form relay
type Lead struct {
	ID         int64     `db:"id" json:"id"`
	EventID    string    `db:"event_id" json:"event_id"`
	SessionID  string    `db:"session_id" json:"session_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Company    string    `db:"company" json:"company"`
	Email      string    `db:"email" json:"email"`
	Status     string    `db:"status" json:"status"`
	RelayError string    `db:"relay_error" json:"relay_error,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Lead statuses
const (
	LeadStatusSubmitted = "SUBMITTED"
	LeadStatusFailed    = "FAILED"
)
