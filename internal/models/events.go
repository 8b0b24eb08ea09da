package models

import "time"

// Event types
const (
	EventTypeLeadRegistered = "LEAD_REGISTERED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// LeadRegisteredEvent published when a visitor submits the register form
type LeadRegisteredEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	FullName  string `json:"full_name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
}
