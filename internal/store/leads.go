package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalogue-service/internal/models"
)

// ErrLeadNotFound is returned when no lead matches
var ErrLeadNotFound = errors.New("lead not found")

// CreateLead records a lead; a second row for the same event is ignored
func (s *Store) CreateLead(ctx context.Context, lead *models.Lead) error {
	query := `
		INSERT INTO leads (event_id, session_id, full_name, company, email, status, relay_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO UPDATE
			SET status = EXCLUDED.status, relay_error = EXCLUDED.relay_error, updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, lead, query,
		lead.EventID, lead.SessionID, lead.FullName, lead.Company, lead.Email, lead.Status, lead.RelayError)
}

// GetLeadByEventID retrieves the lead created from an event
func (s *Store) GetLeadByEventID(ctx context.Context, eventID string) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.GetContext(ctx, &lead, "SELECT * FROM leads WHERE event_id = $1", eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: event %s", ErrLeadNotFound, eventID)
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetLeadsBySession retrieves the leads of one browsing session
func (s *Store) GetLeadsBySession(ctx context.Context, sessionID string) ([]models.Lead, error) {
	var leads []models.Lead
	err := s.db.SelectContext(ctx, &leads,
		"SELECT * FROM leads WHERE session_id = $1 ORDER BY created_at DESC", sessionID)
	return leads, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
