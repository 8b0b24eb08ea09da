package worker

import (
	"context"
	"fmt"

	"catalogue-service/internal/broker"
	"catalogue-service/internal/models"
	"catalogue-service/internal/navigation"
	"catalogue-service/internal/util"

	"go.uber.org/zap"
)

// MessageSource delivers raw topic messages to a handler until ctx ends
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// LeadSubmitter forwards a contact to the form relay
type LeadSubmitter interface {
	Submit(ctx context.Context, info navigation.UserInfo) error
}

// LeadRecorder persists lead outcomes and processed event ids
type LeadRecorder interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
	CreateLead(ctx context.Context, lead *models.Lead) error
}

// LeadWorker relays registered leads and records the outcome
type LeadWorker struct {
	source       MessageSource
	submitter    LeadSubmitter
	recorder     LeadRecorder
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewLeadWorker creates a new lead worker
func NewLeadWorker(source MessageSource, submitter LeadSubmitter, recorder LeadRecorder) *LeadWorker {
	w := &LeadWorker{
		source:       source,
		submitter:    submitter,
		recorder:     recorder,
		eventHandler: broker.NewEventHandler(),
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnLeadRegistered(w.HandleLeadRegistered)

	return w
}

// Start consumes lead events until ctx is cancelled
func (w *LeadWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting lead worker")
	return w.source.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *LeadWorker) Stop() error {
	w.logger.Info("Stopping lead worker")
	return w.source.Close()
}

// HandleLeadRegistered submits one lead. A relay failure is recorded as a
// FAILED lead and not retried; a storage failure is returned so the message
// is redelivered.
func (w *LeadWorker) HandleLeadRegistered(ctx context.Context, event *models.LeadRegisteredEvent) error {
	ctx, span := util.StartSpan(ctx, "LeadWorker.HandleLeadRegistered")
	defer span.End()

	processed, err := w.recorder.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event: %w", err)
	}
	if processed {
		w.logger.Info("Lead event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	lead := &models.Lead{
		EventID:   event.EventID,
		SessionID: event.SessionID,
		FullName:  event.FullName,
		Company:   event.Company,
		Email:     event.Email,
		Status:    models.LeadStatusSubmitted,
	}

	info := navigation.UserInfo{FullName: event.FullName, Company: event.Company, Email: event.Email}
	if err := w.submitter.Submit(ctx, info); err != nil {
		w.logger.Error("Failed to relay lead",
			zap.String("event_id", event.EventID),
			zap.String("session_id", event.SessionID),
			zap.Error(err))
		lead.Status = models.LeadStatusFailed
		lead.RelayError = err.Error()
	}

	if err := w.recorder.CreateLead(ctx, lead); err != nil {
		return fmt.Errorf("failed to record lead: %w", err)
	}

	if err := w.recorder.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}

	w.logger.Info("Lead recorded",
		zap.String("event_id", event.EventID),
		zap.Int64("lead_id", lead.ID),
		zap.String("status", lead.Status))
	return nil
}
