package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"catalogue-service/internal/models"
	"catalogue-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishLeadRegistered publishes LeadRegistered event
func (ep *EventPublisher) PublishLeadRegistered(ctx context.Context, event *models.LeadRegisteredEvent) error {
	return ep.producer.PublishEvent(ctx, leadKey(event.SessionID), event)
}

// events of one session share a partition so they stay ordered
func leadKey(sessionID string) string {
	return fmt.Sprintf("lead-%s", sessionID)
}

// EventHandler handles incoming events
type EventHandler struct {
	onLeadRegistered func(context.Context, *models.LeadRegisteredEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnLeadRegistered registers a handler for LeadRegistered events
func (eh *EventHandler) OnLeadRegistered(handler func(context.Context, *models.LeadRegisteredEvent) error) {
	eh.onLeadRegistered = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	logger := util.GetLogger()
	logger.Debug("Handling event",
		zap.String("event_type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeLeadRegistered:
		if eh.onLeadRegistered != nil {
			var event models.LeadRegisteredEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal LeadRegistered event: %w", err)
			}
			return eh.onLeadRegistered(ctx, &event)
		}

	default:
		logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
