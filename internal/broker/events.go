package broker

import (
	"context"
	"time"

	"cafe-storefront/internal/models"
	"cafe-storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher publishes storefront activity events keyed by view id
type EventPublisher struct {
	sink   Sink
	logger *zap.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(sink Sink) *EventPublisher {
	return &EventPublisher{sink: sink, logger: util.GetLogger()}
}

// NewBaseEvent stamps a fresh event envelope
func NewBaseEvent(eventType, viewID string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		ViewID:    viewID,
		Timestamp: time.Now(),
	}
}

// PublishViewOpened publishes VIEW_OPENED
func (ep *EventPublisher) PublishViewOpened(ctx context.Context, viewID string) {
	ev := NewBaseEvent(models.EventTypeViewOpened, viewID)
	ep.publish(ctx, viewID, &ev)
}

// PublishCartEvent publishes one of the cart mutation events
func (ep *EventPublisher) PublishCartEvent(ctx context.Context, event *models.CartEvent) {
	ep.publish(ctx, event.ViewID, event)
}

// PublishOrderSubmitted publishes ORDER_SUBMITTED
func (ep *EventPublisher) PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) {
	ep.publish(ctx, event.ViewID, event)
}

// PublishOrderSubmitFailed publishes ORDER_SUBMIT_FAILED
func (ep *EventPublisher) PublishOrderSubmitFailed(ctx context.Context, event *models.OrderSubmitFailedEvent) {
	ep.publish(ctx, event.ViewID, event)
}

// PublishAccountEvent publishes CUSTOMER_SIGNED_IN or CUSTOMER_REGISTERED
func (ep *EventPublisher) PublishAccountEvent(ctx context.Context, event *models.AccountEvent) {
	ep.publish(ctx, event.ViewID, event)
}

// publish never fails the caller; storefront events are best effort
func (ep *EventPublisher) publish(ctx context.Context, key string, event interface{}) {
	if err := ep.sink.PublishEvent(ctx, "view-"+key, event); err != nil {
		ep.logger.Error("Failed to publish storefront event", zap.String("view_id", key), zap.Error(err))
	}
}
