package broker

import (
	"context"
	"encoding/json"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewBaseEvent stamps a new event id and time
func NewBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// EventWriter is the part of Producer the publisher needs
type EventWriter interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing dashboard events
type EventPublisher struct {
	producer EventWriter
	logger   *zap.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer EventWriter) *EventPublisher {
	return &EventPublisher{producer: producer, logger: util.GetLogger()}
}

// PublishOrdersLoaded publishes OrdersLoaded event
func (ep *EventPublisher) PublishOrdersLoaded(ctx context.Context, count int, source string) error {
	event := &models.OrdersLoadedEvent{
		BaseEvent: NewBaseEvent(models.EventTypeOrdersLoaded),
		Count:     count,
		Source:    source,
	}
	return ep.producer.PublishEvent(ctx, "orders", event)
}

// PublishOrderArrived publishes OrderArrived event
func (ep *EventPublisher) PublishOrderArrived(ctx context.Context, order models.Order) error {
	event := &models.OrderArrivedEvent{
		BaseEvent: NewBaseEvent(models.EventTypeOrderArrived),
		Order:     order,
	}
	return ep.producer.PublishEvent(ctx, order.ID, event)
}

// PublishStatusChanged publishes OrderStatusChanged event
func (ep *EventPublisher) PublishStatusChanged(ctx context.Context, orderID string, from, to models.Status, source string) error {
	event := &models.OrderStatusChangedEvent{
		BaseEvent: NewBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:   orderID,
		From:      from,
		To:        to,
		Source:    source,
	}
	return ep.producer.PublishEvent(ctx, orderID, event)
}

// PublishBulkApplied publishes BulkStatusApplied event
func (ep *EventPublisher) PublishBulkApplied(ctx context.Context, ids []string, status models.Status, requested int) error {
	event := &models.BulkStatusAppliedEvent{
		BaseEvent: NewBaseEvent(models.EventTypeBulkStatusApplied),
		OrderIDs:  ids,
		Status:    status,
		Requested: requested,
		Updated:   len(ids),
	}
	return ep.producer.PublishEvent(ctx, "bulk", event)
}

// Notify publishes a notification event; it implements notify.Notifier
func (ep *EventPublisher) Notify(ctx context.Context, n models.Notification) {
	event := &models.NotificationEvent{
		BaseEvent:    NewBaseEvent(models.EventTypeNotification),
		Notification: n,
	}
	if err := ep.producer.PublishEvent(ctx, "notification", event); err != nil {
		ep.logger.Error("Failed to publish notification", zap.Error(err))
	}
}

// EventHandler routes backend push events to registered handlers
type EventHandler struct {
	onOrderPushed       func(context.Context, *models.OrderPushedEvent) error
	onOrderStatusPushed func(context.Context, *models.OrderStatusPushedEvent) error
	logger              *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOrderPushed registers a handler for OrderPushed events
func (eh *EventHandler) OnOrderPushed(handler func(context.Context, *models.OrderPushedEvent) error) {
	eh.onOrderPushed = handler
}

// OnOrderStatusPushed registers a handler for OrderStatusPushed events
func (eh *EventHandler) OnOrderStatusPushed(handler func(context.Context, *models.OrderStatusPushedEvent) error) {
	eh.onOrderStatusPushed = handler
}

// HandleMessage routes messages to appropriate handlers. Malformed payloads
// are counted and skipped so the offset still commits.
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		eh.skip("unknown", msg, err)
		return nil
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderPushed:
		if eh.onOrderPushed != nil {
			var event models.OrderPushedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				eh.skip(baseEvent.EventType, msg, err)
				return nil
			}
			return eh.onOrderPushed(ctx, &event)
		}

	case models.EventTypeOrderStatusPushed:
		if eh.onOrderStatusPushed != nil {
			var event models.OrderStatusPushedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				eh.skip(baseEvent.EventType, msg, err)
				return nil
			}
			return eh.onOrderStatusPushed(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}

func (eh *EventHandler) skip(eventType string, msg kafka.Message, err error) {
	util.PushEventsTotal.WithLabelValues(eventType, "invalid").Inc()
	eh.logger.Warn("Skipping malformed event",
		zap.String("type", eventType),
		zap.Int64("offset", msg.Offset),
		zap.Error(err))
}
