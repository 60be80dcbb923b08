package worker

import (
	"context"
	"errors"
	"fmt"

	"order-dashboard/internal/broker"
	"order-dashboard/internal/models"
	"order-dashboard/internal/service"
	"order-dashboard/internal/util"

	"go.uber.org/zap"
)

// Applier is the part of the dashboard that backend pushes act on
type Applier interface {
	PushOrder(ctx context.Context, order models.Order) error
	SetStatus(ctx context.Context, id string, status models.Status, source string) (bool, error)
}

// MessageSource delivers messages to a handler until ctx is done
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// PushWorker applies orders and status updates pushed by an upstream backend
type PushWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	dashboard    Applier
	logger       *zap.Logger
}

// NewPushWorker creates a new push worker
func NewPushWorker(consumer MessageSource, dashboard Applier) *PushWorker {
	w := &PushWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		dashboard:    dashboard,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnOrderPushed(w.handleOrderPushed)
	w.eventHandler.OnOrderStatusPushed(w.handleStatusPushed)
	return w
}

// Start consumes until ctx is cancelled
func (w *PushWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting push worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop closes the consumer
func (w *PushWorker) Stop() error {
	w.logger.Info("Stopping push worker...")
	return w.consumer.Close()
}

func (w *PushWorker) handleOrderPushed(ctx context.Context, event *models.OrderPushedEvent) error {
	if event.Order.ID == "" || !event.Order.Status.Valid() {
		util.PushEventsTotal.WithLabelValues(models.EventTypeOrderPushed, "invalid").Inc()
		w.logger.Warn("Ignoring invalid pushed order", zap.String("event_id", event.EventID))
		return nil
	}

	err := w.dashboard.PushOrder(ctx, event.Order)
	switch {
	case errors.Is(err, service.ErrDuplicateOrder):
		util.PushEventsTotal.WithLabelValues(models.EventTypeOrderPushed, "duplicate").Inc()
		return nil
	case err != nil:
		util.PushEventsTotal.WithLabelValues(models.EventTypeOrderPushed, "error").Inc()
		return fmt.Errorf("failed to apply pushed order %s: %w", event.Order.ID, err)
	}

	util.PushEventsTotal.WithLabelValues(models.EventTypeOrderPushed, "applied").Inc()
	return nil
}

func (w *PushWorker) handleStatusPushed(ctx context.Context, event *models.OrderStatusPushedEvent) error {
	if !event.Status.Valid() {
		util.PushEventsTotal.WithLabelValues(models.EventTypeOrderStatusPushed, "invalid").Inc()
		w.logger.Warn("Ignoring pushed status",
			zap.String("order_id", event.OrderID),
			zap.String("status", string(event.Status)))
		return nil
	}

	updated, err := w.dashboard.SetStatus(ctx, event.OrderID, event.Status, models.SourcePush)
	if err != nil {
		util.PushEventsTotal.WithLabelValues(models.EventTypeOrderStatusPushed, "error").Inc()
		return fmt.Errorf("failed to apply pushed status for %s: %w", event.OrderID, err)
	}

	result := "applied"
	if !updated {
		result = "unknown_order"
	}
	util.PushEventsTotal.WithLabelValues(models.EventTypeOrderStatusPushed, result).Inc()
	return nil
}
