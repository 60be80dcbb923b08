package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"order-dashboard/internal/broker"
	"order-dashboard/internal/models"
	"order-dashboard/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replaySource hands every message to the handler once and records failures
type replaySource struct {
	messages []kafka.Message
	failed   []error
	closed   bool
}

func (s *replaySource) StartConsuming(ctx context.Context, handler broker.MessageHandler) error {
	for _, msg := range s.messages {
		if err := handler(ctx, msg); err != nil {
			s.failed = append(s.failed, err)
		}
	}
	return nil
}

func (s *replaySource) Close() error {
	s.closed = true
	return nil
}

type fakeDashboard struct {
	orders   map[string]models.Order
	pushed   []string
	statuses map[string]models.Status
	ready    bool
}

func newFakeDashboard() *fakeDashboard {
	return &fakeDashboard{
		orders:   map[string]models.Order{"ORD-1": {ID: "ORD-1", Status: models.StatusPending}},
		statuses: map[string]models.Status{},
		ready:    true,
	}
}

func (f *fakeDashboard) PushOrder(_ context.Context, order models.Order) error {
	if !f.ready {
		return service.ErrNotReady
	}
	if _, ok := f.orders[order.ID]; ok {
		return fmt.Errorf("%w: %s", service.ErrDuplicateOrder, order.ID)
	}
	f.orders[order.ID] = order
	f.pushed = append(f.pushed, order.ID)
	return nil
}

func (f *fakeDashboard) SetStatus(_ context.Context, id string, status models.Status, source string) (bool, error) {
	if !f.ready {
		return false, service.ErrNotReady
	}
	if source != models.SourcePush {
		return false, fmt.Errorf("unexpected source %s", source)
	}
	if _, ok := f.orders[id]; !ok {
		return false, nil
	}
	f.statuses[id] = status
	return true, nil
}

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()

	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestPushWorkerAppliesEvents(t *testing.T) {
	src := &replaySource{messages: []kafka.Message{
		message(t, &models.OrderPushedEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeOrderPushed),
			Order:     models.Order{ID: "ORD-2", CustomerName: "Eve", Status: models.StatusPending},
		}),
		message(t, &models.OrderStatusPushedEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeOrderStatusPushed),
			OrderID:   "ORD-1",
			Status:    models.StatusShipped,
		}),
		message(t, &models.OrderStatusPushedEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeOrderStatusPushed),
			OrderID:   "ORD-404",
			Status:    models.StatusShipped,
		}),
		message(t, &models.OrderPushedEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeOrderPushed),
			Order:     models.Order{ID: "ORD-1", Status: models.StatusPending},
		}),
		message(t, &models.OrderStatusPushedEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeOrderStatusPushed),
			OrderID:   "ORD-2",
			Status:    models.Status("lost"),
		}),
		message(t, &models.NotificationEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeNotification),
		}),
	}}
	dash := newFakeDashboard()
	w := NewPushWorker(src, dash)

	require.NoError(t, w.Start(context.Background()))

	assert.Empty(t, src.failed)
	assert.Equal(t, []string{"ORD-2"}, dash.pushed)
	assert.Equal(t, map[string]models.Status{"ORD-1": models.StatusShipped}, dash.statuses)

	require.NoError(t, w.Stop())
	assert.True(t, src.closed)
}

func TestPushWorkerReportsNotReady(t *testing.T) {
	src := &replaySource{messages: []kafka.Message{
		message(t, &models.OrderPushedEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeOrderPushed),
			Order:     models.Order{ID: "ORD-9", Status: models.StatusPending},
		}),
		{Value: []byte("not json")},
	}}
	dash := newFakeDashboard()
	dash.ready = false

	require.NoError(t, NewPushWorker(src, dash).Start(context.Background()))

	// the malformed message is skipped, only the not-ready push is retried
	require.Len(t, src.failed, 1)
	assert.ErrorIs(t, src.failed[0], service.ErrNotReady)
}
