// Package notify delivers user-facing notifications. Delivery is fire and
// forget: callers never see an error.
package notify

import (
	"context"
	"sync"

	"order-dashboard/internal/models"
	"order-dashboard/internal/util"

	"go.uber.org/zap"
)

// Notifier accepts a notification for delivery
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// Func adapts a plain function to Notifier
type Func func(ctx context.Context, n models.Notification)

// Notify calls f
func (f Func) Notify(ctx context.Context, n models.Notification) {
	f(ctx, n)
}

// Nop drops every notification
var Nop Notifier = Func(func(context.Context, models.Notification) {})

// LogNotifier writes notifications to the structured log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by the global logger
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: util.GetLogger()}
}

// Notify logs n at a level matching its severity
func (l *LogNotifier) Notify(_ context.Context, n models.Notification) {
	fields := []zap.Field{
		zap.String("severity", string(n.Severity)),
		zap.String("message", n.Message),
	}
	switch n.Severity {
	case models.SeverityError:
		l.logger.Error("Notification", fields...)
	case models.SeverityWarning:
		l.logger.Warn("Notification", fields...)
	default:
		l.logger.Info("Notification", fields...)
	}
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

// Notify delivers n to every notifier in order
func (m Multi) Notify(ctx context.Context, n models.Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}

// Recorder keeps every notification it receives
type Recorder struct {
	mu    sync.Mutex
	items []models.Notification
}

// Notify records n
func (r *Recorder) Notify(_ context.Context, n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notification, len(r.items))
	copy(out, r.items)
	return out
}
