package notify

import (
	"context"
	"sync"

	"order-dashboard/internal/models"
	"order-dashboard/internal/util"

	"go.uber.org/zap"
)

// Async queues notifications and delivers them from its own goroutine so a
// slow sink never blocks the caller. When the queue is full the
// notification is dropped.
type Async struct {
	next   Notifier
	queue  chan models.Notification
	logger *zap.Logger

	once sync.Once
	done chan struct{}
}

// NewAsync creates an Async with the given queue size; call Start before use
func NewAsync(next Notifier, size int) *Async {
	if size <= 0 {
		size = 64
	}
	return &Async{
		next:   next,
		queue:  make(chan models.Notification, size),
		logger: util.GetLogger(),
		done:   make(chan struct{}),
	}
}

// Notify enqueues n without blocking
func (a *Async) Notify(_ context.Context, n models.Notification) {
	select {
	case a.queue <- n:
	default:
		util.NotificationsDroppedTotal.Inc()
		a.logger.Warn("Notification dropped", zap.String("message", n.Message))
	}
}

// Start delivers queued notifications until ctx is cancelled, then drains
// what is left.
func (a *Async) Start(ctx context.Context) {
	go func() {
		defer close(a.done)
		for {
			select {
			case n := <-a.queue:
				a.next.Notify(ctx, n)
			case <-ctx.Done():
				a.drain()
				return
			}
		}
	}()
}

// Wait blocks until the delivery goroutine has exited
func (a *Async) Wait() {
	<-a.done
}

func (a *Async) drain() {
	a.once.Do(func() {
		for {
			select {
			case n := <-a.queue:
				a.next.Notify(context.Background(), n)
			default:
				return
			}
		}
	})
}
