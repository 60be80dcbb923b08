package simulator

import (
	"context"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/util"

	"go.uber.org/zap"
)

// Default tick intervals
const (
	DefaultStatusInterval  = 5 * time.Second
	DefaultArrivalInterval = 10 * time.Second
)

// Target receives the simulator's commands. It owns the order collection;
// the runner never touches orders directly.
type Target interface {
	AdvanceStatuses(ctx context.Context) (int, error)
	AddArrival(ctx context.Context, order models.Order) error
}

// Runner drives the status and arrival simulators on independent tickers
type Runner struct {
	target          Target
	arrivals        *Arrivals
	statusInterval  time.Duration
	arrivalInterval time.Duration
	logger          *zap.Logger
}

// NewRunner creates a runner. Non-positive intervals fall back to defaults.
func NewRunner(target Target, arrivals *Arrivals, statusInterval, arrivalInterval time.Duration) *Runner {
	if statusInterval <= 0 {
		statusInterval = DefaultStatusInterval
	}
	if arrivalInterval <= 0 {
		arrivalInterval = DefaultArrivalInterval
	}
	return &Runner{
		target:          target,
		arrivals:        arrivals,
		statusInterval:  statusInterval,
		arrivalInterval: arrivalInterval,
		logger:          util.GetLogger(),
	}
}

// Run ticks until ctx is cancelled. Both tickers are stopped on return.
func (r *Runner) Run(ctx context.Context) error {
	statusTicker := time.NewTicker(r.statusInterval)
	defer statusTicker.Stop()
	arrivalTicker := time.NewTicker(r.arrivalInterval)
	defer arrivalTicker.Stop()

	r.logger.Info("Simulators started",
		zap.Duration("status_interval", r.statusInterval),
		zap.Duration("arrival_interval", r.arrivalInterval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Simulators stopped")
			return ctx.Err()
		case <-statusTicker.C:
			r.statusTick(ctx)
		case <-arrivalTicker.C:
			r.arrivalTick(ctx)
		}
	}
}

func (r *Runner) statusTick(ctx context.Context) {
	changed, err := r.target.AdvanceStatuses(ctx)
	if err != nil {
		r.logger.Warn("Status tick skipped", zap.Error(err))
		return
	}
	if changed > 0 {
		r.logger.Debug("Status tick applied", zap.Int("changed", changed))
	}
}

func (r *Runner) arrivalTick(ctx context.Context) {
	order, err := r.arrivals.Next()
	if err != nil {
		r.logger.Error("Arrival tick failed", zap.Int("sequence", r.arrivals.Counter()), zap.Error(err))
		return
	}
	if err := r.target.AddArrival(ctx, order); err != nil {
		r.logger.Warn("Arrival not applied", zap.String("order_id", order.ID), zap.Error(err))
	}
}
