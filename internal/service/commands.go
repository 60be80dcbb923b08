package service

import (
	"context"
	"fmt"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/util"
	"order-dashboard/internal/view"

	"go.uber.org/zap"
)

// loadCmd installs the result of the initial fetch
type loadCmd struct {
	ctx    context.Context
	source string
	orders []models.Order
	err    error
	reply  chan result[int]
}

func (c *loadCmd) apply(d *Dashboard) {
	if d.state.Phase != PhaseLoading {
		c.reply <- result[int]{err: ErrAlreadyLoaded}
		return
	}

	if c.err != nil {
		d.state = LoadState{Phase: PhaseFailed, Message: c.err.Error()}
		util.OrdersLoadedTotal.WithLabelValues(c.source, "failure").Inc()
		d.logger.Error("Failed to load orders", zap.String("source", c.source), zap.Error(c.err))
		d.notify(c.ctx, models.SeverityError, "Failed to load orders: "+c.err.Error())
		c.reply <- result[int]{err: fmt.Errorf("failed to load orders: %w", c.err)}
		return
	}

	dropped := d.store.ReplaceAll(c.orders)
	if dropped > 0 {
		d.logger.Warn("Dropped duplicate order ids", zap.Int("dropped", dropped))
	}
	d.selected.Retain(d.store.Has)
	d.state = LoadState{Phase: PhaseReady, Orders: d.store.Len(), Version: d.store.Version()}
	d.updateGauges()

	util.OrdersLoadedTotal.WithLabelValues(c.source, "success").Inc()
	d.logger.Info("Orders loaded", zap.String("source", c.source), zap.Int("count", d.store.Len()))
	if err := d.events.PublishOrdersLoaded(c.ctx, d.store.Len(), c.source); err != nil {
		d.logger.Warn("Failed to publish orders loaded", zap.Error(err))
	}

	c.reply <- result[int]{val: d.store.Len()}
}

type stateCmd struct {
	reply chan LoadState
}

func (c *stateCmd) apply(d *Dashboard) {
	state := d.state
	if state.Phase == PhaseReady {
		state.Orders = d.store.Len()
		state.Version = d.store.Version()
	}
	c.reply <- state
}

// advanceCmd is one status-simulator tick. The plan is made against the
// snapshot at tick start, so each order moves at most once per tick.
type advanceCmd struct {
	ctx   context.Context
	reply chan result[int]
}

func (c *advanceCmd) apply(d *Dashboard) {
	if err := d.ready(); err != nil {
		c.reply <- result[int]{err: err}
		return
	}

	changes := d.planner.Plan(d.store.Snapshot())
	applied := 0
	for _, ch := range changes {
		from, ok := d.store.SetStatus(ch.OrderID, ch.To)
		if !ok {
			continue
		}
		applied++
		d.recordStatus(c.ctx, ch.OrderID, from, ch.To, models.SourceSimulator)
		d.logger.Debug("Order status simulated",
			zap.String("order_id", ch.OrderID),
			zap.String("from", string(from)),
			zap.String("to", string(ch.To)))
	}
	if applied > 0 {
		d.updateGauges()
	}

	c.reply <- result[int]{val: applied}
}

type prependCmd struct {
	ctx    context.Context
	order  models.Order
	source string
	reply  chan result[bool]
}

func (c *prependCmd) apply(d *Dashboard) {
	if err := d.ready(); err != nil {
		c.reply <- result[bool]{err: err}
		return
	}

	if !d.store.Prepend(c.order) {
		d.logger.Warn("Order already present", zap.String("order_id", c.order.ID), zap.String("source", c.source))
		c.reply <- result[bool]{err: fmt.Errorf("%w: %s", ErrDuplicateOrder, c.order.ID)}
		return
	}
	d.updateGauges()

	util.OrdersArrivedTotal.WithLabelValues(c.source).Inc()
	d.logger.Info("New order",
		zap.String("order_id", c.order.ID),
		zap.String("customer", c.order.CustomerName),
		zap.String("source", c.source))
	d.notify(c.ctx, models.SeverityWarning, "New order from "+c.order.CustomerName)
	if err := d.events.PublishOrderArrived(c.ctx, c.order); err != nil {
		d.logger.Warn("Failed to publish order arrived", zap.String("order_id", c.order.ID), zap.Error(err))
	}

	c.reply <- result[bool]{val: true}
}

type setStatusCmd struct {
	ctx    context.Context
	id     string
	status models.Status
	source string
	reply  chan result[bool]
}

func (c *setStatusCmd) apply(d *Dashboard) {
	if err := d.ready(); err != nil {
		c.reply <- result[bool]{err: err}
		return
	}

	from, ok := d.store.SetStatus(c.id, c.status)
	if !ok {
		d.logger.Debug("Status update for unknown order", zap.String("order_id", c.id))
		c.reply <- result[bool]{val: false}
		return
	}
	d.updateGauges()
	d.recordStatus(c.ctx, c.id, from, c.status, c.source)
	d.logger.Info("Order status updated",
		zap.String("order_id", c.id),
		zap.String("from", string(from)),
		zap.String("to", string(c.status)),
		zap.String("source", c.source))

	c.reply <- result[bool]{val: true}
}

// bulkCmd applies one status to many orders within a single turn
type bulkCmd struct {
	ctx           context.Context
	ids           []string
	fromSelection bool
	status        models.Status
	reply         chan result[BulkResult]
}

func (c *bulkCmd) apply(d *Dashboard) {
	if err := d.ready(); err != nil {
		c.reply <- result[BulkResult]{err: err}
		return
	}

	ids := c.ids
	if c.fromSelection {
		ids = d.selected.IDs()
	}

	ids = uniqueIDs(ids)
	changes := d.store.SetStatusForMany(ids, c.status)
	updated := make([]string, 0, len(changes))
	for _, ch := range changes {
		updated = append(updated, ch.OrderID)
		d.recordStatus(c.ctx, ch.OrderID, ch.From, ch.To, models.SourceBulk)
	}
	d.selected.Clear()
	d.updateGauges()

	util.BulkUpdatesTotal.Inc()
	util.BulkOrdersUpdatedTotal.Add(float64(len(changes)))
	d.logger.Info("Bulk status applied",
		zap.Int("requested", len(ids)),
		zap.Int("updated", len(changes)),
		zap.String("status", string(c.status)))
	d.notify(c.ctx, models.SeveritySuccess, fmt.Sprintf("Marked %d orders as %s", len(ids), c.status))
	if err := d.events.PublishBulkApplied(c.ctx, updated, c.status, len(ids)); err != nil {
		d.logger.Warn("Failed to publish bulk update", zap.Error(err))
	}

	c.reply <- result[BulkResult]{val: BulkResult{Requested: len(ids), Updated: len(changes), OrderIDs: updated}}
}

type toggleCmd struct {
	id    string
	reply chan bool
}

// once loaded, only present ids can be selected; before that the selection
// is pruned when the load lands
func (c *toggleCmd) apply(d *Dashboard) {
	if d.state.Phase == PhaseReady && !d.store.Has(c.id) {
		c.reply <- false
		return
	}
	on := d.selected.Toggle(c.id)
	util.SelectedOrders.Set(float64(d.selected.Len()))
	c.reply <- on
}

type selectAllCmd struct {
	ids   []string
	reply chan int
}

func (c *selectAllCmd) apply(d *Dashboard) {
	ids := c.ids
	if d.state.Phase == PhaseReady {
		ids = make([]string, 0, len(c.ids))
		for _, id := range c.ids {
			if d.store.Has(id) {
				ids = append(ids, id)
			}
		}
	}
	d.selected.SelectAll(ids)
	util.SelectedOrders.Set(float64(d.selected.Len()))
	c.reply <- d.selected.Len()
}

type clearCmd struct {
	reply chan struct{}
}

func (c *clearCmd) apply(d *Dashboard) {
	d.selected.Clear()
	util.SelectedOrders.Set(0)
	c.reply <- struct{}{}
}

type selectionCmd struct {
	reply chan []string
}

func (c *selectionCmd) apply(d *Dashboard) {
	c.reply <- d.selected.IDs()
}

// viewCmd derives a page inside the turn, from a copy of the store
type viewCmd struct {
	query view.Query
	reply chan result[Page]
}

func (c *viewCmd) apply(d *Dashboard) {
	if err := d.ready(); err != nil {
		c.reply <- result[Page]{err: err}
		return
	}

	start := time.Now()
	res := view.Derive(d.store.Snapshot(), c.query)
	util.ViewDeriveLatency.Observe(time.Since(start).Seconds())

	c.reply <- result[Page]{val: Page{Result: res, Selected: d.selected.IDs(), Version: d.store.Version()}}
}

type getCmd struct {
	id    string
	reply chan result[*models.Order]
}

func (c *getCmd) apply(d *Dashboard) {
	if err := d.ready(); err != nil {
		c.reply <- result[*models.Order]{err: err}
		return
	}

	o, ok := d.store.Get(c.id)
	if !ok {
		c.reply <- result[*models.Order]{}
		return
	}
	c.reply <- result[*models.Order]{val: &o}
}

type snapshotCmd struct {
	reply chan result[[]models.Order]
}

func (c *snapshotCmd) apply(d *Dashboard) {
	if err := d.ready(); err != nil {
		c.reply <- result[[]models.Order]{err: err}
		return
	}
	c.reply <- result[[]models.Order]{val: d.store.Snapshot()}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
