package service

import (
	"context"
	"errors"
	"fmt"

	"order-dashboard/internal/loader"
	"order-dashboard/internal/models"
	"order-dashboard/internal/notify"
	"order-dashboard/internal/selection"
	"order-dashboard/internal/simulator"
	"order-dashboard/internal/store"
	"order-dashboard/internal/util"
	"order-dashboard/internal/view"

	"go.uber.org/zap"
)

var (
	// ErrNotReady is returned while the initial load is pending or has failed
	ErrNotReady = errors.New("orders not loaded")
	// ErrStopped is returned once the dashboard loop has exited
	ErrStopped = errors.New("dashboard stopped")
	// ErrAlreadyLoaded is returned by a second Load; the load is one-shot
	ErrAlreadyLoaded = errors.New("orders already loaded")
	// ErrDuplicateOrder is returned when a new order reuses a present id
	ErrDuplicateOrder = errors.New("order already present")
)

// Phase of the one-shot initial load
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// LoadState reports the initial load outcome
type LoadState struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message,omitempty"`
	Orders  int    `json:"orders"`
	// Version changes whenever the order collection does
	Version uint64 `json:"version"`
}

// Planner decides which simulated transitions fire on a tick
type Planner interface {
	Plan(snapshot []models.Order) []simulator.Change
}

// EventSink receives domain events for every dashboard mutation
type EventSink interface {
	PublishOrdersLoaded(ctx context.Context, count int, source string) error
	PublishOrderArrived(ctx context.Context, order models.Order) error
	PublishStatusChanged(ctx context.Context, orderID string, from, to models.Status, source string) error
	PublishBulkApplied(ctx context.Context, ids []string, status models.Status, requested int) error
}

// Options configures a Dashboard. Nil collaborators are replaced by no-ops.
type Options struct {
	Planner   Planner
	Notifier  notify.Notifier
	Events    EventSink
	QueueSize int
}

// Page is a derived view plus the current selection
type Page struct {
	view.Result
	Selected []string `json:"selected"`
	Version  uint64   `json:"version"`
}

// BulkResult reports what a bulk update touched
type BulkResult struct {
	Requested int      `json:"requested"`
	Updated   int      `json:"updated"`
	OrderIDs  []string `json:"orderIds"`
}

// Dashboard owns the order store, the selection and the load state. All of
// them are touched only by the goroutine running Run; every public method
// sends a command and waits for its reply.
type Dashboard struct {
	cmds     chan command
	done     chan struct{}
	store    *store.OrderStore
	selected *selection.Set
	state    LoadState
	planner  Planner
	notifier notify.Notifier
	events   EventSink
	logger   *zap.Logger
}

type command interface {
	apply(d *Dashboard)
}

// NewDashboard creates a dashboard in the loading phase
func NewDashboard(opts Options) *Dashboard {
	if opts.Planner == nil {
		opts.Planner = simulator.NewTransitions(simulator.RandomChance(0))
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop
	}
	if opts.Events == nil {
		opts.Events = nopEvents{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}

	return &Dashboard{
		cmds:     make(chan command, opts.QueueSize),
		done:     make(chan struct{}),
		store:    store.NewStore(),
		selected: selection.New(),
		state:    LoadState{Phase: PhaseLoading},
		planner:  opts.Planner,
		notifier: opts.Notifier,
		events:   opts.Events,
		logger:   util.GetLogger(),
	}
}

// Run processes commands until ctx is cancelled. It must be called once.
func (d *Dashboard) Run(ctx context.Context) error {
	defer close(d.done)

	d.logger.Info("Dashboard started")
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Dashboard stopped")
			return ctx.Err()
		case cmd := <-d.cmds:
			cmd.apply(d)
		}
	}
}

// call sends cmd and waits for its reply
func call[T any](ctx context.Context, d *Dashboard, cmd command, reply chan T) (T, error) {
	var zero T

	select {
	case d.cmds <- cmd:
	case <-d.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case r := <-reply:
		return r, nil
	case <-d.done:
		select {
		case r := <-reply:
			return r, nil
		default:
			return zero, ErrStopped
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// result pairs a value with an error for replies
type result[T any] struct {
	val T
	err error
}

func await[T any](ctx context.Context, d *Dashboard, cmd command, reply chan result[T]) (T, error) {
	r, err := call(ctx, d, cmd, reply)
	if err != nil {
		return r.val, err
	}
	return r.val, r.err
}

// Load fetches the initial collection from src and installs it. Failure
// moves the dashboard to the failed phase; it is never retried.
func (d *Dashboard) Load(ctx context.Context, src loader.Source) (int, error) {
	ctx, span := util.StartSpan(ctx, "Dashboard.Load")
	defer span.End()

	state, err := d.State(ctx)
	if err != nil {
		return 0, err
	}
	if state.Phase != PhaseLoading {
		return 0, ErrAlreadyLoaded
	}

	orders, fetchErr := src.Fetch(ctx)
	reply := make(chan result[int], 1)
	n, err := await(ctx, d, &loadCmd{
		ctx:    ctx,
		source: src.Name(),
		orders: orders,
		err:    fetchErr,
		reply:  reply,
	}, reply)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// State returns the load state
func (d *Dashboard) State(ctx context.Context) (LoadState, error) {
	reply := make(chan LoadState, 1)
	return call(ctx, d, &stateCmd{reply: reply}, reply)
}

// AdvanceStatuses runs one status-simulator tick and returns how many
// orders changed
func (d *Dashboard) AdvanceStatuses(ctx context.Context) (int, error) {
	ctx, span := util.StartSpan(ctx, "Dashboard.AdvanceStatuses")
	defer span.End()

	reply := make(chan result[int], 1)
	return await(ctx, d, &advanceCmd{ctx: ctx, reply: reply}, reply)
}

// AddArrival prepends a simulated new order
func (d *Dashboard) AddArrival(ctx context.Context, order models.Order) error {
	return d.addOrder(ctx, order, models.SourceSimulator)
}

// PushOrder prepends an order received from the backend push stream
func (d *Dashboard) PushOrder(ctx context.Context, order models.Order) error {
	return d.addOrder(ctx, order, models.SourcePush)
}

func (d *Dashboard) addOrder(ctx context.Context, order models.Order, source string) error {
	ctx, span := util.StartSpan(ctx, "Dashboard.AddOrder")
	defer span.End()

	reply := make(chan result[bool], 1)
	_, err := await(ctx, d, &prependCmd{ctx: ctx, order: order, source: source, reply: reply}, reply)
	return err
}

// SetStatus sets one order's status. It reports false for an unknown id.
func (d *Dashboard) SetStatus(ctx context.Context, id string, status models.Status, source string) (bool, error) {
	ctx, span := util.StartSpan(ctx, "Dashboard.SetStatus")
	defer span.End()

	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	reply := make(chan result[bool], 1)
	return await(ctx, d, &setStatusCmd{ctx: ctx, id: id, status: status, source: source, reply: reply}, reply)
}

// ApplyBulk sets status on every present id in one turn, clears the
// selection and emits a confirmation
func (d *Dashboard) ApplyBulk(ctx context.Context, ids []string, status models.Status) (BulkResult, error) {
	ctx, span := util.StartSpan(ctx, "Dashboard.ApplyBulk")
	defer span.End()

	if !status.Valid() {
		return BulkResult{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	reply := make(chan result[BulkResult], 1)
	return await(ctx, d, &bulkCmd{ctx: ctx, ids: ids, status: status, reply: reply}, reply)
}

// ApplySelected runs ApplyBulk over the current selection
func (d *Dashboard) ApplySelected(ctx context.Context, status models.Status) (BulkResult, error) {
	ctx, span := util.StartSpan(ctx, "Dashboard.ApplySelected")
	defer span.End()

	if !status.Valid() {
		return BulkResult{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	reply := make(chan result[BulkResult], 1)
	return await(ctx, d, &bulkCmd{ctx: ctx, fromSelection: true, status: status, reply: reply}, reply)
}

// Toggle flips selection of id and returns the new state
func (d *Dashboard) Toggle(ctx context.Context, id string) (bool, error) {
	reply := make(chan bool, 1)
	return call(ctx, d, &toggleCmd{id: id, reply: reply}, reply)
}

// SelectAll adds ids to the selection and returns the selection size
func (d *Dashboard) SelectAll(ctx context.Context, ids []string) (int, error) {
	reply := make(chan int, 1)
	return call(ctx, d, &selectAllCmd{ids: ids, reply: reply}, reply)
}

// ClearSelection empties the selection
func (d *Dashboard) ClearSelection(ctx context.Context) error {
	reply := make(chan struct{}, 1)
	_, err := call(ctx, d, &clearCmd{reply: reply}, reply)
	return err
}

// Selection returns the selected ids, sorted
func (d *Dashboard) Selection(ctx context.Context) ([]string, error) {
	reply := make(chan []string, 1)
	return call(ctx, d, &selectionCmd{reply: reply}, reply)
}

// View derives one page of the current collection
func (d *Dashboard) View(ctx context.Context, q view.Query) (Page, error) {
	ctx, span := util.StartSpan(ctx, "Dashboard.View")
	defer span.End()

	reply := make(chan result[Page], 1)
	return await(ctx, d, &viewCmd{query: q, reply: reply}, reply)
}

// GetOrder returns one order by id
func (d *Dashboard) GetOrder(ctx context.Context, id string) (models.Order, bool, error) {
	reply := make(chan result[*models.Order], 1)
	o, err := await(ctx, d, &getCmd{id: id, reply: reply}, reply)
	if err != nil || o == nil {
		return models.Order{}, false, err
	}
	return *o, true, nil
}

// Snapshot returns a copy of every order, newest first
func (d *Dashboard) Snapshot(ctx context.Context) ([]models.Order, error) {
	reply := make(chan result[[]models.Order], 1)
	return await(ctx, d, &snapshotCmd{reply: reply}, reply)
}

func (d *Dashboard) ready() error {
	if d.state.Phase != PhaseReady {
		return ErrNotReady
	}
	return nil
}

func (d *Dashboard) notify(ctx context.Context, severity models.Severity, msg string) {
	util.NotificationsTotal.WithLabelValues(string(severity)).Inc()
	d.notifier.Notify(ctx, models.NewNotification(severity, msg))
}

func (d *Dashboard) recordStatus(ctx context.Context, id string, from, to models.Status, source string) {
	util.StatusTransitionsTotal.WithLabelValues(source, string(from), string(to)).Inc()
	if err := d.events.PublishStatusChanged(ctx, id, from, to, source); err != nil {
		d.logger.Warn("Failed to publish status change", zap.String("order_id", id), zap.Error(err))
	}
}

// updateGauges refreshes the store gauges after a mutation
func (d *Dashboard) updateGauges() {
	util.OrdersInStore.Set(float64(d.store.Len()))
	counts := d.store.CountByStatus()
	for _, s := range models.AllStatuses {
		util.OrdersByStatus.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
	util.SelectedOrders.Set(float64(d.selected.Len()))
}

type nopEvents struct{}

func (nopEvents) PublishOrdersLoaded(context.Context, int, string) error { return nil }
func (nopEvents) PublishOrderArrived(context.Context, models.Order) error { return nil }
func (nopEvents) PublishStatusChanged(context.Context, string, models.Status, models.Status, string) error {
	return nil
}
func (nopEvents) PublishBulkApplied(context.Context, []string, models.Status, int) error { return nil }
