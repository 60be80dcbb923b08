// Command dashboard runs the order dashboard in the terminal: it loads the
// configured orders, starts the simulators and reprints the current page on
// every refresh.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"order-dashboard/config"
	"order-dashboard/internal/generator"
	"order-dashboard/internal/loader"
	"order-dashboard/internal/models"
	"order-dashboard/internal/notify"
	"order-dashboard/internal/render"
	"order-dashboard/internal/service"
	"order-dashboard/internal/simulator"
	"order-dashboard/internal/util"
	"order-dashboard/internal/view"

	"go.uber.org/zap"
)

func main() {
	var (
		refresh  = flag.Duration("refresh", 5*time.Second, "how often the page is reprinted")
		search   = flag.String("search", "", "customer name or order id substring")
		statuses = flag.String("status", "", "comma separated statuses to show")
		sortKey  = flag.String("sort", "", "id, customerName, status, total or orderDate")
		desc     = flag.Bool("desc", false, "sort descending")
		pageSize = flag.Int("page-size", 10, "rows per page")
	)
	flag.Parse()

	cfg := config.Load()
	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()

	query, err := buildQuery(*search, *statuses, *sortKey, *desc, *pageSize)
	if err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	source, closeSource, err := loader.FromConfig(cfg.Orders)
	if err != nil {
		log.Fatalf("Failed to configure orders source: %v", err)
	}
	defer closeSource()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := notify.Func(func(_ context.Context, n models.Notification) {
		fmt.Printf("[%s] %s\n", n.Severity, n.Message)
	})
	notifier := notify.NewAsync(printer, 32)
	notifier.Start(ctx)

	dashboard := service.NewDashboard(service.Options{
		Planner:  simulator.NewTransitions(simulator.RandomChance(cfg.Simulation.Seed)),
		Notifier: notifier,
	})
	go func() { _ = dashboard.Run(ctx) }()

	if _, err := dashboard.Load(ctx, source); err != nil {
		logger.Error("Initial load failed", zap.Error(err))
		notifier.Wait()
		os.Exit(1)
	}

	if cfg.Simulation.Enabled {
		gen := generator.New(generator.Options{Seed: cfg.Simulation.Seed})
		runner := simulator.NewRunner(
			dashboard,
			simulator.NewArrivals(gen, cfg.Simulation.SequenceStart),
			cfg.Simulation.StatusInterval,
			cfg.Simulation.ArrivalInterval,
		)
		go func() { _ = runner.Run(ctx) }()
	}

	ticker := time.NewTicker(*refresh)
	defer ticker.Stop()

	var last uint64
	for {
		version, err := printPage(ctx, dashboard, query, last)
		if err != nil {
			logger.Warn("Failed to print page", zap.Error(err))
		}
		last = version
		select {
		case <-ctx.Done():
			notifier.Wait()
			return
		case <-ticker.C:
		}
	}
}

// printPage reprints only when the collection changed since last
func printPage(ctx context.Context, d *service.Dashboard, q view.Query, last uint64) (uint64, error) {
	page, err := d.View(ctx, q)
	if err != nil {
		return last, err
	}
	if page.Version == last {
		return last, nil
	}
	orders, err := d.Snapshot(ctx)
	if err != nil {
		return last, err
	}

	fmt.Println()
	if err := render.StatusSummary(os.Stdout, orders); err != nil {
		return last, err
	}
	return page.Version, render.Page(os.Stdout, page.Result, page.Selected)
}

func buildQuery(search, statuses, sortKey string, desc bool, pageSize int) (view.Query, error) {
	q := view.Query{Search: search, PageSize: pageSize}

	if statuses != "" {
		for _, raw := range strings.Split(statuses, ",") {
			s, err := models.ParseStatus(strings.TrimSpace(raw))
			if err != nil {
				return q, err
			}
			q.Filter.Statuses = append(q.Filter.Statuses, s)
		}
	}

	if sortKey != "" {
		q.Sort = view.Sort{Key: view.SortKey(sortKey), Direction: view.Asc}
		if !q.Sort.Key.Valid() {
			return q, fmt.Errorf("unknown sort key %q", sortKey)
		}
		if desc {
			q.Sort.Direction = view.Desc
		}
	}
	return q, nil
}
