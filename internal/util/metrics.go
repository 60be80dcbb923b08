package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersInStore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_orders_in_store",
		Help: "Number of orders currently held by the dashboard",
	})

	OrdersByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboard_orders_by_status",
		Help: "Number of orders per status",
	}, []string{"status"})

	OrdersLoadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_initial_loads_total",
		Help: "Initial order loads by result",
	}, []string{"source", "result"})

	OrdersArrivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_orders_arrived_total",
		Help: "Total number of orders prepended to the dashboard",
	}, []string{"source"})

	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_status_transitions_total",
		Help: "Status writes by source and edge",
	}, []string{"source", "from", "to"})

	BulkUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_bulk_updates_total",
		Help: "Total number of bulk status updates",
	})

	BulkOrdersUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_bulk_orders_updated_total",
		Help: "Total number of orders touched by bulk status updates",
	})

	SelectedOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_selected_orders",
		Help: "Number of order ids currently selected",
	})

	ViewDeriveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_view_derive_latency_seconds",
		Help:    "Latency of deriving a view page",
		Buckets: prometheus.DefBuckets,
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_notifications_total",
		Help: "Notifications emitted by severity",
	}, []string{"severity"})

	NotificationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_notifications_dropped_total",
		Help: "Notifications dropped because the delivery queue was full",
	})

	PushEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_push_events_total",
		Help: "Backend push events consumed by type and result",
	}, []string{"type", "result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
