package models

import "time"

// Event types
const (
	EventTypeOrdersLoaded       = "ORDERS_LOADED"
	EventTypeOrderArrived       = "ORDER_ARRIVED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeBulkStatusApplied  = "BULK_STATUS_APPLIED"
	EventTypeNotification       = "NOTIFICATION"

	// Pushed by an upstream backend and applied to the dashboard
	EventTypeOrderPushed       = "ORDER_PUSHED"
	EventTypeOrderStatusPushed = "ORDER_STATUS_PUSHED"
)

// Status change sources
const (
	SourceSimulator = "simulator"
	SourceManual    = "manual"
	SourceBulk      = "bulk"
	SourcePush      = "push"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrdersLoadedEvent published when the initial load replaced the collection
type OrdersLoadedEvent struct {
	BaseEvent
	Count  int    `json:"count"`
	Source string `json:"source"`
}

// OrderArrivedEvent published when a new order is prepended to the store
type OrderArrivedEvent struct {
	BaseEvent
	Order Order `json:"order"`
}

// OrderStatusChangedEvent published for every effective status write
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
	Source  string `json:"source"`
}

// BulkStatusAppliedEvent published after a bulk status update
type BulkStatusAppliedEvent struct {
	BaseEvent
	OrderIDs  []string `json:"order_ids"`
	Status    Status   `json:"status"`
	Requested int      `json:"requested"`
	Updated   int      `json:"updated"`
}

// NotificationEvent wraps a notification on the event bus
type NotificationEvent struct {
	BaseEvent
	Notification Notification `json:"notification"`
}

// OrderPushedEvent carries a new order pushed by the backend
type OrderPushedEvent struct {
	BaseEvent
	Order Order `json:"order"`
}

// OrderStatusPushedEvent carries a status update pushed by the backend
type OrderStatusPushedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	Status  Status `json:"status"`
}
