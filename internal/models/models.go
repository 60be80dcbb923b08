package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Totals and prices travel as plain JSON numbers, like the mock order documents.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrInvalidStatus is returned when a string does not name an order status
var ErrInvalidStatus = errors.New("invalid order status")

// Status is the lifecycle state of an order
type Status string

// Order statuses
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists every status in declaration order
var AllStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a raw string into a Status
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Order represents one customer purchase
type Order struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	OrderDate       time.Time       `json:"orderDate"`
	Status          Status          `json:"status"`
	Total           decimal.Decimal `json:"total"`
	Items           []Item          `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

// Item is a single line of an order
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	SKU      string          `json:"sku"`
}

// ShippingAddress is where an order is delivered
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// ComputeTotal sums price * quantity over the items, rounded to cents
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

// Clone returns a deep copy of the order
func (o Order) Clone() Order {
	if o.Items != nil {
		items := make([]Item, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	return o
}

// OrdersDocument is the shape of the static order document loaded at startup
type OrdersDocument struct {
	Orders []Order `json:"orders"`
}
