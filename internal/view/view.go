// Package view derives the visible page of orders from a snapshot of the
// store and the user's search, filter, sort and paging choices.
package view

import (
	"slices"
	"strings"
	"time"

	"order-dashboard/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names the column an order list is sorted by
type SortKey string

// Sort keys
const (
	SortNone         SortKey = ""
	SortID           SortKey = "id"
	SortCustomerName SortKey = "customerName"
	SortStatus       SortKey = "status"
	SortTotal        SortKey = "total"
	SortOrderDate    SortKey = "orderDate"
)

// Direction of a sort
type Direction string

// Sort directions
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether k is a known sort key or unset
func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortID, SortCustomerName, SortStatus, SortTotal, SortOrderDate:
		return true
	}
	return false
}

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Sort is the sort configuration
type Sort struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// Filter is the structured filter. Statuses are OR'd; the three dimensions
// are AND'd.
type Filter struct {
	Statuses  []models.Status  `json:"statuses,omitempty"`
	StartDate *time.Time       `json:"startDate,omitempty"`
	EndDate   *time.Time       `json:"endDate,omitempty"`
	MinAmount *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount *decimal.Decimal `json:"maxAmount,omitempty"`
}

// Query is everything the pipeline needs besides the orders
type Query struct {
	Search   string `json:"search"`
	Filter   Filter `json:"filter"`
	Sort     Sort   `json:"sort"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// Result is one derived page
type Result struct {
	Orders        []models.Order `json:"orders"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	PageSize      int            `json:"pageSize"`
	Pages         int            `json:"pages"`
	ActiveFilters int            `json:"activeFilters"`
}

// amountSet treats a zero bound as unset, as the filter panel does
func amountSet(d *decimal.Decimal) bool {
	return d != nil && !d.IsZero()
}

func (f Filter) statusActive() bool { return len(f.Statuses) > 0 }
func (f Filter) dateActive() bool   { return f.StartDate != nil || f.EndDate != nil }
func (f Filter) amountActive() bool { return amountSet(f.MinAmount) || amountSet(f.MaxAmount) }

// ActiveCount returns how many filter dimensions are in use
func (f Filter) ActiveCount() int {
	n := 0
	for _, active := range []bool{f.statusActive(), f.dateActive(), f.amountActive()} {
		if active {
			n++
		}
	}
	return n
}

// Active reports whether any dimension is in use
func (f Filter) Active() bool {
	return f.ActiveCount() > 0
}

// Matches reports whether an order passes every active dimension
func (f Filter) Matches(o *models.Order) bool {
	if f.statusActive() && !slices.Contains(f.Statuses, o.Status) {
		return false
	}
	if f.StartDate != nil && o.OrderDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && o.OrderDate.After(*f.EndDate) {
		return false
	}
	if amountSet(f.MinAmount) && o.Total.LessThan(*f.MinAmount) {
		return false
	}
	if amountSet(f.MaxAmount) && o.Total.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

// Derive runs filter, search, sort and pagination in that order. The input
// slice is never modified.
func Derive(orders []models.Order, q Query) Result {
	matched := make([]models.Order, 0, len(orders))
	needle := strings.ToLower(q.Search)
	filterActive := q.Filter.Active()

	for i := range orders {
		o := &orders[i]
		if filterActive && !q.Filter.Matches(o) {
			continue
		}
		if !matchesSearch(o, needle) {
			continue
		}
		matched = append(matched, *o)
	}

	SortOrders(matched, q.Sort)

	return Result{
		Orders:        Paginate(matched, q.Page, q.PageSize),
		Total:         len(matched),
		Page:          q.Page,
		PageSize:      q.PageSize,
		Pages:         pageCount(len(matched), q.PageSize),
		ActiveFilters: q.Filter.ActiveCount(),
	}
}

func matchesSearch(o *models.Order, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.CustomerName), needle) ||
		strings.Contains(strings.ToLower(o.ID), needle)
}

// SortOrders stable-sorts orders in place. An unset key leaves them as is.
func SortOrders(orders []models.Order, s Sort) {
	if s.Key == SortNone {
		return
	}

	cmp := comparator(s.Key)
	if s.Direction == Desc {
		asc := cmp
		cmp = func(a, b *models.Order) int { return asc(b, a) }
	}

	slices.SortStableFunc(orders, func(a, b models.Order) int {
		return cmp(&a, &b)
	})
}

func comparator(key SortKey) func(a, b *models.Order) int {
	switch key {
	case SortTotal:
		return func(a, b *models.Order) int { return a.Total.Cmp(b.Total) }
	case SortOrderDate:
		return func(a, b *models.Order) int { return a.OrderDate.Compare(b.OrderDate) }
	case SortCustomerName:
		c := collate.New(language.English)
		return func(a, b *models.Order) int { return c.CompareString(a.CustomerName, b.CustomerName) }
	case SortStatus:
		c := collate.New(language.English)
		return func(a, b *models.Order) int { return c.CompareString(string(a.Status), string(b.Status)) }
	default:
		c := collate.New(language.English)
		return func(a, b *models.Order) int { return c.CompareString(a.ID, b.ID) }
	}
}

// Paginate returns the page'th window of size pageSize. Out of range
// requests give an empty slice.
func Paginate(orders []models.Order, page, pageSize int) []models.Order {
	if page < 0 || pageSize <= 0 {
		return []models.Order{}
	}

	// compare before multiplying so huge pages cannot overflow
	if len(orders) == 0 || page > (len(orders)-1)/pageSize {
		return []models.Order{}
	}
	start := page * pageSize
	end := start + min(pageSize, len(orders)-start)

	return orders[start:end]
}

func pageCount(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	n := total / pageSize
	if total%pageSize != 0 {
		n++
	}
	return n
}
