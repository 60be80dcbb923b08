package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 10
	maxPageSize     = 500
)

// parseQuery builds a view query from the request's query string
func parseQuery(c *gin.Context) (view.Query, error) {
	q := view.Query{
		Search:   c.Query("search"),
		PageSize: defaultPageSize,
	}

	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			s, err := models.ParseStatus(strings.TrimSpace(part))
			if err != nil {
				return q, err
			}
			q.Filter.Statuses = append(q.Filter.Statuses, s)
		}
	}

	var err error
	if q.Filter.StartDate, err = parseDate(c.Query("from"), false); err != nil {
		return q, fmt.Errorf("invalid from: %w", err)
	}
	if q.Filter.EndDate, err = parseDate(c.Query("to"), true); err != nil {
		return q, fmt.Errorf("invalid to: %w", err)
	}
	if q.Filter.MinAmount, err = parseAmount(c.Query("min")); err != nil {
		return q, fmt.Errorf("invalid min: %w", err)
	}
	if q.Filter.MaxAmount, err = parseAmount(c.Query("max")); err != nil {
		return q, fmt.Errorf("invalid max: %w", err)
	}

	if raw := c.Query("sort"); raw != "" {
		q.Sort.Key = view.SortKey(raw)
		if !q.Sort.Key.Valid() {
			return q, fmt.Errorf("invalid sort key %q", raw)
		}
		q.Sort.Direction = view.Direction(c.DefaultQuery("dir", string(view.Asc)))
		if !q.Sort.Direction.Valid() {
			return q, fmt.Errorf("invalid sort direction %q", q.Sort.Direction)
		}
	}

	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 0 {
			return q, fmt.Errorf("invalid page %q", raw)
		}
		q.Page = p
	}
	if raw := c.Query("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > maxPageSize {
			return q, fmt.Errorf("invalid pageSize %q: must be between 1 and %d", raw, maxPageSize)
		}
		q.PageSize = size
	}

	return q, nil
}

// parseDate accepts RFC 3339 or a plain date. A plain end date covers the
// whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseAmount(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
