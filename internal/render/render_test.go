package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/view"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	res := view.Result{
		Orders: []models.Order{
			{ID: "ORD-2025-021", CustomerName: "Eve Adams", Status: models.StatusPending,
				OrderDate: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("42.5"),
				Items: []models.Item{{ID: "i1"}, {ID: "i2"}}},
			{ID: "ORD-2025-007", CustomerName: "Bo Chen", Status: models.StatusShipped,
				OrderDate: time.Date(2025, 5, 30, 8, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(10)},
		},
		Total:         12,
		Page:          0,
		PageSize:      2,
		Pages:         6,
		ActiveFilters: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, Page(&buf, res, []string{"ORD-2025-007"}))

	out := buf.String()
	assert.Contains(t, out, "ORD-2025-021")
	assert.Contains(t, out, "Eve Adams")
	assert.Contains(t, out, "2025-06-01")
	assert.Contains(t, out, "42.50")
	assert.Contains(t, out, "12 orders, page 1 of 6, 1 selected, 1 filters active")

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "ORD-2025-007") {
			assert.Contains(t, line, "x")
		}
	}
}

func TestPageEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(&buf, view.Result{Orders: []models.Order{}}, nil))
	assert.Contains(t, buf.String(), "0 orders, page 1 of 1")
}

func TestStatusSummary(t *testing.T) {
	orders := []models.Order{
		{ID: "A", Status: models.StatusPending},
		{ID: "B", Status: models.StatusPending},
		{ID: "C", Status: models.StatusCancelled},
	}

	var buf bytes.Buffer
	require.NoError(t, StatusSummary(&buf, orders))

	out := buf.String()
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "delivered")
	assert.Contains(t, out, "2")
}
