package generator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func TestGenerateProducesCompleteOrder(t *testing.T) {
	g := New(Options{Seed: 7, Now: fixedNow})

	order, err := g.Generate(21)
	require.NoError(t, err)

	assert.Equal(t, "ORD-2025-021", order.ID)
	assert.NotEmpty(t, order.CustomerName)
	assert.NotEmpty(t, order.CustomerEmail)
	assert.True(t, order.Status.Valid())
	assert.Equal(t, fixedNow(), order.OrderDate)

	require.GreaterOrEqual(t, len(order.Items), 2)
	require.LessOrEqual(t, len(order.Items), 4)
	for _, item := range order.Items {
		assert.NotEmpty(t, item.ID)
		assert.Len(t, item.SKU, 8)
		assert.GreaterOrEqual(t, item.Quantity, 1)
		assert.LessOrEqual(t, item.Quantity, 3)
		assert.True(t, item.Price.GreaterThanOrEqual(decimal.NewFromInt(10)))
		assert.True(t, item.Price.LessThanOrEqual(decimal.NewFromInt(150)))
	}

	assert.True(t, order.Total.Equal(order.ComputeTotal()))
}

func TestGenerateRejectsNonPositiveSequence(t *testing.T) {
	g := New(Options{Seed: 1})

	_, err := g.Generate(0)
	assert.Error(t, err)
}

func TestRecentWindowBoundsOrderDate(t *testing.T) {
	g := New(Options{Seed: 3, Now: fixedNow, RecentWindow: 30 * 24 * time.Hour})

	for seq := 1; seq <= 20; seq++ {
		order, err := g.Generate(seq)
		require.NoError(t, err)
		assert.False(t, order.OrderDate.After(fixedNow()))
		assert.False(t, order.OrderDate.Before(fixedNow().Add(-30*24*time.Hour)))
	}
}

func TestBatchProducesUniqueSequentialIDs(t *testing.T) {
	orders, err := Batch(New(Options{Seed: 5, Now: fixedNow}), 20)
	require.NoError(t, err)
	require.Len(t, orders, 20)

	seen := map[string]bool{}
	for _, o := range orders {
		assert.False(t, seen[o.ID], "duplicate id %s", o.ID)
		seen[o.ID] = true
	}
	assert.Equal(t, "ORD-2025-001", orders[0].ID)
	assert.Equal(t, "ORD-2025-020", orders[19].ID)
}

func TestOrderID(t *testing.T) {
	assert.Equal(t, "ORD-2024-007", OrderID(2024, 7))
	assert.Equal(t, "ORD-2024-1234", OrderID(2024, 1234))
}
