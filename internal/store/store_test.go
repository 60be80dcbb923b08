package store

import (
	"testing"

	"order-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrders() []models.Order {
	return []models.Order{
		{ID: "A", CustomerName: "Alice", Status: models.StatusPending},
		{ID: "B", CustomerName: "Bob", Status: models.StatusCancelled},
		{ID: "C", CustomerName: "Carol", Status: models.StatusPending},
	}
}

func TestReplaceAll(t *testing.T) {
	s := NewStore()

	dropped := s.ReplaceAll(testOrders())
	assert.Zero(t, dropped)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"A", "B", "C"}, s.IDs())

	dropped = s.ReplaceAll([]models.Order{{ID: "X"}, {ID: "X", CustomerName: "dup"}})
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"X"}, s.IDs())
	assert.False(t, s.Has("A"))
}

func TestPrependPutsNewestFirst(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(testOrders())

	ok := s.Prepend(models.Order{ID: "D", Status: models.StatusPending})
	require.True(t, ok)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, "D", s.IDs()[0])

	// index follows the shift
	_, ok = s.SetStatus("C", models.StatusShipped)
	require.True(t, ok)
	c, _ := s.Get("C")
	assert.Equal(t, models.StatusShipped, c.Status)

	assert.False(t, s.Prepend(models.Order{ID: "A"}))
	assert.Equal(t, 4, s.Len())
}

func TestSetStatusUnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(testOrders())
	before := s.Version()

	_, ok := s.SetStatus("missing", models.StatusShipped)
	assert.False(t, ok)
	assert.Equal(t, before, s.Version())
}

func TestSetStatusForMany(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(testOrders())

	changes := s.SetStatusForMany([]string{"A", "B", "nope"}, models.StatusShipped)
	require.Len(t, changes, 2)
	assert.Equal(t, StatusChange{OrderID: "A", From: models.StatusPending, To: models.StatusShipped}, changes[0])
	assert.Equal(t, StatusChange{OrderID: "B", From: models.StatusCancelled, To: models.StatusShipped}, changes[1])

	a, _ := s.Get("A")
	b, _ := s.Get("B")
	c, _ := s.Get("C")
	assert.Equal(t, models.StatusShipped, a.Status)
	assert.Equal(t, models.StatusShipped, b.Status)
	assert.Equal(t, models.StatusPending, c.Status)
}

func TestSetStatusForManyWritesRepeatedIDsOnce(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(testOrders())

	changes := s.SetStatusForMany([]string{"A", "A", "nope", "A"}, models.StatusShipped)
	require.Len(t, changes, 1)
	assert.Equal(t, StatusChange{OrderID: "A", From: models.StatusPending, To: models.StatusShipped}, changes[0])
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewStore()
	s.ReplaceAll([]models.Order{{ID: "A", Items: []models.Item{{ID: "i", Quantity: 1}}}})

	snap := s.Snapshot()
	snap[0].Status = models.StatusDelivered
	snap[0].Items[0].Quantity = 9

	a, _ := s.Get("A")
	assert.Equal(t, models.Status(""), a.Status)
	assert.Equal(t, 1, a.Items[0].Quantity)
}

func TestCountByStatus(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(testOrders())

	counts := s.CountByStatus()
	assert.Equal(t, 2, counts[models.StatusPending])
	assert.Equal(t, 1, counts[models.StatusCancelled])
	assert.Zero(t, counts[models.StatusShipped])
}
