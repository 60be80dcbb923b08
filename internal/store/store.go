package store

import (
	"order-dashboard/internal/models"
)

// OrderStore holds the canonical order collection, newest first.
// It is not safe for concurrent use; the dashboard actor owns it.
type OrderStore struct {
	orders  []models.Order
	index   map[string]int
	version uint64
}

// NewStore creates an empty order store
func NewStore() *OrderStore {
	return &OrderStore{
		index: make(map[string]int),
	}
}

// ReplaceAll replaces the whole collection. Later duplicates of an id are
// dropped; the number dropped is returned.
func (s *OrderStore) ReplaceAll(orders []models.Order) int {
	s.orders = make([]models.Order, 0, len(orders))
	s.index = make(map[string]int, len(orders))

	dropped := 0
	for _, o := range orders {
		if _, exists := s.index[o.ID]; exists {
			dropped++
			continue
		}
		s.index[o.ID] = len(s.orders)
		s.orders = append(s.orders, o.Clone())
	}

	s.version++
	return dropped
}

// Prepend inserts an order at the front. It returns false, leaving the store
// untouched, when the id is already present.
func (s *OrderStore) Prepend(order models.Order) bool {
	if _, exists := s.index[order.ID]; exists {
		return false
	}

	s.orders = append(s.orders, models.Order{})
	copy(s.orders[1:], s.orders)
	s.orders[0] = order.Clone()
	s.reindex()

	s.version++
	return true
}

// SetStatus sets the status of one order. Unknown ids are a no-op.
func (s *OrderStore) SetStatus(id string, status models.Status) (models.Status, bool) {
	i, ok := s.index[id]
	if !ok {
		return "", false
	}

	from := s.orders[i].Status
	s.orders[i].Status = status
	s.version++
	return from, true
}

// StatusChange records one write done by SetStatusForMany
type StatusChange struct {
	OrderID string
	From    models.Status
	To      models.Status
}

// SetStatusForMany sets status on every present id in a single pass. Repeated
// ids are written once.
func (s *OrderStore) SetStatusForMany(ids []string, status models.Status) []StatusChange {
	changes := make([]StatusChange, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		i, ok := s.index[id]
		if !ok {
			continue
		}
		changes = append(changes, StatusChange{OrderID: id, From: s.orders[i].Status, To: status})
		s.orders[i].Status = status
	}

	if len(changes) > 0 {
		s.version++
	}
	return changes
}

// Get returns a copy of the order with the given id
func (s *OrderStore) Get(id string) (models.Order, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Order{}, false
	}
	return s.orders[i].Clone(), true
}

// Has reports whether id is present
func (s *OrderStore) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of orders
func (s *OrderStore) Len() int {
	return len(s.orders)
}

// Version increases on every mutation
func (s *OrderStore) Version() uint64 {
	return s.version
}

// Snapshot returns a deep copy of the collection in store order
func (s *OrderStore) Snapshot() []models.Order {
	out := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

// IDs returns every id in store order
func (s *OrderStore) IDs() []string {
	ids := make([]string, len(s.orders))
	for i, o := range s.orders {
		ids[i] = o.ID
	}
	return ids
}

// CountByStatus returns how many orders are in each status
func (s *OrderStore) CountByStatus() map[models.Status]int {
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, o := range s.orders {
		counts[o.Status]++
	}
	return counts
}

func (s *OrderStore) reindex() {
	for i, o := range s.orders {
		s.index[o.ID] = i
	}
}
