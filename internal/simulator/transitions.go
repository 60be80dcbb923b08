package simulator

import (
	"math/rand"
	"sync"
	"time"

	"order-dashboard/internal/models"
)

// Chance runs one Bernoulli trial with success probability p
type Chance func(p float64) bool

// RandomChance returns a Chance backed by a seeded source. A zero seed uses
// the current time.
func RandomChance(seed int64) Chance {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var mu sync.Mutex
	rnd := rand.New(rand.NewSource(seed))
	return func(p float64) bool {
		mu.Lock()
		defer mu.Unlock()
		return rnd.Float64() < p
	}
}

// Change is one planned status transition
type Change struct {
	OrderID string
	From    models.Status
	To      models.Status
}

// Transitions plans simulated status changes along the status graph
type Transitions struct {
	chance Chance
}

// NewTransitions creates a planner using chance for every edge trial
func NewTransitions(chance Chance) *Transitions {
	return &Transitions{chance: chance}
}

// Plan evaluates one tick against snapshot. Every order is judged on its
// status at tick start, and the first edge whose trial succeeds wins.
func (t *Transitions) Plan(snapshot []models.Order) []Change {
	var changes []Change
	for _, order := range snapshot {
		for _, edge := range models.OutgoingTransitions(order.Status) {
			if t.chance(edge.Probability) {
				changes = append(changes, Change{OrderID: order.ID, From: edge.From, To: edge.To})
				break
			}
		}
	}
	return changes
}
