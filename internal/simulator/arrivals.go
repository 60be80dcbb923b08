package simulator

import (
	"fmt"

	"order-dashboard/internal/generator"
	"order-dashboard/internal/models"
)

// DefaultSequenceStart is where the arrival counter begins; the first
// synthesized order gets sequence 21.
const DefaultSequenceStart = 20

// Arrivals synthesizes new orders with an increasing sequence number
type Arrivals struct {
	gen     generator.Generator
	counter int
}

// NewArrivals creates an arrival source whose counter starts at start
func NewArrivals(gen generator.Generator, start int) *Arrivals {
	return &Arrivals{gen: gen, counter: start}
}

// Next advances the counter and generates the next order. The counter moves
// even when generation fails.
func (a *Arrivals) Next() (models.Order, error) {
	a.counter++
	order, err := a.gen.Generate(a.counter)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to generate order %d: %w", a.counter, err)
	}
	return order, nil
}

// Counter returns the last sequence number used
func (a *Arrivals) Counter() int {
	return a.counter
}
