package generator

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"order-dashboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Generator produces a fully populated synthetic order for a sequence number
type Generator interface {
	Generate(seq int) (models.Order, error)
}

// Options configures a Faker
type Options struct {
	Seed int64
	// RecentWindow spreads order dates over the window ending now. Zero
	// stamps every order with the current time.
	RecentWindow time.Duration
	Now          func() time.Time
}

// Faker generates orders with gofakeit
type Faker struct {
	mu     sync.Mutex
	faker  *gofakeit.Faker
	window time.Duration
	now    func() time.Time
}

var _ Generator = (*Faker)(nil)

// New creates a Faker. A zero seed picks a random one.
func New(opts Options) *Faker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Faker{
		faker:  gofakeit.New(opts.Seed),
		window: opts.RecentWindow,
		now:    now,
	}
}

// OrderID formats the id for a sequence number, e.g. ORD-2025-021
func OrderID(year, seq int) string {
	return fmt.Sprintf("ORD-%d-%03d", year, seq)
}

// Generate builds an order with 2 to 4 items and a total computed from them
func (f *Faker) Generate(seq int) (models.Order, error) {
	if seq < 1 {
		return models.Order{}, fmt.Errorf("invalid sequence number %d", seq)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	orderDate := now
	if f.window > 0 {
		orderDate = f.faker.DateRange(now.Add(-f.window), now)
	}

	order := models.Order{
		ID:            OrderID(now.Year(), seq),
		CustomerName:  f.faker.Name(),
		CustomerEmail: f.faker.Email(),
		CustomerPhone: f.faker.PhoneFormatted(),
		OrderDate:     orderDate.UTC(),
		Status:        models.AllStatuses[f.faker.Number(0, len(models.AllStatuses)-1)],
		Items:         f.items(f.faker.Number(2, 4)),
		ShippingAddress: models.ShippingAddress{
			Street:  f.faker.Street(),
			City:    f.faker.City(),
			State:   f.faker.StateAbr(),
			ZipCode: f.faker.Zip(),
			Country: f.faker.Country(),
		},
	}
	order.Total = order.ComputeTotal()

	return order, nil
}

func (f *Faker) items(count int) []models.Item {
	items := make([]models.Item, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, models.Item{
			ID:       uuid.New().String(),
			Name:     f.faker.ProductName(),
			Quantity: f.faker.Number(1, 3),
			Price:    decimal.NewFromFloat(f.faker.Price(10, 150)).Round(2),
			SKU:      strings.ToUpper(f.faker.LetterN(8)),
		})
	}
	return items
}

// Batch generates orders for sequence numbers 1..n
func Batch(g Generator, n int) ([]models.Order, error) {
	orders := make([]models.Order, 0, n)
	for seq := 1; seq <= n; seq++ {
		order, err := g.Generate(seq)
		if err != nil {
			return nil, fmt.Errorf("failed to generate order %d: %w", seq, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
