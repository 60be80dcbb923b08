package loader

import (
	"context"
	"fmt"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/util"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type orderRow struct {
	ID              string          `db:"id"`
	CustomerName    string          `db:"customer_name"`
	CustomerEmail   string          `db:"customer_email"`
	CustomerPhone   string          `db:"customer_phone"`
	OrderDate       time.Time       `db:"order_date"`
	Status          string          `db:"status"`
	Total           decimal.Decimal `db:"total"`
	ShippingStreet  string          `db:"shipping_street"`
	ShippingCity    string          `db:"shipping_city"`
	ShippingState   string          `db:"shipping_state"`
	ShippingZipCode string          `db:"shipping_zip_code"`
	ShippingCountry string          `db:"shipping_country"`
}

type itemRow struct {
	OrderID  string          `db:"order_id"`
	ID       string          `db:"id"`
	Name     string          `db:"name"`
	Quantity int             `db:"quantity"`
	Price    decimal.Decimal `db:"price"`
	SKU      string          `db:"sku"`
}

// PostgresSource reads orders from the `orders` and `order_items` tables.
// It only reads; dashboard changes are never written back.
type PostgresSource struct {
	db *sqlx.DB
}

// NewPostgresSource connects to the database
func NewPostgresSource(databaseURL string) (*PostgresSource, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresSource{db: db}, nil
}

// Name returns the source kind
func (s *PostgresSource) Name() string { return KindPostgres }

// Close closes the database connection
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

// Fetch loads every order with its items, newest first
func (s *PostgresSource) Fetch(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "PostgresSource.Fetch")
	defer span.End()

	var rows []orderRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, customer_name, customer_email, customer_phone, order_date, status, total,
		       shipping_street, shipping_city, shipping_state, shipping_zip_code, shipping_country
		FROM orders
		ORDER BY order_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	if len(rows) == 0 {
		return []models.Order{}, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	query, args, err := sqlx.In(`
		SELECT order_id, id, name, quantity, price, sku
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var items []itemRow
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}

	orders := assemble(rows, items)
	if err := validate(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// assemble joins item rows onto their orders, keeping row order
func assemble(rows []orderRow, items []itemRow) []models.Order {
	byOrder := make(map[string][]models.Item, len(rows))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], models.Item{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			SKU:      it.SKU,
		})
	}

	orders := make([]models.Order, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, models.Order{
			ID:            r.ID,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			CustomerPhone: r.CustomerPhone,
			OrderDate:     r.OrderDate.UTC(),
			Status:        models.Status(r.Status),
			Total:         r.Total,
			Items:         byOrder[r.ID],
			ShippingAddress: models.ShippingAddress{
				Street:  r.ShippingStreet,
				City:    r.ShippingCity,
				State:   r.ShippingState,
				ZipCode: r.ShippingZipCode,
				Country: r.ShippingCountry,
			},
		})
	}
	return orders
}
