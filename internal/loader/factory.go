package loader

import (
	"fmt"
	"time"

	"order-dashboard/config"
	"order-dashboard/internal/generator"
)

// FromConfig builds the source selected by ORDERS_SOURCE. The returned close
// function releases any connection the source holds.
func FromConfig(cfg config.OrdersConfig) (Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source {
	case KindGenerated, "":
		gen := generator.New(generator.Options{
			Seed:         cfg.Seed,
			RecentWindow: 30 * 24 * time.Hour,
		})
		return &GeneratedSource{Generator: gen, Count: cfg.SeedOrders}, noop, nil
	case KindFile:
		return &FileSource{Path: cfg.Path}, noop, nil
	case KindHTTP:
		return NewHTTPSource(cfg.URL), noop, nil
	case KindPostgres:
		src, err := NewPostgresSource(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}
