// Package loader fetches the initial order collection from one of several
// sources. A fetch either yields the whole collection or an error; there is
// no partial result.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"order-dashboard/internal/generator"
	"order-dashboard/internal/models"
	"order-dashboard/internal/util"
)

// ErrUnknownSource is returned for an unsupported source kind
var ErrUnknownSource = errors.New("unknown orders source")

// Source kinds
const (
	KindGenerated = "generated"
	KindFile      = "file"
	KindHTTP      = "http"
	KindPostgres  = "postgres"
)

// Source yields the initial order collection
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Order, error)
}

// Decode reads a `{"orders": [...]}` document and validates it
func Decode(r io.Reader) ([]models.Order, error) {
	var doc models.OrdersDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse orders document: %w", err)
	}
	if err := validate(doc.Orders); err != nil {
		return nil, err
	}
	if doc.Orders == nil {
		doc.Orders = []models.Order{}
	}
	return doc.Orders, nil
}

func validate(orders []models.Order) error {
	for i, o := range orders {
		if o.ID == "" {
			return fmt.Errorf("order at index %d has no id", i)
		}
		if !o.Status.Valid() {
			return fmt.Errorf("order %s: %w: %q", o.ID, models.ErrInvalidStatus, o.Status)
		}
	}
	return nil
}

// FileSource reads a JSON document from disk
type FileSource struct {
	Path string
}

// Name returns the source kind
func (s *FileSource) Name() string { return KindFile }

// Fetch reads and decodes the file
func (s *FileSource) Fetch(ctx context.Context) ([]models.Order, error) {
	_, span := util.StartSpan(ctx, "FileSource.Fetch")
	defer span.End()

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// HTTPSource GETs a JSON document
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates an HTTP source with a bounded client timeout
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{URL: url, Client: &http.Client{Timeout: 15 * time.Second}}
}

// Name returns the source kind
func (s *HTTPSource) Name() string { return KindHTTP }

// Fetch requests the document; any non-2xx status is a failure
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "HTTPSource.Fetch")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to load orders: unexpected status %d", resp.StatusCode)
	}

	return Decode(resp.Body)
}

// GeneratedSource synthesizes orders 1..Count
type GeneratedSource struct {
	Generator generator.Generator
	Count     int
}

// Name returns the source kind
func (s *GeneratedSource) Name() string { return KindGenerated }

// Fetch generates the collection
func (s *GeneratedSource) Fetch(ctx context.Context) ([]models.Order, error) {
	_, span := util.StartSpan(ctx, "GeneratedSource.Fetch")
	defer span.End()

	return generator.Batch(s.Generator, s.Count)
}
