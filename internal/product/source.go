package product

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source fetches the full product list once per call.
type Source interface {
	Fetch(ctx context.Context) ([]Product, error)
}

// NewSource picks an HTTP source for http(s) locations and a file source
// for everything else.
func NewSource(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location}
	}
	return &FileSource{Path: location}
}

type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]Product, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
	}

	return Decode(res.Body)
}

type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(_ context.Context) ([]Product, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a products document and checks the catalog invariants:
// unique non-empty ids, non-negative price and stock, rating within 0..5.
func Decode(r io.Reader) ([]Product, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	seen := make(map[string]struct{}, len(doc.Products))
	for i, p := range doc.Products {
		switch {
		case p.ID == "":
			return nil, fmt.Errorf("%w: product #%d has no id", ErrInvalidCatalog, i)
		case p.Price < 0:
			return nil, fmt.Errorf("%w: product %q has a negative price", ErrInvalidCatalog, p.ID)
		case p.Stock < 0:
			return nil, fmt.Errorf("%w: product %q has a negative stock", ErrInvalidCatalog, p.ID)
		case p.Rating < 0 || p.Rating > 5:
			return nil, fmt.Errorf("%w: product %q rating %.1f out of range", ErrInvalidCatalog, p.ID, p.Rating)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	if doc.Products == nil {
		doc.Products = []Product{}
	}
	return doc.Products, nil
}
