package product

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"neoshop/internal/logger"

	"go.uber.org/zap"
)

// Catalog holds the full product list and the current filtered view. It is
// repopulated wholesale on every Load.
type Catalog struct {
	mu       sync.RWMutex
	source   Source
	engine   *Engine
	all      []Product
	filtered []Product
	filter   FilterState
	state    State
	loadErr  error
}

func NewCatalog(source Source, engine *Engine) *Catalog {
	if engine == nil {
		engine = NewEngine("es")
	}
	return &Catalog{
		source:   source,
		engine:   engine,
		all:      []Product{},
		filtered: []Product{},
		filter:   DefaultFilter(),
		state:    StateEmpty,
	}
}

// Load fetches the catalog from its source. On failure the previous
// products are dropped and the catalog reports StateUnavailable, so callers
// never mistake a failed load for an empty shop.
func (c *Catalog) Load(ctx context.Context) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "catalog"),
		zap.String("method", "Load"),
	)
	start := time.Now()

	products, err := c.source.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.all = []Product{}
		c.filtered = []Product{}
		c.state = StateUnavailable
		c.loadErr = err
		log.Error("catalog load failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	c.all = products
	c.filtered = c.engine.Apply(c.all, c.filter)
	c.state = StateReady
	c.loadErr = nil

	log.Info("catalog loaded",
		zap.Int("products", len(products)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Filter applies f, remembers it as the current view and returns it.
func (c *Catalog) Filter(f FilterState) []Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter = f
	c.filtered = c.engine.Apply(c.all, f)
	return slices.Clone(c.filtered)
}

func (c *Catalog) Filtered() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.filtered)
}

func (c *Catalog) CurrentFilter() FilterState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

func (c *Catalog) All() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.all)
}

func (c *Catalog) Find(id string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.all {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Categories(c.all)
}

func (c *Catalog) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{State: c.state, Count: len(c.all), Err: c.loadErr}
}
