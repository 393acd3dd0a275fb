package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"neoshop/internal/logger"
	"neoshop/internal/storage"

	"go.uber.org/zap"
)

// StorageKey is the slot the cart lines live in.
const StorageKey = "neoshop.cart"

type Repository interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

type repository struct {
	store storage.Store
}

func NewRepository(store storage.Store) Repository {
	return &repository{store: store}
}

// Load returns the persisted lines. A missing or unparsable slot is an
// empty cart, not an error; only storage failures are reported.
func (r *repository) Load(ctx context.Context) ([]Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "LoadCart"),
	)

	raw, ok, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadCart, err)
	}
	if !ok || raw == "" || raw == "null" {
		return []Line{}, nil
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		log.Warn("stored cart is malformed, starting empty", zap.Error(err))
		return []Line{}, nil
	}

	return sanitize(lines), nil
}

func (r *repository) Save(ctx context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	if err := r.store.Set(ctx, StorageKey, string(raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	return nil
}

// sanitize re-establishes the cart invariants on data read back from
// storage: unique ids and 1 <= qty <= stock.
func sanitize(in []Line) []Line {
	out := make([]Line, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, l := range in {
		if l.ID == "" || l.Stock < 1 {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		l.Qty = clamp(l.Qty, 1, l.Stock)
		out = append(out, l)
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
