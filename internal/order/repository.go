package order

import (
	"context"
	"encoding/json"
	"fmt"

	"neoshop/internal/logger"
	"neoshop/internal/storage"

	"go.uber.org/zap"
)

// StorageKey is the slot the order history lives in.
const StorageKey = "neoshop.orders"

type Repository interface {
	List(ctx context.Context) ([]Order, error)
	Append(ctx context.Context, o Order) error
}

type repository struct {
	store storage.Store
}

func NewRepository(store storage.Store) Repository {
	return &repository{store: store}
}

// List returns the history oldest first. An unparsable slot reads as an
// empty history.
func (r *repository) List(ctx context.Context) ([]Order, error) {
	raw, ok, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadHistory, err)
	}
	if !ok || raw == "" {
		return []Order{}, nil
	}

	var orders []Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		logger.FromCtx(ctx).Warn("stored order history is malformed, treating as empty",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return []Order{}, nil
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// Append loads the whole history, adds o and writes it back. There is a
// single writer per session, so no locking across the read and the write.
func (r *repository) Append(ctx context.Context, o Order) error {
	history, err := r.List(ctx)
	if err != nil {
		return err
	}
	history = append(history, o)

	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveOrder, err)
	}
	if err := r.store.Set(ctx, StorageKey, string(raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveOrder, err)
	}
	return nil
}
