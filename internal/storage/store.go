// Package storage holds the durable keyed string slots the cart and the
// order history are persisted in. Values are always read and written
// whole; there are no partial updates.
package storage

import (
	"context"
	"errors"
)

var (
	ErrEmptyKey      = errors.New("storage key is empty")
	ErrFailedGetSlot = errors.New("failed to read storage slot")
	ErrFailedSetSlot = errors.New("failed to write storage slot")
)

// Store is a whole-value key/value store.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
