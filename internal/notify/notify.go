// Package notify is the channel the storefront reports outcomes through
// and asks the shopper to confirm destructive actions.
package notify

import (
	"context"

	"neoshop/internal/order"
)

// Confirmation describes a destructive action awaiting a yes/no answer.
type Confirmation struct {
	Title        string
	Text         string
	ConfirmLabel string
	CancelLabel  string
}

type Notifier interface {
	// Success is brief and dismisses itself.
	Success(ctx context.Context, title string)
	Info(ctx context.Context, title, text string)
	ValidationError(ctx context.Context, title, text string)
	// Confirm blocks until the shopper answers or ctx is done. Callers
	// must not proceed unless it returns true with a nil error.
	Confirm(ctx context.Context, c Confirmation) (bool, error)
	OrderSummary(ctx context.Context, o *order.Order)
}
