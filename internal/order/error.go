package order

import "errors"

var (
	// -- Validation & Input --
	ErrValidation = errors.New("invalid buyer details")
	ErrEmptyCart  = errors.New("cart is empty")

	// -- Persistence --
	ErrFailedLoadHistory = errors.New("failed to load order history")
	ErrFailedSaveOrder   = errors.New("failed to save order")
	ErrFailedClearCart   = errors.New("order saved but cart was not cleared")
)

// ValidationError carries the message shown to the buyer.
type ValidationError struct {
	Title string
	Text  string
}

func (e *ValidationError) Error() string {
	if e.Text == "" {
		return e.Title
	}
	return e.Title + ": " + e.Text
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
