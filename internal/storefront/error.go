package storefront

import "errors"

var (
	// ErrPriceUnconfirmed blocks adding a product whose price is still
	// "to be confirmed"; the shop front offers no add action for it.
	ErrPriceUnconfirmed = errors.New("product price is not confirmed yet")
)
