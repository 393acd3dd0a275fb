package product

import "errors"

var (
	// -- Catalog source --
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrInvalidCatalog     = errors.New("invalid catalog document")
	ErrUnexpectedStatus   = errors.New("unexpected catalog response status")

	// -- Lookup --
	ErrProductNotFound = errors.New("product not found")
)
