package product

// Product is a catalog entry as published in the static products document.
// A Price of 0 means the price is still to be confirmed.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Rating   float64 `json:"rating"`
	Image    string  `json:"image"`
}

func (p Product) PriceConfirmed() bool {
	return p.Price > 0
}

// Document is the static catalog file: {"products": [...]}.
type Document struct {
	Products []Product `json:"products"`
}

type State string

const (
	StateEmpty       State = "empty"
	StateReady       State = "ready"
	StateUnavailable State = "unavailable"
)

type Status struct {
	State State
	Count int
	Err   error
}
