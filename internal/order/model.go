package order

import "time"

type Buyer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Payment  string `json:"payment"`
	Delivery string `json:"delivery"`
}

// BuyerForm is what the checkout form collects.
type BuyerForm struct {
	Buyer
	TermsAccepted bool `json:"terms"`
}

type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

func (i Item) Subtotal() float64 {
	return float64(i.Qty) * i.Price
}

// Order is immutable once appended to the history.
type Order struct {
	ID    string    `json:"id"`
	When  time.Time `json:"when"`
	Buyer Buyer     `json:"buyer"`
	Items []Item    `json:"items"`
	Total float64   `json:"total"`
}
