package cart

// Line is one product in the cart. Name, Price, Image and Stock are copied
// from the product when it is first added. 1 <= Qty <= Stock always holds.
type Line struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Qty   int     `json:"qty"`
	Stock int     `json:"stock"`
}

func (l Line) Subtotal() float64 {
	return float64(l.Qty) * l.Price
}

type EventKind string

const (
	EventAdded    EventKind = "added"
	EventRemoved  EventKind = "removed"
	EventQuantity EventKind = "quantity"
	EventCleared  EventKind = "cleared"
	EventRestored EventKind = "restored"
)

// Event is published after a mutation has been persisted.
type Event struct {
	Kind  EventKind
	ID    string
	Lines []Line
	Count int
	Total float64
}
