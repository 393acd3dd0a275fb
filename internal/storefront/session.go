// Package storefront is one shopper's session: it wires the catalog, the
// cart and the order assembler to the notification channel the way the
// shop front reacts to user actions.
package storefront

import (
	"context"
	"errors"
	"time"

	"neoshop/internal/cart"
	"neoshop/internal/logger"
	"neoshop/internal/notify"
	"neoshop/internal/order"
	"neoshop/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Session struct {
	id       string
	catalog  *product.Catalog
	cart     *cart.Store
	orders   order.Service
	notifier notify.Notifier
	delay    time.Duration
}

type Option func(*Session)

// WithProcessingDelay sets the simulated payment wait.
func WithProcessingDelay(d time.Duration) Option {
	return func(s *Session) {
		s.delay = d
	}
}

func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

func New(catalog *product.Catalog, c *cart.Store, orders order.Service, n notify.Notifier, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		catalog:  catalog,
		cart:     c,
		orders:   orders,
		notifier: n,
		delay:    900 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// With returns a view of the session that reports through n. The stores
// are shared.
func (s *Session) With(n notify.Notifier) *Session {
	cp := *s
	cp.notifier = n
	return &cp
}

func (s *Session) ID() string                { return s.id }
func (s *Session) Cart() *cart.Store         { return s.cart }
func (s *Session) Catalog() *product.Catalog { return s.catalog }

// Context tags ctx with the session id for logging.
func (s *Session) Context(ctx context.Context) context.Context {
	return logger.WithSessionID(ctx, s.id)
}

// Start restores the persisted cart and loads the catalog. A catalog
// failure is reported to the shopper and leaves the catalog unavailable.
func (s *Session) Start(ctx context.Context) error {
	ctx = s.Context(ctx)
	log := logger.FromCtx(ctx)

	if err := s.cart.Restore(ctx); err != nil {
		log.Warn("cart restore failed, starting empty", zap.Error(err))
	}

	if err := s.catalog.Load(ctx); err != nil {
		s.notifier.Info(ctx, "Catalog unavailable", "Products could not be loaded. Try again later.")
		return err
	}
	return nil
}

func (s *Session) Browse(f product.FilterState) []product.Product {
	return s.catalog.Filter(f)
}

// Reset clears the search, shows every category and restores catalog order.
func (s *Session) Reset() []product.Product {
	return s.catalog.Filter(product.DefaultFilter())
}

func (s *Session) Categories() []string {
	return s.catalog.Categories()
}

// AddToCart adds qty units of a catalog product and acknowledges it. An id
// the catalog does not know is ignored and reported as not added. Products
// without a confirmed price cannot be added from the shop front.
func (s *Session) AddToCart(ctx context.Context, productID string, qty int) (cart.Line, bool, error) {
	ctx = s.Context(ctx)
	p, ok := s.catalog.Find(productID)
	if !ok {
		logger.FromCtx(ctx).Debug("add ignored, unknown product", zap.String("product_id", productID))
		return cart.Line{}, false, nil
	}
	if !p.PriceConfirmed() {
		return cart.Line{}, false, ErrPriceUnconfirmed
	}

	line, err := s.cart.Add(ctx, p, qty)
	if err != nil {
		return cart.Line{}, false, err
	}
	s.notifier.Success(ctx, "Added to cart")
	return line, true, nil
}

func (s *Session) SetQuantity(ctx context.Context, productID string, qty int) error {
	return s.cart.SetQuantity(s.Context(ctx), productID, qty)
}

// RemoveFromCart asks for confirmation first and reports whether the line
// was removed.
func (s *Session) RemoveFromCart(ctx context.Context, productID string) (bool, error) {
	ctx = s.Context(ctx)
	if _, ok := s.cart.Line(productID); !ok {
		return false, nil
	}

	ok, err := s.notifier.Confirm(ctx, notify.Confirmation{
		Title:        "Remove product?",
		ConfirmLabel: "Yes, remove",
		CancelLabel:  "Cancel",
	})
	if err != nil || !ok {
		return false, err
	}

	if err := s.cart.Remove(ctx, productID); err != nil {
		return false, err
	}
	return true, nil
}

// EmptyCart asks for confirmation and clears the cart. An empty cart is
// left alone without asking.
func (s *Session) EmptyCart(ctx context.Context) (bool, error) {
	ctx = s.Context(ctx)
	if s.cart.IsEmpty() {
		return false, nil
	}

	ok, err := s.notifier.Confirm(ctx, notify.Confirmation{
		Title:        "Empty cart",
		Text:         "This will remove all products.",
		ConfirmLabel: "Empty",
		CancelLabel:  "Cancel",
	})
	if err != nil || !ok {
		return false, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// BeginCheckout refuses to open checkout for an empty cart.
func (s *Session) BeginCheckout(ctx context.Context) error {
	if s.cart.IsEmpty() {
		s.notifier.Info(s.Context(ctx), "Your cart is empty", "Add products to continue.")
		return order.ErrEmptyCart
	}
	return nil
}

// Checkout validates the buyer, waits out the simulated payment, places the
// order and shows its summary. Nothing is written when validation fails.
func (s *Session) Checkout(ctx context.Context, form order.BuyerForm) (*order.Order, error) {
	ctx = s.Context(ctx)
	log := logger.FromCtx(ctx).With(zap.String("layer", "storefront"), zap.String("method", "Checkout"))

	if err := s.BeginCheckout(ctx); err != nil {
		return nil, err
	}

	if err := order.ValidateBuyer(&form); err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			s.notifier.ValidationError(ctx, verr.Title, verr.Text)
		}
		log.Info("checkout rejected", zap.Error(err))
		return nil, err
	}

	if err := s.processPayment(ctx); err != nil {
		return nil, err
	}

	o, err := s.orders.Submit(ctx, s.cart, form.Buyer)
	if o != nil {
		s.notifier.OrderSummary(ctx, o)
	}
	return o, err
}

func (s *Session) Orders(ctx context.Context) ([]order.Order, error) {
	return s.orders.History(s.Context(ctx))
}

func (s *Session) processPayment(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
