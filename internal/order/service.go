package order

import (
	"context"
	"fmt"
	"time"

	"neoshop/internal/cart"
	"neoshop/internal/logger"
	"neoshop/internal/utils"

	"go.uber.org/zap"
)

// Cart is the part of the cart store the assembler needs. Drain must run
// fn on a snapshot and clear the cart only if fn succeeds, with no other
// mutation in between.
type Cart interface {
	Drain(ctx context.Context, fn func(lines []cart.Line) error) error
}

type Service interface {
	// Submit snapshots the cart and buyer into a new order, appends it to
	// the history and clears the cart. The buyer is not validated here.
	Submit(ctx context.Context, c Cart, buyer Buyer) (*Order, error)
	History(ctx context.Context) ([]Order, error)
}

type service struct {
	repo Repository
	ids  *utils.OrderIDGenerator
	now  func() time.Time
}

type Option func(*service)

// WithClock replaces time.Now for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) Service {
	s := &service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = utils.NewOrderIDGenerator(s.now)
	return s
}

func (s *service) Submit(ctx context.Context, c Cart, buyer Buyer) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SubmitOrder"),
	)

	var (
		o        *Order
		appended bool
	)
	err := c.Drain(ctx, func(lines []cart.Line) error {
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		o = &Order{
			ID:    s.ids.Next(),
			When:  s.now().UTC(),
			Buyer: buyer,
			Items: make([]Item, 0, len(lines)),
		}
		for _, l := range lines {
			o.Items = append(o.Items, Item{ID: l.ID, Name: l.Name, Qty: l.Qty, Price: l.Price})
			o.Total += l.Subtotal()
		}

		if err := s.repo.Append(ctx, *o); err != nil {
			log.Error("failed to append order", zap.String("order_id", o.ID), zap.Error(err))
			return err
		}
		appended = true
		return nil
	})

	switch {
	case err != nil && appended:
		log.Error("failed to clear cart after order", zap.String("order_id", o.ID), zap.Error(err))
		return o, fmt.Errorf("%w: %v", ErrFailedClearCart, err)
	case err != nil:
		return nil, err
	}

	log.Info("order submitted",
		zap.String("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.Float64("total", o.Total),
	)
	return o, nil
}

func (s *service) History(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}
