package cart

import (
	"context"
	"slices"
	"sync"

	"neoshop/internal/logger"
	"neoshop/internal/product"

	"go.uber.org/zap"
)

// Store is the session cart. The repository slot is the source of truth;
// the in-memory lines are a cache that every mutation writes back before
// returning. A failed write leaves both copies at their previous state.
type Store struct {
	mu    sync.Mutex
	repo  Repository
	lines []Line

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func NewStore(repo Repository) *Store {
	return &Store{
		repo:  repo,
		lines: []Line{},
		subs:  make(map[int]func(Event)),
	}
}

// Restore replaces the cache with the persisted cart. On a storage error
// the cart starts empty and the error is returned for logging.
func (s *Store) Restore(ctx context.Context) error {
	lines, err := s.repo.Load(ctx)

	s.mu.Lock()
	if err != nil {
		s.lines = []Line{}
	} else {
		s.lines = lines
	}
	ev := s.eventLocked(EventRestored, "")
	s.mu.Unlock()

	s.publish(ev)
	return err
}

// Persist writes the current cache to storage.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Save(ctx, s.lines)
}

// Add merges qty units of p into the cart, never exceeding p.Stock. Products
// without a confirmed price are accepted; gating them is up to the caller.
func (s *Store) Add(ctx context.Context, p product.Product, qty int) (Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "cart"),
		zap.String("method", "Add"),
		zap.String("product_id", p.ID),
		zap.Int("qty", qty),
	)

	switch {
	case qty < 1:
		return Line{}, ErrInvalidQuantity
	case p.Stock < 1:
		return Line{}, ErrOutOfStock
	}

	s.mu.Lock()
	next := slices.Clone(s.lines)
	i := slices.IndexFunc(next, func(l Line) bool { return l.ID == p.ID })
	if i >= 0 {
		next[i].Qty = min(next[i].Qty+qty, p.Stock)
	} else {
		next = append(next, Line{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Image: p.Image,
			Qty:   min(qty, p.Stock),
			Stock: p.Stock,
		})
		i = len(next) - 1
	}
	added := next[i]

	ev, err := s.commitLocked(ctx, next, EventAdded, p.ID)
	s.mu.Unlock()
	if err != nil {
		log.Error("failed to persist cart", zap.Error(err))
		return Line{}, err
	}

	log.Debug("product added", zap.Int("line_qty", added.Qty))
	s.publish(ev)
	return added, nil
}

// Remove deletes the line for id. An unknown id is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	next := slices.DeleteFunc(slices.Clone(s.lines), func(l Line) bool { return l.ID == id })
	ev, err := s.commitLocked(ctx, next, EventRemoved, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(ev)
	return nil
}

// SetQuantity clamps qty into [1, stock] for the line id. Unknown ids are
// ignored.
func (s *Store) SetQuantity(ctx context.Context, id string, qty int) error {
	s.mu.Lock()
	i := slices.IndexFunc(s.lines, func(l Line) bool { return l.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	next := slices.Clone(s.lines)
	next[i].Qty = clamp(qty, 1, next[i].Stock)

	ev, err := s.commitLocked(ctx, next, EventQuantity, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(ev)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	ev, err := s.commitLocked(ctx, []Line{}, EventCleared, "")
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(ev)
	return nil
}

// Drain hands a snapshot of the lines to fn and empties the cart when fn
// succeeds. The store stays locked throughout, so no mutation can land
// between the snapshot and the clear. fn must not call back into s.
func (s *Store) Drain(ctx context.Context, fn func(lines []Line) error) error {
	s.mu.Lock()
	if err := fn(slices.Clone(s.lines)); err != nil {
		s.mu.Unlock()
		return err
	}
	ev, err := s.commitLocked(ctx, []Line{}, EventCleared, "")
	s.mu.Unlock()
	if err != nil {
		logger.FromCtx(ctx).Error("failed to clear drained cart",
			zap.String("layer", "cart"),
			zap.String("method", "Drain"),
			zap.Error(err),
		)
		return err
	}

	s.publish(ev)
	return nil
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.lines)
}

func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.lines)
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

func (s *Store) Line(id string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// Subscribe registers fn for every change event. The returned func
// unregisters it.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) commitLocked(ctx context.Context, next []Line, kind EventKind, id string) (Event, error) {
	if err := s.repo.Save(ctx, next); err != nil {
		return Event{}, err
	}
	s.lines = next
	return s.eventLocked(kind, id), nil
}

func (s *Store) eventLocked(kind EventKind, id string) Event {
	return Event{
		Kind:  kind,
		ID:    id,
		Lines: slices.Clone(s.lines),
		Count: count(s.lines),
		Total: total(s.lines),
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func count(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Qty
	}
	return n
}

func total(lines []Line) float64 {
	t := 0.0
	for _, l := range lines {
		t += float64(l.Qty) * l.Price
	}
	return t
}
