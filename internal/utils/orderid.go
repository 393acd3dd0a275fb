package utils

import (
	"strconv"
	"sync"
	"time"
)

// OrderIDGenerator issues "N" + lowercase base36 millisecond ids. Ids from one
// generator are strictly increasing even when the clock stalls or steps
// back, so they are unique for the life of the session.
type OrderIDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewOrderIDGenerator(now func() time.Time) *OrderIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &OrderIDGenerator{now: now}
}

func (g *OrderIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return "N" + strconv.FormatInt(ms, 36)
}
