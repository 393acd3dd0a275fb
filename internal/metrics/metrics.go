// Package metrics keeps in-process counters for the storefront and serves
// them as JSON.
package metrics

import (
	"maps"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"neoshop/internal/cart"
	"neoshop/internal/utils"
)

type Counter struct {
	value atomic.Uint64
}

func (c *Counter) Inc() {
	c.value.Add(1)
}

func (c *Counter) Add(n uint64) {
	c.value.Add(n)
}

func (c *Counter) Load() uint64 {
	return c.value.Load()
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry holds named counters, created on first use.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*Counter
	started  time.Time
}

func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]*Counter), started: time.Now()}
}

func (r *Registry) Counter(name string) *Counter {
	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c = &Counter{}
	r.counters[name] = c
	return c
}

// Snapshot copies every counter value.
func (r *Registry) Snapshot() map[string]uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]uint64, len(r.counters))
	for name, c := range r.counters {
		out[name] = c.Load()
	}
	return out
}

// ObserveCart counts cart changes by kind. Pass it to cart.Store.Subscribe.
func (r *Registry) ObserveCart(ev cart.Event) {
	r.Counter("cart_" + string(ev.Kind)).Inc()
}

// ObserveReload counts catalog reload attempts and failures.
func (r *Registry) ObserveReload(err error) {
	r.Counter("catalog_reloads").Inc()
	if err != nil {
		r.Counter("catalog_reload_failures").Inc()
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests by status class and accumulates their
// duration in microseconds.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t := StartTimer()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, req)

		r.Counter("http_requests").Inc()
		r.Counter("http_" + statusClass(sw.status)).Inc()
		r.Counter("http_duration_us").Add(uint64(t.Duration().Microseconds()))
	})
}

type snapshotResponse struct {
	UptimeSeconds int64             `json:"uptime_seconds"`
	Names         []string          `json:"names"`
	Counters      map[string]uint64 `json:"counters"`
}

func (r *Registry) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	snap := r.Snapshot()
	utils.WriteJSON(w, http.StatusOK, snapshotResponse{
		UptimeSeconds: int64(time.Since(r.started).Seconds()),
		Names:         slices.Sorted(maps.Keys(snap)),
		Counters:      snap,
	})
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
