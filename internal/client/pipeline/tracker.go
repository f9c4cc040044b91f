package pipeline

import (
	"net/http"
	"slices"
	"strings"
	"sync"
)

// Tracker counts requests in flight. The counter never goes negative and
// subscribers hear only the transitions between idle and busy.
type Tracker struct {
	notifyMu sync.Mutex
	mu       sync.Mutex
	pending  int

	subs    map[int]func(loading bool)
	nextSub int

	metrics *Metrics
}

func NewTracker(m *Metrics) *Tracker {
	return &Tracker{subs: make(map[int]func(bool)), metrics: m}
}

// Begin counts one request and returns the func that uncounts it. The
// returned func is safe to call more than once; only the first call counts.
func (t *Tracker) Begin() (end func()) {
	t.add(1)
	var once sync.Once
	return func() { once.Do(func() { t.add(-1) }) }
}

func (t *Tracker) add(delta int) {
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	before := t.pending > 0
	t.pending += delta
	if t.pending < 0 {
		t.pending = 0
	}
	after := t.pending > 0
	n := t.pending
	t.mu.Unlock()

	t.metrics.setInFlight(n)

	if before != after {
		t.publish(after)
	}
}

func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

func (t *Tracker) Loading() bool {
	return t.Pending() > 0
}

// Subscribe registers fn for loading transitions and returns its
// unsubscribe func.
func (t *Tracker) Subscribe(fn func(loading bool)) func() {
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

func (t *Tracker) publish(loading bool) {
	t.mu.Lock()
	ids := make([]int, 0, len(t.subs))
	for id := range t.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(bool), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, t.subs[id])
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(loading)
	}
}

// Loading counts every request whose URL contains none of skip. The
// decrement is deferred, so it happens exactly once whether the request
// succeeds, fails, is cancelled or panics.
func Loading(t *Tracker, skip ...string) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		if shouldSkip(req.URL.String(), skip) {
			return next(req)
		}
		end := t.Begin()
		defer end()
		return next(req)
	}
}

func shouldSkip(u string, skip []string) bool {
	for _, s := range skip {
		if s != "" && strings.Contains(u, s) {
			return true
		}
	}
	return false
}
