package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock stands still until Advance is called. Callbacks whose deadline
// is reached run synchronously inside Advance, in deadline order.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	callback func()
	done     bool
}

func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stopFunc: func() bool { return false }}
	}

	c.mu.Lock()
	w := &fakeWaiter{deadline: c.current.Add(d), callback: f}
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	return &Timer{stopFunc: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if w.done {
			return false
		}
		w.done = true
		return true
	}}
}

// Advance moves the clock forward by d and runs every due callback.
// Callbacks may schedule new timers; those fire too if they fall inside
// the advanced window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		sort.SliceStable(c.waiters, func(i, j int) bool {
			return c.waiters[i].deadline.Before(c.waiters[j].deadline)
		})

		var next *fakeWaiter
		pending := c.waiters[:0]
		for _, w := range c.waiters {
			if w.done {
				continue
			}
			if next == nil && !w.deadline.After(target) {
				next = w
				continue
			}
			pending = append(pending, w)
		}
		c.waiters = pending

		if next == nil {
			c.current = target
			c.mu.Unlock()
			return
		}
		next.done = true
		c.current = next.deadline
		c.mu.Unlock()

		next.callback()
	}
}

// Pending reports how many callbacks are still scheduled.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.waiters {
		if !w.done {
			n++
		}
	}
	return n
}
