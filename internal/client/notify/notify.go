// Package notify is the notification sink: transient messages by category
// with auto-expiry and duplicate suppression. Rendering is left to
// subscribers.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/clock"
	"github.com/google/uuid"
)

type Category string

const (
	Success Category = "success"
	Error   Category = "error"
	Info    Category = "info"
	Warning Category = "warning"
)

const (
	DefaultTimeout  = 4500 * time.Millisecond
	DefaultCooldown = 1500 * time.Millisecond
)

// Message is one queued notification. A zero Timeout means it stays until
// dismissed.
type Message struct {
	ID        string
	Category  Category
	Text      string
	Timeout   time.Duration
	CreatedAt time.Time
}

type Center struct {
	mu       sync.Mutex
	messages []Message // newest first
	timers   map[string]*clock.Timer
	lastSent map[string]time.Time

	notifyMu sync.Mutex
	subs     map[int]func([]Message)
	nextSub  int

	clock    clock.Clock
	timeout  time.Duration
	cooldown time.Duration
	newID    func() string
}

type Option func(*Center)

func WithClock(c clock.Clock) Option { return func(n *Center) { n.clock = c } }

func WithTimeout(d time.Duration) Option { return func(n *Center) { n.timeout = d } }

func WithCooldown(d time.Duration) Option { return func(n *Center) { n.cooldown = d } }

func NewCenter(opts ...Option) *Center {
	c := &Center{
		timers:   make(map[string]*clock.Timer),
		lastSent: make(map[string]time.Time),
		subs:     make(map[int]func([]Message)),
		clock:    clock.Real(),
		timeout:  DefaultTimeout,
		cooldown: DefaultCooldown,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func dedupKey(category Category, text string) string {
	return string(category) + "|" + text
}

// Publish queues text under category and returns the message ID. The same
// category and text published again within the cooldown window is dropped
// and "" is returned. timeout 0 selects the default; a negative timeout
// keeps the message until it is dismissed.
func (c *Center) Publish(category Category, text string, timeout time.Duration) string {
	switch {
	case timeout == 0:
		timeout = c.timeout
	case timeout < 0:
		timeout = 0
	}

	c.mu.Lock()
	now := c.clock.Now()
	key := dedupKey(category, text)
	if last, ok := c.lastSent[key]; ok && now.Sub(last) < c.cooldown {
		c.mu.Unlock()
		return ""
	}
	c.lastSent[key] = now
	c.pruneCooldowns(now)

	msg := Message{ID: c.newID(), Category: category, Text: text, Timeout: timeout, CreatedAt: now}
	c.messages = append([]Message{msg}, c.messages...)
	c.mu.Unlock()

	if timeout > 0 {
		id := msg.ID
		t := c.clock.AfterFunc(timeout, func() { c.Dismiss(id) })
		c.mu.Lock()
		if c.indexOf(id) >= 0 {
			c.timers[id] = t
		}
		c.mu.Unlock()
	}

	c.publish()
	return msg.ID
}

// pruneCooldowns forgets keys whose window has closed. Caller holds mu.
func (c *Center) pruneCooldowns(now time.Time) {
	for k, at := range c.lastSent {
		if now.Sub(at) >= c.cooldown {
			delete(c.lastSent, k)
		}
	}
}

func (c *Center) Success(text string) string { return c.Publish(Success, text, 0) }
func (c *Center) Error(text string) string   { return c.Publish(Error, text, 0) }
func (c *Center) Info(text string) string    { return c.Publish(Info, text, 0) }
func (c *Center) Warning(text string) string { return c.Publish(Warning, text, 0) }

func (c *Center) indexOf(id string) int {
	return slices.IndexFunc(c.messages, func(m Message) bool { return m.ID == id })
}

// Dismiss removes the message with id. Unknown IDs are ignored.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.messages = slices.Delete(c.messages, i, i+1)
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	c.publish()
}

// Clear removes every message and stops their timers.
func (c *Center) Clear() {
	c.mu.Lock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.messages = nil
	c.mu.Unlock()

	c.publish()
}

// Messages returns a copy of the queue, newest first.
func (c *Center) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

// Subscribe registers fn to receive the queue after every change.
func (c *Center) Subscribe(fn func([]Message)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Center) publish() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	snapshot := slices.Clone(c.messages)
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func([]Message), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.subs[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(snapshot))
	}
}
