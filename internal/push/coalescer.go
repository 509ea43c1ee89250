package push

import (
	"sync"
	"time"
)

// DefaultCoalesceWindow is the quiet period a recipient's accumulator
// waits for before flushing. Short enough to feel immediate, long enough
// that a message burst wakes the constrained background context once.
const DefaultCoalesceWindow = 400 * time.Millisecond

// FlushFunc receives the single merged notification for a recipient when
// their window elapses.
type FlushFunc func(userID uint, n Notification)

type accumulator struct {
	items []Item
	timer *time.Timer
}

// Coalescer is a keyed debounce: one accumulator and one reset-on-arrival
// timer per recipient. Invariant: however many items arrive inside one
// window, the recipient gets exactly one flush.
type Coalescer struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[uint]*accumulator
	flush   FlushFunc
}

func NewCoalescer(window time.Duration, flush FlushFunc) *Coalescer {
	if window <= 0 {
		window = DefaultCoalesceWindow
	}
	return &Coalescer{
		window:  window,
		entries: make(map[uint]*accumulator),
		flush:   flush,
	}
}

// Add appends an item to the recipient's accumulator and restarts their
// window.
func (c *Coalescer) Add(userID uint, item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok {
		entry = &accumulator{}
		c.entries[userID] = entry
	}
	entry.items = append(entry.items, item)

	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.timer = time.AfterFunc(c.window, func() {
		c.flushUser(userID)
	})
}

// PendingCount reports how many items a recipient has accumulated.
func (c *Coalescer) PendingCount(userID uint) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[userID]; ok {
		return len(entry.items)
	}
	return 0
}

func (c *Coalescer) flushUser(userID uint) {
	c.mu.Lock()
	entry, ok := c.entries[userID]
	if !ok || len(entry.items) == 0 {
		c.mu.Unlock()
		return
	}
	items := entry.items
	// Timer already fired; drop the accumulator so no handle leaks.
	delete(c.entries, userID)
	c.mu.Unlock()

	c.flush(userID, buildNotification(items))
}

// Stop tears down all pending timers without flushing.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for userID, entry := range c.entries {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(c.entries, userID)
	}
}
