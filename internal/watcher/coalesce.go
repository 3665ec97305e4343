package watcher

import (
	"sync"
	"time"

	"snajper/internal/domain"
)

type pendingEvent struct {
	event domain.ChangeEvent
	timer *time.Timer
	gen   uint64
}

// Coalescer collapses bursts of events for the same path
type Coalescer struct {
	window time.Duration
	out    chan domain.ChangeEvent
	done   chan struct{}

	mu      sync.Mutex
	pending map[string]*pendingEvent
	gen     uint64
	closed  bool
	flushes sync.WaitGroup
}

// NewCoalescer creates a Coalescer that forwards a path once it has been quiet
// for window
func NewCoalescer(window time.Duration) *Coalescer {
	return &Coalescer{
		window:  window,
		out:     make(chan domain.ChangeEvent, 64),
		done:    make(chan struct{}),
		pending: make(map[string]*pendingEvent),
	}
}

// Events returns the channel of coalesced events. It is closed by Close.
func (c *Coalescer) Events() <-chan domain.ChangeEvent {
	return c.out
}

// Add records an event. The latest event for a path replaces earlier ones and
// restarts its window.
func (c *Coalescer) Add(ev domain.ChangeEvent) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.window <= 0 {
		c.flushes.Add(1)
		c.mu.Unlock()
		c.send(ev)
		return
	}

	c.gen++
	gen := c.gen
	if p, ok := c.pending[ev.Path]; ok {
		if p.timer.Stop() {
			c.flushes.Done()
		}
	}
	c.flushes.Add(1)
	c.pending[ev.Path] = &pendingEvent{
		event: ev,
		gen:   gen,
		timer: time.AfterFunc(c.window, func() { c.flush(ev.Path, gen) }),
	}
	c.mu.Unlock()
}

// Pending returns the number of paths waiting for their window to pass
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close drops pending events and closes the output channel
func (c *Coalescer) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for path, p := range c.pending {
		if p.timer.Stop() {
			c.flushes.Done()
		}
		delete(c.pending, path)
	}
	close(c.done)
	c.mu.Unlock()

	c.flushes.Wait()
	close(c.out)
}

// flush forwards the event for path unless a newer one replaced it
func (c *Coalescer) flush(path string, gen uint64) {
	c.mu.Lock()
	p, ok := c.pending[path]
	if !ok || p.gen != gen || c.closed {
		c.mu.Unlock()
		c.flushes.Done()
		return
	}
	delete(c.pending, path)
	c.mu.Unlock()

	c.send(p.event)
}

// send delivers ev unless the coalescer is closing; it balances one flushes.Add
func (c *Coalescer) send(ev domain.ChangeEvent) {
	defer c.flushes.Done()
	select {
	case c.out <- ev:
	case <-c.done:
	}
}
