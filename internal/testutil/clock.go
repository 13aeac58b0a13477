package testutil

import (
	"sync"
	"time"
)

// StepClock hands out timestamps at a fixed step from a start time.
//
// The first call to Next returns start. Reset rewinds to start so the same
// fixture can be built twice with identical timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	n     int
}

// NewStepClock creates a clock starting at start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{start: start, step: step}
}

// Next returns the next timestamp.
func (c *StepClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Take returns the next n timestamps.
func (c *StepClock) Take(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = c.Next()
	}
	return out
}

// Count returns how many timestamps have been handed out.
func (c *StepClock) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Reset rewinds the clock to its start.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
