// Package testutil provides deterministic collaborators for statebind tests.
package testutil

import "sync"

// DeterministicClock is a logical clock for tests. It satisfies
// store.Clock and can be rewound to its starting point, so two journals
// written through it get identical seq values.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	seq   int64
}

// NewDeterministicClock creates a clock whose first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// NewDeterministicClockFrom creates a clock whose first Next returns
// start+1, as if start records were already journaled.
func NewDeterministicClockFrom(start int64) *DeterministicClock {
	return &DeterministicClock{start: start, seq: start}
}

func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last value handed out by Next.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Rewind moves the clock back to where it was created.
func (c *DeterministicClock) Rewind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = c.start
}
