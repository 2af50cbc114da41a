package store

import "sync/atomic"

// Clock stamps journal records with strictly increasing seq values.
type Clock interface {
	Next() int64
}

// LogicalClock is a monotonic logical clock for record ordering.
// It is safe for concurrent use.
type LogicalClock struct {
	seq atomic.Int64
}

// NewClockAt creates a clock whose next value is start+1.
// Used to resume after the last seq already journaled.
func NewClockAt(start int64) *LogicalClock {
	c := &LogicalClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}
