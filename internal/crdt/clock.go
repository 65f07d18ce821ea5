package crdt

import (
	"sync"

	"github.com/google/uuid"
)

// Clock is a Lamport logical clock. Every local mutation is stamped from
// it, and every observed remote timestamp advances it, so last-write-wins
// comparisons order events without synchronized wall clocks.
type Clock struct {
	nodeID  string
	counter int64
	mu      sync.Mutex
}

// NewClock creates a clock with a fresh random node identity.
func NewClock() *Clock {
	return &Clock{nodeID: uuid.New().String()}
}

// NewClockWithNodeID creates a clock bound to an existing node identity,
// used when restoring device state after a restart.
func NewClockWithNodeID(nodeID string) *Clock {
	return &Clock{nodeID: nodeID}
}

// Tick advances the clock for a new local event and returns its timestamp.
func (c *Clock) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter++
	return c.counter
}

// Observe merges a remote timestamp into the clock:
// counter = max(counter, remote) + 1. Returns the advanced value.
func (c *Clock) Observe(remote int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remote > c.counter {
		c.counter = remote
	}
	c.counter++

	return c.counter
}

// Current returns the clock value without advancing it.
func (c *Clock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counter
}

// NodeID returns the node identity used for deterministic tie-breaking.
func (c *Clock) NodeID() string {
	return c.nodeID
}

// Restore sets the counter, used when loading persisted clock state.
func (c *Clock) Restore(counter int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter = counter
}
