package sync

import (
	"sync"
	"time"
)

// CircuitState is the state of the per-endpoint circuit breaker.
type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitOpen     CircuitState = "open"
	CircuitHalfOpen CircuitState = "half-open"
)

// Default breaker tuning
const (
	DefaultBreakerThreshold = 5
	DefaultBreakerCooldown  = 30 * time.Second
)

// Breaker guards the remote endpoint: after a run of consecutive
// transient failures it opens and drain cycles stop calling the remote
// until the cool-down elapses. The first cycle after the cool-down is a
// half-open trial; its outcome closes or re-opens the circuit.
//
// The breaker is shared by every user's drain cycle hitting the same
// endpoint, so all transitions happen under one mutex.
type Breaker struct {
	mu        sync.Mutex
	state     CircuitState
	failures  int
	threshold int
	cooldown  time.Duration
	openedAt  time.Time
	trialBusy bool
	onChange  func(from, to CircuitState)
	now       func() time.Time
}

// NewBreaker creates a closed breaker. onChange is invoked (under the
// breaker lock) on every state transition; pass nil to ignore them.
func NewBreaker(threshold int, cooldown time.Duration, onChange func(from, to CircuitState)) *Breaker {
	if threshold <= 0 {
		threshold = DefaultBreakerThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultBreakerCooldown
	}
	return &Breaker{
		state:     CircuitClosed,
		threshold: threshold,
		cooldown:  cooldown,
		onChange:  onChange,
		now:       time.Now,
	}
}

// Allow reports whether a drain cycle may call the remote right now.
// While open it returns false until the cool-down elapses, then admits
// exactly one half-open trial cycle at a time.
func (b *Breaker) Allow() (bool, CircuitState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed:
		return true, CircuitClosed

	case CircuitOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false, CircuitOpen
		}
		b.transition(CircuitHalfOpen)
		b.trialBusy = true
		return true, CircuitHalfOpen

	default: // half-open
		if b.trialBusy {
			return false, CircuitHalfOpen
		}
		b.trialBusy = true
		return true, CircuitHalfOpen
	}
}

// CancelTrial hands back an unused half-open trial slot. A cycle that
// Allow admitted but that ended without a remote attempt must call it;
// otherwise the slot stays busy and no trial ever runs.
func (b *Breaker) CancelTrial() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitHalfOpen {
		b.trialBusy = false
	}
}

// RecordSuccess resets the failure run; a successful half-open trial
// closes the circuit.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state == CircuitHalfOpen {
		b.trialBusy = false
		b.transition(CircuitClosed)
	}
}

// RecordFailure counts a transient failure. Crossing the threshold opens
// the circuit; a failed half-open trial re-opens it immediately.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++

	switch b.state {
	case CircuitHalfOpen:
		b.trialBusy = false
		b.openedAt = b.now()
		b.transition(CircuitOpen)
	case CircuitClosed:
		if b.failures >= b.threshold {
			b.openedAt = b.now()
			b.transition(CircuitOpen)
		}
	}
}

// State returns the current circuit state.
func (b *Breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transition(to CircuitState) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if b.onChange != nil {
		b.onChange(from, to)
	}
}
