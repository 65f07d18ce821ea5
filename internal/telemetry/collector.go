// Package telemetry observes sync engine events and maintains rolling
// aggregates over a fixed time window. Recording is non-blocking and
// best-effort: the collector must never slow down a drain cycle.
package telemetry

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// EventKind identifies what the sync engine observed.
type EventKind string

const (
	EventSuccess          EventKind = "success"
	EventTransientFailure EventKind = "transient_failure"
	EventPermanentFailure EventKind = "permanent_failure"
	EventConflict         EventKind = "conflict"
	EventStoreFailure     EventKind = "store_failure"
	EventDeadLetter       EventKind = "dead_letter"
	EventCircuitOpen      EventKind = "circuit_open"
	EventCircuitHalfOpen  EventKind = "circuit_half_open"
	EventCircuitClosed    EventKind = "circuit_closed"
	EventCycleSkipped     EventKind = "cycle_skipped"
	EventQueueDepth       EventKind = "queue_depth"
)

// Event is one sync engine observation.
type Event struct {
	At       time.Time
	Kind     EventKind
	UserID   string
	Duration time.Duration // attempt latency, set on success/failure/conflict
	Depth    int           // set on queue depth events
}

// Listener receives every event the collector accepts. Listeners run on
// the collector goroutine and must be fast.
type Listener func(Event)

// Defaults
const (
	DefaultWindow     = 5 * time.Minute
	DefaultRingSize   = 1000
	DefaultBufferSize = 256
)

// Snapshot is a read-only view of the rolling aggregates.
type Snapshot struct {
	TakenAt time.Time

	// Outcome rates over the window, denominated in attempts
	Attempts       int
	SuccessRate    float64
	RetryRate      float64
	ConflictRate   float64
	DeadLetterRate float64

	// Local persistence failures after a remote apply. Tracked apart from
	// the remote outcomes: they say nothing about endpoint health.
	StoreFailures int

	// Latency percentiles in milliseconds
	LatencyP50 float64
	LatencyP95 float64
	LatencyP99 float64

	// Circuit breaker behavior
	CircuitTrips     int
	MeanRecoveryMs   float64
	CyclesSkipped    int

	// Queue depth over the window
	QueueDepthCurrent int
	QueueDepthAvg     float64
	QueueDepthMax     int

	// Events dropped because the buffer was full
	Dropped int64
}

// Collector aggregates sync engine events into rolling metrics.
// It owns a single goroutine between Start and Stop; Record never blocks.
type Collector struct {
	logger *slog.Logger

	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Int64

	window time.Duration

	mu         sync.RWMutex
	outcomes   map[EventKind]*ring
	latencies  *ring
	depths     *ring
	recoveries *ring
	skips      *ring
	trips      *ring
	storeFails *ring
	openedAt   time.Time
	depthNow   int
	listeners  []Listener
}

// NewCollector creates a collector with the default window and capacities.
func NewCollector(logger *slog.Logger) *Collector {
	c := &Collector{
		logger:     logger,
		events:     make(chan Event, DefaultBufferSize),
		done:       make(chan struct{}),
		window:     DefaultWindow,
		latencies:  newRing(DefaultRingSize),
		depths:     newRing(DefaultRingSize),
		recoveries: newRing(DefaultRingSize),
		skips:      newRing(DefaultRingSize),
		trips:      newRing(DefaultRingSize),
		storeFails: newRing(DefaultRingSize),
		outcomes:   make(map[EventKind]*ring),
	}
	for _, kind := range []EventKind{EventSuccess, EventTransientFailure, EventPermanentFailure, EventConflict, EventDeadLetter} {
		c.outcomes[kind] = newRing(DefaultRingSize)
	}
	return c
}

// Subscribe registers a push-model listener. Must be called before Start.
func (c *Collector) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Start launches the aggregation goroutine.
func (c *Collector) Start() {
	c.wg.Add(1)
	go c.loop()
}

// Stop drains buffered events and stops the goroutine.
func (c *Collector) Stop() {
	close(c.done)
	c.wg.Wait()

	if dropped := c.dropped.Load(); dropped > 0 {
		c.logger.Warn("telemetry events dropped", "count", dropped)
	}
}

// Record hands an event to the collector. Best-effort: when the buffer is
// full the event is counted as dropped instead of blocking the caller.
func (c *Collector) Record(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	select {
	case c.events <- e:
	default:
		c.dropped.Add(1)
	}
}

func (c *Collector) loop() {
	defer c.wg.Done()
	for {
		select {
		case e := <-c.events:
			c.apply(e)
		case <-c.done:
			// Drain what is already buffered before exiting
			for {
				select {
				case e := <-c.events:
					c.apply(e)
				default:
					return
				}
			}
		}
	}
}

func (c *Collector) apply(e Event) {
	c.mu.Lock()
	listeners := c.listeners

	switch e.Kind {
	case EventSuccess, EventTransientFailure, EventPermanentFailure, EventConflict, EventDeadLetter:
		c.outcomes[e.Kind].push(sample{at: e.At, value: 1})
		if e.Duration > 0 {
			c.latencies.push(sample{at: e.At, value: float64(e.Duration.Milliseconds())})
		}
	case EventCircuitOpen:
		c.trips.push(sample{at: e.At, value: 1})
		c.openedAt = e.At
	case EventCircuitClosed:
		if !c.openedAt.IsZero() {
			c.recoveries.push(sample{at: e.At, value: float64(e.At.Sub(c.openedAt).Milliseconds())})
			c.openedAt = time.Time{}
		}
	case EventStoreFailure:
		c.storeFails.push(sample{at: e.At, value: 1})
	case EventCircuitHalfOpen:
		// Transitional, nothing to aggregate
	case EventCycleSkipped:
		c.skips.push(sample{at: e.At, value: 1})
	case EventQueueDepth:
		c.depthNow = e.Depth
		c.depths.push(sample{at: e.At, value: float64(e.Depth)})
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}

// Snapshot computes the rolling aggregates over the window.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	cutoff := now.Add(-c.window)

	successes := len(c.outcomes[EventSuccess].since(cutoff))
	transients := len(c.outcomes[EventTransientFailure].since(cutoff))
	permanents := len(c.outcomes[EventPermanentFailure].since(cutoff))
	conflicts := len(c.outcomes[EventConflict].since(cutoff))
	deadLetters := len(c.outcomes[EventDeadLetter].since(cutoff))

	attempts := successes + transients + permanents + conflicts

	snap := Snapshot{
		TakenAt:           now,
		Attempts:          attempts,
		StoreFailures:     len(c.storeFails.since(cutoff)),
		CircuitTrips:      len(c.trips.since(cutoff)),
		CyclesSkipped:     len(c.skips.since(cutoff)),
		QueueDepthCurrent: c.depthNow,
		Dropped:           c.dropped.Load(),
	}

	if attempts > 0 {
		// Conflicts are resolved deterministically, they count as
		// successful applications rather than failures
		snap.SuccessRate = float64(successes+conflicts) / float64(attempts)
		snap.RetryRate = float64(transients) / float64(attempts)
		snap.ConflictRate = float64(conflicts) / float64(attempts)
		snap.DeadLetterRate = float64(deadLetters) / float64(attempts)
	} else {
		snap.SuccessRate = 1.0
	}

	latencies := c.latencies.since(cutoff)
	snap.LatencyP50 = percentile(latencies, 0.50)
	snap.LatencyP95 = percentile(latencies, 0.95)
	snap.LatencyP99 = percentile(latencies, 0.99)

	if recoveries := c.recoveries.since(cutoff); len(recoveries) > 0 {
		var total float64
		for _, r := range recoveries {
			total += r
		}
		snap.MeanRecoveryMs = total / float64(len(recoveries))
	}

	if depths := c.depths.since(cutoff); len(depths) > 0 {
		var total float64
		max := 0.0
		for _, d := range depths {
			total += d
			if d > max {
				max = d
			}
		}
		snap.QueueDepthAvg = total / float64(len(depths))
		snap.QueueDepthMax = int(max)
	}

	return snap
}

// percentile returns the p-th percentile of values, 0 when empty.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}
