// Package sync implements the engine that drains the durable mutation
// queue against the remote endpoint, applying retry, backoff,
// circuit-breaker and conflict-resolution policy. All remote and local
// instability is converted into a classified outcome here; nothing
// propagates past the engine unclassified.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	httpClient "github.com/HelyeFab/moshimoshi-sub017/internal/client/api"
	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
	"github.com/HelyeFab/moshimoshi-sub017/internal/crdt"
	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
	"github.com/HelyeFab/moshimoshi-sub017/internal/telemetry"
)

// Default engine tuning
const (
	DefaultBatchSize          = 25
	DefaultRemoteTimeout      = 15 * time.Second
	DefaultStoreRetryInterval = 100 * time.Millisecond
	DefaultStoreRetryAttempts = 3
)

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	BatchSize     int
	RemoteTimeout time.Duration

	// Backoff applied to transiently failed mutations: base * 2^attempts,
	// capped, with jitter.
	BackoffBase time.Duration
	BackoffMax  time.Duration

	// Local persistence failures retry at a tighter interval than remote
	// errors; the remote call is never repeated for them inside a cycle.
	StoreRetryInterval time.Duration
	StoreRetryAttempts int
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.RemoteTimeout <= 0 {
		c.RemoteTimeout = DefaultRemoteTimeout
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = DefaultBackoffBase
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = DefaultBackoffMax
	}
	if c.StoreRetryInterval <= 0 {
		c.StoreRetryInterval = DefaultStoreRetryInterval
	}
	if c.StoreRetryAttempts <= 0 {
		c.StoreRetryAttempts = DefaultStoreRetryAttempts
	}
	return c
}

// CycleResult summarizes one drain cycle for a user.
type CycleResult struct {
	Applied      int
	Conflicts    int
	Transient    int
	DeadLettered int
	Released     int
	Skipped      bool // circuit open, no remote calls attempted
}

// Engine drains the mutation queue against the remote endpoint.
type Engine struct {
	queue     storage.MutationQueue
	items     storage.ItemStore
	remote    httpClient.RemoteEndpoint
	breaker   *Breaker
	collector *telemetry.Collector
	clock     *crdt.Clock
	logger    *slog.Logger
	cfg       Config

	// Draining is serialized per user; cycles for different users run
	// concurrently.
	userLocks stdsync.Map // userID -> *stdsync.Mutex
}

// NewEngine creates a sync engine. The breaker is shared across every
// user's drain cycle because it guards one remote endpoint.
func NewEngine(
	queue storage.MutationQueue,
	items storage.ItemStore,
	remote httpClient.RemoteEndpoint,
	collector *telemetry.Collector,
	clock *crdt.Clock,
	logger *slog.Logger,
	cfg Config,
) *Engine {
	e := &Engine{
		queue:     queue,
		items:     items,
		remote:    remote,
		collector: collector,
		clock:     clock,
		logger:    logger,
		cfg:       cfg.withDefaults(),
	}
	e.breaker = NewBreaker(DefaultBreakerThreshold, DefaultBreakerCooldown, e.onCircuitChange)
	return e
}

// Breaker exposes the circuit breaker, read-only use only.
func (e *Engine) Breaker() *Breaker {
	return e.breaker
}

func (e *Engine) onCircuitChange(from, to CircuitState) {
	e.logger.Warn("circuit state changed", "from", from, "to", to)

	kind := telemetry.EventCircuitClosed
	switch to {
	case CircuitOpen:
		kind = telemetry.EventCircuitOpen
	case CircuitHalfOpen:
		kind = telemetry.EventCircuitHalfOpen
	}
	e.collector.Record(telemetry.Event{Kind: kind})
}

// DrainUser runs one drain cycle for a user: dequeues a batch and applies
// each mutation to the remote in FIFO order. Returns an error only for
// queue-level failures; per-mutation outcomes land in the result.
func (e *Engine) DrainUser(ctx context.Context, userID string) (*CycleResult, error) {
	lock := e.userLock(userID)
	if !lock.TryLock() {
		// Another cycle is draining this user; the next tick catches up
		return &CycleResult{Skipped: true}, nil
	}
	defer lock.Unlock()

	result := &CycleResult{}

	if ok, state := e.breaker.Allow(); !ok {
		// Core backpressure: a degraded remote is not hammered
		e.logger.Debug("drain cycle skipped, circuit open", "user_id", userID, "state", state)
		e.collector.Record(telemetry.Event{Kind: telemetry.EventCycleSkipped, UserID: userID})
		result.Skipped = true
		return result, nil
	}

	// Every exit below that never reached the remote must hand the
	// half-open trial slot back, or the breaker wedges with no trial in
	// flight. Once a mutation is attempted, RecordSuccess/RecordFailure
	// settle the slot instead.
	attempted := false
	defer func() {
		if !attempted {
			e.breaker.CancelTrial()
		}
	}()

	if depth, err := e.queue.Depth(ctx, userID); err == nil {
		e.collector.Record(telemetry.Event{Kind: telemetry.EventQueueDepth, UserID: userID, Depth: depth})
	}

	batch, err := e.queue.DequeueBatch(ctx, userID, e.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue batch: %w", err)
	}
	if len(batch) == 0 {
		return result, nil
	}

	e.logger.Debug("draining batch", "user_id", userID, "count", len(batch))

	for i, m := range batch {
		// Cancellation is honored at batch granularity: an in-flight
		// remote call runs to completion, but no new mutation starts.
		if ctx.Err() != nil {
			result.Released += e.releaseRest(userID, batch[i:])
			return result, nil
		}

		attempted = true
		outcome := e.processMutation(ctx, m)
		switch outcome {
		case httpClient.ApplyApplied:
			result.Applied++
		case httpClient.ApplyConflict:
			result.Conflicts++
		case httpClient.ApplyPermanent:
			result.DeadLettered++
		case httpClient.ApplyTransient:
			result.Transient++
			// A transiently failed head blocks the rest of the batch:
			// applying younger mutations first would break FIFO order.
			result.Released += e.releaseRest(userID, batch[i+1:])
			return result, nil
		}
	}

	return result, nil
}

// processMutation runs one remote attempt and settles the mutation's fate
// in the queue. Always returns a classified status.
func (e *Engine) processMutation(ctx context.Context, m *models.PendingMutation) httpClient.ApplyStatus {
	start := time.Now()

	remoteCtx, cancel := context.WithTimeout(ctx, e.cfg.RemoteTimeout)
	result, err := e.remote.ApplyMutation(remoteCtx, m)
	cancel()
	if err != nil {
		// Endpoint implementations classify everything themselves; an
		// error here is unexpected and treated as retryable
		result = &httpClient.ApplyResult{Status: httpClient.ApplyTransient, Err: err}
	}
	elapsed := time.Since(start)

	switch result.Status {
	case httpClient.ApplyApplied:
		return e.settleApplied(ctx, m, result, elapsed)
	case httpClient.ApplyConflict:
		return e.settleConflict(ctx, m, result, elapsed)
	case httpClient.ApplyPermanent:
		return e.settlePermanent(ctx, m, result)
	default:
		return e.settleTransient(ctx, m, result.Err, elapsed)
	}
}

func (e *Engine) settleApplied(ctx context.Context, m *models.PendingMutation, result *httpClient.ApplyResult, elapsed time.Duration) httpClient.ApplyStatus {
	e.clock.Observe(result.RemoteTimestamp)

	// Post-apply persistence: keep the local item in step with what the
	// remote acknowledged. The remote call is NOT repeated if this
	// fails; only local persistence retries.
	if m.Kind == models.MutationGrade {
		payload, err := m.GradePayload()
		if err != nil {
			// Validated at enqueue time, so a decode failure here is a
			// bug; the remote already applied it, ack anyway
			e.logger.Error("failed to decode grade payload, local item not updated",
				"mutation_id", m.ID, "error", err)
		} else if err := e.persistLocal(ctx, payload.Item); err != nil {
			return e.settleStoreFailure(ctx, m, err)
		}
	}

	if err := e.queue.Ack(ctx, m.UserID, m.ID); err != nil {
		e.logger.Error("failed to ack applied mutation", "mutation_id", m.ID, "error", err)
		return e.settleStoreFailure(ctx, m, err)
	}

	e.breaker.RecordSuccess()
	e.collector.Record(telemetry.Event{
		Kind:     telemetry.EventSuccess,
		UserID:   m.UserID,
		Duration: elapsed,
	})
	return httpClient.ApplyApplied
}

// settleConflict resolves a version conflict terminally: conflicts are
// never retried as if they were transient. The endpoint applies strictly
// newer mutations itself, so a conflict means the remote version
// superseded this mutation; that version is pulled into the local store.
func (e *Engine) settleConflict(ctx context.Context, m *models.PendingMutation, result *httpClient.ApplyResult, elapsed time.Duration) httpClient.ApplyStatus {
	e.clock.Observe(result.RemoteTimestamp)

	if result.RemoteItem != nil {
		if m.IsNewerThan(result.RemoteItem) {
			// Contract violation: the endpoint must apply strictly newer
			// mutations instead of reporting a conflict
			e.logger.Warn("conflict reported for a newer local mutation, keeping local state",
				"mutation_id", m.ID,
				"local_timestamp", m.Timestamp,
				"remote_timestamp", result.RemoteItem.Timestamp)
		} else if err := e.persistLocal(ctx, result.RemoteItem); err != nil {
			return e.settleStoreFailure(ctx, m, err)
		}
	}

	if err := e.queue.Ack(ctx, m.UserID, m.ID); err != nil {
		return e.settleStoreFailure(ctx, m, err)
	}

	e.breaker.RecordSuccess()
	e.logger.Info("conflict resolved",
		"mutation_id", m.ID,
		"item_id", m.ItemID,
		"local_timestamp", m.Timestamp)
	e.collector.Record(telemetry.Event{
		Kind:     telemetry.EventConflict,
		UserID:   m.UserID,
		Duration: elapsed,
	})
	return httpClient.ApplyConflict
}

func (e *Engine) settlePermanent(ctx context.Context, m *models.PendingMutation, result *httpClient.ApplyResult) httpClient.ApplyStatus {
	e.logger.Warn("mutation rejected permanently, dead-lettering",
		"mutation_id", m.ID,
		"item_id", m.ItemID,
		"error", result.Err)

	if err := e.queue.DeadLetter(ctx, m.UserID, m.ID, result.Err); err != nil {
		e.logger.Error("failed to dead-letter mutation", "mutation_id", m.ID, "error", err)
	}

	// A rejection is still a response: the endpoint is reachable, so the
	// failure run resets and a half-open trial counts as passed
	e.breaker.RecordSuccess()
	e.collector.Record(telemetry.Event{Kind: telemetry.EventPermanentFailure, UserID: m.UserID})
	e.collector.Record(telemetry.Event{Kind: telemetry.EventDeadLetter, UserID: m.UserID})
	return httpClient.ApplyPermanent
}

func (e *Engine) settleTransient(ctx context.Context, m *models.PendingMutation, cause error, elapsed time.Duration) httpClient.ApplyStatus {
	e.breaker.RecordFailure()

	delay := backoffDelay(e.cfg.BackoffBase, m.Attempts, e.cfg.BackoffMax)
	deadLettered, err := e.queue.Nack(ctx, m.UserID, m.ID, cause, delay)
	if err != nil {
		e.logger.Error("failed to nack mutation", "mutation_id", m.ID, "error", err)
	}

	e.logger.Debug("transient failure",
		"mutation_id", m.ID,
		"attempts", m.Attempts+1,
		"retry_after", delay,
		"error", cause)

	e.collector.Record(telemetry.Event{
		Kind:     telemetry.EventTransientFailure,
		UserID:   m.UserID,
		Duration: elapsed,
	})
	if deadLettered {
		e.logger.Warn("mutation exhausted its retry budget", "mutation_id", m.ID)
		e.collector.Record(telemetry.Event{Kind: telemetry.EventDeadLetter, UserID: m.UserID})
	}
	return httpClient.ApplyTransient
}

// settleStoreFailure handles a LOCAL persistence failure after the
// remote already accepted the mutation. The breaker guards the remote
// endpoint only, so the remote attempt counts as a success; the
// mutation is nacked with the tight store-retry delay instead of the
// remote backoff and reported under its own telemetry kind so it never
// dilutes the remote success rate.
func (e *Engine) settleStoreFailure(ctx context.Context, m *models.PendingMutation, cause error) httpClient.ApplyStatus {
	e.breaker.RecordSuccess()

	deadLettered, err := e.queue.Nack(ctx, m.UserID, m.ID, cause, e.cfg.StoreRetryInterval)
	if err != nil {
		e.logger.Error("failed to nack mutation", "mutation_id", m.ID, "error", err)
	}

	e.logger.Warn("local store failure after remote apply",
		"mutation_id", m.ID,
		"attempts", m.Attempts+1,
		"error", cause)

	e.collector.Record(telemetry.Event{Kind: telemetry.EventStoreFailure, UserID: m.UserID})
	if deadLettered {
		e.logger.Warn("mutation exhausted its retry budget", "mutation_id", m.ID)
		e.collector.Record(telemetry.Event{Kind: telemetry.EventDeadLetter, UserID: m.UserID})
	}
	return httpClient.ApplyTransient
}

// persistLocal writes an item to the local store, retrying
// StoreUnavailable at a tight interval.
func (e *Engine) persistLocal(ctx context.Context, item *models.ReviewItem) error {
	var lastErr error
	for attempt := 0; attempt < e.cfg.StoreRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(e.cfg.StoreRetryInterval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = e.items.PutItem(ctx, item)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, storage.ErrStoreUnavailable) {
			return lastErr
		}
	}
	return fmt.Errorf("local persistence kept failing: %w", lastErr)
}

// releaseRest returns not-yet-attempted leased mutations to the queue
// without counting attempts.
func (e *Engine) releaseRest(userID string, rest []*models.PendingMutation) int {
	released := 0
	// The cycle may be ending because ctx was cancelled; releasing
	// leases must still happen, so use a fresh context.
	ctx := context.Background()
	for _, m := range rest {
		if err := e.queue.Release(ctx, userID, m.ID); err != nil {
			e.logger.Error("failed to release lease", "mutation_id", m.ID, "error", err)
			continue
		}
		released++
	}
	return released
}

func (e *Engine) userLock(userID string) *stdsync.Mutex {
	lock, _ := e.userLocks.LoadOrStore(userID, &stdsync.Mutex{})
	return lock.(*stdsync.Mutex)
}
