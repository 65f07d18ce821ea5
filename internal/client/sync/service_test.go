package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/HelyeFab/moshimoshi-sub017/internal/client/api"
	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
	"github.com/HelyeFab/moshimoshi-sub017/internal/crdt"
	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
	"github.com/HelyeFab/moshimoshi-sub017/internal/telemetry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEngine(t *testing.T, queue storage.MutationQueue, items storage.ItemStore, remote httpClient.RemoteEndpoint, cfg Config) *Engine {
	t.Helper()
	collector := telemetry.NewCollector(testLogger())
	clock := crdt.NewClockWithNodeID("node-test")
	return NewEngine(queue, items, remote, collector, clock, testLogger(), cfg)
}

func testGradeMutation(t *testing.T, userID, itemID string, timestamp int64) *models.PendingMutation {
	t.Helper()
	now := time.Now()
	item := &models.ReviewItem{
		ID:          itemID,
		UserID:      userID,
		ContentType: models.ContentTypeKanji,
		SRS: models.SRSState{
			LastReviewedAt: &now,
			NextReviewAt:   &now,
			Interval:       2,
			EaseFactor:     2.5,
		},
		Timestamp: timestamp,
		NodeID:    "node-test",
	}
	payload, err := json.Marshal(models.GradePayload{Grade: models.GradeGood, Item: item})
	require.NoError(t, err)

	return &models.PendingMutation{
		ID:        fmt.Sprintf("mut-%s-%d", itemID, timestamp),
		UserID:    userID,
		ItemID:    itemID,
		Kind:      models.MutationGrade,
		Payload:   payload,
		Timestamp: timestamp,
		NodeID:    "node-test",
		CreatedAt: now,
	}
}

// queueReturning builds a queue mock that hands out the given batch once
// and accepts every settlement call.
func queueReturning(batch ...*models.PendingMutation) *storage.MutationQueueMock {
	handedOut := false
	return &storage.MutationQueueMock{
		DepthFunc: func(ctx context.Context, userID string) (int, error) {
			return len(batch), nil
		},
		DequeueBatchFunc: func(ctx context.Context, userID string, maxCount int) ([]*models.PendingMutation, error) {
			if handedOut {
				return nil, nil
			}
			handedOut = true
			return batch, nil
		},
		AckFunc: func(ctx context.Context, userID, mutationID string) error {
			return nil
		},
		NackFunc: func(ctx context.Context, userID, mutationID string, cause error, retryAfter time.Duration) (bool, error) {
			return false, nil
		},
		DeadLetterFunc: func(ctx context.Context, userID, mutationID string, cause error) error {
			return nil
		},
		ReleaseFunc: func(ctx context.Context, userID, mutationID string) error {
			return nil
		},
	}
}

func TestEngine_DrainUser_AppliesBatchInOrder(t *testing.T) {
	m1 := testGradeMutation(t, "user-1", "item-1", 10)
	m2 := testGradeMutation(t, "user-1", "item-2", 11)
	queue := queueReturning(m1, m2)

	items := &storage.ItemStoreMock{
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			return nil
		},
	}
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{Status: httpClient.ApplyApplied, RemoteTimestamp: m.Timestamp}, nil
		},
	}

	engine := testEngine(t, queue, items, remote, Config{})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Zero(t, result.Transient)
	assert.False(t, result.Skipped)

	// remote attempts happen oldest-first
	calls := remote.ApplyMutationCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "mut-item-1-10", calls[0].M.ID)
	assert.Equal(t, "mut-item-2-11", calls[1].M.ID)

	// the acknowledged snapshots landed in the local store
	assert.Len(t, items.PutItemCalls(), 2)
	assert.Len(t, queue.AckCalls(), 2)

	// the local clock observed the remote's logical time
	assert.GreaterOrEqual(t, engine.clock.Current(), int64(11))
}

func TestEngine_DrainUser_EmptyQueue(t *testing.T) {
	queue := queueReturning()
	engine := testEngine(t, queue, &storage.ItemStoreMock{}, &httpClient.RemoteEndpointMock{}, Config{})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, &CycleResult{}, result)
}

func TestEngine_DrainUser_ConflictPullsRemoteVersion(t *testing.T) {
	m := testGradeMutation(t, "user-1", "item-1", 10)
	queue := queueReturning(m)

	remoteItem := &models.ReviewItem{
		ID:        "item-1",
		UserID:    "user-1",
		Notes:     "remote wins",
		Timestamp: 42,
		NodeID:    "node-other",
	}

	items := &storage.ItemStoreMock{
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			return nil
		},
	}
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{
				Status:          httpClient.ApplyConflict,
				RemoteItem:      remoteItem,
				RemoteTimestamp: 42,
			}, nil
		},
	}

	engine := testEngine(t, queue, items, remote, Config{})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Conflicts)
	assert.Zero(t, result.Applied)

	// remote version replaced local state, mutation settled terminally
	puts := items.PutItemCalls()
	require.Len(t, puts, 1)
	assert.Equal(t, "remote wins", puts[0].Item.Notes)
	assert.Equal(t, int64(42), puts[0].Item.Timestamp)
	assert.Len(t, queue.AckCalls(), 1)
	assert.Empty(t, queue.NackCalls())
}

func TestEngine_DrainUser_ConflictForNewerLocalKeepsLocal(t *testing.T) {
	m := testGradeMutation(t, "user-1", "item-1", 100)
	queue := queueReturning(m)

	staleRemote := &models.ReviewItem{ID: "item-1", UserID: "user-1", Timestamp: 5, NodeID: "node-other"}

	items := &storage.ItemStoreMock{
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			return nil
		},
	}
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{
				Status:          httpClient.ApplyConflict,
				RemoteItem:      staleRemote,
				RemoteTimestamp: 5,
			}, nil
		},
	}

	engine := testEngine(t, queue, items, remote, Config{})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Conflicts)

	// the stale remote version must not clobber newer local state
	assert.Empty(t, items.PutItemCalls())
	assert.Len(t, queue.AckCalls(), 1)
}

func TestEngine_DrainUser_TransientFailureBlocksRestOfBatch(t *testing.T) {
	m1 := testGradeMutation(t, "user-1", "item-1", 10)
	m2 := testGradeMutation(t, "user-1", "item-2", 11)
	m3 := testGradeMutation(t, "user-1", "item-3", 12)
	queue := queueReturning(m1, m2, m3)

	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{
				Status: httpClient.ApplyTransient,
				Err:    errors.New("connection reset"),
			}, nil
		},
	}

	engine := testEngine(t, queue, &storage.ItemStoreMock{}, remote, Config{BackoffBase: time.Millisecond})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Transient)
	assert.Equal(t, 2, result.Released)

	// only the head was attempted; the younger mutations went back untouched
	require.Len(t, remote.ApplyMutationCalls(), 1)
	assert.Equal(t, "mut-item-1-10", remote.ApplyMutationCalls()[0].M.ID)

	nacks := queue.NackCalls()
	require.Len(t, nacks, 1)
	assert.Equal(t, "mut-item-1-10", nacks[0].MutationID)
	assert.Positive(t, nacks[0].RetryAfter)

	releases := queue.ReleaseCalls()
	require.Len(t, releases, 2)
	assert.Equal(t, "mut-item-2-11", releases[0].MutationID)
	assert.Equal(t, "mut-item-3-12", releases[1].MutationID)
}

func TestEngine_DrainUser_PermanentRejectionDeadLettersAndContinues(t *testing.T) {
	m1 := testGradeMutation(t, "user-1", "item-1", 10)
	m2 := testGradeMutation(t, "user-1", "item-2", 11)
	queue := queueReturning(m1, m2)

	items := &storage.ItemStoreMock{
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			return nil
		},
	}
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			if m.ID == "mut-item-1-10" {
				return &httpClient.ApplyResult{
					Status: httpClient.ApplyPermanent,
					Err:    errors.New("unknown item"),
				}, nil
			}
			return &httpClient.ApplyResult{Status: httpClient.ApplyApplied, RemoteTimestamp: m.Timestamp}, nil
		},
	}

	engine := testEngine(t, queue, items, remote, Config{})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.DeadLettered)
	assert.Equal(t, 1, result.Applied)

	// a permanent rejection is not a remote health problem; the batch goes on
	deadLetters := queue.DeadLetterCalls()
	require.Len(t, deadLetters, 1)
	assert.Equal(t, "mut-item-1-10", deadLetters[0].MutationID)
	assert.Len(t, queue.AckCalls(), 1)
	assert.Empty(t, queue.NackCalls())
}

func TestEngine_DrainUser_OpenCircuitSkipsCycle(t *testing.T) {
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{
				Status: httpClient.ApplyTransient,
				Err:    errors.New("remote down"),
			}, nil
		},
	}

	dequeues := 0
	queue := &storage.MutationQueueMock{
		DepthFunc: func(ctx context.Context, userID string) (int, error) {
			return 1, nil
		},
		DequeueBatchFunc: func(ctx context.Context, userID string, maxCount int) ([]*models.PendingMutation, error) {
			dequeues++
			return []*models.PendingMutation{
				testGradeMutation(t, "user-1", "item-1", int64(dequeues)),
			}, nil
		},
		NackFunc: func(ctx context.Context, userID, mutationID string, cause error, retryAfter time.Duration) (bool, error) {
			return false, nil
		},
	}

	engine := testEngine(t, queue, &storage.ItemStoreMock{}, remote, Config{BackoffBase: time.Millisecond})

	// each cycle fails its head mutation; the fifth failure opens the circuit
	for range DefaultBreakerThreshold {
		result, err := engine.DrainUser(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Transient)
	}
	assert.Equal(t, CircuitOpen, engine.Breaker().State())

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	// the skipped cycle never touched queue or remote
	assert.Equal(t, DefaultBreakerThreshold, dequeues)
	assert.Len(t, remote.ApplyMutationCalls(), DefaultBreakerThreshold)
}

func TestEngine_DrainUser_EmptyBatchReturnsHalfOpenTrial(t *testing.T) {
	remoteDown := true
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			if remoteDown {
				return &httpClient.ApplyResult{Status: httpClient.ApplyTransient, Err: errors.New("remote down")}, nil
			}
			return &httpClient.ApplyResult{Status: httpClient.ApplyApplied, RemoteTimestamp: m.Timestamp}, nil
		},
	}

	var next []*models.PendingMutation
	queue := &storage.MutationQueueMock{
		DepthFunc: func(ctx context.Context, userID string) (int, error) {
			return len(next), nil
		},
		DequeueBatchFunc: func(ctx context.Context, userID string, maxCount int) ([]*models.PendingMutation, error) {
			batch := next
			next = nil
			return batch, nil
		},
		AckFunc: func(ctx context.Context, userID, mutationID string) error {
			return nil
		},
		NackFunc: func(ctx context.Context, userID, mutationID string, cause error, retryAfter time.Duration) (bool, error) {
			return false, nil
		},
	}
	items := &storage.ItemStoreMock{
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			return nil
		},
	}

	engine := testEngine(t, queue, items, remote, Config{BackoffBase: time.Millisecond})

	// A run of transient failures opens the circuit
	for i := range DefaultBreakerThreshold {
		next = []*models.PendingMutation{testGradeMutation(t, "user-1", "item-1", int64(i+1))}
		_, err := engine.DrainUser(context.Background(), "user-1")
		require.NoError(t, err)
	}
	require.Equal(t, CircuitOpen, engine.Breaker().State())

	// Cool-down elapses; the admitted trial cycle finds nothing to send
	engine.breaker.now = func() time.Time { return time.Now().Add(DefaultBreakerCooldown + time.Second) }
	empty, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, empty.Skipped)
	assert.Zero(t, empty.Applied)

	// The unused trial slot must be free again: the next eligible
	// mutation goes out instead of every cycle skipping forever
	remoteDown = false
	next = []*models.PendingMutation{testGradeMutation(t, "user-1", "item-1", 99)}
	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, CircuitClosed, engine.Breaker().State())
}

func TestEngine_DrainUser_LocalStoreFailureSparesBreaker(t *testing.T) {
	var next []*models.PendingMutation
	queue := &storage.MutationQueueMock{
		DepthFunc: func(ctx context.Context, userID string) (int, error) {
			return len(next), nil
		},
		DequeueBatchFunc: func(ctx context.Context, userID string, maxCount int) ([]*models.PendingMutation, error) {
			batch := next
			next = nil
			return batch, nil
		},
		NackFunc: func(ctx context.Context, userID, mutationID string, cause error, retryAfter time.Duration) (bool, error) {
			return false, nil
		},
	}
	items := &storage.ItemStoreMock{
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			return fmt.Errorf("%w: disk wedged", storage.ErrStoreUnavailable)
		},
	}
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{Status: httpClient.ApplyApplied, RemoteTimestamp: m.Timestamp}, nil
		},
	}

	cfg := Config{
		StoreRetryInterval: time.Millisecond,
		StoreRetryAttempts: 2,
		BackoffBase:        time.Minute,
	}
	engine := testEngine(t, queue, items, remote, cfg)

	// Well past the breaker threshold: the remote applied every time, so
	// local disk trouble must not open the circuit against it
	cycles := DefaultBreakerThreshold + 2
	for i := 0; i < cycles; i++ {
		next = []*models.PendingMutation{testGradeMutation(t, "user-1", "item-1", int64(i+1))}
		result, err := engine.DrainUser(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Transient)
		assert.False(t, result.Skipped)
	}
	assert.Equal(t, CircuitClosed, engine.Breaker().State())
	assert.Len(t, remote.ApplyMutationCalls(), cycles)

	// Retries wait the tight store interval, not the remote backoff
	nacks := queue.NackCalls()
	require.Len(t, nacks, cycles)
	for _, n := range nacks {
		assert.Equal(t, time.Millisecond, n.RetryAfter)
	}
}

func TestEngine_DrainUser_PermanentRejectionResetsFailureRun(t *testing.T) {
	m := testGradeMutation(t, "user-1", "item-1", 10)
	queue := queueReturning(m)

	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{Status: httpClient.ApplyPermanent, Err: errors.New("unknown item")}, nil
		},
	}

	engine := testEngine(t, queue, &storage.ItemStoreMock{}, remote, Config{})
	engine.breaker.failures = DefaultBreakerThreshold - 1

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.DeadLettered)

	// The endpoint answered, so the consecutive-failure run is over
	engine.breaker.mu.Lock()
	failures := engine.breaker.failures
	engine.breaker.mu.Unlock()
	assert.Zero(t, failures)
}

func TestEngine_DrainUser_UndecodableGradePayloadIsLogged(t *testing.T) {
	m := &models.PendingMutation{
		ID:        "mut-broken",
		UserID:    "user-1",
		ItemID:    "item-1",
		Kind:      models.MutationGrade,
		Payload:   json.RawMessage(`{broken`),
		Timestamp: 10,
		NodeID:    "node-test",
		CreatedAt: time.Now(),
	}
	queue := queueReturning(m)

	items := &storage.ItemStoreMock{}
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{Status: httpClient.ApplyApplied, RemoteTimestamp: m.Timestamp}, nil
		},
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	collector := telemetry.NewCollector(testLogger())
	engine := NewEngine(queue, items, remote, collector, crdt.NewClockWithNodeID("node-test"), logger, Config{})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)

	// Acked without a local write, and the decode error left a trace
	assert.Len(t, queue.AckCalls(), 1)
	assert.Empty(t, items.PutItemCalls())
	assert.Contains(t, buf.String(), "failed to decode grade payload")
}

func TestEngine_DrainUser_RetriesUnavailableLocalStore(t *testing.T) {
	m := testGradeMutation(t, "user-1", "item-1", 10)
	queue := queueReturning(m)

	putAttempts := 0
	items := &storage.ItemStoreMock{
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			putAttempts++
			if putAttempts < 3 {
				return fmt.Errorf("%w: disk wedged", storage.ErrStoreUnavailable)
			}
			return nil
		},
	}
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{Status: httpClient.ApplyApplied, RemoteTimestamp: m.Timestamp}, nil
		},
	}

	engine := testEngine(t, queue, items, remote, Config{
		StoreRetryInterval: time.Millisecond,
	})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 3, putAttempts)

	// the remote call was not repeated for a local persistence problem
	assert.Len(t, remote.ApplyMutationCalls(), 1)
}

func TestEngine_DrainUser_ExhaustedLocalStoreNacks(t *testing.T) {
	m := testGradeMutation(t, "user-1", "item-1", 10)
	queue := queueReturning(m)

	items := &storage.ItemStoreMock{
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			return fmt.Errorf("%w: disk wedged", storage.ErrStoreUnavailable)
		},
	}
	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{Status: httpClient.ApplyApplied, RemoteTimestamp: m.Timestamp}, nil
		},
	}

	engine := testEngine(t, queue, items, remote, Config{
		StoreRetryInterval: time.Millisecond,
		StoreRetryAttempts: 2,
		BackoffBase:        time.Millisecond,
	})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Transient)

	// not acked: the mutation stays queued until the item can be persisted
	assert.Empty(t, queue.AckCalls())
	assert.Len(t, queue.NackCalls(), 1)
}

func TestEngine_DrainUser_EndpointErrorTreatedAsTransient(t *testing.T) {
	m := testGradeMutation(t, "user-1", "item-1", 10)
	queue := queueReturning(m)

	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return nil, errors.New("endpoint bug")
		},
	}

	engine := testEngine(t, queue, &storage.ItemStoreMock{}, remote, Config{BackoffBase: time.Millisecond})

	result, err := engine.DrainUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Transient)
	assert.Len(t, queue.NackCalls(), 1)
}

func TestEngine_DrainUser_DequeueFailure(t *testing.T) {
	queue := &storage.MutationQueueMock{
		DepthFunc: func(ctx context.Context, userID string) (int, error) {
			return 0, nil
		},
		DequeueBatchFunc: func(ctx context.Context, userID string, maxCount int) ([]*models.PendingMutation, error) {
			return nil, errors.New("bucket gone")
		},
	}

	engine := testEngine(t, queue, &storage.ItemStoreMock{}, &httpClient.RemoteEndpointMock{}, Config{})

	_, err := engine.DrainUser(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to dequeue batch")
}

func TestEngine_DrainUser_CancelledContextReleasesBatch(t *testing.T) {
	m1 := testGradeMutation(t, "user-1", "item-1", 10)
	m2 := testGradeMutation(t, "user-1", "item-2", 11)
	queue := queueReturning(m1, m2)

	remote := &httpClient.RemoteEndpointMock{
		ApplyMutationFunc: func(ctx context.Context, m *models.PendingMutation) (*httpClient.ApplyResult, error) {
			return &httpClient.ApplyResult{Status: httpClient.ApplyApplied, RemoteTimestamp: m.Timestamp}, nil
		},
	}

	engine := testEngine(t, queue, &storage.ItemStoreMock{}, remote, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.DrainUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Released)
	assert.Zero(t, result.Applied)

	// no remote attempt started after cancellation, leases were returned
	assert.Empty(t, remote.ApplyMutationCalls())
	assert.Len(t, queue.ReleaseCalls(), 2)
}
