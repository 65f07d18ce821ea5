package storage

import (
	"context"
	"time"

	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
)

//go:generate moq -out queue_mock.go . MutationQueue

// MutationQueue defines the interface for the durable per-user FIFO queue
// of pending mutations. Every mutation that enters the queue reaches a
// terminal state: acked after confirmed remote application, or moved to
// the dead-letter set. Losing one is a correctness bug, not a tolerable
// failure mode.
type MutationQueue interface {
	// Enqueue validates and persists a mutation before returning.
	// Assigns the idempotency key if the caller left it empty.
	Enqueue(ctx context.Context, m *models.PendingMutation) error

	// DequeueBatch returns up to maxCount of the user's oldest eligible
	// mutations and leases them so a concurrent drain cycle cannot pick
	// them up. The scan stops at the first ineligible mutation rather
	// than skipping past it, preserving per-user FIFO order. An expired
	// lease makes the mutation eligible again.
	DequeueBatch(ctx context.Context, userID string, maxCount int) ([]*models.PendingMutation, error)

	// Ack removes a mutation from the queue after confirmed remote
	// application. Returns ErrMutationNotFound for unknown IDs.
	Ack(ctx context.Context, userID, mutationID string) error

	// Nack records a failed attempt: increments the attempt counter,
	// releases the lease and gates the mutation behind retryAfter.
	// When the attempt count exceeds the configured maximum the mutation
	// moves to the dead-letter set; the returned flag reports that.
	Nack(ctx context.Context, userID, mutationID string, cause error, retryAfter time.Duration) (deadLettered bool, err error)

	// DeadLetter moves a mutation straight to the dead-letter set,
	// bypassing the retry budget. Used for permanent remote rejections
	// where retrying can never succeed.
	DeadLetter(ctx context.Context, userID, mutationID string, cause error) error

	// Release returns a leased mutation to the queue untouched, without
	// counting an attempt. Used when a drain cycle is abandoned.
	Release(ctx context.Context, userID, mutationID string) error

	// Depth returns the number of live mutations for a user,
	// leased ones included, dead letters excluded.
	Depth(ctx context.Context, userID string) (int, error)

	// TotalDepth returns the number of live mutations across all users.
	TotalDepth(ctx context.Context) (int, error)

	// Users returns the IDs of all users with live mutations.
	Users(ctx context.Context) ([]string, error)

	// DeadLetters returns the user's dead-lettered mutations for
	// operator inspection.
	DeadLetters(ctx context.Context, userID string) ([]*models.PendingMutation, error)
}
