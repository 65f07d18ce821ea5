package api

import (
	"context"

	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
)

//go:generate moq -out remote_mock.go . RemoteEndpoint

// ApplyStatus classifies the outcome of one remote application attempt.
// Every kind of remote or transport instability maps onto exactly one of
// these; nothing reaches the sync engine unclassified.
type ApplyStatus string

const (
	// ApplyApplied means the remote accepted and persisted the mutation
	ApplyApplied ApplyStatus = "applied"

	// ApplyConflict means the remote holds a different version of the
	// item; the result carries that version for deterministic resolution
	ApplyConflict ApplyStatus = "conflict"

	// ApplyTransient means the attempt failed in a retryable way
	// (network hiccup, timeout, remote overload)
	ApplyTransient ApplyStatus = "transient"

	// ApplyPermanent means the remote rejected the mutation outright
	// (validation or business rule); retrying can never succeed
	ApplyPermanent ApplyStatus = "permanent"
)

// ApplyResult is the classified outcome of one remote attempt.
type ApplyResult struct {
	Status ApplyStatus

	// RemoteItem is the remote's version of the item, set on conflict.
	RemoteItem *models.ReviewItem

	// RemoteTimestamp is the remote's logical clock after the attempt,
	// observed into the local clock to keep LWW ordering meaningful.
	RemoteTimestamp int64

	// Err carries the underlying cause for transient and permanent
	// failures. Informational: classification is in Status.
	Err error
}

// RemoteEndpoint abstracts the remote system of record. A call either
// runs to completion or fails at the transport level; it is never
// cancelled mid-request, so a mutation cannot end up half-applied with
// the engine unaware.
type RemoteEndpoint interface {
	// ApplyMutation submits one mutation for remote application.
	// The returned result is always classified; the error return is
	// reserved for caller bugs such as an unmarshalable payload.
	ApplyMutation(ctx context.Context, m *models.PendingMutation) (*ApplyResult, error)
}
