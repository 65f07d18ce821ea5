package storage

import "errors"

// Common client storage errors
var (
	// ErrItemNotFound indicates that no review item exists for the key
	ErrItemNotFound = errors.New("review item not found")

	// ErrMutationNotFound indicates that the mutation is not in the queue
	ErrMutationNotFound = errors.New("pending mutation not found")

	// ErrMetadataNotFound indicates that the metadata key has never been written
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrStoreUnavailable indicates a failure of the backing store itself.
	// The sync engine treats it as transient and retries local persistence
	// at a tighter interval than remote errors.
	ErrStoreUnavailable = errors.New("store unavailable")
)
