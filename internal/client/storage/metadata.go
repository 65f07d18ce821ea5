package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines the interface for storing device metadata
type MetadataStorage interface {
	// SaveNodeID persists the device's node identity
	SaveNodeID(ctx context.Context, nodeID string) error

	// GetNodeID retrieves the device's node identity
	// Returns ErrMetadataNotFound if the device has no identity yet
	GetNodeID(ctx context.Context) (string, error)

	// SaveClock persists the Lamport clock counter
	SaveClock(ctx context.Context, counter int64) error

	// GetClock retrieves the persisted Lamport clock counter
	// Returns 0 if the clock has never been saved
	GetClock(ctx context.Context) (int64, error)
}
