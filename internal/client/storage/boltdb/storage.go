// Package boltdb implements the client storage interfaces on top of a
// single BoltDB file: review items, the durable mutation queue with its
// dead-letter set, and device metadata.
package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketItems      = []byte("items")
	bucketQueue      = []byte("queue")
	bucketDeadLetter = []byte("deadletter")
	bucketMetadata   = []byte("metadata")
)

// Default queue tuning
const (
	DefaultMaxAttempts = 5
	DefaultLeaseTTL    = 30 * time.Second
)

// Options tunes queue behavior. Zero values fall back to defaults.
type Options struct {
	// MaxAttempts is the attempt count after which a mutation moves to
	// the dead-letter set instead of being retried.
	MaxAttempts int

	// LeaseTTL bounds how long a dequeued mutation stays invisible.
	// If the leasing process dies, the lease expires and another drain
	// cycle may retry the mutation.
	LeaseTTL time.Duration
}

// Storage represents the BoltDB storage implementation for the client
type Storage struct {
	db          *bbolt.DB
	maxAttempts int
	leaseTTL    time.Duration
}

// New creates a new BoltDB storage instance with default queue tuning.
// dbPath is the path to the BoltDB database file.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	return NewWithOptions(ctx, dbPath, Options{})
}

// NewWithOptions creates a new BoltDB storage instance
func NewWithOptions(ctx context.Context, dbPath string, opts Options) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = DefaultLeaseTTL
	}

	storage := &Storage{
		db:          db,
		maxAttempts: opts.MaxAttempts,
		leaseTTL:    opts.LeaseTTL,
	}

	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets creates the top-level buckets if they don't exist yet.
// Per-user sub-buckets are created lazily on first write.
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketItems, bucketQueue, bucketDeadLetter, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}
