package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
)

var (
	// Metadata keys
	keyNodeID = []byte("node_id")
	keyClock  = []byte("clock")
)

// SaveNodeID persists the device's node identity
func (s *Storage) SaveNodeID(ctx context.Context, nodeID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put(keyNodeID, []byte(nodeID))
	})
	if err != nil {
		return fmt.Errorf("%w: save node id: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}

// GetNodeID retrieves the device's node identity
func (s *Storage) GetNodeID(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var nodeID string
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get(keyNodeID)
		if data == nil {
			return storage.ErrMetadataNotFound
		}
		nodeID = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}

	return nodeID, nil
}

// SaveClock persists the Lamport clock counter
func (s *Storage) SaveClock(ctx context.Context, counter int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, uint64(counter))

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put(keyClock, data)
	})
	if err != nil {
		return fmt.Errorf("%w: save clock: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}

// GetClock retrieves the persisted Lamport clock counter, 0 if never saved
func (s *Storage) GetClock(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var counter int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get(keyClock)
		if data == nil {
			return nil
		}
		counter = int64(binary.BigEndian.Uint64(data))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: get clock: %v", storage.ErrStoreUnavailable, err)
	}

	return counter, nil
}
