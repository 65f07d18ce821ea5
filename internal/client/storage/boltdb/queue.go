package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
)

// Queue keys are the per-user bolt sequence number, big-endian so byte
// order equals numeric order and a cursor walk yields FIFO order.
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// Enqueue validates and persists a mutation before returning.
func (s *Storage) Enqueue(ctx context.Context, m *models.PendingMutation) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.IdempotencyKey == "" {
		m.IdempotencyKey = models.DeriveIdempotencyKey(m.Kind, m.ItemID, m.CreatedAt)
	}

	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid mutation: %w", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal mutation: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		user, err := tx.Bucket(bucketQueue).CreateBucketIfNotExists([]byte(m.UserID))
		if err != nil {
			return fmt.Errorf("failed to create user queue bucket: %w", err)
		}

		seq, err := user.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}

		return user.Put(seqKey(seq), data)
	})
	if err != nil {
		return fmt.Errorf("%w: enqueue: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}

// DequeueBatch returns up to maxCount of the user's oldest eligible
// mutations and leases them. The walk stops at the first mutation that is
// leased or still backing off: skipping past it would break per-user FIFO
// order of remote application.
func (s *Storage) DequeueBatch(ctx context.Context, userID string, maxCount int) ([]*models.PendingMutation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	now := time.Now()
	var batch []*models.PendingMutation

	err := s.db.Update(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketQueue).Bucket([]byte(userID))
		if user == nil {
			return nil
		}

		c := user.Cursor()
		for k, v := c.First(); k != nil && len(batch) < maxCount; k, v = c.Next() {
			var m models.PendingMutation
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("failed to unmarshal mutation: %w", err)
			}

			if !m.Eligible(now) {
				break
			}

			m.LeasedUntil = now.Add(s.leaseTTL)
			leased, err := json.Marshal(&m)
			if err != nil {
				return fmt.Errorf("failed to marshal leased mutation: %w", err)
			}
			if err := user.Put(k, leased); err != nil {
				return fmt.Errorf("failed to persist lease: %w", err)
			}

			batch = append(batch, &m)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: dequeue batch: %v", storage.ErrStoreUnavailable, err)
	}

	return batch, nil
}

// Ack removes a mutation after confirmed remote application.
func (s *Storage) Ack(ctx context.Context, userID, mutationID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketQueue).Bucket([]byte(userID))
		if user == nil {
			return storage.ErrMutationNotFound
		}

		key, _, err := findMutation(user, mutationID)
		if err != nil {
			return err
		}

		return user.Delete(key)
	})
	if err != nil {
		if err == storage.ErrMutationNotFound {
			return err
		}
		return fmt.Errorf("%w: ack: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}

// Nack records a failed attempt. The lease is cleared, the attempt counter
// incremented and the mutation gated behind retryAfter. Once attempts
// exceed the configured maximum the mutation moves to the dead-letter set
// instead of being silently dropped.
func (s *Storage) Nack(ctx context.Context, userID, mutationID string, cause error, retryAfter time.Duration) (bool, error) {
	if s.db == nil {
		return false, storage.ErrStorageClosed
	}

	now := time.Now()
	deadLettered := false

	err := s.db.Update(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketQueue).Bucket([]byte(userID))
		if user == nil {
			return storage.ErrMutationNotFound
		}

		key, m, err := findMutation(user, mutationID)
		if err != nil {
			return err
		}

		m.Attempts++
		m.LeasedUntil = time.Time{}
		m.NotBefore = now.Add(retryAfter)
		if cause != nil {
			m.LastError = cause.Error()
		}

		if m.Attempts > s.maxAttempts {
			deadLettered = true

			dead, err := tx.Bucket(bucketDeadLetter).CreateBucketIfNotExists([]byte(userID))
			if err != nil {
				return fmt.Errorf("failed to create dead-letter bucket: %w", err)
			}

			data, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("failed to marshal dead letter: %w", err)
			}
			if err := dead.Put([]byte(m.ID), data); err != nil {
				return fmt.Errorf("failed to store dead letter: %w", err)
			}

			return user.Delete(key)
		}

		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal mutation: %w", err)
		}
		return user.Put(key, data)
	})
	if err != nil {
		if err == storage.ErrMutationNotFound {
			return false, err
		}
		return false, fmt.Errorf("%w: nack: %v", storage.ErrStoreUnavailable, err)
	}

	return deadLettered, nil
}

// DeadLetter moves a mutation straight to the dead-letter set.
func (s *Storage) DeadLetter(ctx context.Context, userID, mutationID string, cause error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketQueue).Bucket([]byte(userID))
		if user == nil {
			return storage.ErrMutationNotFound
		}

		key, m, err := findMutation(user, mutationID)
		if err != nil {
			return err
		}

		m.LeasedUntil = time.Time{}
		if cause != nil {
			m.LastError = cause.Error()
		}

		dead, err := tx.Bucket(bucketDeadLetter).CreateBucketIfNotExists([]byte(userID))
		if err != nil {
			return fmt.Errorf("failed to create dead-letter bucket: %w", err)
		}

		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal dead letter: %w", err)
		}
		if err := dead.Put([]byte(m.ID), data); err != nil {
			return fmt.Errorf("failed to store dead letter: %w", err)
		}

		return user.Delete(key)
	})
	if err != nil {
		if err == storage.ErrMutationNotFound {
			return err
		}
		return fmt.Errorf("%w: dead letter: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}

// Release returns a leased mutation to the queue without counting an
// attempt. Used when a drain cycle is abandoned mid-batch.
func (s *Storage) Release(ctx context.Context, userID, mutationID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketQueue).Bucket([]byte(userID))
		if user == nil {
			return storage.ErrMutationNotFound
		}

		key, m, err := findMutation(user, mutationID)
		if err != nil {
			return err
		}

		m.LeasedUntil = time.Time{}

		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal mutation: %w", err)
		}
		return user.Put(key, data)
	})
	if err != nil {
		if err == storage.ErrMutationNotFound {
			return err
		}
		return fmt.Errorf("%w: release: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}

// Depth returns the number of live mutations for one user.
func (s *Storage) Depth(ctx context.Context, userID string) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketQueue).Bucket([]byte(userID))
		if user == nil {
			return nil
		}
		count = user.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: depth: %v", storage.ErrStoreUnavailable, err)
	}

	return count, nil
}

// TotalDepth returns the number of live mutations across all users.
func (s *Storage) TotalDepth(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEachBucket(func(name []byte) error {
			count += tx.Bucket(bucketQueue).Bucket(name).Stats().KeyN
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("%w: total depth: %v", storage.ErrStoreUnavailable, err)
	}

	return count, nil
}

// Users returns the IDs of all users with live mutations.
func (s *Storage) Users(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var users []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEachBucket(func(name []byte) error {
			if tx.Bucket(bucketQueue).Bucket(name).Stats().KeyN > 0 {
				users = append(users, string(name))
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: users: %v", storage.ErrStoreUnavailable, err)
	}

	return users, nil
}

// DeadLetters returns the user's dead-lettered mutations.
func (s *Storage) DeadLetters(ctx context.Context, userID string) ([]*models.PendingMutation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var dead []*models.PendingMutation
	err := s.db.View(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketDeadLetter).Bucket([]byte(userID))
		if user == nil {
			return nil
		}

		return user.ForEach(func(k, v []byte) error {
			var m models.PendingMutation
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("failed to unmarshal dead letter: %w", err)
			}
			dead = append(dead, &m)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: dead letters: %v", storage.ErrStoreUnavailable, err)
	}

	return dead, nil
}

// findMutation walks a user's queue bucket looking for a mutation ID.
// Queues are small (bounded by the sync backlog), a linear scan is fine.
func findMutation(user *bbolt.Bucket, mutationID string) ([]byte, *models.PendingMutation, error) {
	c := user.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var m models.PendingMutation
		if err := json.Unmarshal(v, &m); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal mutation: %w", err)
		}
		if m.ID == mutationID {
			key := make([]byte, len(k))
			copy(key, k)
			return key, &m, nil
		}
	}
	return nil, nil, storage.ErrMutationNotFound
}
