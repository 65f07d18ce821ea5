package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
)

// PutItem stores or replaces a review item, keyed by (userID, itemID)
func (s *Storage) PutItem(ctx context.Context, item *models.ReviewItem) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		user, err := tx.Bucket(bucketItems).CreateBucketIfNotExists([]byte(item.UserID))
		if err != nil {
			return fmt.Errorf("failed to create user bucket: %w", err)
		}
		return user.Put([]byte(item.ID), data)
	})
	if err != nil {
		return fmt.Errorf("%w: put item: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}

// GetItem retrieves a review item by user and item ID
func (s *Storage) GetItem(ctx context.Context, userID, itemID string) (*models.ReviewItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var item *models.ReviewItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketItems).Bucket([]byte(userID))
		if user == nil {
			return storage.ErrItemNotFound
		}

		data := user.Get([]byte(itemID))
		if data == nil {
			return storage.ErrItemNotFound
		}

		item = &models.ReviewItem{}
		if err := json.Unmarshal(data, item); err != nil {
			return fmt.Errorf("failed to unmarshal item: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// ListItems returns all items of a user, archived included
func (s *Storage) ListItems(ctx context.Context, userID string) ([]*models.ReviewItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var items []*models.ReviewItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketItems).Bucket([]byte(userID))
		if user == nil {
			return nil
		}

		return user.ForEach(func(k, v []byte) error {
			var item models.ReviewItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal item: %w", err)
			}
			items = append(items, &item)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list items: %v", storage.ErrStoreUnavailable, err)
	}

	return items, nil
}

// ListDue returns up to limit non-archived items due before the given
// instant, ordered by NextReviewAt ascending, then item ID ascending.
func (s *Storage) ListDue(ctx context.Context, userID string, before time.Time, limit int) ([]*models.ReviewItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var due []*models.ReviewItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketItems).Bucket([]byte(userID))
		if user == nil {
			return nil
		}

		return user.ForEach(func(k, v []byte) error {
			var item models.ReviewItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal item: %w", err)
			}

			if item.Archived || item.SRS.NextReviewAt == nil {
				return nil
			}
			if item.SRS.NextReviewAt.After(before) {
				return nil
			}

			due = append(due, &item)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list due: %v", storage.ErrStoreUnavailable, err)
	}

	// Deterministic order: due time ascending, item ID breaks ties
	sort.Slice(due, func(i, j int) bool {
		a, b := due[i].SRS.NextReviewAt, due[j].SRS.NextReviewAt
		if !a.Equal(*b) {
			return a.Before(*b)
		}
		return due[i].ID < due[j].ID
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	return due, nil
}

// ArchiveItem soft-archives an item. The item stays in the store so the
// LWW stamp can still win against stale remote versions.
func (s *Storage) ArchiveItem(ctx context.Context, userID, itemID string, timestamp int64, nodeID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		user := tx.Bucket(bucketItems).Bucket([]byte(userID))
		if user == nil {
			return storage.ErrItemNotFound
		}

		data := user.Get([]byte(itemID))
		if data == nil {
			return storage.ErrItemNotFound
		}

		var item models.ReviewItem
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("failed to unmarshal item: %w", err)
		}

		item.Archived = true
		item.Timestamp = timestamp
		item.NodeID = nodeID

		updated, err := json.Marshal(&item)
		if err != nil {
			return fmt.Errorf("failed to marshal archived item: %w", err)
		}

		return user.Put([]byte(itemID), updated)
	})
	if err != nil {
		if err == storage.ErrItemNotFound {
			return err
		}
		return fmt.Errorf("%w: archive item: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}
