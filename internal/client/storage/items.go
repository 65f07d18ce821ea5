package storage

import (
	"context"
	"time"

	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
)

//go:generate moq -out itemstore_mock.go . ItemStore

// ItemStore defines the interface for local persistence of review items.
// Delete is deliberately not exposed: items are archived, never removed.
type ItemStore interface {
	// GetItem retrieves one item by user and item ID.
	// Returns ErrItemNotFound if the item doesn't exist.
	GetItem(ctx context.Context, userID, itemID string) (*models.ReviewItem, error)

	// PutItem stores or replaces an item.
	PutItem(ctx context.Context, item *models.ReviewItem) error

	// ListDue returns up to limit non-archived items due before the given
	// instant, ordered by NextReviewAt ascending with ties broken by item
	// ID ascending. The order is deterministic so review sessions and
	// tests are reproducible.
	ListDue(ctx context.Context, userID string, before time.Time, limit int) ([]*models.ReviewItem, error)

	// ListItems returns all items of a user, archived included.
	ListItems(ctx context.Context, userID string) ([]*models.ReviewItem, error)

	// ArchiveItem soft-archives an item, stamping the write for LWW.
	// Returns ErrItemNotFound if the item doesn't exist.
	ArchiveItem(ctx context.Context, userID, itemID string, timestamp int64, nodeID string) error
}
