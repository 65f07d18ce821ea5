package storage

import (
	"context"

	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
)

// ItemStorage defines the interface for the system of record's item
// persistence. Writes go through last-write-wins resolution; replays are
// deduplicated through idempotency keys.
type ItemStorage interface {
	// SaveItem creates or updates an item using LWW logic: the write only
	// lands if the incoming version is newer than the stored one.
	// Returns true if the item was saved, false if the stored version won.
	SaveItem(ctx context.Context, item *models.ReviewItem) (bool, error)

	// GetItem retrieves one item by user and item ID.
	// Returns ErrItemNotFound if the item doesn't exist.
	GetItem(ctx context.Context, userID, itemID string) (*models.ReviewItem, error)

	// ListUserItems retrieves all items of a user, archived included.
	// Returns an empty slice if the user has none.
	ListUserItems(ctx context.Context, userID string) ([]*models.ReviewItem, error)

	// WasApplied reports whether a mutation with this idempotency key has
	// already been applied. Used to make replays exactly-once-effective.
	WasApplied(ctx context.Context, idempotencyKey string) (bool, error)

	// MarkApplied records an idempotency key as applied. Recording the
	// same key twice is not an error.
	MarkApplied(ctx context.Context, idempotencyKey, userID, itemID string) error
}
