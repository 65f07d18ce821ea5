package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
	"github.com/HelyeFab/moshimoshi-sub017/internal/server/storage"
)

// SaveItem creates or updates an item using LWW logic: the write only
// lands if the incoming version is newer than the stored one.
// Returns true if the item was saved, false if the stored version won.
func (s *Storage) SaveItem(ctx context.Context, item *models.ReviewItem) (bool, error) {
	existing, err := s.GetItem(ctx, item.UserID, item.ID)
	if err != nil && !errors.Is(err, storage.ErrItemNotFound) {
		return false, fmt.Errorf("failed to check existing item: %w", err)
	}

	if existing != nil {
		if !item.IsNewerThan(existing) {
			return false, nil
		}

		query := `
			UPDATE review_items
			SET content_type = ?, last_reviewed_at = ?, next_review_at = ?,
			    interval = ?, ease_factor = ?, consecutive_correct = ?,
			    success_rate = ?, total_attempts = ?, failure_count = ?,
			    pinned = ?, notes = ?, archived = ?,
			    timestamp = ?, node_id = ?, updated_at = ?
			WHERE user_id = ? AND id = ?
		`

		_, err := s.db.ExecContext(ctx, query,
			item.ContentType,
			timeToNullUnix(item.SRS.LastReviewedAt),
			timeToNullUnix(item.SRS.NextReviewAt),
			item.SRS.Interval,
			item.SRS.EaseFactor,
			item.SRS.ConsecutiveCorrect,
			item.Stats.SuccessRate,
			item.Stats.TotalAttempts,
			item.Stats.FailureCount,
			boolToInt(item.Pinned),
			item.Notes,
			boolToInt(item.Archived),
			item.Timestamp,
			item.NodeID,
			item.UpdatedAt.Unix(),
			item.UserID,
			item.ID,
		)
		if err != nil {
			return false, fmt.Errorf("failed to update item: %w", err)
		}

		return true, nil
	}

	query := `
		INSERT INTO review_items (
			id, user_id, content_type, last_reviewed_at, next_review_at,
			interval, ease_factor, consecutive_correct,
			success_rate, total_attempts, failure_count,
			pinned, notes, archived, timestamp, node_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.ContentType,
		timeToNullUnix(item.SRS.LastReviewedAt),
		timeToNullUnix(item.SRS.NextReviewAt),
		item.SRS.Interval,
		item.SRS.EaseFactor,
		item.SRS.ConsecutiveCorrect,
		item.Stats.SuccessRate,
		item.Stats.TotalAttempts,
		item.Stats.FailureCount,
		boolToInt(item.Pinned),
		item.Notes,
		boolToInt(item.Archived),
		item.Timestamp,
		item.NodeID,
		item.CreatedAt.Unix(),
		item.UpdatedAt.Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert item: %w", err)
	}

	return true, nil
}

// GetItem retrieves one item by user and item ID.
// Returns ErrItemNotFound if the item doesn't exist.
func (s *Storage) GetItem(ctx context.Context, userID, itemID string) (*models.ReviewItem, error) {
	query := `
		SELECT id, user_id, content_type, last_reviewed_at, next_review_at,
		       interval, ease_factor, consecutive_correct,
		       success_rate, total_attempts, failure_count,
		       pinned, notes, archived, timestamp, node_id,
		       created_at, updated_at
		FROM review_items
		WHERE user_id = ? AND id = ?
	`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, userID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListUserItems retrieves all items of a user, archived included,
// ordered by item ID for deterministic output.
func (s *Storage) ListUserItems(ctx context.Context, userID string) ([]*models.ReviewItem, error) {
	query := `
		SELECT id, user_id, content_type, last_reviewed_at, next_review_at,
		       interval, ease_factor, consecutive_correct,
		       success_rate, total_attempts, failure_count,
		       pinned, notes, archived, timestamp, node_id,
		       created_at, updated_at
		FROM review_items
		WHERE user_id = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.ReviewItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// WasApplied reports whether a mutation with this idempotency key has
// already been applied.
func (s *Storage) WasApplied(ctx context.Context, idempotencyKey string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM applied_mutations WHERE idempotency_key = ?",
		idempotencyKey,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return true, nil
}

// MarkApplied records an idempotency key as applied. Recording the same
// key twice is not an error.
func (s *Storage) MarkApplied(ctx context.Context, idempotencyKey, userID, itemID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO applied_mutations (idempotency_key, user_id, item_id, applied_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (idempotency_key) DO NOTHING`,
		idempotencyKey, userID, itemID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record idempotency key: %w", err)
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*models.ReviewItem, error) {
	item := &models.ReviewItem{}
	var lastReviewedAt, nextReviewAt sql.NullInt64
	var pinned, archived int
	var createdAt, updatedAt int64

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ContentType,
		&lastReviewedAt,
		&nextReviewAt,
		&item.SRS.Interval,
		&item.SRS.EaseFactor,
		&item.SRS.ConsecutiveCorrect,
		&item.Stats.SuccessRate,
		&item.Stats.TotalAttempts,
		&item.Stats.FailureCount,
		&pinned,
		&item.Notes,
		&archived,
		&item.Timestamp,
		&item.NodeID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.SRS.LastReviewedAt = nullUnixToTime(lastReviewedAt)
	item.SRS.NextReviewAt = nullUnixToTime(nextReviewAt)
	item.Pinned = intToBool(pinned)
	item.Archived = intToBool(archived)
	item.CreatedAt = time.Unix(createdAt, 0).UTC()
	item.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func timeToNullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func nullUnixToTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
