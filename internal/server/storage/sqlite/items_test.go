package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
	"github.com/HelyeFab/moshimoshi-sub017/internal/server/storage"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	return s, func() { s.Close() }
}

func testItem(userID, itemID string, timestamp int64, nodeID string) *models.ReviewItem {
	reviewed := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	due := reviewed.Add(48 * time.Hour)
	return &models.ReviewItem{
		ID:          itemID,
		UserID:      userID,
		ContentType: models.ContentTypeKanji,
		SRS: models.SRSState{
			LastReviewedAt:     &reviewed,
			NextReviewAt:       &due,
			Interval:           2,
			EaseFactor:         2.5,
			ConsecutiveCorrect: 3,
		},
		Stats: models.ItemStats{
			SuccessRate:   0.9,
			TotalAttempts: 10,
			FailureCount:  1,
		},
		Notes:     "紅葉 reads もみじ",
		Timestamp: timestamp,
		NodeID:    nodeID,
		CreatedAt: reviewed,
		UpdatedAt: reviewed,
	}
}

func TestItemStorage_SaveItem_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	item := testItem("user-1", "item-1", 100, "node-a")

	saved, err := s.SaveItem(ctx, item)
	require.NoError(t, err)
	assert.True(t, saved)

	got, err := s.GetItem(ctx, "user-1", "item-1")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.ContentType, got.ContentType)
	assert.Equal(t, item.SRS.Interval, got.SRS.Interval)
	assert.Equal(t, item.SRS.ConsecutiveCorrect, got.SRS.ConsecutiveCorrect)
	assert.Equal(t, item.Stats.SuccessRate, got.Stats.SuccessRate)
	assert.Equal(t, item.Notes, got.Notes)
	assert.Equal(t, item.Timestamp, got.Timestamp)
	require.NotNil(t, got.SRS.NextReviewAt)
	assert.Equal(t, item.SRS.NextReviewAt.Unix(), got.SRS.NextReviewAt.Unix())
}

func TestItemStorage_SaveItem_NewItemWithoutReviews(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	item := testItem("user-1", "item-new", 1, "node-a")
	item.SRS = models.SRSState{EaseFactor: 2.5}
	item.Stats = models.ItemStats{}

	saved, err := s.SaveItem(ctx, item)
	require.NoError(t, err)
	assert.True(t, saved)

	got, err := s.GetItem(ctx, "user-1", "item-new")
	require.NoError(t, err)
	assert.Nil(t, got.SRS.LastReviewedAt)
	assert.Nil(t, got.SRS.NextReviewAt)
	assert.Equal(t, models.StateNew, got.State())
}

func TestItemStorage_SaveItem_LWW(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tests := []struct {
		name      string
		stored    *models.ReviewItem
		incoming  *models.ReviewItem
		wantSaved bool
		wantNotes string
	}{
		{
			name:      "newer timestamp wins",
			stored:    testItem("user-1", "item-1", 100, "node-a"),
			incoming:  withNotes(testItem("user-1", "item-1", 200, "node-b"), "newer"),
			wantSaved: true,
			wantNotes: "newer",
		},
		{
			name:      "older timestamp loses",
			stored:    testItem("user-1", "item-2", 200, "node-a"),
			incoming:  withNotes(testItem("user-1", "item-2", 100, "node-b"), "older"),
			wantSaved: false,
			wantNotes: "紅葉 reads もみじ",
		},
		{
			name:      "equal timestamp breaks tie on node id",
			stored:    testItem("user-1", "item-3", 100, "node-a"),
			incoming:  withNotes(testItem("user-1", "item-3", 100, "node-b"), "tiebreak"),
			wantSaved: true,
			wantNotes: "tiebreak",
		},
		{
			name:      "equal timestamp and lower node id loses",
			stored:    testItem("user-1", "item-4", 100, "node-b"),
			incoming:  withNotes(testItem("user-1", "item-4", 100, "node-a"), "loser"),
			wantSaved: false,
			wantNotes: "紅葉 reads もみじ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SaveItem(ctx, tt.stored)
			require.NoError(t, err)

			saved, err := s.SaveItem(ctx, tt.incoming)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSaved, saved)

			got, err := s.GetItem(ctx, tt.stored.UserID, tt.stored.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNotes, got.Notes)
		})
	}
}

func TestItemStorage_GetItem_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetItem(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)
}

func TestItemStorage_ListUserItems(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	for _, id := range []string{"item-c", "item-a", "item-b"} {
		_, err := s.SaveItem(ctx, testItem("user-1", id, 1, "node-a"))
		require.NoError(t, err)
	}
	_, err := s.SaveItem(ctx, testItem("user-2", "item-x", 1, "node-a"))
	require.NoError(t, err)

	items, err := s.ListUserItems(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	// deterministic order by item id
	assert.Equal(t, "item-a", items[0].ID)
	assert.Equal(t, "item-b", items[1].ID)
	assert.Equal(t, "item-c", items[2].ID)

	empty, err := s.ListUserItems(ctx, "user-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestItemStorage_Idempotency(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	key := "abc123"

	applied, err := s.WasApplied(ctx, key)
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, s.MarkApplied(ctx, key, "user-1", "item-1"))

	applied, err = s.WasApplied(ctx, key)
	require.NoError(t, err)
	assert.True(t, applied)

	// replays of the same key are not an error
	require.NoError(t, s.MarkApplied(ctx, key, "user-1", "item-1"))
}

func withNotes(item *models.ReviewItem, notes string) *models.ReviewItem {
	item.Notes = notes
	return item
}
