package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
	"github.com/HelyeFab/moshimoshi-sub017/internal/crdt"
	"github.com/HelyeFab/moshimoshi-sub017/internal/health"
	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
	"github.com/HelyeFab/moshimoshi-sub017/internal/review"
	"github.com/HelyeFab/moshimoshi-sub017/internal/srs"
	"github.com/HelyeFab/moshimoshi-sub017/internal/telemetry"
	"github.com/HelyeFab/moshimoshi-sub017/pkg/api"
)

func testHandler(items storage.ItemStore, queue storage.MutationQueue) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := review.NewService(
		items,
		queue,
		srs.NewScheduler(),
		crdt.NewClockWithNodeID("node-test"),
		telemetry.NewCollector(logger),
		health.NewReporter(health.Thresholds{}),
		func() string { return "closed" },
	)
	return NewHandler(logger, svc)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func dueItem(userID, itemID string) *models.ReviewItem {
	reviewed := time.Now().Add(-24 * time.Hour)
	return &models.ReviewItem{
		ID:          itemID,
		UserID:      userID,
		ContentType: models.ContentTypeVocabulary,
		SRS: models.SRSState{
			LastReviewedAt:     &reviewed,
			NextReviewAt:       &reviewed,
			Interval:           1,
			EaseFactor:         2.5,
			ConsecutiveCorrect: 1,
		},
		Timestamp: 1,
		NodeID:    "node-test",
	}
}

func TestHandler_AddItem(t *testing.T) {
	items := &storage.ItemStoreMock{
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			return nil
		},
	}
	h := testHandler(items, &storage.MutationQueueMock{})

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users/user-1/items",
		addItemRequest{ItemID: "item-1", ContentType: "kanji"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var got api.Item
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "item-1", got.ID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "kanji", got.ContentType)
}

func TestHandler_AddItem_InvalidBody(t *testing.T) {
	h := testHandler(&storage.ItemStoreMock{}, &storage.MutationQueueMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/user-1/items",
		bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Grade(t *testing.T) {
	items := &storage.ItemStoreMock{
		GetItemFunc: func(ctx context.Context, userID, itemID string) (*models.ReviewItem, error) {
			return dueItem(userID, itemID), nil
		},
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			return nil
		},
	}
	queue := &storage.MutationQueueMock{
		EnqueueFunc: func(ctx context.Context, m *models.PendingMutation) error {
			return nil
		},
	}
	h := testHandler(items, queue)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users/user-1/items/item-1/grade",
		gradeRequest{Grade: "good"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got api.Item
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Greater(t, got.Interval, 1.0)
	assert.Len(t, queue.EnqueueCalls(), 1)
}

func TestHandler_Grade_UnknownItem(t *testing.T) {
	items := &storage.ItemStoreMock{
		GetItemFunc: func(ctx context.Context, userID, itemID string) (*models.ReviewItem, error) {
			return nil, storage.ErrItemNotFound
		},
	}
	h := testHandler(items, &storage.MutationQueueMock{})

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users/user-1/items/missing/grade",
		gradeRequest{Grade: "good"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Grade_InvalidGrade(t *testing.T) {
	h := testHandler(&storage.ItemStoreMock{}, &storage.MutationQueueMock{})

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users/user-1/items/item-1/grade",
		gradeRequest{Grade: "perfect"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_PinAndNotes(t *testing.T) {
	stored := dueItem("user-1", "item-1")
	items := &storage.ItemStoreMock{
		GetItemFunc: func(ctx context.Context, userID, itemID string) (*models.ReviewItem, error) {
			return stored, nil
		},
		PutItemFunc: func(ctx context.Context, item *models.ReviewItem) error {
			stored = item
			return nil
		},
	}
	queue := &storage.MutationQueueMock{
		EnqueueFunc: func(ctx context.Context, m *models.PendingMutation) error {
			return nil
		},
	}
	h := testHandler(items, queue)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users/user-1/items/item-1/pin", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, stored.Pinned)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/users/user-1/items/item-1/notes",
		notesRequest{Notes: "歯 is read は"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "歯 is read は", stored.Notes)

	assert.Len(t, queue.EnqueueCalls(), 2)
}

func TestHandler_Archive(t *testing.T) {
	items := &storage.ItemStoreMock{
		ArchiveItemFunc: func(ctx context.Context, userID, itemID string, timestamp int64, nodeID string) error {
			return nil
		},
	}
	h := testHandler(items, &storage.MutationQueueMock{})

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users/user-1/items/item-1/archive", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	calls := items.ArchiveItemCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "item-1", calls[0].ItemID)
	assert.Equal(t, "node-test", calls[0].NodeID)
}

func TestHandler_DueQueue(t *testing.T) {
	items := &storage.ItemStoreMock{
		ListDueFunc: func(ctx context.Context, userID string, before time.Time, limit int) ([]*models.ReviewItem, error) {
			assert.Equal(t, 10, limit)
			return []*models.ReviewItem{dueItem(userID, "item-1"), dueItem(userID, "item-2")}, nil
		},
	}
	h := testHandler(items, &storage.MutationQueueMock{})

	rec := doJSON(t, h, http.MethodGet, "/api/v1/users/user-1/due?days=1&limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []*api.Item
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "item-1", got[0].ID)
}

func TestHandler_DueQueue_BadParamsFallBack(t *testing.T) {
	items := &storage.ItemStoreMock{
		ListDueFunc: func(ctx context.Context, userID string, before time.Time, limit int) ([]*models.ReviewItem, error) {
			assert.Equal(t, defaultDueLimit, limit)
			return nil, nil
		},
	}
	h := testHandler(items, &storage.MutationQueueMock{})

	rec := doJSON(t, h, http.MethodGet, "/api/v1/users/user-1/due?days=soon&limit=-3", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, items.ListDueCalls(), 1)
}

func TestHandler_DeadLetters(t *testing.T) {
	queue := &storage.MutationQueueMock{
		DeadLettersFunc: func(ctx context.Context, userID string) ([]*models.PendingMutation, error) {
			return []*models.PendingMutation{{
				ID:     "mut-1",
				UserID: userID,
				ItemID: "item-1",
				Kind:   models.MutationGrade,
			}}, nil
		},
	}
	h := testHandler(&storage.ItemStoreMock{}, queue)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/users/user-1/dead-letters", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []*api.MutationRequest
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "mut-1", got[0].ID)
}

func TestHandler_Health(t *testing.T) {
	queue := &storage.MutationQueueMock{
		TotalDepthFunc: func(ctx context.Context) (int, error) {
			return 3, nil
		},
	}
	h := testHandler(&storage.ItemStoreMock{}, queue)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got api.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, 3.0, got.Metrics["queue_depth"])
}
