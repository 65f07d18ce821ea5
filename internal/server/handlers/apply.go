// Package handlers implements the HTTP handlers of the system of record.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
	"github.com/HelyeFab/moshimoshi-sub017/internal/server/storage"
	"github.com/HelyeFab/moshimoshi-sub017/pkg/api"
)

// ItemStorage defines what the apply handler needs from persistence.
type ItemStorage interface {
	SaveItem(ctx context.Context, item *models.ReviewItem) (bool, error)
	GetItem(ctx context.Context, userID, itemID string) (*models.ReviewItem, error)
	WasApplied(ctx context.Context, idempotencyKey string) (bool, error)
	MarkApplied(ctx context.Context, idempotencyKey, userID, itemID string) error
}

// ApplyHandler handles mutation application requests.
type ApplyHandler struct {
	logger  *slog.Logger
	storage ItemStorage
}

// NewApplyHandler creates a new apply handler
func NewApplyHandler(logger *slog.Logger, storage ItemStorage) *ApplyHandler {
	return &ApplyHandler{
		logger:  logger,
		storage: storage,
	}
}

// HandleApply handles POST /api/v1/mutations.
//
// Duplicate deliveries are absorbed through the idempotency key: a replay
// returns the stored outcome without applying twice. Version conflicts
// resolve by last-write-wins; a mutation older than the stored item gets
// a 409 carrying the stored version so the client can converge.
func (h *ApplyHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.MutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ID == "" || req.UserID == "" || req.ItemID == "" || req.IdempotencyKey == "" || req.NodeID == "" {
		h.writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	kind := models.MutationKind(req.Kind)
	switch kind {
	case models.MutationGrade, models.MutationPin, models.MutationUnpin, models.MutationEdit:
	default:
		h.writeError(w, http.StatusUnprocessableEntity, "unknown mutation kind")
		return
	}

	// Replay of an already-applied mutation: confirm without reapplying
	seen, err := h.storage.WasApplied(ctx, req.IdempotencyKey)
	if err != nil {
		h.logger.Error("failed to check idempotency key", "error", err, "mutation_id", req.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if seen {
		h.logger.Info("duplicate mutation absorbed",
			"mutation_id", req.ID,
			"idempotency_key", req.IdempotencyKey)
		h.writeJSON(w, http.StatusOK, api.ApplyResponse{
			Status:          api.StatusApplied,
			RemoteTimestamp: req.Timestamp,
		})
		return
	}

	existing, err := h.storage.GetItem(ctx, req.UserID, req.ItemID)
	if err != nil && !errors.Is(err, storage.ErrItemNotFound) {
		h.logger.Error("failed to load item", "error", err, "item_id", req.ItemID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// LWW: the stored version wins against an older mutation. The client
	// pulls the returned version and resolves locally the same way.
	if existing != nil && !mutationIsNewer(&req, existing) {
		h.logger.Info("mutation lost conflict resolution",
			"mutation_id", req.ID,
			"item_id", req.ItemID,
			"mutation_timestamp", req.Timestamp,
			"stored_timestamp", existing.Timestamp)
		h.writeJSON(w, http.StatusConflict, api.ApplyResponse{
			Status:          api.StatusConflict,
			RemoteItem:      existing.ToAPI(),
			RemoteTimestamp: existing.Timestamp,
		})
		return
	}

	item, errMsg, status := h.applyMutation(&req, kind, existing)
	if errMsg != "" {
		h.writeError(w, status, errMsg)
		return
	}

	if _, err := h.storage.SaveItem(ctx, item); err != nil {
		h.logger.Error("failed to save item", "error", err, "item_id", item.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.storage.MarkApplied(ctx, req.IdempotencyKey, req.UserID, req.ItemID); err != nil {
		h.logger.Error("failed to record idempotency key", "error", err, "mutation_id", req.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("mutation applied",
		"mutation_id", req.ID,
		"item_id", req.ItemID,
		"kind", req.Kind,
		"timestamp", req.Timestamp)

	h.writeJSON(w, http.StatusOK, api.ApplyResponse{
		Status:          api.StatusApplied,
		RemoteTimestamp: req.Timestamp,
	})
}

// applyMutation produces the post-apply item state. A non-empty errMsg
// means the mutation is rejected with the given status.
func (h *ApplyHandler) applyMutation(req *api.MutationRequest, kind models.MutationKind, existing *models.ReviewItem) (item *models.ReviewItem, errMsg string, status int) {
	now := time.Now().UTC()

	switch kind {
	case models.MutationGrade:
		var p models.GradePayload
		if err := json.Unmarshal(req.Payload, &p); err != nil || p.Item == nil {
			return nil, "invalid grade payload", http.StatusUnprocessableEntity
		}
		if !p.Grade.Valid() {
			return nil, "invalid grade", http.StatusUnprocessableEntity
		}
		// The snapshot is the unit of conflict: accept it wholesale
		item = p.Item.Clone()
		item.ID = req.ItemID
		item.UserID = req.UserID
		if existing != nil {
			item.CreatedAt = existing.CreatedAt
		} else if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}

	case models.MutationPin, models.MutationUnpin:
		if existing == nil {
			return nil, "unknown item", http.StatusUnprocessableEntity
		}
		var p models.PinPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return nil, "invalid pin payload", http.StatusUnprocessableEntity
		}
		item = existing.Clone()
		item.Pinned = kind == models.MutationPin

	case models.MutationEdit:
		if existing == nil {
			return nil, "unknown item", http.StatusUnprocessableEntity
		}
		var p models.EditPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return nil, "invalid edit payload", http.StatusUnprocessableEntity
		}
		item = existing.Clone()
		item.Notes = p.Notes
	}

	item.Timestamp = req.Timestamp
	item.NodeID = req.NodeID
	item.UpdatedAt = now
	return item, "", 0
}

// mutationIsNewer applies the LWW rules items use to a request envelope.
func mutationIsNewer(req *api.MutationRequest, item *models.ReviewItem) bool {
	if req.Timestamp != item.Timestamp {
		return req.Timestamp > item.Timestamp
	}
	return req.NodeID > item.NodeID
}

func (h *ApplyHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *ApplyHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, api.ErrorResponse{Error: message})
}
