// Package agent exposes the review core over a local HTTP API so UI
// layers on the same device can grade, browse and inspect health without
// linking the core in-process.
package agent

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
	"github.com/HelyeFab/moshimoshi-sub017/internal/review"
	"github.com/HelyeFab/moshimoshi-sub017/pkg/api"
)

// Default listing bounds for the due queue endpoint
const (
	defaultDueDays  = 0
	defaultDueLimit = 50
)

// Handler serves the local agent API.
type Handler struct {
	logger  *slog.Logger
	reviews review.Service
}

// NewHandler builds the agent's router around the review facade.
func NewHandler(logger *slog.Logger, reviews review.Service) http.Handler {
	h := &Handler{logger: logger, reviews: reviews}

	r := chi.NewRouter()
	r.Get("/api/v1/health", h.handleHealth)
	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
		r.Post("/items", h.handleAddItem)
		r.Get("/due", h.handleDueQueue)
		r.Get("/leeches", h.handleLeeches)
		r.Get("/dead-letters", h.handleDeadLetters)
		r.Post("/items/{itemID}/grade", h.handleGrade)
		r.Post("/items/{itemID}/pin", h.handlePin)
		r.Post("/items/{itemID}/unpin", h.handleUnpin)
		r.Post("/items/{itemID}/notes", h.handleEditNotes)
		r.Post("/items/{itemID}/archive", h.handleArchive)
	})
	return r
}

type addItemRequest struct {
	ItemID      string `json:"item_id"`
	ContentType string `json:"content_type"`
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.reviews.AddItem(r.Context(), userID, req.ItemID, models.ContentType(req.ContentType))
	if err != nil {
		h.logger.Error("failed to add item", "user_id", userID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusCreated, item.ToAPI())
}

type gradeRequest struct {
	Grade string `json:"grade"`
}

func (h *Handler) handleGrade(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	itemID := chi.URLParam(r, "itemID")

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	grade := models.Grade(req.Grade)
	if !grade.Valid() {
		h.writeError(w, http.StatusBadRequest, "invalid grade")
		return
	}

	item, err := h.reviews.GradeReview(r.Context(), userID, itemID, grade)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			h.writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("failed to grade item", "item_id", itemID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusOK, item.ToAPI())
}

func (h *Handler) handlePin(w http.ResponseWriter, r *http.Request) {
	h.applySimple(w, r, models.MutationPin, models.PinPayload{Pinned: true})
}

func (h *Handler) handleUnpin(w http.ResponseWriter, r *http.Request) {
	h.applySimple(w, r, models.MutationUnpin, models.PinPayload{Pinned: false})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) handleEditNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.applySimple(w, r, models.MutationEdit, models.EditPayload{Notes: req.Notes})
}

// applySimple routes a non-grade mutation through the facade.
func (h *Handler) applySimple(w http.ResponseWriter, r *http.Request, kind models.MutationKind, payload any) {
	userID := chi.URLParam(r, "userID")
	itemID := chi.URLParam(r, "itemID")

	if err := h.reviews.EnqueueMutation(r.Context(), userID, itemID, kind, payload); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			h.writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("failed to enqueue mutation", "item_id", itemID, "kind", kind, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	itemID := chi.URLParam(r, "itemID")

	if err := h.reviews.ArchiveItem(r.Context(), userID, itemID); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			h.writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("failed to archive item", "item_id", itemID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleDueQueue(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	days := queryInt(r, "days", defaultDueDays)
	limit := queryInt(r, "limit", defaultDueLimit)

	due, err := h.reviews.GetDueQueue(r.Context(), userID, days, limit)
	if err != nil {
		h.logger.Error("failed to list due items", "user_id", userID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusOK, toAPIItems(due))
}

func (h *Handler) handleLeeches(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	leeches, err := h.reviews.Leeches(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list leeches", "user_id", userID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusOK, toAPIItems(leeches))
}

func (h *Handler) handleDeadLetters(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	dead, err := h.reviews.DeadLetters(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list dead letters", "user_id", userID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]*api.MutationRequest, 0, len(dead))
	for _, m := range dead {
		out = append(out, m.ToAPI())
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	report, err := h.reviews.GetHealthSnapshot(r.Context())
	if err != nil {
		h.logger.Error("failed to build health snapshot", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := api.HealthResponse{
		Status:          string(report.Status),
		Recommendations: report.Recommendations,
		Metrics: map[string]float64{
			"success_rate":     report.Snapshot.SuccessRate,
			"retry_rate":       report.Snapshot.RetryRate,
			"conflict_rate":    report.Snapshot.ConflictRate,
			"dead_letter_rate": report.Snapshot.DeadLetterRate,
			"latency_p50_ms":   report.Snapshot.LatencyP50,
			"latency_p95_ms":   report.Snapshot.LatencyP95,
			"latency_p99_ms":   report.Snapshot.LatencyP99,
			"store_failures":   float64(report.Snapshot.StoreFailures),
			"queue_depth":      float64(report.QueueDepth),
		},
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func toAPIItems(items []*models.ReviewItem) []*api.Item {
	out := make([]*api.Item, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToAPI())
	}
	return out
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, api.ErrorResponse{Error: message})
}
