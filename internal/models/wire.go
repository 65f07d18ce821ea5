package models

import (
	"github.com/HelyeFab/moshimoshi-sub017/pkg/api"
)

// ToAPI converts a review item into its wire representation.
func (i *ReviewItem) ToAPI() *api.Item {
	clone := i.Clone()
	return &api.Item{
		ID:                 clone.ID,
		UserID:             clone.UserID,
		ContentType:        string(clone.ContentType),
		Interval:           clone.SRS.Interval,
		EaseFactor:         clone.SRS.EaseFactor,
		ConsecutiveCorrect: clone.SRS.ConsecutiveCorrect,
		LastReviewedAt:     clone.SRS.LastReviewedAt,
		NextReviewAt:       clone.SRS.NextReviewAt,
		SuccessRate:        clone.Stats.SuccessRate,
		TotalAttempts:      clone.Stats.TotalAttempts,
		FailureCount:       clone.Stats.FailureCount,
		Pinned:             clone.Pinned,
		Notes:              clone.Notes,
		Archived:           clone.Archived,
		Timestamp:          clone.Timestamp,
		NodeID:             clone.NodeID,
		CreatedAt:          clone.CreatedAt,
		UpdatedAt:          clone.UpdatedAt,
	}
}

// ItemFromAPI converts a wire item back into the domain model.
func ItemFromAPI(w *api.Item) *ReviewItem {
	item := &ReviewItem{
		ID:          w.ID,
		UserID:      w.UserID,
		ContentType: ContentType(w.ContentType),
		SRS: SRSState{
			Interval:           w.Interval,
			EaseFactor:         w.EaseFactor,
			ConsecutiveCorrect: w.ConsecutiveCorrect,
		},
		Stats: ItemStats{
			SuccessRate:   w.SuccessRate,
			TotalAttempts: w.TotalAttempts,
			FailureCount:  w.FailureCount,
		},
		Pinned:    w.Pinned,
		Notes:     w.Notes,
		Archived:  w.Archived,
		Timestamp: w.Timestamp,
		NodeID:    w.NodeID,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if w.LastReviewedAt != nil {
		t := *w.LastReviewedAt
		item.SRS.LastReviewedAt = &t
	}
	if w.NextReviewAt != nil {
		t := *w.NextReviewAt
		item.SRS.NextReviewAt = &t
	}
	return item
}

// ToAPI converts a pending mutation into its wire request.
func (m *PendingMutation) ToAPI() *api.MutationRequest {
	clone := m.Clone()
	return &api.MutationRequest{
		ID:             clone.ID,
		UserID:         clone.UserID,
		ItemID:         clone.ItemID,
		Kind:           string(clone.Kind),
		Payload:        clone.Payload,
		IdempotencyKey: clone.IdempotencyKey,
		Timestamp:      clone.Timestamp,
		NodeID:         clone.NodeID,
		CreatedAt:      clone.CreatedAt,
	}
}
