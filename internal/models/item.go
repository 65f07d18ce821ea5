package models

import "time"

// ContentType identifies the kind of learning content a review item carries.
type ContentType string

// Supported content types
const (
	ContentTypeKana       ContentType = "kana"
	ContentTypeKanji      ContentType = "kanji"
	ContentTypeVocabulary ContentType = "vocabulary"
	ContentTypeSentence   ContentType = "sentence"
)

// ItemState describes where an item sits in its learning lifecycle.
// The state is derived from SRS fields and never stored authoritatively.
type ItemState string

const (
	StateNew      ItemState = "new"      // never reviewed
	StateLearning ItemState = "learning" // interval below one day
	StateReview   ItemState = "review"   // in the regular review rotation
	StateMastered ItemState = "mastered" // long interval with high success rate
)

// Thresholds for deriving ItemState and flagging leeches
const (
	MasteredMinInterval    = 21.0 // days
	MasteredMinSuccessRate = 0.9
	LeechMaxSuccessRate    = 0.6
)

// SRSState holds the spaced-repetition scheduling fields of an item.
type SRSState struct {
	LastReviewedAt     *time.Time `json:"last_reviewed_at"` // nil until first review
	NextReviewAt       *time.Time `json:"next_review_at"`   // nil only while item is new
	Interval           float64    `json:"interval"`         // days, >= 0
	EaseFactor         float64    `json:"ease_factor"`      // floor 1.3
	ConsecutiveCorrect int        `json:"consecutive_correct"`
}

// ItemStats accumulates review outcome statistics for an item.
// SuccessRate is an exponentially weighted average, recent attempts
// weigh more than old ones.
type ItemStats struct {
	SuccessRate   float64 `json:"success_rate"` // 0..1
	TotalAttempts int     `json:"total_attempts"`
	FailureCount  int     `json:"failure_count"`
}

// ReviewItem represents one learning content unit and its per-user
// review progress. Items are created on first exposure and are never
// deleted while the owning account exists (archive only).
type ReviewItem struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	ContentType ContentType `json:"content_type"`
	SRS         SRSState    `json:"srs"`
	Stats       ItemStats   `json:"stats"`
	Pinned      bool        `json:"pinned"`
	Notes       string      `json:"notes"`
	Archived    bool        `json:"archived"`
	Timestamp   int64       `json:"timestamp"` // Lamport timestamp of the last accepted write
	NodeID      string      `json:"node_id"`   // node that produced that write
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// State derives the lifecycle state from the SRS fields.
func (i *ReviewItem) State() ItemState {
	if i.SRS.LastReviewedAt == nil {
		return StateNew
	}
	if i.SRS.Interval >= MasteredMinInterval && i.Stats.SuccessRate >= MasteredMinSuccessRate {
		return StateMastered
	}
	if i.SRS.Interval <= 1 {
		return StateLearning
	}
	return StateReview
}

// IsLeech reports whether the item is chronically failed: a low success
// rate despite having entered the review rotation. New items are never
// leeches. Leeches are surfaced to the caller, not removed.
func (i *ReviewItem) IsLeech() bool {
	return i.State() != StateNew && i.Stats.SuccessRate < LeechMaxSuccessRate
}

// IsNewerThan compares two versions of the same item under LWW rules:
// higher Lamport timestamp wins, ties break lexicographically on NodeID
// so every node resolves the conflict the same way.
func (i *ReviewItem) IsNewerThan(other *ReviewItem) bool {
	if i.Timestamp != other.Timestamp {
		return i.Timestamp > other.Timestamp
	}
	return i.NodeID > other.NodeID
}

// Clone returns a deep copy of the item.
func (i *ReviewItem) Clone() *ReviewItem {
	clone := *i
	if i.SRS.LastReviewedAt != nil {
		t := *i.SRS.LastReviewedAt
		clone.SRS.LastReviewedAt = &t
	}
	if i.SRS.NextReviewAt != nil {
		t := *i.SRS.NextReviewAt
		clone.SRS.NextReviewAt = &t
	}
	return &clone
}
