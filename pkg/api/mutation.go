package api

import (
	"encoding/json"
	"time"
)

// Apply statuses returned by the mutation endpoint
const (
	StatusApplied  = "applied"
	StatusConflict = "conflict"
)

// MutationRequest represents one pending mutation submitted for remote
// application. IdempotencyKey makes replays exactly-once-effective: the
// server returns the stored outcome instead of applying twice.
type MutationRequest struct {
	CreatedAt      time.Time       `json:"created_at"`
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ItemID         string          `json:"item_id"`
	Kind           string          `json:"kind"`
	IdempotencyKey string          `json:"idempotency_key"`
	NodeID         string          `json:"node_id"`
	Payload        json.RawMessage `json:"payload"`
	Timestamp      int64           `json:"timestamp"`
}

// ApplyResponse represents the server's verdict on a mutation.
// On a conflict the response carries the remote version of the item so
// the client can resolve deterministically.
type ApplyResponse struct {
	RemoteItem      *Item  `json:"remote_item,omitempty"`
	Status          string `json:"status"`
	RemoteTimestamp int64  `json:"remote_timestamp"`
}

// Item is the wire representation of a review item
type Item struct {
	LastReviewedAt     *time.Time `json:"last_reviewed_at"`
	NextReviewAt       *time.Time `json:"next_review_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	ContentType        string     `json:"content_type"`
	NodeID             string     `json:"node_id"`
	Notes              string     `json:"notes"`
	Interval           float64    `json:"interval"`
	EaseFactor         float64    `json:"ease_factor"`
	SuccessRate        float64    `json:"success_rate"`
	Timestamp          int64      `json:"timestamp"`
	ConsecutiveCorrect int        `json:"consecutive_correct"`
	TotalAttempts      int        `json:"total_attempts"`
	FailureCount       int        `json:"failure_count"`
	Pinned             bool       `json:"pinned"`
	Archived           bool       `json:"archived"`
}

// ErrorResponse represents an error returned by the server
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
