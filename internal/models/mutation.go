package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// MutationKind discriminates the tagged payload union of a mutation.
type MutationKind string

const (
	MutationGrade MutationKind = "grade"
	MutationPin   MutationKind = "pin"
	MutationUnpin MutationKind = "unpin"
	MutationEdit  MutationKind = "edit"
)

// Grade is the outcome of one review attempt.
type Grade string

const (
	GradeAgain Grade = "again"
	GradeHard  Grade = "hard"
	GradeGood  Grade = "good"
	GradeEasy  Grade = "easy"
)

// Valid reports whether g is one of the four known grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	}
	return false
}

// Correct reports whether the grade counts as a successful recall.
func (g Grade) Correct() bool {
	return g != GradeAgain
}

// GradePayload carries a graded review outcome together with the full
// post-grading item snapshot. The snapshot is the unit of conflict:
// the remote either accepts the whole record or rejects it as stale.
type GradePayload struct {
	Grade Grade       `json:"grade"`
	Item  *ReviewItem `json:"item"`
}

// PinPayload is carried by pin and unpin mutations.
type PinPayload struct {
	Pinned bool `json:"pinned"`
}

// EditPayload carries a user edit of item notes.
type EditPayload struct {
	Notes string `json:"notes"`
}

// PendingMutation is a locally generated change waiting to be applied to
// the remote system of record. It is owned by the mutation queue from
// enqueue until a terminal ack or dead-letter; the sync engine only
// borrows it for the duration of one remote attempt.
type PendingMutation struct {
	ID             string          `json:"id"`      // unique per device (UUID)
	UserID         string          `json:"user_id"`
	ItemID         string          `json:"item_id"`
	Kind           MutationKind    `json:"kind"`
	Payload        json.RawMessage `json:"payload"`
	IdempotencyKey string          `json:"idempotency_key"`
	Timestamp      int64           `json:"timestamp"` // Lamport timestamp, used for LWW
	NodeID         string          `json:"node_id"`
	Attempts       int             `json:"attempts"`
	CreatedAt      time.Time       `json:"created_at"`

	// Queue bookkeeping, managed by the mutation queue only.
	LeasedUntil time.Time `json:"leased_until"` // zero when not leased
	NotBefore   time.Time `json:"not_before"`   // backoff gate, zero when immediately eligible
	LastError   string    `json:"last_error"`
}

// DeriveIdempotencyKey computes the stable key that makes remote
// application of this mutation exactly-once-effective. Deterministic
// across replays: kind, item and creation instant fully identify the
// logical operation.
func DeriveIdempotencyKey(kind MutationKind, itemID string, createdAt time.Time) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%s:%d", kind, itemID, createdAt.UnixNano()))
	return hex.EncodeToString(sum[:])
}

// IsNewerThan compares the mutation's logical timestamp against a remote
// item version under the same LWW rules items use.
func (m *PendingMutation) IsNewerThan(remote *ReviewItem) bool {
	if m.Timestamp != remote.Timestamp {
		return m.Timestamp > remote.Timestamp
	}
	return m.NodeID > remote.NodeID
}

// GradePayload decodes the payload of a grade mutation.
func (m *PendingMutation) GradePayload() (*GradePayload, error) {
	if m.Kind != MutationGrade {
		return nil, fmt.Errorf("mutation %s is %s, not a grade", m.ID, m.Kind)
	}
	var p GradePayload
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode grade payload: %w", err)
	}
	return &p, nil
}

// Validate checks the mutation envelope and that the payload decodes into
// the shape its kind requires. Called at enqueue time so malformed
// mutations never enter the queue.
func (m *PendingMutation) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("mutation id is required")
	}
	if m.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if m.ItemID == "" {
		return fmt.Errorf("item id is required")
	}

	switch m.Kind {
	case MutationGrade:
		var p GradePayload
		if err := json.Unmarshal(m.Payload, &p); err != nil {
			return fmt.Errorf("invalid grade payload: %w", err)
		}
		if !p.Grade.Valid() {
			return fmt.Errorf("invalid grade %q", p.Grade)
		}
		if p.Item == nil {
			return fmt.Errorf("grade payload requires an item snapshot")
		}
	case MutationPin, MutationUnpin:
		var p PinPayload
		if err := json.Unmarshal(m.Payload, &p); err != nil {
			return fmt.Errorf("invalid pin payload: %w", err)
		}
	case MutationEdit:
		var p EditPayload
		if err := json.Unmarshal(m.Payload, &p); err != nil {
			return fmt.Errorf("invalid edit payload: %w", err)
		}
	default:
		return fmt.Errorf("unknown mutation kind %q", m.Kind)
	}

	return nil
}

// Leased reports whether the mutation is currently leased at the given instant.
func (m *PendingMutation) Leased(now time.Time) bool {
	return m.LeasedUntil.After(now)
}

// Eligible reports whether the mutation may be handed out at the given
// instant: not leased and past its backoff gate.
func (m *PendingMutation) Eligible(now time.Time) bool {
	return !m.Leased(now) && !m.NotBefore.After(now)
}

// Clone returns a deep copy of the mutation.
func (m *PendingMutation) Clone() *PendingMutation {
	clone := *m
	clone.Payload = make(json.RawMessage, len(m.Payload))
	copy(clone.Payload, m.Payload)
	return &clone
}
