// Package review is the inbound facade of the core: user-triggered
// operations enter here, get their local effect applied immediately, and
// leave a durable mutation behind for the sync engine to push out.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
	"github.com/HelyeFab/moshimoshi-sub017/internal/crdt"
	"github.com/HelyeFab/moshimoshi-sub017/internal/health"
	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
	"github.com/HelyeFab/moshimoshi-sub017/internal/srs"
	"github.com/HelyeFab/moshimoshi-sub017/internal/telemetry"
)

// Service defines the inbound operations of the review core.
type Service interface {
	// AddItem creates a new, never-reviewed item for a user.
	AddItem(ctx context.Context, userID, itemID string, contentType models.ContentType) (*models.ReviewItem, error)

	// GradeReview applies a graded review outcome: runs the scheduler,
	// persists the new item state locally and enqueues the change for
	// remote application. Returns the post-grading item.
	GradeReview(ctx context.Context, userID, itemID string, grade models.Grade) (*models.ReviewItem, error)

	// EnqueueMutation applies a non-grade local change (pin, unpin, edit)
	// and enqueues it for remote application.
	EnqueueMutation(ctx context.Context, userID, itemID string, kind models.MutationKind, payload any) error

	// GetDueQueue returns up to limit items due within the given number
	// of days, oldest due first.
	GetDueQueue(ctx context.Context, userID string, withinDays int, limit int) ([]*models.ReviewItem, error)

	// Leeches returns the user's chronically failed items.
	Leeches(ctx context.Context, userID string) ([]*models.ReviewItem, error)

	// ArchiveItem soft-archives an item. Archived items drop out of the
	// due queue but are never deleted.
	ArchiveItem(ctx context.Context, userID, itemID string) error

	// DeadLetters returns the user's permanently failed mutations for
	// inspection.
	DeadLetters(ctx context.Context, userID string) ([]*models.PendingMutation, error)

	// GetHealthSnapshot combines telemetry, queue depth and circuit state
	// into a health verdict for monitoring and UI backoff decisions.
	GetHealthSnapshot(ctx context.Context) (*health.Report, error)
}

type service struct {
	items     storage.ItemStore
	queue     storage.MutationQueue
	scheduler *srs.Scheduler
	clock     *crdt.Clock
	collector *telemetry.Collector
	reporter  *health.Reporter

	// circuitState reports the live breaker state for health snapshots.
	circuitState func() string
}

// NewService creates the review facade.
func NewService(
	items storage.ItemStore,
	queue storage.MutationQueue,
	scheduler *srs.Scheduler,
	clock *crdt.Clock,
	collector *telemetry.Collector,
	reporter *health.Reporter,
	circuitState func() string,
) Service {
	return &service{
		items:        items,
		queue:        queue,
		scheduler:    scheduler,
		clock:        clock,
		collector:    collector,
		reporter:     reporter,
		circuitState: circuitState,
	}
}

func (s *service) AddItem(ctx context.Context, userID, itemID string, contentType models.ContentType) (*models.ReviewItem, error) {
	if itemID == "" {
		itemID = uuid.New().String()
	}

	now := time.Now()
	item := &models.ReviewItem{
		ID:          itemID,
		UserID:      userID,
		ContentType: contentType,
		SRS: models.SRSState{
			EaseFactor: srs.DefaultStartEaseFactor,
		},
		Timestamp: s.clock.Tick(),
		NodeID:    s.clock.NodeID(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.items.PutItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to store new item: %w", err)
	}
	return item, nil
}

func (s *service) GradeReview(ctx context.Context, userID, itemID string, grade models.Grade) (*models.ReviewItem, error) {
	item, err := s.items.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}

	now := time.Now()
	graded, err := s.scheduler.Grade(item, grade, now)
	if err != nil {
		return nil, fmt.Errorf("failed to grade item: %w", err)
	}
	graded.Timestamp = s.clock.Tick()
	graded.NodeID = s.clock.NodeID()
	graded.UpdatedAt = now

	// Local-first: the user sees the new state immediately, the remote
	// catches up through the queue
	if err := s.items.PutItem(ctx, graded); err != nil {
		return nil, fmt.Errorf("failed to store graded item: %w", err)
	}

	payload, err := json.Marshal(models.GradePayload{Grade: grade, Item: graded})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grade payload: %w", err)
	}

	m := &models.PendingMutation{
		ID:        uuid.New().String(),
		UserID:    userID,
		ItemID:    itemID,
		Kind:      models.MutationGrade,
		Payload:   payload,
		Timestamp: graded.Timestamp,
		NodeID:    graded.NodeID,
		CreatedAt: now,
	}
	if err := s.queue.Enqueue(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to enqueue grade mutation: %w", err)
	}

	return graded, nil
}

func (s *service) EnqueueMutation(ctx context.Context, userID, itemID string, kind models.MutationKind, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	now := time.Now()
	m := &models.PendingMutation{
		ID:        uuid.New().String(),
		UserID:    userID,
		ItemID:    itemID,
		Kind:      kind,
		Payload:   raw,
		Timestamp: s.clock.Tick(),
		NodeID:    s.clock.NodeID(),
		CreatedAt: now,
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid mutation: %w", err)
	}

	if err := s.applyLocal(ctx, m, now); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, m); err != nil {
		return fmt.Errorf("failed to enqueue mutation: %w", err)
	}
	return nil
}

// applyLocal gives a non-grade mutation its immediate local effect.
func (s *service) applyLocal(ctx context.Context, m *models.PendingMutation, now time.Time) error {
	item, err := s.items.GetItem(ctx, m.UserID, m.ItemID)
	if err != nil {
		return fmt.Errorf("failed to load item: %w", err)
	}

	switch m.Kind {
	case models.MutationPin:
		item.Pinned = true
	case models.MutationUnpin:
		item.Pinned = false
	case models.MutationEdit:
		var p models.EditPayload
		if err := json.Unmarshal(m.Payload, &p); err != nil {
			return fmt.Errorf("invalid edit payload: %w", err)
		}
		item.Notes = p.Notes
	case models.MutationGrade:
		return fmt.Errorf("grade mutations go through GradeReview")
	default:
		return fmt.Errorf("unknown mutation kind %q", m.Kind)
	}

	item.Timestamp = m.Timestamp
	item.NodeID = m.NodeID
	item.UpdatedAt = now

	if err := s.items.PutItem(ctx, item); err != nil {
		return fmt.Errorf("failed to store item: %w", err)
	}
	return nil
}

func (s *service) GetDueQueue(ctx context.Context, userID string, withinDays int, limit int) ([]*models.ReviewItem, error) {
	before := time.Now().Add(time.Duration(withinDays) * 24 * time.Hour)
	due, err := s.items.ListDue(ctx, userID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due items: %w", err)
	}
	return due, nil
}

func (s *service) Leeches(ctx context.Context, userID string) ([]*models.ReviewItem, error) {
	items, err := s.items.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	var leeches []*models.ReviewItem
	for _, item := range items {
		if !item.Archived && item.IsLeech() {
			leeches = append(leeches, item)
		}
	}
	return leeches, nil
}

func (s *service) ArchiveItem(ctx context.Context, userID, itemID string) error {
	if err := s.items.ArchiveItem(ctx, userID, itemID, s.clock.Tick(), s.clock.NodeID()); err != nil {
		return fmt.Errorf("failed to archive item: %w", err)
	}
	return nil
}

func (s *service) DeadLetters(ctx context.Context, userID string) ([]*models.PendingMutation, error) {
	dead, err := s.queue.DeadLetters(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead letters: %w", err)
	}
	return dead, nil
}

func (s *service) GetHealthSnapshot(ctx context.Context) (*health.Report, error) {
	depth, err := s.queue.TotalDepth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue depth: %w", err)
	}
	return s.reporter.Evaluate(s.collector.Snapshot(), depth, s.circuitState()), nil
}
