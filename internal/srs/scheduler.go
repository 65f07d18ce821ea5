// Package srs implements the spaced-repetition scheduling core: a pure
// SM-2-family computation over an item's interval, ease factor and
// outcome statistics. It performs no I/O; invalid input is a caller bug.
package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
)

// Default tuning values
const (
	DefaultMinEaseFactor     = 1.3
	DefaultStartEaseFactor   = 2.5
	DefaultMaxInterval       = 365.0 // days
	DefaultFailurePenalty    = 0.2   // ease factor drop on an incorrect answer
	DefaultHardEaseDelta     = -0.15
	DefaultEasyEaseDelta     = 0.15
	DefaultHardMultiplier    = 1.2 // replaces the ease factor for hard answers
	DefaultEasyBonus         = 1.3 // multiplied on top of the ease factor for easy answers
	DefaultRecencyWeight     = 0.3 // weight of the newest outcome in the success rate
	DefaultFirstIntervalHard = 0.5 // days, first correct answer on a fresh item
	DefaultFirstIntervalGood = 1.0
	DefaultFirstIntervalEasy = 2.0
)

// Scheduler computes the next SRS state of an item after a graded review.
type Scheduler struct {
	MinEaseFactor  float64
	MaxInterval    float64
	FailurePenalty float64
	HardEaseDelta  float64
	EasyEaseDelta  float64
	HardMultiplier float64
	EasyBonus      float64
	// RecencyWeight is the exponential-decay weight applied to the newest
	// outcome when updating the success rate. Recent performance counts
	// more than old history, which is also what leech detection keys on.
	RecencyWeight float64
}

// NewScheduler creates a scheduler with the default tuning.
func NewScheduler() *Scheduler {
	return &Scheduler{
		MinEaseFactor:  DefaultMinEaseFactor,
		MaxInterval:    DefaultMaxInterval,
		FailurePenalty: DefaultFailurePenalty,
		HardEaseDelta:  DefaultHardEaseDelta,
		EasyEaseDelta:  DefaultEasyEaseDelta,
		HardMultiplier: DefaultHardMultiplier,
		EasyBonus:      DefaultEasyBonus,
		RecencyWeight:  DefaultRecencyWeight,
	}
}

// Grade applies a review outcome to an item and returns the updated copy.
// The input item is not modified. Returns an error only on invalid input:
// that is a programmer error at the call boundary, never retried.
func (s *Scheduler) Grade(item *models.ReviewItem, grade models.Grade, now time.Time) (*models.ReviewItem, error) {
	if !grade.Valid() {
		return nil, fmt.Errorf("invalid grade %q", grade)
	}
	if item.SRS.Interval < 0 {
		return nil, fmt.Errorf("negative interval %v on item %s", item.SRS.Interval, item.ID)
	}
	if item.SRS.EaseFactor != 0 && item.SRS.EaseFactor < s.MinEaseFactor {
		return nil, fmt.Errorf("ease factor %v below floor on item %s", item.SRS.EaseFactor, item.ID)
	}

	next := item.Clone()
	if next.SRS.EaseFactor == 0 {
		// Fresh item, never graded
		next.SRS.EaseFactor = DefaultStartEaseFactor
	}

	if grade.Correct() {
		s.applyCorrect(next, grade)
	} else {
		s.applyIncorrect(next)
	}

	s.updateStats(next, grade.Correct())

	reviewed := now
	due := reviewed.Add(time.Duration(next.SRS.Interval * float64(24*time.Hour)))
	next.SRS.LastReviewedAt = &reviewed
	next.SRS.NextReviewAt = &due
	next.UpdatedAt = now

	return next, nil
}

func (s *Scheduler) applyCorrect(item *models.ReviewItem, grade models.Grade) {
	srs := &item.SRS
	srs.ConsecutiveCorrect++

	if srs.Interval == 0 {
		// First correct answer: fixed starting steps instead of the formula
		switch grade {
		case models.GradeHard:
			srs.Interval = DefaultFirstIntervalHard
		case models.GradeEasy:
			srs.Interval = DefaultFirstIntervalEasy
		default:
			srs.Interval = DefaultFirstIntervalGood
		}
	} else {
		switch grade {
		case models.GradeHard:
			srs.Interval *= s.HardMultiplier
		case models.GradeEasy:
			srs.Interval *= srs.EaseFactor * s.EasyBonus
		default:
			srs.Interval *= srs.EaseFactor
		}
	}

	if srs.Interval > s.MaxInterval {
		srs.Interval = s.MaxInterval
	}

	switch grade {
	case models.GradeHard:
		srs.EaseFactor += s.HardEaseDelta
	case models.GradeEasy:
		srs.EaseFactor += s.EasyEaseDelta
	}
	if srs.EaseFactor < s.MinEaseFactor {
		srs.EaseFactor = s.MinEaseFactor
	}
}

func (s *Scheduler) applyIncorrect(item *models.ReviewItem) {
	srs := &item.SRS
	srs.ConsecutiveCorrect = 0

	if item.State() == models.StateLearning || item.State() == models.StateNew {
		// Still learning: start over the same day
		srs.Interval = 0
	} else {
		srs.Interval = math.Max(1, math.Floor(srs.Interval*0.5))
	}

	srs.EaseFactor -= s.FailurePenalty
	if srs.EaseFactor < s.MinEaseFactor {
		srs.EaseFactor = s.MinEaseFactor
	}
}

// updateStats folds one outcome into the exponentially weighted success
// rate and the attempt counters.
func (s *Scheduler) updateStats(item *models.ReviewItem, correct bool) {
	outcome := 0.0
	if correct {
		outcome = 1.0
	} else {
		item.Stats.FailureCount++
	}

	if item.Stats.TotalAttempts == 0 {
		item.Stats.SuccessRate = outcome
	} else {
		w := s.RecencyWeight
		item.Stats.SuccessRate = item.Stats.SuccessRate*(1-w) + outcome*w
	}
	item.Stats.TotalAttempts++
}
