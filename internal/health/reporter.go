// Package health turns sync telemetry into an operator-facing verdict.
// The reporter is a pure function of its inputs; it holds no state and
// performs no I/O, so external monitoring can call it as often as it
// likes.
package health

import (
	"fmt"
	"time"

	"github.com/HelyeFab/moshimoshi-sub017/internal/telemetry"
)

// Status is the overall health verdict.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Default verdict thresholds
const (
	DefaultDegradedSuccessRate  = 0.90
	DefaultUnhealthySuccessRate = 0.75
	DefaultBacklogThreshold     = 100
)

// Thresholds tune the verdict rules. Zero values fall back to defaults.
type Thresholds struct {
	// DegradedSuccessRate is the windowed success rate below which the
	// verdict is at least degraded.
	DegradedSuccessRate float64

	// UnhealthySuccessRate is the windowed success rate below which the
	// verdict is unhealthy.
	UnhealthySuccessRate float64

	// BacklogThreshold is the queue depth above which the verdict is at
	// least degraded.
	BacklogThreshold int
}

func (t Thresholds) withDefaults() Thresholds {
	if t.DegradedSuccessRate <= 0 {
		t.DegradedSuccessRate = DefaultDegradedSuccessRate
	}
	if t.UnhealthySuccessRate <= 0 {
		t.UnhealthySuccessRate = DefaultUnhealthySuccessRate
	}
	if t.BacklogThreshold <= 0 {
		t.BacklogThreshold = DefaultBacklogThreshold
	}
	return t
}

// Report is the verdict plus the evidence behind it.
type Report struct {
	Status          Status             `json:"status"`
	TakenAt         time.Time          `json:"taken_at"`
	Recommendations []string           `json:"recommendations"`
	QueueDepth      int                `json:"queue_depth"`
	CircuitState    string             `json:"circuit_state"`
	Snapshot        telemetry.Snapshot `json:"snapshot"`
}

// Reporter produces health reports from telemetry snapshots.
type Reporter struct {
	thresholds Thresholds
}

// NewReporter creates a reporter with the given thresholds.
func NewReporter(thresholds Thresholds) *Reporter {
	return &Reporter{thresholds: thresholds.withDefaults()}
}

// Evaluate combines a telemetry snapshot, the live queue depth and the
// circuit state into a verdict with recommendations. The worst applicable
// rule wins; recommendations accumulate across all triggered rules.
func (r *Reporter) Evaluate(snap telemetry.Snapshot, queueDepth int, circuitState string) *Report {
	report := &Report{
		Status:          StatusHealthy,
		TakenAt:         snap.TakenAt,
		Recommendations: []string{},
		QueueDepth:      queueDepth,
		CircuitState:    circuitState,
		Snapshot:        snap,
	}

	if snap.SuccessRate < r.thresholds.UnhealthySuccessRate {
		report.degrade(StatusUnhealthy)
		report.recommend("sync success rate %.0f%% is critically low, check remote endpoint availability", snap.SuccessRate*100)
	} else if snap.SuccessRate < r.thresholds.DegradedSuccessRate {
		report.degrade(StatusDegraded)
		report.recommend("sync success rate %.0f%% is below normal, monitor remote endpoint", snap.SuccessRate*100)
	}

	if queueDepth > r.thresholds.BacklogThreshold {
		report.degrade(StatusDegraded)
		report.recommend("queue backlog growing (%d pending), check remote endpoint", queueDepth)
	}

	if circuitState != "closed" {
		report.degrade(StatusDegraded)
		report.recommend("circuit breaker is %s, remote calls are being throttled", circuitState)
	}

	if snap.DeadLetterRate > 0 {
		report.recommend("mutations are being dead-lettered, inspect the dead-letter set")
	}
	if snap.Dropped > 0 {
		report.recommend("telemetry events were dropped, metrics may understate load")
	}

	return report
}

// degrade lowers the verdict, never raises it.
func (rep *Report) degrade(to Status) {
	if rep.Status == StatusUnhealthy {
		return
	}
	if to == StatusUnhealthy || rep.Status == StatusHealthy {
		rep.Status = to
	}
}

func (rep *Report) recommend(format string, args ...any) {
	rep.Recommendations = append(rep.Recommendations, fmt.Sprintf(format, args...))
}
