package telemetry

import "time"

// sample is one ephemeral performance observation. Samples only feed
// derived aggregates and are evicted oldest-first at fixed capacity.
type sample struct {
	at    time.Time
	value float64
}

// ring is a fixed-capacity FIFO buffer of samples.
type ring struct {
	samples []sample
	next    int
	full    bool
}

func newRing(capacity int) *ring {
	return &ring{samples: make([]sample, capacity)}
}

// push appends a sample, evicting the oldest when full.
func (r *ring) push(s sample) {
	r.samples[r.next] = s
	r.next++
	if r.next == len(r.samples) {
		r.next = 0
		r.full = true
	}
}

// since returns the values of all samples taken at or after the cutoff.
func (r *ring) since(cutoff time.Time) []float64 {
	count := r.next
	if r.full {
		count = len(r.samples)
	}

	var values []float64
	for i := 0; i < count; i++ {
		if !r.samples[i].at.Before(cutoff) {
			values = append(values, r.samples[i].value)
		}
	}
	return values
}
