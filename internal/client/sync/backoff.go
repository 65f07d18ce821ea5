package sync

import (
	"math/rand/v2"
	"time"
)

// Default backoff tuning
const (
	DefaultBackoffBase = time.Second
	DefaultBackoffMax  = 5 * time.Minute
)

// backoffDelay computes the retry delay for a mutation that has already
// failed `attempts` times: base * 2^attempts, capped at max, plus up to
// 25% jitter so a burst of failed mutations doesn't retry in lockstep.
func backoffDelay(base time.Duration, attempts int, max time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if max <= 0 {
		max = DefaultBackoffMax
	}

	delay := base
	for i := 0; i < attempts && delay < max; i++ {
		delay *= 2
	}
	if delay > max {
		delay = max
	}

	jitter := time.Duration(rand.Int64N(int64(delay/4) + 1))
	delay += jitter
	if delay > max {
		delay = max
	}

	return delay
}
