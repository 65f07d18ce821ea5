package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"golang.org/x/sync/errgroup"

	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
)

// Default runner tuning
const (
	DefaultDrainInterval    = 5 * time.Second
	DefaultDrainConcurrency = 4
)

// Runner drives the engine as a recurring background task: every tick it
// drains all users with pending mutations, a bounded number concurrently.
// Shutdown is deterministic: Stop cancels the cycle context and waits for
// the scheduler.
type Runner struct {
	engine      *Engine
	queue       storage.MutationQueue
	scheduler   *gocron.Scheduler
	logger      *slog.Logger
	interval    time.Duration
	concurrency int
	cancel      context.CancelFunc
}

// NewRunner creates a runner. interval and concurrency fall back to
// defaults when zero.
func NewRunner(engine *Engine, queue storage.MutationQueue, logger *slog.Logger, interval time.Duration, concurrency int) *Runner {
	if interval <= 0 {
		interval = DefaultDrainInterval
	}
	if concurrency <= 0 {
		concurrency = DefaultDrainConcurrency
	}
	return &Runner{
		engine:      engine,
		queue:       queue,
		scheduler:   gocron.NewScheduler(time.UTC),
		logger:      logger,
		interval:    interval,
		concurrency: concurrency,
	}
}

// Start begins the periodic drain task in the background.
func (r *Runner) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	if _, err := r.scheduler.Every(r.interval).Do(func() {
		r.DrainAll(ctx)
	}); err != nil {
		cancel()
		return err
	}

	r.scheduler.StartAsync()
	r.logger.Info("sync runner started", "interval", r.interval)
	return nil
}

// Stop cancels the current cycle context and stops the scheduler.
// Leased-but-unacknowledged mutations are released by the running cycle;
// anything missed becomes visible again when its lease expires.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.scheduler.Stop()
	r.logger.Info("sync runner stopped")
}

// DrainAll runs one drain cycle for every user with pending mutations,
// at most r.concurrency users at a time. Per-user order is preserved by
// the engine; across users there is no ordering guarantee.
func (r *Runner) DrainAll(ctx context.Context) {
	users, err := r.queue.Users(ctx)
	if err != nil {
		r.logger.Error("failed to list users with pending mutations", "error", err)
		return
	}
	if len(users) == 0 {
		return
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, userID := range users {
		g.Go(func() error {
			result, err := r.engine.DrainUser(gCtx, userID)
			if err != nil {
				r.logger.Error("drain cycle failed", "user_id", userID, "error", err)
				return nil // one user's failure doesn't stop the others
			}
			if result.Applied > 0 || result.Conflicts > 0 || result.DeadLettered > 0 {
				r.logger.Info("drain cycle completed",
					"user_id", userID,
					"applied", result.Applied,
					"conflicts", result.Conflicts,
					"dead_lettered", result.DeadLettered)
			}
			return nil
		})
	}

	_ = g.Wait()
}
