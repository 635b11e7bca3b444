package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Run fires job immediately, then on every interval tick until ctx is
// cancelled. Job errors are logged, never fatal; the next tick retries.
func Run(ctx context.Context, interval time.Duration, name string, job func(ctx context.Context) error) {
	slog.Info("[Scheduler] Starting job",
		slog.String("job", name),
		slog.Duration("interval", interval))

	run := func() {
		if err := job(ctx); err != nil {
			slog.Error("[Scheduler] Job run failed",
				slog.String("job", name),
				slog.String("error", err.Error()))
		}
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[Scheduler] Stopping job",
				slog.String("job", name))
			return
		case <-ticker.C:
			run()
		}
	}
}
