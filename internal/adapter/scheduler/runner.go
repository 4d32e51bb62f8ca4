package scheduler

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context, now time.Time) error
}

// Runner fires every job on its own ticker until the context ends. A failed
// run is logged and the job is tried again on the next tick.
type Runner struct {
	Jobs   []Job
	Logger *slog.Logger
	Now    func() time.Time
}

func (r Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default().With("component", "scheduler")
}

func (r Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

// Run blocks until ctx is cancelled and every in-flight run has returned.
func (r Runner) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, job := range r.Jobs {
		if job.Interval <= 0 || job.Run == nil {
			r.logger().Warn("scheduler job skipped", "job", job.Name, "interval", job.Interval)
			continue
		}
		g.Go(func() error {
			r.loop(gctx, job)
			return nil
		})
	}
	return g.Wait()
}

func (r Runner) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	log := r.logger().With("job", job.Name)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			started := time.Now()
			if err := job.Run(ctx, r.now()); err != nil {
				log.Error("scheduled job failed", "err", err)
				continue
			}
			log.Debug("scheduled job finished", "elapsed", time.Since(started))
		}
	}
}
