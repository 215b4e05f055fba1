// workers/aggregation_sweep.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Reconciler scores participations that reached the threshold without being aggregated.
type Reconciler interface {
	ReconcilePending(ctx context.Context) (int, error)
}

// StartAggregationSweep runs r every interval until ctx is done. The
// returned scheduler must be shut down by the caller.
func StartAggregationSweep(ctx context.Context, r Reconciler, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			SweepOnce(ctx, r)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("aggregation-sweep"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule aggregation sweep: %w", err)
	}

	sched.Start()
	slog.Info("aggregation sweep scheduled", "interval", interval.String())
	return sched, nil
}

// SweepOnce runs a single reconciliation pass and logs the outcome.
func SweepOnce(ctx context.Context, r Reconciler) int {
	if ctx.Err() != nil {
		return 0
	}
	n, err := r.ReconcilePending(ctx)
	if err != nil {
		slog.Error("[Sweep] aggregation reconcile failed", "error", err, "scored", n)
		return n
	}
	if n > 0 {
		slog.Info("[Sweep] aggregated pending participations", "scored", n)
	}
	return n
}
