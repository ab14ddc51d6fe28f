package workers

import (
	"collab-lab/contract"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Sweeper purges transient projects whose deletion mark outlived the grace
// period. The mark is set by the topology when the last occupant leaves; the
// grace period lets a quickly reconnecting client reclaim its project.
type Sweeper struct {
	projects contract.ProjectStore
	log      *slog.Logger
	interval time.Duration
	grace    time.Duration
}

func NewSweeper(projects contract.ProjectStore, log *slog.Logger, interval, grace time.Duration) *Sweeper {
	return &Sweeper{projects: projects, log: log, interval: interval, grace: grace}
}

func (w *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			purged, err := w.projects.PurgeMarkedBefore(time.Now().UTC().Add(-w.grace))
			if err != nil {
				return fmt.Errorf("could not purge transient projects: %w", err)
			}
			if purged > 0 {
				w.log.Info(fmt.Sprintf("Purged %d abandoned transient project(s)", purged))
			}
		}
	}
}
