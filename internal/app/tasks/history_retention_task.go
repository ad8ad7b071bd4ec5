package tasks

import (
	"context"
	"fmt"
	"time"
)

const retentionTimeout = 5 * time.Minute

// newHistoryRetentionTask deletes prayers older than history.retention. A
// zero retention keeps history forever.
func newHistoryRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", HistoryRetention)

	return func(ctx context.Context) error {
		retention := deps.Config.History.Retention
		if retention <= 0 {
			log.DebugContext(ctx, "History retention disabled, nothing to purge")
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, retentionTimeout)
		defer cancel()

		cutoff := deps.Now().Add(-retention)
		purged, err := deps.Store.PurgePrayersBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "History retention failed", "error", err, "cutoff", cutoff)
			return fmt.Errorf("history retention failed: %w", err)
		}

		log.InfoContext(ctx, "History retention completed", "purged", purged, "cutoff", cutoff)
		return nil
	}
}
