package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridian-run/meridian/logger"
	"github.com/meridian-run/meridian/schedule"
)

// SkipCmd runs the skip-forward catch-up pass once and exits. This is what
// an operator (or the scheduler itself) runs after an outage to eliminate
// the backlog without dispatching stale occurrences.
var SkipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Skip overdue recurring jobs forward to now",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, _, err := openRegistry()
		if err != nil {
			return err
		}
		defer database.Close()

		store := schedule.NewStore(database)
		jobs, err := store.ListActiveRecurring()
		if err != nil {
			return err
		}

		now := time.Now()
		updated := 0
		for _, job := range jobs {
			skipped, err := schedule.SkipForward(job, now)
			if err != nil {
				logger.Logger.Errorw("Skip-forward failed",
					"job_name", job.Name,
					"recurrence", job.Recurrence,
					"error", err)
				continue
			}
			if skipped.Recurrence == job.Recurrence {
				continue
			}
			if err := store.UpdateRecurrence(job.Name, skipped.Recurrence); err != nil {
				return err
			}
			fmt.Printf("%s: %s -> %s\n", job.Name, job.Recurrence, skipped.Recurrence)
			updated++
		}

		fmt.Printf("Skipped %d of %d recurring job(s) forward\n", updated, len(jobs))
		return nil
	},
}
