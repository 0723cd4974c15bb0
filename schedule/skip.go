package schedule

import (
	"time"

	"github.com/meridian-run/meridian/recurrence"
)

// SkipForward reconciles an overdue recurring job against now, returning a
// job whose recurrence string reflects consumed and remaining occurrences
// without the scheduler executing the full backlog. Jobs that are not yet
// due come back unchanged. Persistence is the caller's responsibility.
func SkipForward(job RecurringJob, now time.Time) (RecurringJob, error) {
	expr, err := job.Expression()
	if err != nil {
		return job, err
	}

	advanced := recurrence.Advance(expr, now)
	job.Recurrence = advanced.String()
	return job, nil
}

// ConsumeOccurrence advances a recurring job's schedule past the occurrence
// that was just dispatched. It returns the updated job and whether any
// occurrence remains; a job whose repetition count was already exhausted
// reports false and is left unchanged.
func ConsumeOccurrence(job RecurringJob) (RecurringJob, bool, error) {
	expr, err := job.Expression()
	if err != nil {
		return job, false, err
	}

	if expr.Repeats == 0 {
		return job, false, nil
	}
	if expr.Repeats > 0 {
		expr.Repeats--
	}
	expr.Anchor = expr.Period.AddTo(expr.Anchor)

	job.Recurrence = expr.String()
	return job, true, nil
}
