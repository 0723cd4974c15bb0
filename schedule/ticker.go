package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/meridian-run/meridian/errors"
)

// Dispatcher hands a due job to the execution engine. This keeps the ticker
// free of any dependency on the engine's internals; the scheduler
// collaborator owns retries, workers and resource accounting.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// Ticker drives the scheduling loop: on start it runs the skip-forward
// catch-up pass over every active recurring job, then checks for due jobs
// at the configured interval and dispatches them.
type Ticker struct {
	store      *Store
	executions *ExecutionStore
	dispatcher Dispatcher
	limiter    *rate.Limiter
	interval   time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	log        *zap.SugaredLogger

	mu              sync.Mutex
	lastTickAt      time.Time
	ticksSinceStart int64
	dispatched      int64
}

// TickerConfig contains configuration for the scheduling loop.
type TickerConfig struct {
	Interval          time.Duration // How often to check for due jobs
	DispatchPerSecond float64       // Dispatch rate cap after a large backlog
	DispatchBurst     int
}

// DefaultTickerConfig returns sensible defaults.
func DefaultTickerConfig() TickerConfig {
	return TickerConfig{
		Interval:          1 * time.Second,
		DispatchPerSecond: 10,
		DispatchBurst:     10,
	}
}

// NewTicker creates a ticker over the given registry and dispatcher.
func NewTicker(store *Store, executions *ExecutionStore, dispatcher Dispatcher, cfg TickerConfig, log *zap.SugaredLogger) *Ticker {
	return NewTickerWithContext(context.Background(), store, executions, dispatcher, cfg, log)
}

// NewTickerWithContext creates a ticker with a parent context.
func NewTickerWithContext(ctx context.Context, store *Store, executions *ExecutionStore, dispatcher Dispatcher, cfg TickerConfig, log *zap.SugaredLogger) *Ticker {
	tickerCtx, cancel := context.WithCancel(ctx)

	return &Ticker{
		store:      store,
		executions: executions,
		dispatcher: dispatcher,
		limiter:    rate.NewLimiter(rate.Limit(cfg.DispatchPerSecond), cfg.DispatchBurst),
		interval:   cfg.Interval,
		ctx:        tickerCtx,
		cancel:     cancel,
		log:        log,
	}
}

// Start runs the catch-up pass and begins the ticker loop.
func (t *Ticker) Start() error {
	if err := t.CatchUp(time.Now()); err != nil {
		return err
	}

	t.wg.Add(1)
	go t.run()
	t.log.Infow("Ticker started", "interval", t.interval)
	return nil
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	t.cancel()
	t.wg.Wait()
	t.log.Infow("Ticker stopped")
}

// CatchUp skips every active recurring job forward to now, persisting the
// re-encoded recurrence. Run on startup and after a detected stall, so a
// long outage does not turn into a dispatch storm of stale occurrences.
func (t *Ticker) CatchUp(now time.Time) error {
	jobs, err := t.store.ListActiveRecurring()
	if err != nil {
		return errors.Wrap(err, "catch-up: list recurring jobs")
	}

	updated := 0
	for _, job := range jobs {
		skipped, err := SkipForward(job, now)
		if err != nil {
			// A job that validated at creation should always re-parse;
			// log and keep going rather than wedging the whole pass.
			t.log.Errorw("Catch-up failed for job",
				"job_name", job.Name,
				"recurrence", job.Recurrence,
				"error", err)
			continue
		}
		if skipped.Recurrence == job.Recurrence {
			continue
		}
		if err := t.store.UpdateRecurrence(job.Name, skipped.Recurrence); err != nil {
			return errors.Wrapf(err, "catch-up: persist job %s", job.Name)
		}
		t.log.Debugw("Skipped job forward",
			"job_name", job.Name,
			"old", job.Recurrence,
			"new", skipped.Recurrence)
		updated++
	}

	t.log.Infow("Catch-up pass complete", "jobs", len(jobs), "updated", updated)
	return nil
}

// run is the main ticker loop.
func (t *Ticker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case tickTime := <-ticker.C:
			t.mu.Lock()
			t.lastTickAt = tickTime
			t.ticksSinceStart++
			t.mu.Unlock()

			if err := t.checkDueJobs(tickTime); err != nil {
				// Don't spam logs - tick errors recur until resolved
				t.log.Warnw("Tick error", "error", err)
			}
		}
	}
}

// checkDueJobs dispatches every active recurring job whose anchor is at or
// before now, then advances its schedule by the consumed occurrence.
func (t *Ticker) checkDueJobs(now time.Time) error {
	jobs, err := t.store.ListActiveRecurring()
	if err != nil {
		return errors.Wrap(err, "list recurring jobs")
	}

	for _, job := range jobs {
		select {
		case <-t.ctx.Done():
			return t.ctx.Err()
		default:
		}

		expr, err := job.Expression()
		if err != nil {
			t.log.Errorw("Unparsable recurrence in registry",
				"job_name", job.Name,
				"recurrence", job.Recurrence,
				"error", err)
			continue
		}
		if expr.Anchor.After(now) {
			continue
		}

		// Pace dispatches so a backlog cannot stampede the executor.
		if err := t.limiter.Wait(t.ctx); err != nil {
			return err
		}

		if err := t.dispatchJob(job); err != nil {
			t.log.Errorw("Failed to dispatch job",
				"job_name", job.Name,
				"error", err)
			continue
		}
	}
	return nil
}

// dispatchJob records an execution, hands the job to the dispatcher and
// advances the job's schedule past the consumed occurrence.
func (t *Ticker) dispatchJob(job RecurringJob) error {
	startTime := time.Now()

	execution := &Execution{
		ID:        uuid.NewString(),
		JobName:   job.Name,
		Status:    ExecutionStatusRunning,
		StartedAt: startTime.UTC().Format(time.RFC3339),
		CreatedAt: startTime.UTC().Format(time.RFC3339),
		UpdatedAt: startTime.UTC().Format(time.RFC3339),
	}
	if err := t.executions.CreateExecution(execution); err != nil {
		// Execution history is best-effort; scheduling continues without it.
		t.log.Errorw("Failed to create execution record",
			"job_name", job.Name,
			"error", err)
	}

	dispatchErr := t.dispatcher.Dispatch(t.ctx, job)

	completedAt := time.Now()
	durationMs := int(completedAt.Sub(startTime).Milliseconds())
	completed := completedAt.UTC().Format(time.RFC3339)
	execution.CompletedAt = &completed
	execution.DurationMs = &durationMs
	execution.UpdatedAt = completed

	if dispatchErr != nil {
		execution.Status = ExecutionStatusFailed
		msg := dispatchErr.Error()
		execution.ErrorMessage = &msg
		t.log.Errorw("Dispatch FAILED",
			"job_name", job.Name,
			"execution_id", execution.ID,
			"duration_ms", durationMs,
			"error", dispatchErr)
	} else {
		execution.Status = ExecutionStatusCompleted
		t.mu.Lock()
		t.dispatched++
		t.mu.Unlock()
		t.log.Infow("Dispatch OK",
			"job_name", job.Name,
			"execution_id", execution.ID,
			"duration_ms", durationMs)
	}

	if err := t.executions.UpdateExecution(execution); err != nil {
		t.log.Errorw("Failed to update execution record",
			"execution_id", execution.ID,
			"error", err)
	}

	// Advance the schedule even when dispatch failed: the occurrence was
	// consumed; retry policy belongs to the execution engine.
	advanced, remaining, err := ConsumeOccurrence(job)
	if err != nil {
		return errors.Wrapf(err, "advance schedule of job %s", job.Name)
	}
	if !remaining {
		t.log.Infow("Job exhausted its repetitions, deactivating",
			"job_name", job.Name)
		return t.store.SetState(job.Name, StateInactive)
	}
	return t.store.UpdateRecurrence(job.Name, advanced.Recurrence)
}

// GetStats returns ticker statistics.
func (t *Ticker) GetStats() map[string]interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	return map[string]interface{}{
		"last_tick_at":      t.lastTickAt,
		"ticks_since_start": t.ticksSinceStart,
		"dispatched":        t.dispatched,
		"interval":          t.interval,
	}
}
