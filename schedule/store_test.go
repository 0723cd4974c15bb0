package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-run/meridian/errors"
)

func TestCreateAndGetRecurringJob(t *testing.T) {
	store := NewStore(createTestDB(t))

	job := RecurringJob{
		Name:       "etl.nightly",
		Command:    "/usr/bin/etl --mode full",
		Owner:      "data@example.com",
		Recurrence: "R/2012-01-01T00:00:01.000Z/P1D",
		TimeZone:   "America/New_York",
	}
	require.NoError(t, store.CreateJob(job))

	// Every field round-trips, including the opaque recurrence string.
	got, err := store.GetJob("etl.nightly")
	require.NoError(t, err)
	assert.Equal(t, job, got)

	state, err := store.GetState("etl.nightly")
	require.NoError(t, err)
	assert.Equal(t, StateActive, state)
}

func TestCreateAndGetDependencyJob(t *testing.T) {
	store := NewStore(createTestDB(t))

	job := DependencyJob{
		Name:    "report.daily",
		Command: "/usr/bin/report",
		Owner:   "bi@example.com",
		Parents: []string{"etl.nightly", "etl.users"},
	}
	require.NoError(t, store.CreateJob(job))

	got, err := store.GetJob("report.daily")
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestCreateJobRejectsInvalidDefinitions(t *testing.T) {
	store := NewStore(createTestDB(t))

	// A job with an unparsable recurrence must be rejected at the boundary,
	// never accepted as unscheduled.
	err := store.CreateJob(RecurringJob{
		Name:       "etl.broken",
		Command:    "/usr/bin/etl",
		Recurrence: "R/banana/P1D",
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRecurrenceError(err))
	assert.Contains(t, err.Error(), "R/banana/P1D")

	_, err = store.GetJob("etl.broken")
	assert.True(t, errors.IsNotFoundError(err))

	err = store.CreateJob(DependencyJob{Name: "orphan", Command: "/bin/true"})
	require.Error(t, err)
}

func TestGetJobNotFound(t *testing.T) {
	store := NewStore(createTestDB(t))

	_, err := store.GetJob("missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestListJobs(t *testing.T) {
	store := NewStore(createTestDB(t))

	require.NoError(t, store.CreateJob(RecurringJob{
		Name: "b.recurring", Command: "/bin/b",
		Recurrence: "R/2012-01-01T00:00:01Z/P1D",
	}))
	require.NoError(t, store.CreateJob(DependencyJob{
		Name: "a.dependent", Command: "/bin/a", Parents: []string{"b.recurring"},
	}))

	jobs, err := store.ListJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	// Ordered by name
	assert.Equal(t, "a.dependent", jobs[0].JobName())
	assert.Equal(t, "b.recurring", jobs[1].JobName())
}

func TestListActiveRecurring(t *testing.T) {
	store := NewStore(createTestDB(t))

	require.NoError(t, store.CreateJob(RecurringJob{
		Name: "etl.active", Command: "/bin/etl",
		Recurrence: "R/2012-01-01T00:00:01Z/P1D",
	}))
	require.NoError(t, store.CreateJob(RecurringJob{
		Name: "etl.paused", Command: "/bin/etl",
		Recurrence: "R/2012-01-01T00:00:01Z/P1D",
	}))
	require.NoError(t, store.CreateJob(DependencyJob{
		Name: "report", Command: "/bin/report", Parents: []string{"etl.active"},
	}))
	require.NoError(t, store.SetState("etl.paused", StatePaused))

	jobs, err := store.ListActiveRecurring()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "etl.active", jobs[0].Name)
}

func TestUpdateRecurrence(t *testing.T) {
	store := NewStore(createTestDB(t))

	require.NoError(t, store.CreateJob(RecurringJob{
		Name: "etl.nightly", Command: "/bin/etl",
		Recurrence: "R5/2012-01-01T00:00:01.000Z/P1D",
	}))

	updated := "R4/2012-01-02T00:00:01.000Z/P1D"
	require.NoError(t, store.UpdateRecurrence("etl.nightly", updated))

	got, err := store.GetJob("etl.nightly")
	require.NoError(t, err)
	assert.Equal(t, updated, got.(RecurringJob).Recurrence)

	err = store.UpdateRecurrence("missing", updated)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDeleteJobIsSoft(t *testing.T) {
	store := NewStore(createTestDB(t))

	require.NoError(t, store.CreateJob(RecurringJob{
		Name: "etl.nightly", Command: "/bin/etl",
		Recurrence: "R/2012-01-01T00:00:01Z/P1D",
	}))
	require.NoError(t, store.DeleteJob("etl.nightly"))

	_, err := store.GetJob("etl.nightly")
	assert.True(t, errors.IsNotFoundError(err))

	// The row survives with state recorded for audit.
	state, err := store.GetState("etl.nightly")
	require.NoError(t, err)
	assert.Equal(t, StateDeleted, state)

	jobs, err := store.ListJobs()
	require.NoError(t, err)
	assert.Len(t, jobs, 0)
}
