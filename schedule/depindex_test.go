package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depGraph() []Job {
	return []Job{
		RecurringJob{Name: "etl.users", Command: "/bin/etl", Recurrence: "R/2012-01-01T00:00:01Z/P1D"},
		RecurringJob{Name: "etl.orders", Command: "/bin/etl", Recurrence: "R/2012-01-01T00:00:01Z/P1D"},
		DependencyJob{Name: "report.daily", Command: "/bin/report", Parents: []string{"etl.users", "etl.orders"}},
		DependencyJob{Name: "cache.warm", Command: "/bin/warm", Parents: []string{"etl.users"}},
	}
}

func TestDependencyIndexChildren(t *testing.T) {
	idx := BuildDependencyIndex(depGraph())

	assert.Equal(t, []string{"cache.warm", "report.daily"}, idx.Children("etl.users"))
	assert.Equal(t, []string{"report.daily"}, idx.Children("etl.orders"))
	assert.Empty(t, idx.Children("report.daily"))
	assert.Empty(t, idx.Children("unknown"))
}

func TestDependencyIndexParents(t *testing.T) {
	idx := BuildDependencyIndex(depGraph())

	assert.Equal(t, []string{"etl.users", "etl.orders"}, idx.Parents("report.daily"))
	assert.Empty(t, idx.Parents("etl.users"), "recurring jobs are not indexed")
}

func TestDependencyIndexReady(t *testing.T) {
	idx := BuildDependencyIndex(depGraph())

	assert.Empty(t, idx.Ready(map[string]bool{}))
	assert.Equal(t, []string{"cache.warm"},
		idx.Ready(map[string]bool{"etl.users": true}))
	assert.Equal(t, []string{"cache.warm", "report.daily"},
		idx.Ready(map[string]bool{"etl.users": true, "etl.orders": true}))
}

func recordExecution(t *testing.T, executions *ExecutionStore, jobName, status string, startedAt time.Time) {
	t.Helper()
	ts := startedAt.UTC().Format(time.RFC3339)
	require.NoError(t, executions.CreateExecution(&Execution{
		ID:        uuid.NewString(),
		JobName:   jobName,
		Status:    status,
		StartedAt: ts,
		CreatedAt: ts,
		UpdatedAt: ts,
	}))
}

func TestReadyDependencyJobs(t *testing.T) {
	database := createTestDB(t)
	store := NewStore(database)
	executions := NewExecutionStore(database)

	for _, job := range depGraph() {
		require.NoError(t, store.CreateJob(job))
	}

	base := time.Date(2012, 1, 1, 6, 0, 0, 0, time.UTC)

	ready, err := ReadyDependencyJobs(store, executions)
	require.NoError(t, err)
	assert.Empty(t, ready, "nothing ran yet")

	recordExecution(t, executions, "etl.users", ExecutionStatusCompleted, base)
	ready, err = ReadyDependencyJobs(store, executions)
	require.NoError(t, err)
	assert.Equal(t, []string{"cache.warm"}, ready)

	// A failed latest run does not count as completed.
	recordExecution(t, executions, "etl.orders", ExecutionStatusFailed, base.Add(time.Minute))
	ready, err = ReadyDependencyJobs(store, executions)
	require.NoError(t, err)
	assert.Equal(t, []string{"cache.warm"}, ready)

	recordExecution(t, executions, "etl.orders", ExecutionStatusCompleted, base.Add(2*time.Minute))
	ready, err = ReadyDependencyJobs(store, executions)
	require.NoError(t, err)
	assert.Equal(t, []string{"cache.warm", "report.daily"}, ready)
}
