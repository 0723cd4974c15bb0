package schedule

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/meridian-run/meridian/errors"
)

// Job variant discriminators as persisted in the jobs table.
const (
	KindRecurring  = "recurring"
	KindDependency = "dependency"
)

// Registry states for jobs.
const (
	StateActive   = "active"   // Job is eligible for scheduling
	StatePaused   = "paused"   // Job is temporarily paused by user
	StateInactive = "inactive" // Bounded job whose occurrences are exhausted
	StateDeleted  = "deleted"  // Job has been deleted by user (soft delete)
)

// Store is the sqlite-backed job registry. Jobs round-trip with every field
// intact, including the recurrence string, which is persisted opaquely.
type Store struct {
	db *sql.DB
}

// NewStore creates a job registry over an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateJob validates and persists a job definition. A job with an
// unparsable recurrence or malformed name is rejected here, never silently
// accepted as unscheduled.
func (s *Store) CreateJob(job Job) error {
	if err := ValidateJob(job); err != nil {
		return err
	}

	var kind string
	var recurrenceText, timeZone, parents interface{}

	switch j := job.(type) {
	case RecurringJob:
		kind = KindRecurring
		recurrenceText = j.Recurrence
		if j.TimeZone != "" {
			timeZone = j.TimeZone
		}
	case DependencyJob:
		kind = KindDependency
		encoded, err := json.Marshal(j.Parents)
		if err != nil {
			return errors.Wrapf(err, "encode parents for job %s", j.Name)
		}
		parents = string(encoded)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO jobs (
			name, kind, command, owner, recurrence, time_zone, parents,
			state, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.JobName(), kind, job.JobCommand(), job.JobOwner(),
		recurrenceText, timeZone, parents, StateActive, now, now)
	if err != nil {
		return errors.Wrapf(err, "create job %s", job.JobName())
	}
	return nil
}

// GetJob returns a job by name, or ErrNotFound.
func (s *Store) GetJob(name string) (Job, error) {
	row := s.db.QueryRow(`
		SELECT name, kind, command, owner, recurrence, time_zone, parents
		FROM jobs
		WHERE name = ? AND state != ?
	`, name, StateDeleted)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("job %s", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get job %s", name)
	}
	return job, nil
}

// GetState returns the registry state of a job.
func (s *Store) GetState(name string) (string, error) {
	var state string
	err := s.db.QueryRow(`SELECT state FROM jobs WHERE name = ?`, name).Scan(&state)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFoundError("job %s", name)
	}
	if err != nil {
		return "", errors.Wrapf(err, "get state of job %s", name)
	}
	return state, nil
}

// ListJobs returns every non-deleted job definition.
func (s *Store) ListJobs() ([]Job, error) {
	rows, err := s.db.Query(`
		SELECT name, kind, command, owner, recurrence, time_zone, parents
		FROM jobs
		WHERE state != ?
		ORDER BY name
	`, StateDeleted)
	if err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan job")
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListActiveRecurring returns the active recurring jobs, the working set of
// both the catch-up pass and the ticker.
func (s *Store) ListActiveRecurring() ([]RecurringJob, error) {
	rows, err := s.db.Query(`
		SELECT name, kind, command, owner, recurrence, time_zone, parents
		FROM jobs
		WHERE kind = ? AND state = ?
		ORDER BY name
	`, KindRecurring, StateActive)
	if err != nil {
		return nil, errors.Wrap(err, "list recurring jobs")
	}
	defer rows.Close()

	var jobs []RecurringJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan job")
		}
		jobs = append(jobs, job.(RecurringJob))
	}
	return jobs, rows.Err()
}

// UpdateRecurrence replaces a recurring job's schedule text, as produced by
// SkipForward or ConsumeOccurrence.
func (s *Store) UpdateRecurrence(name, recurrenceText string) error {
	result, err := s.db.Exec(`
		UPDATE jobs SET recurrence = ?, updated_at = ?
		WHERE name = ? AND kind = ?
	`, recurrenceText, time.Now().UTC().Format(time.RFC3339), name, KindRecurring)
	if err != nil {
		return errors.Wrapf(err, "update recurrence of job %s", name)
	}
	return requireRowAffected(result, name)
}

// SetState transitions a job's registry state.
func (s *Store) SetState(name, state string) error {
	result, err := s.db.Exec(`
		UPDATE jobs SET state = ?, updated_at = ?
		WHERE name = ?
	`, state, time.Now().UTC().Format(time.RFC3339), name)
	if err != nil {
		return errors.Wrapf(err, "set state of job %s", name)
	}
	return requireRowAffected(result, name)
}

// DeleteJob soft-deletes a job.
func (s *Store) DeleteJob(name string) error {
	return s.SetState(name, StateDeleted)
}

func requireRowAffected(result sql.Result, name string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "rows affected for job %s", name)
	}
	if n == 0 {
		return errors.NewNotFoundError("job %s", name)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (Job, error) {
	var name, kind, command, owner string
	var recurrenceText, timeZone, parents sql.NullString

	if err := row.Scan(&name, &kind, &command, &owner, &recurrenceText, &timeZone, &parents); err != nil {
		return nil, err
	}

	switch kind {
	case KindRecurring:
		return RecurringJob{
			Name:       name,
			Command:    command,
			Owner:      owner,
			Recurrence: recurrenceText.String,
			TimeZone:   timeZone.String,
		}, nil
	case KindDependency:
		var parentNames []string
		if parents.Valid {
			if err := json.Unmarshal([]byte(parents.String), &parentNames); err != nil {
				return nil, errors.Wrapf(err, "decode parents of job %s", name)
			}
		}
		return DependencyJob{
			Name:    name,
			Command: command,
			Owner:   owner,
			Parents: parentNames,
		}, nil
	default:
		return nil, errors.AssertionFailedf("job %s has unknown kind %q", name, kind)
	}
}
