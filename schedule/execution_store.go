package schedule

import (
	"database/sql"

	"github.com/meridian-run/meridian/errors"
)

// ExecutionStore handles persistence of job execution history.
type ExecutionStore struct {
	db *sql.DB
}

// NewExecutionStore creates a new execution store.
func NewExecutionStore(db *sql.DB) *ExecutionStore {
	return &ExecutionStore{db: db}
}

// CreateExecution creates a new execution record.
func (s *ExecutionStore) CreateExecution(exec *Execution) error {
	var completedAt, errorMessage, durationMs interface{}
	if exec.CompletedAt != nil {
		completedAt = *exec.CompletedAt
	}
	if exec.DurationMs != nil {
		durationMs = *exec.DurationMs
	}
	if exec.ErrorMessage != nil {
		errorMessage = *exec.ErrorMessage
	}

	_, err := s.db.Exec(`
		INSERT INTO executions (
			id, job_name, status, started_at, completed_at, duration_ms,
			error_message, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, exec.ID, exec.JobName, exec.Status, exec.StartedAt,
		completedAt, durationMs, errorMessage, exec.CreatedAt, exec.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "create execution %s", exec.ID)
	}
	return nil
}

// UpdateExecution updates an execution record with its final status.
func (s *ExecutionStore) UpdateExecution(exec *Execution) error {
	var completedAt, errorMessage, durationMs interface{}
	if exec.CompletedAt != nil {
		completedAt = *exec.CompletedAt
	}
	if exec.DurationMs != nil {
		durationMs = *exec.DurationMs
	}
	if exec.ErrorMessage != nil {
		errorMessage = *exec.ErrorMessage
	}

	_, err := s.db.Exec(`
		UPDATE executions SET
			status = ?, completed_at = ?, duration_ms = ?,
			error_message = ?, updated_at = ?
		WHERE id = ?
	`, exec.Status, completedAt, durationMs, errorMessage, exec.UpdatedAt, exec.ID)
	if err != nil {
		return errors.Wrapf(err, "update execution %s", exec.ID)
	}
	return nil
}

// ListExecutions returns the most recent executions of a job, newest first.
func (s *ExecutionStore) ListExecutions(jobName string, limit int) ([]*Execution, error) {
	rows, err := s.db.Query(`
		SELECT id, job_name, status, started_at, completed_at, duration_ms,
			error_message, created_at, updated_at
		FROM executions
		WHERE job_name = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, jobName, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "list executions of job %s", jobName)
	}
	defer rows.Close()

	var executions []*Execution
	for rows.Next() {
		var exec Execution
		var completedAt, errorMessage sql.NullString
		var durationMs sql.NullInt64

		if err := rows.Scan(&exec.ID, &exec.JobName, &exec.Status,
			&exec.StartedAt, &completedAt, &durationMs,
			&errorMessage, &exec.CreatedAt, &exec.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan execution")
		}

		if completedAt.Valid {
			exec.CompletedAt = &completedAt.String
		}
		if durationMs.Valid {
			ms := int(durationMs.Int64)
			exec.DurationMs = &ms
		}
		if errorMessage.Valid {
			exec.ErrorMessage = &errorMessage.String
		}
		executions = append(executions, &exec)
	}
	return executions, rows.Err()
}
