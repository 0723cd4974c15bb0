package schedule

// Execution records a single dispatch of a job.
//
// Each time the ticker hands a due job to the dispatcher, an Execution row
// tracks timing, outcome and the error message on failure. This is the
// execution history used for debugging and monitoring; the execution engine
// itself lives outside this core.
type Execution struct {
	ID      string `json:"id"` // uuid
	JobName string `json:"job_name"`

	Status string `json:"status"` // "running", "completed", "failed"

	StartedAt   string  `json:"started_at"`             // RFC3339 timestamp
	CompletedAt *string `json:"completed_at,omitempty"` // RFC3339, nil while running
	DurationMs  *int    `json:"duration_ms,omitempty"`

	ErrorMessage *string `json:"error_message,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Execution status constants
const (
	ExecutionStatusRunning   = "running"
	ExecutionStatusCompleted = "completed"
	ExecutionStatusFailed    = "failed"
)
