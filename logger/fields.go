package logger

// Standard field names for consistent structured logging across Meridian.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldJobName     = "job_name"
	FieldExecutionID = "execution_id"
	FieldOwner       = "owner"

	// Components
	FieldComponent = "component"

	// Scheduling
	FieldRecurrence = "recurrence"
	FieldAnchor     = "anchor"
	FieldRepeats    = "repeats"
	FieldNextRunAt  = "next_run_at"
	FieldTimeZone   = "time_zone"

	// Timing
	FieldDurationMS = "duration_ms"
	FieldInterval   = "interval"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount = "count"
)
