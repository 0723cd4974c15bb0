// Package schedule provides the job model for the scheduling core: recurring
// and dependency-triggered jobs, their persistence, and the daemon ticker
// that dispatches them.
package schedule

import (
	"regexp"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/meridian-run/meridian/errors"
	"github.com/meridian-run/meridian/recurrence"
)

// Job is the common surface of the two job variants. Values are immutable;
// every transformation returns a new value of the same concrete variant.
type Job interface {
	JobName() string
	JobCommand() string
	JobOwner() string

	// WithArguments returns a copy of the job with args appended to its
	// command. The concrete variant is preserved.
	WithArguments(args string) Job
}

// RecurringJob runs on an ISO 8601 repeating-interval schedule.
type RecurringJob struct {
	Name    string
	Command string
	Owner   string

	// Recurrence is the textual R[n]/<start>/<period> expression. It is
	// stored opaquely and re-parsed on demand.
	Recurrence string

	// TimeZone names the IANA zone used to interpret offset-free start
	// instants and to render the expression. Empty means UTC.
	TimeZone string
}

// DependencyJob runs when its parent jobs complete. The trigger mechanism
// itself lives outside this core; the job only carries the parent set.
type DependencyJob struct {
	Name    string
	Command string
	Owner   string
	Parents []string
}

func (j RecurringJob) JobName() string    { return j.Name }
func (j RecurringJob) JobCommand() string { return j.Command }
func (j RecurringJob) JobOwner() string   { return j.Owner }

func (j RecurringJob) WithArguments(args string) Job {
	j.Command = j.Command + " " + args
	return j
}

// Location resolves the job's time zone, defaulting to UTC.
func (j RecurringJob) Location() (*time.Location, error) {
	if j.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(j.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidJob, "job %s: unknown time zone %q", j.Name, j.TimeZone)
	}
	return loc, nil
}

// Expression parses the job's recurrence string in its time zone.
func (j RecurringJob) Expression() (recurrence.Expression, error) {
	loc, err := j.Location()
	if err != nil {
		return recurrence.Expression{}, err
	}
	expr, err := recurrence.Parse(j.Recurrence, loc)
	if err != nil {
		return recurrence.Expression{}, errors.Wrapf(err, "job %s", j.Name)
	}
	return expr, nil
}

func (j DependencyJob) JobName() string    { return j.Name }
func (j DependencyJob) JobCommand() string { return j.Command }
func (j DependencyJob) JobOwner() string   { return j.Owner }

func (j DependencyJob) WithArguments(args string) Job {
	j.Command = j.Command + " " + args
	return j
}

// jobNamePattern accepts letters, digits, dash, underscore and dot. Dots
// separate logical job namespaces (e.g. "etl.nightly.users").
var jobNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// IsValidName reports whether name is acceptable as a job identifier.
func IsValidName(name string) bool {
	return jobNamePattern.MatchString(name)
}

// ValidateJob performs the job-definition boundary checks: name character
// set, shell-parseable command, a parseable recurrence for recurring jobs
// (the offending text is surfaced in the error) and a non-empty parent set
// for dependency jobs.
func ValidateJob(job Job) error {
	if !IsValidName(job.JobName()) {
		return errors.Wrapf(errors.ErrInvalidName, "%q", job.JobName())
	}
	if _, err := shellquote.Split(job.JobCommand()); err != nil {
		return errors.Wrapf(errors.ErrInvalidJob, "job %s: command %q: %v", job.JobName(), job.JobCommand(), err)
	}

	switch j := job.(type) {
	case RecurringJob:
		if _, err := j.Expression(); err != nil {
			return err
		}
	case DependencyJob:
		if len(j.Parents) == 0 {
			return errors.Wrapf(errors.ErrInvalidJob, "job %s: dependency job needs at least one parent", j.Name)
		}
		for _, parent := range j.Parents {
			if !IsValidName(parent) {
				return errors.Wrapf(errors.ErrInvalidName, "job %s: parent %q", j.Name, parent)
			}
		}
	default:
		return errors.AssertionFailedf("unknown job variant %T", job)
	}
	return nil
}
