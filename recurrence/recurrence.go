// Package recurrence implements ISO 8601 repeating-interval expressions of
// the form R[n]/<start>/<period>, the wire format for recurring job
// schedules, and the skip-forward reconciliation of an overdue schedule
// against the current time.
package recurrence

import (
	"strconv"
	"strings"
	"time"

	"github.com/meridian-run/meridian/errors"
)

// Unbounded is the Repeats value for expressions with no repetition limit
// (a bare R with no count).
const Unbounded = -1

// anchorFormat is the canonical rendering of the start instant, millisecond
// precision with Z for UTC.
const anchorFormat = "2006-01-02T15:04:05.000Z07:00"

// localAnchorFormat parses start instants that carry no UTC offset; they are
// interpreted in the expression's time zone.
const localAnchorFormat = "2006-01-02T15:04:05"

// Expression is the decoded form of a recurrence string.
//
// Repeats is Unbounded (-1) when no repetition count was given, otherwise
// the number of occurrences remaining after the current one. Anchor is the
// next (or currently due) occurrence.
type Expression struct {
	Repeats int
	Anchor  time.Time
	Period  Period
}

// Parse decodes an R[n]/<start>/<period> expression. A start instant
// without a UTC offset is interpreted in loc (UTC when loc is nil).
//
// Every failure wraps errors.ErrInvalidRecurrence and carries the offending
// text, so the job-definition boundary can reject the job with context.
func Parse(text string, loc *time.Location) (Expression, error) {
	if loc == nil {
		loc = time.UTC
	}

	parts := strings.Split(text, "/")
	if len(parts) != 3 {
		return Expression{}, errors.Wrapf(errors.ErrInvalidRecurrence,
			"%q: want R[n]/<start>/<period>", text)
	}

	repeats, err := parseRepeats(parts[0])
	if err != nil {
		return Expression{}, errors.Wrapf(err, "%q", text)
	}

	anchor, err := parseAnchor(parts[1], loc)
	if err != nil {
		return Expression{}, errors.Wrapf(err, "%q", text)
	}

	period, err := ParsePeriod(parts[2])
	if err != nil {
		return Expression{}, errors.Wrapf(err, "%q", text)
	}

	return Expression{Repeats: repeats, Anchor: anchor, Period: period}, nil
}

// String renders the canonical textual form. Unbounded expressions render as
// a bare R; the rendering need not equal the parsed input byte for byte but
// re-parses to the same expression.
func (e Expression) String() string {
	var b strings.Builder
	b.WriteByte('R')
	if e.Repeats >= 0 {
		b.WriteString(strconv.Itoa(e.Repeats))
	}
	b.WriteByte('/')
	b.WriteString(e.Anchor.Format(anchorFormat))
	b.WriteByte('/')
	b.WriteString(e.Period.String())
	return b.String()
}

func parseRepeats(s string) (int, error) {
	if len(s) == 0 || s[0] != 'R' {
		return 0, errors.Wrap(errors.ErrInvalidRecurrence, "missing R repetition marker")
	}
	if len(s) == 1 {
		return Unbounded, nil
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errors.Wrapf(errors.ErrInvalidRecurrence, "malformed repetition count %q", s)
		}
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidRecurrence, "malformed repetition count %q", s)
	}
	return n, nil
}

func parseAnchor(s string, loc *time.Location) (time.Time, error) {
	// RFC 3339 covers starts with an explicit offset, including fractional
	// seconds. Offset-free starts fall back to the expression's time zone.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(localAnchorFormat, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, errors.Wrapf(errors.ErrInvalidRecurrence, "unparsable start instant %q", s)
}
