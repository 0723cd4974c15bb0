package recurrence

import (
	"strconv"
	"strings"
	"time"

	"github.com/meridian-run/meridian/errors"
)

// Period is an ISO 8601 duration split into calendar components (years,
// months, days) and exact-time components (hours, minutes, seconds).
//
// The split matters: a month is not a fixed number of seconds, so calendar
// components are added with calendar arithmetic (including month-end
// clamping) while exact components are added as fixed durations. P1M and
// PT1M share the letter M but denote one month and one minute respectively,
// distinguished by their position relative to the T separator.
type Period struct {
	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// IsZero reports whether every component is zero (e.g. PT0S).
func (p Period) IsZero() bool {
	return p == Period{}
}

func (p Period) hasCalendar() bool {
	return p.Years != 0 || p.Months != 0 || p.Days != 0
}

// exact returns the fixed-duration portion of the period.
func (p Period) exact() time.Duration {
	return time.Duration(p.Hours)*time.Hour +
		time.Duration(p.Minutes)*time.Minute +
		time.Duration(p.Seconds)*time.Second
}

// AddTo advances t by one period: calendar components first with calendar
// arithmetic, then the exact components as a fixed duration.
func (p Period) AddTo(t time.Time) time.Time {
	if m := p.Years*12 + p.Months; m != 0 {
		t = addMonthsClamped(t, m)
	}
	if p.Days != 0 {
		t = t.AddDate(0, 0, p.Days)
	}
	if d := p.exact(); d != 0 {
		t = t.Add(d)
	}
	return t
}

// Scale returns the period with every component multiplied by n.
// Scale(n).AddTo(t) is "n whole periods after t" anchored at t, which keeps
// a day-of-month like the 31st clamped per target month instead of decaying
// to the shortest month ever crossed.
func (p Period) Scale(n int) Period {
	return Period{
		Years:   p.Years * n,
		Months:  p.Months * n,
		Days:    p.Days * n,
		Hours:   p.Hours * n,
		Minutes: p.Minutes * n,
		Seconds: p.Seconds * n,
	}
}

// maxSpan returns an upper bound on the wall-clock length of one period.
// Used only to seed the elapsed-period search; it must never undershoot
// (366-day years, 31-day months, 25-hour days for DST fall-back).
func (p Period) maxSpan() time.Duration {
	return time.Duration(p.Years)*366*24*time.Hour +
		time.Duration(p.Months)*31*24*time.Hour +
		time.Duration(p.Days)*25*time.Hour +
		p.exact()
}

// String renders the canonical ISO 8601 form. The zero period renders as
// PT0S; weeks parsed from input reappear as days.
func (p Period) String() string {
	if p.IsZero() {
		return "PT0S"
	}
	var b strings.Builder
	b.WriteByte('P')
	writeComponent(&b, p.Years, 'Y')
	writeComponent(&b, p.Months, 'M')
	writeComponent(&b, p.Days, 'D')
	if p.Hours != 0 || p.Minutes != 0 || p.Seconds != 0 {
		b.WriteByte('T')
		writeComponent(&b, p.Hours, 'H')
		writeComponent(&b, p.Minutes, 'M')
		writeComponent(&b, p.Seconds, 'S')
	}
	return b.String()
}

func writeComponent(b *strings.Builder, v int, designator byte) {
	if v == 0 {
		return
	}
	b.WriteString(strconv.Itoa(v))
	b.WriteByte(designator)
}

// ParsePeriod parses an ISO 8601 duration: P[nY][nM][nW][nD][T[nH][nM][nS]].
// A bare P or PT carries no components and is rejected; PT0S is the valid
// zero period. Weeks are folded into days.
func ParsePeriod(s string) (Period, error) {
	if len(s) < 2 || s[0] != 'P' {
		return Period{}, errors.Wrapf(errors.ErrInvalidRecurrence, "malformed period %q", s)
	}
	if s[len(s)-1] == 'T' {
		return Period{}, errors.Wrapf(errors.ErrInvalidRecurrence, "malformed period %q: empty time part", s)
	}

	var p Period
	inTime := false
	components := 0

	i := 1
	for i < len(s) {
		if s[i] == 'T' {
			if inTime {
				return Period{}, errors.Wrapf(errors.ErrInvalidRecurrence, "malformed period %q: repeated T", s)
			}
			inTime = true
			i++
			continue
		}

		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if start == i || i == len(s) {
			return Period{}, errors.Wrapf(errors.ErrInvalidRecurrence, "malformed period %q", s)
		}
		value, err := strconv.Atoi(s[start:i])
		if err != nil {
			return Period{}, errors.Wrapf(errors.ErrInvalidRecurrence, "malformed period %q", s)
		}

		designator := s[i]
		i++

		switch {
		case !inTime && designator == 'Y':
			p.Years += value
		case !inTime && designator == 'M':
			p.Months += value
		case !inTime && designator == 'W':
			p.Days += 7 * value
		case !inTime && designator == 'D':
			p.Days += value
		case inTime && designator == 'H':
			p.Hours += value
		case inTime && designator == 'M':
			p.Minutes += value
		case inTime && designator == 'S':
			p.Seconds += value
		default:
			return Period{}, errors.Wrapf(errors.ErrInvalidRecurrence, "malformed period %q: unexpected designator %q", s, string(designator))
		}
		components++
	}

	if components == 0 {
		return Period{}, errors.Wrapf(errors.ErrInvalidRecurrence, "empty period %q", s)
	}
	return p, nil
}

// addMonthsClamped adds months with month-end clamping, so
// Jan 31 + 1 month = Feb 28 (29 in leap years) rather than overflowing into
// March the way time.AddDate normalizes.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := year*12 + int(month) - 1 + months
	year, month = total/12, time.Month(total%12+1)
	if last := daysIn(year, month); day > last {
		day = last
	}
	hour, minute, sec := t.Clock()
	return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
