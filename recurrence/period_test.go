package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-run/meridian/errors"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input string
		want  Period
	}{
		{"P1M", Period{Months: 1}},
		{"PT1M", Period{Minutes: 1}},
		{"P1Y2M3D", Period{Years: 1, Months: 2, Days: 3}},
		{"PT1H30M15S", Period{Hours: 1, Minutes: 30, Seconds: 15}},
		{"P1DT12H", Period{Days: 1, Hours: 12}},
		{"P2W", Period{Days: 14}},
		{"PT0S", Period{}},
		{"P0D", Period{}},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParsePeriod(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePeriodErrors(t *testing.T) {
	for _, input := range []string{
		"",      // empty
		"P",     // no components
		"PT",    // no components
		"1D",    // missing P
		"P1",    // value without designator
		"PD",    // designator without value
		"P1H",   // time designator before T
		"PT1D",  // date designator after T
		"P1MT",  // trailing T with nothing after it
		"P-1D",  // negative values are not part of the grammar
		"P1.5D", // fractional values are not part of the grammar
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePeriod(input)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidRecurrenceError(err))
		})
	}
}

func TestPeriodString(t *testing.T) {
	tests := []struct {
		p    Period
		want string
	}{
		{Period{}, "PT0S"},
		{Period{Months: 1}, "P1M"},
		{Period{Minutes: 1}, "PT1M"},
		{Period{Years: 1, Days: 2, Hours: 3}, "P1Y2DT3H"},
		{Period{Days: 14}, "P14D"}, // weeks fold into days
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.p.String())
	}
}

func TestAddToClampsMonthEnd(t *testing.T) {
	jan31 := time.Date(2012, time.January, 31, 10, 0, 0, 0, time.UTC)

	// 2012 is a leap year
	feb := Period{Months: 1}.AddTo(jan31)
	assert.Equal(t, time.Date(2012, time.February, 29, 10, 0, 0, 0, time.UTC), feb)

	feb13 := Period{Months: 1}.AddTo(time.Date(2013, time.January, 31, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2013, time.February, 28, 10, 0, 0, 0, time.UTC), feb13)

	// Scaled addition stays anchored to the original day-of-month: two
	// months from Jan 31 is Mar 31, not Feb 28 + 1 month.
	mar := Period{Months: 1}.Scale(2).AddTo(jan31)
	assert.Equal(t, time.Date(2012, time.March, 31, 10, 0, 0, 0, time.UTC), mar)
}

func TestAddToYearRollover(t *testing.T) {
	nov := time.Date(2012, time.November, 15, 0, 0, 0, 0, time.UTC)
	got := Period{Months: 3}.AddTo(nov)
	assert.Equal(t, time.Date(2013, time.February, 15, 0, 0, 0, 0, time.UTC), got)

	leapDay := time.Date(2012, time.February, 29, 0, 0, 0, 0, time.UTC)
	got = Period{Years: 1}.AddTo(leapDay)
	assert.Equal(t, time.Date(2013, time.February, 28, 0, 0, 0, 0, time.UTC), got)
}

func TestAddToMixedComponents(t *testing.T) {
	start := time.Date(2012, time.January, 1, 0, 0, 1, 0, time.UTC)
	got := Period{Months: 1, Days: 2, Hours: 3, Seconds: 4}.AddTo(start)
	assert.Equal(t, time.Date(2012, time.February, 3, 3, 0, 5, 0, time.UTC), got)
}

func TestPeriodIsZero(t *testing.T) {
	assert.True(t, Period{}.IsZero())
	assert.False(t, Period{Seconds: 1}.IsZero())
	assert.False(t, Period{Months: 1}.IsZero())
}
