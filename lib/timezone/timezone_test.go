package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLastTuesday(t *testing.T) {
	cases := []struct {
		now    time.Time
		expect time.Time
	}{
		{
			// a Tuesday maps to itself
			now:    time.Date(2024, time.August, 27, 0, 0, 0, 0, Location),
			expect: time.Date(2024, time.August, 27, 0, 0, 0, 0, Location),
		},
		{
			now:    time.Date(2024, time.August, 28, 15, 30, 0, 0, Location),
			expect: time.Date(2024, time.August, 27, 0, 0, 0, 0, Location),
		},
		{
			// Sunday belongs to the Monday-start week of the prior Tuesday
			now:    time.Date(2024, time.September, 1, 0, 0, 0, 0, Location),
			expect: time.Date(2024, time.August, 27, 0, 0, 0, 0, Location),
		},
		{
			// Monday rolls all the way back to the previous week's Tuesday
			now:    time.Date(2024, time.August, 26, 0, 0, 0, 0, Location),
			expect: time.Date(2024, time.August, 20, 0, 0, 0, 0, Location),
		},
		{
			// year boundary
			now:    time.Date(2025, time.January, 1, 0, 0, 0, 0, Location),
			expect: time.Date(2024, time.December, 31, 0, 0, 0, 0, Location),
		},
	}

	for _, test := range cases {
		got := LastTuesday(test.now)
		require.Equal(t, test.expect, got, "input %s", test.now)
	}
}

func TestLastTuesdayProperties(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, Location)
	for day := 0; day < 400; day++ {
		ref := start.AddDate(0, 0, day)
		tues := LastTuesday(ref)

		require.Equal(t, time.Tuesday, tues.Weekday())
		diff := ref.Sub(tues).Hours() / 24
		require.GreaterOrEqual(t, diff, 0.0)
		require.Less(t, diff, 7.0)
		// stable on its own output
		require.Equal(t, tues, LastTuesday(tues))
	}
}

func TestLastTuesdayString(t *testing.T) {
	got, err := LastTuesdayString("2024-08-30")
	require.NoError(t, err)
	require.Equal(t, "2024-08-27", got)

	_, err = LastTuesdayString("08/30/2024")
	require.Error(t, err)

	// empty input resolves against the current date
	today, err := LastTuesdayString("")
	require.NoError(t, err)
	parsed, err := ParseDate(today)
	require.NoError(t, err)
	require.Equal(t, time.Tuesday, parsed.Weekday())
}
