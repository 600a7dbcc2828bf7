package timezone

import "time"

// layout for the YYYY-MM-DD date strings used across the dataset repository
const DateLayout = "2006-01-02"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// force timezone to be in New York because dataset weeks are published
// on US Eastern Tuesdays; servers in other regions would otherwise
// resolve "today" to the wrong side of midnight when manipulating
// dates based on <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}

// ParseDate reads a YYYY-MM-DD string as midnight in the project timezone.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, Location)
}

// LastTuesday returns the most recent Tuesday at or before t, truncated
// to midnight in t's location. Tuesday itself maps to the same day.
func LastTuesday(t time.Time) time.Time {
	// Monday=0 .. Sunday=6
	monday0 := (int(t.Weekday()) + 6) % 7
	daysSinceTuesday := (monday0 - 1 + 7) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-daysSinceTuesday, 0, 0, 0, 0, t.Location())
}

// LastTuesdayString resolves the week-start Tuesday for a YYYY-MM-DD date
// string, or for today in the project timezone when date is empty.
func LastTuesdayString(date string) (string, error) {
	ref := Now()
	if date != "" {
		var err error
		ref, err = ParseDate(date)
		if err != nil {
			return "", err
		}
	}
	return LastTuesday(ref).Format(DateLayout), nil
}
