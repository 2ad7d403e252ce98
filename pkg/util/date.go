package util

import "time"

// DayFormat is the calendar-date layout used across the daily pipeline.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD date string. Returns (t, true) if it parsed.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDay renders a time as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// NextDay returns the following calendar day.
func NextDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// NextDayString parses a YYYY-MM-DD string and returns the following day in
// the same format. Returns the input unchanged if it does not parse.
func NextDayString(s string) string {
	t, ok := ParseDay(s)
	if !ok {
		return s
	}
	return FormatDay(NextDay(t))
}

// Round2 rounds a price to two decimal places.
func Round2(v float64) float64 {
	if v >= 0 {
		return float64(int64(v*100+0.5)) / 100
	}
	return float64(int64(v*100-0.5)) / 100
}
