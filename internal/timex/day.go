package timex

import "time"

// DayKeyLayout formats a local calendar day.
const DayKeyLayout = "2006-01-02"

// DayStart returns local midnight of the calendar day containing t in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

// DayBounds returns the half-open interval [start, end) of the local calendar
// day containing t. AddDate keeps the bounds on midnight across DST shifts.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := DayStart(t, loc)
	return start, start.AddDate(0, 0, 1)
}

// DayKey returns the local calendar day of t as "YYYY-MM-DD".
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// Window returns the half-open interval covering the local calendar days
// [today-offset-days+1, today-offset], inclusive on both ends as days.
func Window(now time.Time, loc *time.Location, days, offset int) (time.Time, time.Time) {
	today := DayStart(now, loc)
	end := today.AddDate(0, 0, 1-offset)
	start := end.AddDate(0, 0, -days)
	return start, end
}
