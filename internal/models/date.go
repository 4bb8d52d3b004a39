package models

import "time"

const dateLayout = "2006-01-02"

// CalendarDate is a day in the user's calendar, stored as YYYY-MM-DD.
type CalendarDate string

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate(t.Format(dateLayout))
}

func (d CalendarDate) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, string(d), loc)
}

// AddDays moves the date by whole calendar days. Arithmetic happens at
// noon UTC so DST transitions can never skip or repeat a day.
func (d CalendarDate) AddDays(n int) CalendarDate {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return d
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return DateOf(t)
}

func (d CalendarDate) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}
