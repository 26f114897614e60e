package models

import "time"

// ExceptionType mirrors calendar_dates.txt exception_type values.
type ExceptionType int

const (
	ServiceAdded   ExceptionType = 1
	ServiceRemoved ExceptionType = 2
)

// ServiceCalendar is one row of calendar.txt: a weekly recurring pattern
// with a validity window. Dates are YYYYMMDD strings so that range checks
// are plain lexicographic comparisons, as in the feed itself.
type ServiceCalendar struct {
	ServiceID string
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool
	Sunday    bool
	StartDate string
	EndDate   string
}

// RunsOn reports whether the weekly pattern covers the given weekday.
func (c *ServiceCalendar) RunsOn(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return c.Monday
	case time.Tuesday:
		return c.Tuesday
	case time.Wednesday:
		return c.Wednesday
	case time.Thursday:
		return c.Thursday
	case time.Friday:
		return c.Friday
	case time.Saturday:
		return c.Saturday
	case time.Sunday:
		return c.Sunday
	}
	return false
}

// CalendarException is one row of calendar_dates.txt: a single-date
// override for a service id.
type CalendarException struct {
	ServiceID string
	Date      string // YYYYMMDD
	Type      ExceptionType
}

// DateString formats a date the way calendar.txt encodes it.
func DateString(date time.Time) string {
	return date.Format("20060102")
}
