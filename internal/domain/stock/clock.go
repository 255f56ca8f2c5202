package stock

import "time"

const dateLayout = "2006-01-02"

// Clock returns the current time. Items and strategies take one so "today"
// can be pinned in tests.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// today truncates the clock's current time to its calendar date.
func (c Clock) today() time.Time {
	return DateOf(c.Now())
}

// DateOf returns t's calendar date (in t's location) as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
