package model

import (
	"fmt"
	"time"
)

// dateLayout is the canonical on-disk and on-wire date format.
// ISO dates compare correctly as plain strings, which the local
// store relies on for range scans over TEXT columns.
const dateLayout = "2006-01-02"

// Date is a calendar day in ISO 8601 form (YYYY-MM-DD), without a
// time-of-day or zone component. The zero value "" means "no date".
type Date string

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Today returns the current calendar day in local time.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns the midnight instant of d in UTC.
func (d Date) Time() (time.Time, error) {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", string(d), err)
	}
	return t, nil
}

// AddDays returns the day n days after d (n may be negative).
// An unparseable date is returned unchanged.
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

// String returns the ISO form of the date.
func (d Date) String() string {
	return string(d)
}

// DateRange returns every day in [start, end] inclusive, in order.
// Returns nil if either bound is unparseable or end precedes start.
func DateRange(start, end Date) []Date {
	from, err := start.Time()
	if err != nil {
		return nil
	}
	to, err := end.Time()
	if err != nil {
		return nil
	}
	if to.Before(from) {
		return nil
	}

	var days []Date
	for t := from; !t.After(to); t = t.AddDate(0, 0, 1) {
		days = append(days, DateOf(t))
	}
	return days
}
