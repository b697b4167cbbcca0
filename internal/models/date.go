package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date represents a calendar day without a time component. The zero value is
// not a valid date; optional dates are modelled as *Date.
type Date struct {
	t time.Time
}

// NewDate builds a Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// String returns the YYYY-MM-DD representation.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Time returns the underlying midnight-UTC instant.
func (d Date) Time() time.Time {
	return d.t
}

// Year returns the calendar year.
func (d Date) Year() int { return d.t.Year() }

// Month returns the calendar month.
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.t.Day() }

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(days int) Date {
	return Date{t: d.t.AddDate(0, 0, days)}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether both values name the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
