package calpdf

import (
	"fmt"
	"time"
)

// DaysPerWeek is the number of columns in a calendar grid.
const DaysPerWeek = 7

// Month describes one calendar month in a Monday-first week.
type Month struct {
	Year  int
	Month time.Month

	// FirstWeekday is the column of day 1, Monday=0 through Sunday=6.
	FirstWeekday int

	// Days is the number of days in the month, 28 through 31.
	Days int
}

// NewMonth returns the Month for year and month using the Gregorian calendar.
func NewMonth(year int, month time.Month) (Month, error) {
	if month < time.January || month > time.December {
		return Month{}, fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidMonth, int(month))
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Month{
		Year:         year,
		Month:        month,
		FirstWeekday: mondayIndex(first.Weekday()),
		Days:         last.Day(),
	}, nil
}

// MustMonth is like [NewMonth] but panics on error.
func MustMonth(year int, month time.Month) Month {
	m, err := NewMonth(year, month)
	if err != nil {
		panic(err)
	}
	return m
}

// Validate reports whether m can be laid out.
func (m Month) Validate() error {
	if m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidMonth, int(m.Month))
	}
	if m.Days < 28 || m.Days > 31 {
		return fmt.Errorf("%w: day count %d out of range 28-31", ErrInvalidMonth, m.Days)
	}
	if m.FirstWeekday < 0 || m.FirstWeekday >= DaysPerWeek {
		return fmt.Errorf("%w: first weekday %d out of range 0-6", ErrInvalidMonth, m.FirstWeekday)
	}
	return nil
}

// Weekday returns the Monday-first column of day.
func (m Month) Weekday(day int) int {
	return (m.FirstWeekday + day - 1) % DaysPerWeek
}

// Date returns day of m as a UTC time.
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// String returns the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// mondayIndex converts a Sunday-first [time.Weekday] to a Monday-first column.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % DaysPerWeek
}
