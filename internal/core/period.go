package core

import (
	"errors"
	"fmt"
	"time"
)

// Month is a calendar month, 1 (January) through 12 (December).
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	ErrInvalidMonth = errors.New("invalid month")
	ErrNotFound     = errors.New("not found")
)

func (m Month) Valid() bool {
	return m >= January && m <= December
}

func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m-1]
}

// Next returns the following month, wrapping December back to January.
func (m Month) Next() Month {
	if m == December {
		return January
	}
	return m + 1
}

// Prev returns the preceding month, wrapping January back to December.
func (m Month) Prev() Month {
	if m == January {
		return December
	}
	return m - 1
}

// Period identifies one calendar month of one year. It is the sole time
// index of every series in the system; day-level granularity only exists
// inside the recurrence projector.
type Period struct {
	Year  int
	Month Month
}

func NewPeriod(year int, month Month) Period {
	return Period{Year: year, Month: month}
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: Month(t.Month())}
}

// Next returns the following period, crossing the year boundary.
func (p Period) Next() Period {
	if p.Month == December {
		return Period{Year: p.Year + 1, Month: January}
	}
	return Period{Year: p.Year, Month: p.Month.Next()}
}

// Prev returns the preceding period, crossing the year boundary.
func (p Period) Prev() Period {
	if p.Month == January {
		return Period{Year: p.Year - 1, Month: December}
	}
	return Period{Year: p.Year, Month: p.Month.Prev()}
}

// Compare orders periods chronologically: -1 if p precedes q, 0 if equal,
// +1 if p follows q.
func (p Period) Compare(q Period) int {
	switch {
	case p.Year < q.Year:
		return -1
	case p.Year > q.Year:
		return 1
	case p.Month < q.Month:
		return -1
	case p.Month > q.Month:
		return 1
	default:
		return 0
	}
}

func (p Period) Before(q Period) bool {
	return p.Compare(q) < 0
}

func (p Period) After(q Period) bool {
	return p.Compare(q) > 0
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Date is a calendar day. The zero value means "no date".
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day in UTC.
func NewDate(year int, month Month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), Month(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month.
func (d Date) Month() Month {
	return Month(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Period returns the period containing the date.
func (d Date) Period() Period {
	return Period{Year: d.Year(), Month: d.Month()}
}

// IsEmpty reports whether the date carries no value.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// LastDayOfMonth returns the final calendar day of the given period.
func LastDayOfMonth(p Period) Date {
	first := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return Date{Time: first.AddDate(0, 1, -1)}
}

// DaysInMonth returns the number of days in the given period.
func DaysInMonth(p Period) int {
	return LastDayOfMonth(p).Day()
}
