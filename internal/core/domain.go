package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// Date is a calendar day. Day is 0 when the value names a whole month.
	Date struct {
		Year  int
		Month time.Month
		Day   int
	}

	// Purchase is one card purchase, amounts in whole NOK.
	Purchase struct {
		ID       string
		Date     Date
		NOK      int
		Account  string
		Category string
		Location string
		Vendor   string
	}
)

const stampLayout = "2006-01-02"

var (
	ErrInvalidDay   = errors.New("invalid day")
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidYear  = errors.New("invalid year")
	ErrEmptyID      = errors.New("empty purchase id")
)

// NewDate creates a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar day of t.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current local day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseStamp parses a YYYY-MM-DD stamp. Longer RFC 3339 values are
// accepted and truncated to the day.
func ParseStamp(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(stampLayout) {
		s = s[:len(stampLayout)]
	}
	t, err := time.Parse(stampLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	if d.Day == 0 {
		return fmt.Sprintf("%s %04d", d.Month, d.Year)
	}
	return fmt.Sprintf("%d %s, %04d", d.Day, d.Month, d.Year)
}

// Stamp formats the date as YYYY-MM-DD.
func (d Date) Stamp() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns local midnight of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthOnly drops the day.
func (d Date) MonthOnly() Date {
	return Date{Year: d.Year, Month: d.Month}
}

// AddMonth moves to the next month, keeping Day as is.
func (d Date) AddMonth() Date {
	if d.Month == time.December {
		return Date{Year: d.Year + 1, Month: time.January, Day: d.Day}
	}
	return Date{Year: d.Year, Month: d.Month + 1, Day: d.Day}
}

// SubMonth moves to the previous month, keeping Day as is.
func (d Date) SubMonth() Date {
	if d.Month == time.January {
		return Date{Year: d.Year - 1, Month: time.December, Day: d.Day}
	}
	return Date{Year: d.Year, Month: d.Month - 1, Day: d.Day}
}

// Contains reports whether day falls in the month of d.
func (d Date) Contains(day Date) bool {
	return d.Year == day.Year && d.Month == day.Month
}

// ValidateMonth checks year and month only.
func (d Date) ValidateMonth() error {
	if d.Year < 1 || d.Year > 9999 {
		return ErrInvalidYear
	}
	if d.Month < time.January || d.Month > time.December {
		return ErrInvalidMonth
	}
	return nil
}

func (d Date) Validate() error {
	if err := d.ValidateMonth(); err != nil {
		return err
	}
	last := time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d.Day < 1 || d.Day > last {
		return ErrInvalidDay
	}
	return nil
}

func (p Purchase) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if err := p.Date.Validate(); err != nil {
		return fmt.Errorf("purchase %s: %w", p.ID, err)
	}
	return nil
}
