package valueobject

import (
	"fmt"
	"time"
)

// YearMonth is a value object identifying one calendar month ("YYYY-MM").
// It is the unit reporting periods are keyed and locked by.
type YearMonth struct {
	year  int
	month time.Month
}

// NewYearMonth creates a YearMonth from a year and month
func NewYearMonth(year int, month time.Month) (YearMonth, error) {
	if year < 1 || year > 9999 {
		return YearMonth{}, fmt.Errorf("year out of range: %d", year)
	}
	if month < time.January || month > time.December {
		return YearMonth{}, fmt.Errorf("month out of range: %d", month)
	}
	return YearMonth{year: year, month: month}, nil
}

// ParseYearMonth parses a "YYYY-MM" string
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return YearMonth{year: t.Year(), month: t.Month()}, nil
}

// YearMonthOf returns the YearMonth containing the given time
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{year: t.Year(), month: t.Month()}
}

// Year returns the year component
func (ym YearMonth) Year() int {
	return ym.year
}

// Month returns the month component
func (ym YearMonth) Month() time.Month {
	return ym.month
}

// String returns the canonical "YYYY-MM" representation
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.year, int(ym.month))
}

// IsZero reports whether the value is uninitialized
func (ym YearMonth) IsZero() bool {
	return ym.year == 0
}

// Prev returns the previous calendar month
func (ym YearMonth) Prev() YearMonth {
	if ym.month == time.January {
		return YearMonth{year: ym.year - 1, month: time.December}
	}
	return YearMonth{year: ym.year, month: ym.month - 1}
}

// Next returns the following calendar month
func (ym YearMonth) Next() YearMonth {
	if ym.month == time.December {
		return YearMonth{year: ym.year + 1, month: time.January}
	}
	return YearMonth{year: ym.year, month: ym.month + 1}
}

// Start returns midnight UTC on the first day of the month
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.year, ym.month, 1, 0, 0, 0, 0, time.UTC)
}

// NextStart returns midnight UTC on the first day of the following month,
// the exclusive upper bound for range queries over the month
func (ym YearMonth) NextStart() time.Time {
	return ym.Next().Start()
}

// Contains reports whether t falls inside the month
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.year && t.Month() == ym.month
}

// Before reports whether ym precedes other
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.year != other.year {
		return ym.year < other.year
	}
	return ym.month < other.month
}

// Equal reports whether two YearMonths identify the same month
func (ym YearMonth) Equal(other YearMonth) bool {
	return ym.year == other.year && ym.month == other.month
}
