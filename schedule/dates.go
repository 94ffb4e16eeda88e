/*
dates.go - Day-granularity calendar primitives

PURPOSE:
  The date arithmetic everything else is built on: day normalization,
  day addition/difference, month-length-aware clamping, business-day
  counting, and ISO month parsing. All UTC.

BUSINESS DAYS:
  Monday through Friday. No holiday calendar is modeled; a fifth business
  day can land on a public holiday and the engine does not care.

SEE ALSO:
  - occurrences.go: The only consumer of the business-day helpers
*/
package schedule

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY NORMALIZATION
// =============================================================================

// StartOfDay truncates t to 00:00:00 UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay normalizes t to 23:59:59.999 UTC.
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// AddDays returns t shifted by n calendar days. n may be negative.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DifferenceInDays returns the whole-day difference a - b, comparing
// start-of-day boundaries.
func DifferenceInDays(a, b time.Time) int {
	return int(StartOfDay(a).Sub(StartOfDay(b)).Hours() / 24)
}

// =============================================================================
// MONTH ARITHMETIC
// =============================================================================

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayOfMonth returns the UTC date for day in the given month, clamped
// to [1, last day of month]. Day 31 in a 30-day month resolves to the 30th;
// invalid dates like Feb 31 are never constructed.
func ClampDayOfMonth(year int, month time.Month, day int) time.Time {
	last := DaysInMonth(year, month)
	if day < 1 {
		day = 1
	}
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// BUSINESS DAYS
// =============================================================================

// IsBusinessDay reports whether t falls on Monday-Friday (UTC weekday).
func IsBusinessDay(t time.Time) bool {
	wd := t.UTC().Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// nthBusinessDayScanCap bounds the scan so a bad n can never loop past the
// month. No month has more than 23 business days, and none has more than
// 31 days.
const nthBusinessDayScanCap = 31

// NthBusinessDay returns the date of the n-th business day of the month,
// counting from day 1. n must be >= 1 and must not exceed the month's
// business-day count.
func NthBusinessDay(year int, month time.Month, n int) (time.Time, error) {
	if n <= 0 {
		return time.Time{}, fieldErrorf("nthBusinessDay", "must be positive, got %d", n)
	}

	counted := 0
	cursor := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < nthBusinessDayScanCap; i++ {
		if IsBusinessDay(cursor) {
			counted++
			if counted == n {
				return cursor, nil
			}
		}
		cursor = AddDays(cursor, 1)
	}

	return time.Time{}, fieldErrorf("nthBusinessDay",
		"month %04d-%02d has only %d business days, requested %d", year, month, counted, n)
}

// GetBusinessDayRange returns the startNth-th and endNth-th business days of
// the month. startNth must be <= endNth.
func GetBusinessDayRange(year int, month time.Month, startNth, endNth int) (start, end time.Time, err error) {
	if startNth > endNth {
		return time.Time{}, time.Time{}, fieldErrorf("businessDayRangeStart",
			"must be less than or equal to businessDayRangeEnd")
	}
	start, err = NthBusinessDay(year, month, startNth)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = NthBusinessDay(year, month, endNth)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// =============================================================================
// ISO MONTH PARSING
// =============================================================================

// MonthRangeFromISO parses "YYYY-MM" into the half-open UTC range
// [first of month, first of next month).
func MonthRangeFromISO(monthISO string) (start, end time.Time, err error) {
	var year, month int
	if _, scanErr := fmt.Sscanf(monthISO, "%4d-%2d", &year, &month); scanErr != nil || len(monthISO) != 7 || monthISO[4] != '-' {
		return time.Time{}, time.Time{}, fieldErrorf("month", "must be in YYYY-MM format, got %q", monthISO)
	}
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fieldErrorf("month", "month must be between 1 and 12, got %d", month)
	}

	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end, nil
}
