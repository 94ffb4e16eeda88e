/*
Package schedule is the recurring-event engine of the finance tracker.

PURPOSE:
  Answers "on which calendar dates does this financial event occur within a
  given window?" for income streams and subscriptions. Handles fixed dates,
  n-th business days, and date/business-day ranges, with month-length
  clamping and UTC-safe date math.

KEY CONCEPTS IN THIS FILE (types.go):
  - Type: The closed set of recurrence variants
  - Config: One recurrence definition (tagged by Type)
  - Occurrence: A concrete calendar instance produced from a Config

DESIGN PRINCIPLES:
  1. Purity: No I/O, no caching, no clock access. Time is an input.
  2. Determinism: Identical inputs yield identical, identically-ordered output.
  3. UTC only: All dates are day-granularity UTC; no local-time drift.

USAGE:
  cfg := schedule.Config{Type: schedule.FixedDate, DayOfMonth: schedule.IntPtr(15)}
  if err := schedule.Validate(cfg); err != nil { ... }
  occs, err := schedule.Occurrences(cfg, windowStart, windowEnd)

SEE ALSO:
  - dates.go: Calendar primitives (clamping, business days)
  - validate.go: Per-variant field validation
  - occurrences.go: Window expansion
*/
package schedule

import "time"

// =============================================================================
// RECURRENCE VARIANTS
// =============================================================================

// Type identifies how a recurrence resolves to a date within a month.
// The set is closed: Validate and Occurrences reject anything else with
// ErrUnsupportedVariant.
type Type string

const (
	// FixedDate fires on a fixed day of the month, clamped to month length
	// (day 31 in February resolves to Feb 28/29).
	FixedDate Type = "FIXED_DATE"

	// BusinessDay fires on the n-th business day of the month
	// (Monday-Friday, no holiday calendar).
	BusinessDay Type = "BUSINESS_DAY"

	// DateRange spans from one day-of-month to another within each month.
	DateRange Type = "DATE_RANGE"

	// BusinessDayRange spans from the n-th to the m-th business day.
	BusinessDayRange Type = "BUSINESS_DAY_RANGE"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config describes one recurrence. Only the fields required by Type are
// meaningful; the rest are ignored. Numeric fields, when set, must satisfy
// their bounds regardless of variant (see Validate).
type Config struct {
	Type Type

	// FixedDate
	DayOfMonth *int

	// BusinessDay
	NthBusinessDay *int

	// DateRange
	MonthDayRangeStart *int
	MonthDayRangeEnd   *int

	// BusinessDayRange
	BusinessDayRangeStart *int
	BusinessDayRangeEnd   *int

	// ActiveMonths restricts the recurrence to the listed months (1-12).
	// Empty means every month.
	ActiveMonths []int
}

// IntPtr is a convenience for building Config literals.
func IntPtr(v int) *int { return &v }

// monthActive reports whether the 1-based month is enabled by ActiveMonths.
func (c Config) monthActive(month time.Month) bool {
	if len(c.ActiveMonths) == 0 {
		return true
	}
	for _, m := range c.ActiveMonths {
		if m == int(month) {
			return true
		}
	}
	return false
}

// =============================================================================
// OCCURRENCE
// =============================================================================

// Occurrence is one concrete calendar instance of a recurrence.
// EndDate is non-nil only for range variants.
type Occurrence struct {
	Date    time.Time
	EndDate *time.Time
}
