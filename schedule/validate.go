/*
validate.go - Per-variant Config validation

PURPOSE:
  Called once per entity at create/update time by the HTTP layer, before a
  schedule is ever persisted. Occurrences assumes it receives a Config that
  passed Validate.

RULES:
  Per variant:
    FIXED_DATE          requires dayOfMonth
    BUSINESS_DAY        requires nthBusinessDay
    DATE_RANGE          requires both month-day bounds, start <= end
    BUSINESS_DAY_RANGE  requires both business-day bounds, start <= end
  Independent of variant, any present field must satisfy its bounds:
    dayOfMonth, monthDayRange* in [1,31]; nthBusinessDay,
    businessDayRange* > 0; activeMonths entries in [1,12].
  Validation stops at the first failure.
*/
package schedule

import "fmt"

// Validate checks that cfg carries exactly the fields its Type requires and
// that every present field is within bounds. Returns a *FieldError
// (unwrapping to ErrInvalidArgument) naming the offending field, or
// ErrUnsupportedVariant for an unknown Type.
func Validate(cfg Config) error {
	switch cfg.Type {
	case FixedDate:
		if cfg.DayOfMonth == nil {
			return missingField("dayOfMonth", cfg.Type)
		}
	case BusinessDay:
		if cfg.NthBusinessDay == nil {
			return missingField("nthBusinessDay", cfg.Type)
		}
	case DateRange:
		if cfg.MonthDayRangeStart == nil {
			return missingField("monthDayRangeStart", cfg.Type)
		}
		if cfg.MonthDayRangeEnd == nil {
			return missingField("monthDayRangeEnd", cfg.Type)
		}
		if *cfg.MonthDayRangeStart > *cfg.MonthDayRangeEnd {
			return fieldErrorf("monthDayRangeStart", "must be less than or equal to monthDayRangeEnd")
		}
	case BusinessDayRange:
		if cfg.BusinessDayRangeStart == nil {
			return missingField("businessDayRangeStart", cfg.Type)
		}
		if cfg.BusinessDayRangeEnd == nil {
			return missingField("businessDayRangeEnd", cfg.Type)
		}
		if *cfg.BusinessDayRangeStart > *cfg.BusinessDayRangeEnd {
			return fieldErrorf("businessDayRangeStart", "must be less than or equal to businessDayRangeEnd")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedVariant, cfg.Type)
	}

	// Bounds apply to any present field, whichever variant is selected.
	if cfg.DayOfMonth != nil && (*cfg.DayOfMonth < 1 || *cfg.DayOfMonth > 31) {
		return fieldErrorf("dayOfMonth", "must be between 1 and 31, got %d", *cfg.DayOfMonth)
	}
	if cfg.NthBusinessDay != nil && *cfg.NthBusinessDay <= 0 {
		return fieldErrorf("nthBusinessDay", "must be a positive integer, got %d", *cfg.NthBusinessDay)
	}
	if cfg.MonthDayRangeStart != nil && (*cfg.MonthDayRangeStart < 1 || *cfg.MonthDayRangeStart > 31) {
		return fieldErrorf("monthDayRangeStart", "must be between 1 and 31, got %d", *cfg.MonthDayRangeStart)
	}
	if cfg.MonthDayRangeEnd != nil && (*cfg.MonthDayRangeEnd < 1 || *cfg.MonthDayRangeEnd > 31) {
		return fieldErrorf("monthDayRangeEnd", "must be between 1 and 31, got %d", *cfg.MonthDayRangeEnd)
	}
	if cfg.BusinessDayRangeStart != nil && *cfg.BusinessDayRangeStart <= 0 {
		return fieldErrorf("businessDayRangeStart", "must be positive, got %d", *cfg.BusinessDayRangeStart)
	}
	if cfg.BusinessDayRangeEnd != nil && *cfg.BusinessDayRangeEnd <= 0 {
		return fieldErrorf("businessDayRangeEnd", "must be positive, got %d", *cfg.BusinessDayRangeEnd)
	}
	for _, m := range cfg.ActiveMonths {
		if m < 1 || m > 12 {
			return fieldErrorf("activeMonths", "must contain values between 1 and 12, got %d", m)
		}
	}

	return nil
}

func missingField(field string, t Type) *FieldError {
	return fieldErrorf(field, "required for schedule type %s", t)
}
