/*
occurrences.go - Window expansion of a recurrence

PURPOSE:
  Produces every calendar occurrence of a Config inside a closed window,
  one occurrence per active month. The month cursor is an explicit
  (year, month) integer pair rather than a mutated date value, so there is
  no local-time or DST drift anywhere in the loop.

KEEP RULE:
  A point occurrence is kept when its date falls inside the window. A range
  occurrence is kept when its interval [date, endDate] overlaps the window,
  i.e. endDate >= windowStart and date <= windowEnd.
*/
package schedule

import (
	"fmt"
	"sort"
	"time"
)

// Occurrences expands cfg over the closed window [windowStart, windowEnd],
// both day-normalized. An inverted window yields an empty slice. cfg must
// have passed Validate; an unknown Type returns ErrUnsupportedVariant.
//
// The result is sorted ascending by Date. The function is pure and
// idempotent: identical inputs always produce identical output.
func Occurrences(cfg Config, windowStart, windowEnd time.Time) ([]Occurrence, error) {
	start := StartOfDay(windowStart)
	end := StartOfDay(windowEnd)

	if end.Before(start) {
		return []Occurrence{}, nil
	}

	occurrences := []Occurrence{}

	year, month := start.Year(), start.Month()
	limitYear, limitMonth := end.Year(), end.Month()

	for year < limitYear || (year == limitYear && month <= limitMonth) {
		if cfg.monthActive(month) {
			occ, err := monthOccurrence(cfg, year, month)
			if err != nil {
				return nil, err
			}
			if keepInWindow(occ, start, end) {
				occurrences = append(occurrences, occ)
			}
		}

		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Date.Before(occurrences[j].Date)
	})

	return occurrences, nil
}

// monthOccurrence computes the single occurrence of cfg in the given month.
func monthOccurrence(cfg Config, year int, month time.Month) (Occurrence, error) {
	switch cfg.Type {
	case FixedDate:
		return Occurrence{Date: ClampDayOfMonth(year, month, *cfg.DayOfMonth)}, nil

	case BusinessDay:
		date, err := NthBusinessDay(year, month, *cfg.NthBusinessDay)
		if err != nil {
			return Occurrence{}, err
		}
		return Occurrence{Date: date}, nil

	case DateRange:
		endDate := ClampDayOfMonth(year, month, *cfg.MonthDayRangeEnd)
		return Occurrence{
			Date:    ClampDayOfMonth(year, month, *cfg.MonthDayRangeStart),
			EndDate: &endDate,
		}, nil

	case BusinessDayRange:
		rangeStart, rangeEnd, err := GetBusinessDayRange(year, month, *cfg.BusinessDayRangeStart, *cfg.BusinessDayRangeEnd)
		if err != nil {
			return Occurrence{}, err
		}
		return Occurrence{Date: rangeStart, EndDate: &rangeEnd}, nil

	default:
		return Occurrence{}, fmt.Errorf("%w: %q", ErrUnsupportedVariant, cfg.Type)
	}
}

// keepInWindow applies the keep rule against a day-normalized closed window.
func keepInWindow(occ Occurrence, windowStart, windowEnd time.Time) bool {
	date := StartOfDay(occ.Date)
	if occ.EndDate != nil {
		return !StartOfDay(*occ.EndDate).Before(windowStart) && !date.After(windowEnd)
	}
	return !date.Before(windowStart) && !date.After(windowEnd)
}
