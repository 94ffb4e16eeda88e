package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesoplan/finance-engine/schedule"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestClampDayOfMonth_FebruaryNonLeap(t *testing.T) {
	// 2025 is not a leap year: day 31 clamps to Feb 28.
	got := schedule.ClampDayOfMonth(2025, time.February, 31)
	assert.Equal(t, date(2025, time.February, 28), got)
}

func TestClampDayOfMonth_FebruaryLeap(t *testing.T) {
	got := schedule.ClampDayOfMonth(2024, time.February, 31)
	assert.Equal(t, date(2024, time.February, 29), got)
}

func TestClampDayOfMonth_WithinMonth(t *testing.T) {
	got := schedule.ClampDayOfMonth(2025, time.March, 15)
	assert.Equal(t, date(2025, time.March, 15), got)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, schedule.DaysInMonth(2025, time.January))
	assert.Equal(t, 28, schedule.DaysInMonth(2025, time.February))
	assert.Equal(t, 29, schedule.DaysInMonth(2024, time.February))
	assert.Equal(t, 30, schedule.DaysInMonth(2025, time.April))
}

func TestDifferenceInDays_IgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 11, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, schedule.DifferenceInDays(b, a))
	assert.Equal(t, -1, schedule.DifferenceInDays(a, b))
}

func TestNthBusinessDay_JanuaryFirst2024(t *testing.T) {
	// January 1, 2024 is a Monday, so it is the first business day.
	got, err := schedule.NthBusinessDay(2024, time.January, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 1), got)
}

func TestNthBusinessDay_SkipsWeekend(t *testing.T) {
	// March 2025 starts on a Saturday; the first business day is Monday the 3rd.
	got, err := schedule.NthBusinessDay(2025, time.March, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 3), got)
}

func TestNthBusinessDay_RejectsNonPositive(t *testing.T) {
	_, err := schedule.NthBusinessDay(2025, time.March, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrInvalidArgument)

	_, err = schedule.NthBusinessDay(2025, time.March, -3)
	assert.Error(t, err)
}

func TestNthBusinessDay_ExceedsMonth(t *testing.T) {
	// No month has 24 business days.
	_, err := schedule.NthBusinessDay(2025, time.February, 24)
	assert.Error(t, err)
}

func TestBusinessDayRange_Ordered(t *testing.T) {
	start, end, err := schedule.GetBusinessDayRange(2024, time.January, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 1), start)
	assert.Equal(t, date(2024, time.January, 3), end)
	assert.False(t, end.Before(start))
}

func TestBusinessDayRange_StartAfterEnd(t *testing.T) {
	_, _, err := schedule.GetBusinessDayRange(2024, time.January, 5, 2)
	assert.Error(t, err)
}

func TestMonthRangeFromISO(t *testing.T) {
	start, end, err := schedule.MonthRangeFromISO("2025-02")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.February, 1), start)
	assert.Equal(t, date(2025, time.March, 1), end)
}

func TestMonthRangeFromISO_Invalid(t *testing.T) {
	for _, bad := range []string{"", "2025", "2025-13", "2025-00", "02-2025", "2025-2"} {
		_, _, err := schedule.MonthRangeFromISO(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestIsBusinessDay(t *testing.T) {
	assert.True(t, schedule.IsBusinessDay(date(2025, time.March, 3)))  // Monday
	assert.False(t, schedule.IsBusinessDay(date(2025, time.March, 1))) // Saturday
	assert.False(t, schedule.IsBusinessDay(date(2025, time.March, 2))) // Sunday
}
