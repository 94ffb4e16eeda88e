package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesoplan/finance-engine/schedule"
)

func fixedDay(day int) schedule.Config {
	return schedule.Config{
		Type:       schedule.FixedDate,
		DayOfMonth: schedule.IntPtr(day),
	}
}

func TestOccurrences_FixedDate_OnePerMonth(t *testing.T) {
	occs, err := schedule.Occurrences(fixedDay(15), date(2025, time.January, 1), date(2025, time.March, 31))
	require.NoError(t, err)
	require.Len(t, occs, 3)
	assert.Equal(t, date(2025, time.January, 15), occs[0].Date)
	assert.Equal(t, date(2025, time.February, 15), occs[1].Date)
	assert.Equal(t, date(2025, time.March, 15), occs[2].Date)
	for _, occ := range occs {
		assert.Nil(t, occ.EndDate)
	}
}

func TestOccurrences_FixedDate_ClampsShortMonths(t *testing.T) {
	occs, err := schedule.Occurrences(fixedDay(31), date(2025, time.January, 1), date(2025, time.April, 30))
	require.NoError(t, err)
	require.Len(t, occs, 4)
	assert.Equal(t, date(2025, time.January, 31), occs[0].Date)
	assert.Equal(t, date(2025, time.February, 28), occs[1].Date)
	assert.Equal(t, date(2025, time.March, 31), occs[2].Date)
	assert.Equal(t, date(2025, time.April, 30), occs[3].Date)
}

func TestOccurrences_ExcludesOutsideWindow(t *testing.T) {
	// Window starts on the 20th; January's occurrence on the 15th is gone.
	occs, err := schedule.Occurrences(fixedDay(15), date(2025, time.January, 20), date(2025, time.February, 28))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, date(2025, time.February, 15), occs[0].Date)
}

func TestOccurrences_InvertedWindow_Empty(t *testing.T) {
	occs, err := schedule.Occurrences(fixedDay(15), date(2025, time.March, 1), date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Empty(t, occs)
	assert.NotNil(t, occs)
}

func TestOccurrences_ActiveMonthsFilter(t *testing.T) {
	cfg := fixedDay(10)
	cfg.ActiveMonths = []int{3, 6}

	occs, err := schedule.Occurrences(cfg, date(2025, time.January, 1), date(2025, time.December, 31))
	require.NoError(t, err)
	require.Len(t, occs, 2)
	assert.Equal(t, date(2025, time.March, 10), occs[0].Date)
	assert.Equal(t, date(2025, time.June, 10), occs[1].Date)
}

func TestOccurrences_BusinessDay(t *testing.T) {
	cfg := schedule.Config{
		Type:           schedule.BusinessDay,
		NthBusinessDay: schedule.IntPtr(1),
	}
	occs, err := schedule.Occurrences(cfg, date(2024, time.January, 1), date(2024, time.February, 29))
	require.NoError(t, err)
	require.Len(t, occs, 2)
	assert.Equal(t, date(2024, time.January, 1), occs[0].Date)  // Monday
	assert.Equal(t, date(2024, time.February, 1), occs[1].Date) // Thursday
}

func TestOccurrences_DateRange_OverlapKept(t *testing.T) {
	cfg := schedule.Config{
		Type:               schedule.DateRange,
		MonthDayRangeStart: schedule.IntPtr(25),
		MonthDayRangeEnd:   schedule.IntPtr(31),
	}

	// Window starts on the 28th: January's range [25, 31] still overlaps.
	occs, err := schedule.Occurrences(cfg, date(2025, time.January, 28), date(2025, time.February, 10))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, date(2025, time.January, 25), occs[0].Date)
	require.NotNil(t, occs[0].EndDate)
	assert.Equal(t, date(2025, time.January, 31), *occs[0].EndDate)
}

func TestOccurrences_DateRange_DisjointDropped(t *testing.T) {
	cfg := schedule.Config{
		Type:               schedule.DateRange,
		MonthDayRangeStart: schedule.IntPtr(1),
		MonthDayRangeEnd:   schedule.IntPtr(5),
	}

	occs, err := schedule.Occurrences(cfg, date(2025, time.January, 10), date(2025, time.January, 20))
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestOccurrences_BusinessDayRange(t *testing.T) {
	cfg := schedule.Config{
		Type:                  schedule.BusinessDayRange,
		BusinessDayRangeStart: schedule.IntPtr(1),
		BusinessDayRangeEnd:   schedule.IntPtr(5),
	}
	occs, err := schedule.Occurrences(cfg, date(2024, time.January, 1), date(2024, time.January, 31))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, date(2024, time.January, 1), occs[0].Date)
	require.NotNil(t, occs[0].EndDate)
	assert.Equal(t, date(2024, time.January, 5), *occs[0].EndDate)
}

func TestOccurrences_SortedAndIdempotent(t *testing.T) {
	cfg := fixedDay(5)
	windowStart := date(2024, time.November, 1)
	windowEnd := date(2025, time.February, 28)

	first, err := schedule.Occurrences(cfg, windowStart, windowEnd)
	require.NoError(t, err)
	second, err := schedule.Occurrences(cfg, windowStart, windowEnd)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Date.Before(first[i].Date), "occurrences must be ascending")
	}
	// Year boundary crossed without gaps.
	require.Len(t, first, 4)
	assert.Equal(t, date(2024, time.December, 5), first[1].Date)
	assert.Equal(t, date(2025, time.January, 5), first[2].Date)
}

func TestOccurrences_UnknownVariant(t *testing.T) {
	cfg := schedule.Config{Type: schedule.Type("WEEKLY")}
	_, err := schedule.Occurrences(cfg, date(2025, time.January, 1), date(2025, time.January, 31))
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrUnsupportedVariant)
}
