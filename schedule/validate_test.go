package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesoplan/finance-engine/schedule"
)

func TestValidate_FixedDate(t *testing.T) {
	assert.NoError(t, schedule.Validate(fixedDay(1)))
	assert.NoError(t, schedule.Validate(fixedDay(31)))

	err := schedule.Validate(schedule.Config{Type: schedule.FixedDate})
	require.Error(t, err)
	var fieldErr *schedule.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "dayOfMonth", fieldErr.Field)
	assert.ErrorIs(t, err, schedule.ErrInvalidArgument)
}

func TestValidate_FixedDate_OutOfBounds(t *testing.T) {
	assert.Error(t, schedule.Validate(fixedDay(0)))
	assert.Error(t, schedule.Validate(fixedDay(32)))
}

func TestValidate_BusinessDay(t *testing.T) {
	cfg := schedule.Config{Type: schedule.BusinessDay, NthBusinessDay: schedule.IntPtr(2)}
	assert.NoError(t, schedule.Validate(cfg))

	cfg.NthBusinessDay = nil
	err := schedule.Validate(cfg)
	var fieldErr *schedule.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "nthBusinessDay", fieldErr.Field)

	cfg.NthBusinessDay = schedule.IntPtr(0)
	assert.Error(t, schedule.Validate(cfg))
}

func TestValidate_DateRange_StartAfterEnd(t *testing.T) {
	cfg := schedule.Config{
		Type:               schedule.DateRange,
		MonthDayRangeStart: schedule.IntPtr(20),
		MonthDayRangeEnd:   schedule.IntPtr(10),
	}
	err := schedule.Validate(cfg)
	require.Error(t, err)
	var fieldErr *schedule.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "monthDayRangeStart", fieldErr.Field)
	assert.Contains(t, fieldErr.Message, "monthDayRangeEnd")
}

func TestValidate_DateRange_MissingBound(t *testing.T) {
	cfg := schedule.Config{
		Type:               schedule.DateRange,
		MonthDayRangeStart: schedule.IntPtr(5),
	}
	err := schedule.Validate(cfg)
	var fieldErr *schedule.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "monthDayRangeEnd", fieldErr.Field)
}

func TestValidate_BusinessDayRange(t *testing.T) {
	cfg := schedule.Config{
		Type:                  schedule.BusinessDayRange,
		BusinessDayRangeStart: schedule.IntPtr(1),
		BusinessDayRangeEnd:   schedule.IntPtr(5),
	}
	assert.NoError(t, schedule.Validate(cfg))

	cfg.BusinessDayRangeStart = schedule.IntPtr(6)
	err := schedule.Validate(cfg)
	var fieldErr *schedule.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "businessDayRangeStart", fieldErr.Field)
}

func TestValidate_ActiveMonths(t *testing.T) {
	cfg := fixedDay(10)
	cfg.ActiveMonths = []int{1, 6, 12}
	assert.NoError(t, schedule.Validate(cfg))

	cfg.ActiveMonths = []int{0}
	err := schedule.Validate(cfg)
	var fieldErr *schedule.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "activeMonths", fieldErr.Field)

	cfg.ActiveMonths = []int{13}
	assert.Error(t, schedule.Validate(cfg))
}

func TestValidate_UnknownType(t *testing.T) {
	err := schedule.Validate(schedule.Config{Type: "WEEKLY"})
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrUnsupportedVariant)
	assert.NotErrorIs(t, err, schedule.ErrInvalidArgument)
}
