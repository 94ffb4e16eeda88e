package planner_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesoplan/finance-engine/inventory"
	"github.com/pesoplan/finance-engine/planner"
	"github.com/pesoplan/finance-engine/schedule"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func monthlyStream(id, name string, day int) planner.Stream {
	return planner.Stream{
		ID:       id,
		Name:     name,
		Amount:   decimal.RequireFromString("1000"),
		Currency: "ARS",
		Schedule: schedule.Config{
			Type:       schedule.FixedDate,
			DayOfMonth: schedule.IntPtr(day),
		},
	}
}

func TestBuildPlan_RejectsNonPositiveDays(t *testing.T) {
	for _, days := range []int{0, -5} {
		_, err := planner.BuildPlan(planner.Input{
			Now:     date(2025, time.March, 1),
			Days:    days,
			Include: planner.IncludeAll(),
		})
		require.Error(t, err, "days=%d", days)
		assert.ErrorIs(t, err, schedule.ErrInvalidArgument)

		var fieldErr *schedule.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "days", fieldErr.Field)
	}
}

func TestBuildPlan_Window(t *testing.T) {
	now := time.Date(2025, time.March, 1, 14, 30, 0, 0, time.UTC)
	plan, err := planner.BuildPlan(planner.Input{Now: now, Days: 30, Include: planner.IncludeAll()})
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.March, 1), plan.WindowStart)
	assert.Equal(t, date(2025, time.March, 31), plan.WindowEnd)
	assert.NotNil(t, plan.Events)
	assert.Empty(t, plan.Events)
}

func TestBuildPlan_IncomeEvents(t *testing.T) {
	plan, err := planner.BuildPlan(planner.Input{
		Now:     date(2025, time.March, 1),
		Days:    60,
		Include: planner.IncludeAll(),
		Incomes: []planner.Stream{monthlyStream("s1", "Salary", 10)},
	})
	require.NoError(t, err)

	require.Len(t, plan.Events, 2)
	first := plan.Events[0]
	assert.Equal(t, planner.EventIncome, first.Type)
	assert.Equal(t, "Salary", first.Name)
	assert.Equal(t, date(2025, time.March, 10), first.Date)
	assert.Equal(t, "income-s1-2025-03-10T00:00:00Z", first.ID)
	assert.Equal(t, "ARS", first.Metadata["currency"])
	assert.Equal(t, date(2025, time.April, 10), plan.Events[1].Date)
}

func TestBuildPlan_SubscriptionCarriesCategory(t *testing.T) {
	sub := monthlyStream("n1", "Netflix", 5)
	sub.Category = "cat-entertainment"

	plan, err := planner.BuildPlan(planner.Input{
		Now:           date(2025, time.March, 1),
		Days:          30,
		Include:       planner.IncludeAll(),
		Subscriptions: []planner.Stream{sub},
	})
	require.NoError(t, err)

	require.Len(t, plan.Events, 1)
	event := plan.Events[0]
	assert.Equal(t, planner.EventSubscription, event.Type)
	assert.Equal(t, "subscription-n1-2025-03-05T00:00:00Z", event.ID)
	assert.Equal(t, "cat-entertainment", event.Metadata["category"])
}

func TestBuildPlan_IncludeFilter(t *testing.T) {
	in := planner.Input{
		Now:           date(2025, time.March, 1),
		Days:          30,
		Include:       planner.Include{Inventory: true},
		Incomes:       []planner.Stream{monthlyStream("s1", "Salary", 10)},
		Subscriptions: []planner.Stream{monthlyStream("n1", "Netflix", 5)},
		Inventory: []planner.InventoryEntry{{
			ID:   "i1",
			Name: "Coffee",
			Item: inventory.Item{
				ConsumptionPerDay:   decimal.RequireFromString("10"),
				InitialStock:        decimal.RequireFromString("100"),
				InitialStockDate:    date(2025, time.March, 1),
				ReminderAdvanceDays: 3,
			},
		}},
	}

	plan, err := planner.BuildPlan(in)
	require.NoError(t, err)

	require.NotEmpty(t, plan.Events)
	for _, event := range plan.Events {
		assert.NotEqual(t, planner.EventIncome, event.Type)
		assert.NotEqual(t, planner.EventSubscription, event.Type)
	}
}

func TestBuildPlan_InventoryReminderAndRunout(t *testing.T) {
	entry := planner.InventoryEntry{
		ID:       "i1",
		Name:     "Coffee",
		Category: "cat-groceries",
		Item: inventory.Item{
			ConsumptionPerDay:   decimal.RequireFromString("10"),
			InitialStock:        decimal.RequireFromString("100"),
			InitialStockDate:    date(2025, time.March, 1),
			ReminderAdvanceDays: 3,
		},
	}

	plan, err := planner.BuildPlan(planner.Input{
		Now:       date(2025, time.March, 1),
		Days:      30,
		Include:   planner.IncludeAll(),
		Inventory: []planner.InventoryEntry{entry},
	})
	require.NoError(t, err)

	require.Len(t, plan.Events, 2)
	reminder, runout := plan.Events[0], plan.Events[1]

	assert.Equal(t, planner.EventInventoryReminder, reminder.Type)
	assert.Equal(t, date(2025, time.March, 8), reminder.Date)
	assert.Equal(t, "cat-groceries", reminder.Metadata["category"])
	assert.NotNil(t, reminder.Metadata["runOutDate"])

	assert.Equal(t, planner.EventInventoryRunout, runout.Type)
	assert.Equal(t, date(2025, time.March, 11), runout.Date)
}

func TestBuildPlan_InventoryOutsideWindowDropped(t *testing.T) {
	// Run-out lands ~100 days out; a 30-day window sees nothing.
	entry := planner.InventoryEntry{
		ID:   "i1",
		Name: "Rice",
		Item: inventory.Item{
			ConsumptionPerDay: decimal.RequireFromString("1"),
			InitialStock:      decimal.RequireFromString("100"),
			InitialStockDate:  date(2025, time.March, 1),
		},
	}

	plan, err := planner.BuildPlan(planner.Input{
		Now:       date(2025, time.March, 1),
		Days:      30,
		Include:   planner.IncludeAll(),
		Inventory: []planner.InventoryEntry{entry},
	})
	require.NoError(t, err)
	assert.Empty(t, plan.Events)
}

func TestBuildPlan_SortedAcrossSources(t *testing.T) {
	plan, err := planner.BuildPlan(planner.Input{
		Now:           date(2025, time.March, 1),
		Days:          60,
		Include:       planner.IncludeAll(),
		Incomes:       []planner.Stream{monthlyStream("s1", "Salary", 25)},
		Subscriptions: []planner.Stream{monthlyStream("n1", "Netflix", 5)},
	})
	require.NoError(t, err)

	require.Len(t, plan.Events, 4)
	for i := 1; i < len(plan.Events); i++ {
		assert.False(t, plan.Events[i].Date.Before(plan.Events[i-1].Date), "events must be ascending")
	}
	assert.Equal(t, planner.EventSubscription, plan.Events[0].Type)
	assert.Equal(t, planner.EventIncome, plan.Events[1].Type)
}

func TestBuildPlan_InvalidScheduleSurfaces(t *testing.T) {
	bad := planner.Stream{
		ID:       "s1",
		Name:     "Broken",
		Schedule: schedule.Config{Type: "WEEKLY"},
	}
	_, err := planner.BuildPlan(planner.Input{
		Now:     date(2025, time.March, 1),
		Days:    30,
		Include: planner.IncludeAll(),
		Incomes: []planner.Stream{bad},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrUnsupportedVariant)
}
