package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesoplan/finance-engine/schedule"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	user, err := store.UpsertUserBySubject(context.Background(), "auth0|tester", "tester@example.com", "Tester")
	require.NoError(t, err)
	return store, user.ID
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// USERS
// =============================================================================

func TestUpsertUserBySubject_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.UpsertUserBySubject(ctx, "auth0|alice", "alice@example.com", "Alice")
	require.NoError(t, err)
	second, err := store.UpsertUserBySubject(ctx, "auth0|alice", "alice@example.com", "Alice")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2) // tester + alice
}

// =============================================================================
// CATEGORIES
// =============================================================================

func TestCategoryCRUD(t *testing.T) {
	store, userID := newTestStore(t)
	ctx := context.Background()

	cat := Category{ID: NewID("cat"), UserID: userID, Name: "Groceries", Type: "expense", Color: "#00ff00"}
	require.NoError(t, store.SaveCategory(ctx, cat))

	sub := Subcategory{ID: NewID("sub"), UserID: userID, CategoryID: cat.ID, Name: "Produce"}
	require.NoError(t, store.SaveSubcategory(ctx, sub))

	cats, err := store.ListCategories(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Groceries", cats[0].Name)
	require.Len(t, cats[0].Subcategories, 1)
	assert.Equal(t, "Produce", cats[0].Subcategories[0].Name)

	cat.Name = "Food"
	require.NoError(t, store.UpdateCategory(ctx, cat))
	got, err := store.GetCategory(ctx, userID, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Food", got.Name)

	require.NoError(t, store.RenameSubcategory(ctx, userID, sub.ID, "Fruit"))
	gotSub, err := store.GetSubcategory(ctx, userID, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, gotSub)
	assert.Equal(t, "Fruit", gotSub.Name)

	require.NoError(t, store.DeleteCategory(ctx, userID, cat.ID))
	got, err = store.GetCategory(ctx, userID, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Subcategory rows cascade with their category.
	gotSub, err = store.GetSubcategory(ctx, userID, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, gotSub)
}

func TestCategory_ScopedByUser(t *testing.T) {
	store, userID := newTestStore(t)
	ctx := context.Background()

	other, err := store.UpsertUserBySubject(ctx, "auth0|other", "", "")
	require.NoError(t, err)

	cat := Category{ID: NewID("cat"), UserID: userID, Name: "Mine", Type: "expense"}
	require.NoError(t, store.SaveCategory(ctx, cat))

	got, err := store.GetCategory(ctx, other.ID, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, store.DeleteCategory(ctx, other.ID, cat.ID), ErrNotFound)
}

// =============================================================================
// EXPENSES
// =============================================================================

func TestExpenseCRUDAndFilters(t *testing.T) {
	store, userID := newTestStore(t)
	ctx := context.Background()

	cat := Category{ID: NewID("cat"), UserID: userID, Name: "Transport", Type: "expense"}
	require.NoError(t, store.SaveCategory(ctx, cat))

	early := Expense{
		ID: NewID("exp"), UserID: userID, Amount: dec("150.50"), Currency: "ARS",
		OccurredAt: date(2025, time.February, 10), CategoryID: cat.ID,
		Description: "Bus card", CreatedAt: time.Now().UTC(),
	}
	late := Expense{
		ID: NewID("exp"), UserID: userID, Amount: dec("42"), Currency: "ARS",
		OccurredAt: date(2025, time.March, 5), CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveExpense(ctx, early))
	require.NoError(t, store.SaveExpense(ctx, late))

	all, err := store.ListExpenses(ctx, userID, ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, late.ID, all[0].ID, "newest first")
	assert.True(t, all[1].Amount.Equal(dec("150.50")))

	from := date(2025, time.March, 1)
	filtered, err := store.ListExpenses(ctx, userID, ExpenseFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, late.ID, filtered[0].ID)

	byCat, err := store.ListExpenses(ctx, userID, ExpenseFilter{CategoryID: cat.ID})
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, early.ID, byCat[0].ID)

	// Half-open month range for budget summaries.
	inFeb, err := store.ListExpensesInRange(ctx, userID, date(2025, time.February, 1), date(2025, time.March, 1))
	require.NoError(t, err)
	require.Len(t, inFeb, 1)
	assert.Equal(t, early.ID, inFeb[0].ID)

	early.Amount = dec("175")
	require.NoError(t, store.UpdateExpense(ctx, early))
	got, err := store.GetExpense(ctx, userID, early.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(dec("175")))

	require.NoError(t, store.DeleteExpense(ctx, userID, early.ID))
	assert.ErrorIs(t, store.DeleteExpense(ctx, userID, early.ID), ErrNotFound)
}

// =============================================================================
// BUDGETS
// =============================================================================

func TestBudgetCRUD(t *testing.T) {
	store, userID := newTestStore(t)
	ctx := context.Background()

	start := date(2025, time.January, 1)
	budget := Budget{
		ID: NewID("bud"), UserID: userID, Name: "Food budget",
		Amount: dec("50000"), Currency: "ARS", Period: "monthly",
		StartDate: &start, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveBudget(ctx, budget))

	budgets, err := store.ListBudgets(ctx, userID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	require.NotNil(t, budgets[0].StartDate)
	assert.Equal(t, start, *budgets[0].StartDate)
	assert.Nil(t, budgets[0].EndDate)

	budget.Amount = dec("60000")
	require.NoError(t, store.UpdateBudget(ctx, budget))
	got, err := store.GetBudget(ctx, userID, budget.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(dec("60000")))

	require.NoError(t, store.DeleteBudget(ctx, userID, budget.ID))
	assert.ErrorIs(t, store.DeleteBudget(ctx, userID, budget.ID), ErrNotFound)
}

// =============================================================================
// STREAMS
// =============================================================================

func TestStreamRoundTrip_ScheduleColumns(t *testing.T) {
	store, userID := newTestStore(t)
	ctx := context.Background()

	stream := Stream{
		ID: NewID("inc"), UserID: userID, Name: "Salary",
		Amount: dec("1500000"), Currency: "ARS",
		Schedule: schedule.Config{
			Type:           schedule.BusinessDay,
			NthBusinessDay: schedule.IntPtr(1),
			ActiveMonths:   []int{1, 7},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveIncomeStream(ctx, stream))

	got, err := store.GetIncomeStream(ctx, userID, stream.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, schedule.BusinessDay, got.Schedule.Type)
	require.NotNil(t, got.Schedule.NthBusinessDay)
	assert.Equal(t, 1, *got.Schedule.NthBusinessDay)
	assert.Equal(t, []int{1, 7}, got.Schedule.ActiveMonths)
	assert.Nil(t, got.Schedule.DayOfMonth)
	assert.True(t, got.Amount.Equal(dec("1500000")))
}

func TestStreams_TablesAreSeparate(t *testing.T) {
	store, userID := newTestStore(t)
	ctx := context.Background()

	income := Stream{
		ID: NewID("inc"), UserID: userID, Name: "Salary", Amount: dec("100"),
		Currency: "ARS",
		Schedule: schedule.Config{Type: schedule.FixedDate, DayOfMonth: schedule.IntPtr(1)},
	}
	require.NoError(t, store.SaveIncomeStream(ctx, income))

	subs, err := store.ListSubscriptions(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	incomes, err := store.ListIncomeStreams(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, incomes, 1)
}

func TestStreamUpdate_ReplacesSchedule(t *testing.T) {
	store, userID := newTestStore(t)
	ctx := context.Background()

	sub := Stream{
		ID: NewID("sub"), UserID: userID, Name: "Gym", Amount: dec("20000"),
		Currency: "ARS",
		Schedule: schedule.Config{Type: schedule.FixedDate, DayOfMonth: schedule.IntPtr(1)},
	}
	require.NoError(t, store.SaveSubscription(ctx, sub))

	sub.Schedule = schedule.Config{
		Type:               schedule.DateRange,
		MonthDayRangeStart: schedule.IntPtr(1),
		MonthDayRangeEnd:   schedule.IntPtr(5),
	}
	require.NoError(t, store.UpdateSubscription(ctx, sub))

	got, err := store.GetSubscription(ctx, userID, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, schedule.DateRange, got.Schedule.Type)
	assert.Nil(t, got.Schedule.DayOfMonth, "stale columns must be cleared")
}

// =============================================================================
// INVENTORY
// =============================================================================

func TestInventoryItemAndPurchases(t *testing.T) {
	store, userID := newTestStore(t)
	ctx := context.Background()

	rate := dec("2.5")
	stock := dec("30")
	item := InventoryItem{
		ID: NewID("inv"), UserID: userID, Name: "Coffee beans", UnitName: "g",
		ConsumptionPerDay: &rate, InitialStock: &stock,
		ReminderAdvanceDays: 7, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveInventoryItem(ctx, item))

	got, err := store.GetInventoryItem(ctx, userID, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.ConsumptionPerDay)
	assert.True(t, got.ConsumptionPerDay.Equal(rate))
	assert.Nil(t, got.CostPerPurchase)
	assert.Equal(t, 7, got.ReminderAdvanceDays)

	older := InventoryPurchase{
		ID: NewID("pur"), ItemID: item.ID, Quantity: dec("500"),
		PurchasedAt: date(2025, time.February, 1), CreatedAt: time.Now().UTC(),
	}
	newer := InventoryPurchase{
		ID: NewID("pur"), ItemID: item.ID, Quantity: dec("250"),
		PurchasedAt: date(2025, time.March, 1), CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveInventoryPurchase(ctx, newer))
	require.NoError(t, store.SaveInventoryPurchase(ctx, older))

	asc, err := store.ListInventoryPurchases(ctx, item.ID, true)
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.Equal(t, older.ID, asc[0].ID)

	desc, err := store.ListInventoryPurchases(ctx, item.ID, false)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, desc[0].ID)

	// Purchases cascade with the item.
	require.NoError(t, store.DeleteInventoryItem(ctx, userID, item.ID))
	remaining, err := store.ListInventoryPurchases(ctx, item.ID, true)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

// =============================================================================
// PLANNER SWEEPS
// =============================================================================

func TestPlannerSweeps_LimitAndOrder(t *testing.T) {
	store, userID := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordPlannerSweep(ctx, PlannerSweep{
			ID:         NewID("swp"),
			UserID:     userID,
			RanAt:      date(2025, time.March, 1+i),
			WindowDays: 60,
			EventCount: i,
		}))
	}

	sweeps, err := store.ListPlannerSweeps(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, sweeps, 2)
	assert.Equal(t, date(2025, time.March, 3), sweeps[0].RanAt, "most recent first")
	assert.Equal(t, 2, sweeps[0].EventCount)
}
