package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesoplan/finance-engine/inventory"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeRunout_NoConsumption(t *testing.T) {
	item := inventory.Item{
		ConsumptionPerDay: decimal.Zero,
		InitialStock:      dec("50"),
		InitialStockDate:  date(2025, time.January, 1),
	}

	result := inventory.ComputeRunout(item, nil, date(2025, time.June, 1))

	assert.True(t, result.StockOnHand.Equal(dec("50")))
	assert.Nil(t, result.RunOutDate)
	assert.Nil(t, result.ReminderDate)
}

func TestComputeRunout_SimpleDepletion(t *testing.T) {
	// 100 units at 10/day runs out 10 days after the stock date.
	item := inventory.Item{
		ConsumptionPerDay:   dec("10"),
		InitialStock:        dec("100"),
		InitialStockDate:    date(2025, time.March, 1),
		ReminderAdvanceDays: 3,
	}

	result := inventory.ComputeRunout(item, nil, date(2025, time.March, 1))

	require.NotNil(t, result.RunOutDate)
	assert.Equal(t, date(2025, time.March, 11), *result.RunOutDate)
	require.NotNil(t, result.ReminderDate)
	assert.Equal(t, date(2025, time.March, 8), *result.ReminderDate)
	assert.True(t, result.StockOnHand.Equal(dec("100")))
}

func TestComputeRunout_ElapsedConsumptionDebited(t *testing.T) {
	item := inventory.Item{
		ConsumptionPerDay: dec("10"),
		InitialStock:      dec("100"),
		InitialStockDate:  date(2025, time.March, 1),
	}

	// Four days already elapsed: 60 left, six more days to go.
	result := inventory.ComputeRunout(item, nil, date(2025, time.March, 5))

	assert.True(t, result.StockOnHand.Equal(dec("60")), "got %s", result.StockOnHand)
	require.NotNil(t, result.RunOutDate)
	assert.Equal(t, date(2025, time.March, 11), *result.RunOutDate)
}

func TestComputeRunout_AlreadyOut(t *testing.T) {
	item := inventory.Item{
		ConsumptionPerDay: dec("10"),
		InitialStock:      dec("100"),
		InitialStockDate:  date(2025, time.March, 1),
	}

	asOf := date(2025, time.April, 1)
	result := inventory.ComputeRunout(item, nil, asOf)

	assert.True(t, result.StockOnHand.IsZero())
	require.NotNil(t, result.RunOutDate)
	assert.Equal(t, asOf, *result.RunOutDate)
}

func TestComputeRunout_PurchaseExtendsRunout(t *testing.T) {
	item := inventory.Item{
		ConsumptionPerDay: dec("10"),
		InitialStock:      dec("100"),
		InitialStockDate:  date(2025, time.March, 1),
	}
	purchases := []inventory.Purchase{
		{Quantity: dec("50"), PurchasedAt: date(2025, time.March, 5)},
	}

	result := inventory.ComputeRunout(item, purchases, date(2025, time.March, 5))

	// 100 - 40 consumed + 50 bought = 110 on hand, 11 days of supply.
	assert.True(t, result.StockOnHand.Equal(dec("110")), "got %s", result.StockOnHand)
	require.NotNil(t, result.RunOutDate)
	assert.Equal(t, date(2025, time.March, 16), *result.RunOutDate)
}

func TestComputeRunout_RunsOutBeforeLatePurchase(t *testing.T) {
	// Stock is gone on March 11; a purchase on March 20 must not resurrect it.
	item := inventory.Item{
		ConsumptionPerDay: dec("10"),
		InitialStock:      dec("100"),
		InitialStockDate:  date(2025, time.March, 1),
	}
	purchases := []inventory.Purchase{
		{Quantity: dec("500"), PurchasedAt: date(2025, time.March, 20)},
	}

	result := inventory.ComputeRunout(item, purchases, date(2025, time.March, 25))

	require.NotNil(t, result.RunOutDate)
	assert.Equal(t, date(2025, time.March, 11), *result.RunOutDate)
}

func TestComputeRunout_UnorderedPurchases(t *testing.T) {
	item := inventory.Item{
		ConsumptionPerDay: dec("1"),
		InitialStock:      dec("10"),
		InitialStockDate:  date(2025, time.March, 1),
	}
	shuffled := []inventory.Purchase{
		{Quantity: dec("5"), PurchasedAt: date(2025, time.March, 8)},
		{Quantity: dec("5"), PurchasedAt: date(2025, time.March, 4)},
	}
	ordered := []inventory.Purchase{
		{Quantity: dec("5"), PurchasedAt: date(2025, time.March, 4)},
		{Quantity: dec("5"), PurchasedAt: date(2025, time.March, 8)},
	}

	asOf := date(2025, time.March, 8)
	a := inventory.ComputeRunout(item, shuffled, asOf)
	b := inventory.ComputeRunout(item, ordered, asOf)

	assert.True(t, a.StockOnHand.Equal(b.StockOnHand))
	require.NotNil(t, a.RunOutDate)
	require.NotNil(t, b.RunOutDate)
	assert.Equal(t, *b.RunOutDate, *a.RunOutDate)
}

func TestComputeRunout_PurchaseBeforeStockDate(t *testing.T) {
	// Backdated purchases add stock without charging consumption for the
	// rewound span.
	item := inventory.Item{
		ConsumptionPerDay: dec("10"),
		InitialStock:      dec("100"),
		InitialStockDate:  date(2025, time.March, 10),
	}
	purchases := []inventory.Purchase{
		{Quantity: dec("20"), PurchasedAt: date(2025, time.March, 1)},
	}

	result := inventory.ComputeRunout(item, purchases, date(2025, time.March, 10))

	// 120 total, 12 days of supply measured from the backdated cursor.
	assert.True(t, result.StockOnHand.Equal(dec("30")), "got %s", result.StockOnHand)
	require.NotNil(t, result.RunOutDate)
	assert.Equal(t, date(2025, time.March, 13), *result.RunOutDate)
}

func TestComputeRunout_FractionalRateCeils(t *testing.T) {
	// 10 units at 3/day: ceil(10/3) = 4 days.
	item := inventory.Item{
		ConsumptionPerDay: dec("3"),
		InitialStock:      dec("10"),
		InitialStockDate:  date(2025, time.March, 1),
	}

	result := inventory.ComputeRunout(item, nil, date(2025, time.March, 1))

	require.NotNil(t, result.RunOutDate)
	assert.Equal(t, date(2025, time.March, 5), *result.RunOutDate)
}

func TestComputeRunout_NegativeInitialStockClamped(t *testing.T) {
	item := inventory.Item{
		ConsumptionPerDay: dec("1"),
		InitialStock:      dec("-5"),
		InitialStockDate:  date(2025, time.March, 1),
	}

	result := inventory.ComputeRunout(item, nil, date(2025, time.March, 1))

	assert.True(t, result.StockOnHand.IsZero())
	require.NotNil(t, result.RunOutDate)
	assert.Equal(t, date(2025, time.March, 1), *result.RunOutDate)
}
