/*
Package inventory is the stock depletion forecaster.

PURPOSE:
  Given a consumable's daily consumption rate, its initial stock, and an
  irregular purchase history, projects when it runs out and when the owner
  should be reminded to restock. This is a piecewise linear simulation:
  purchases are instantaneous restocks, consumption is continuous between
  events.

DESIGN PRINCIPLES:
  1. Purity: No clock access; the evaluation instant is an input.
  2. Precision: decimal.Decimal for quantities, no float drift.
  3. Recomputation: Runout is derived on every read from the current
     records, never persisted or cached.

USAGE:
  result := inventory.ComputeRunout(item, purchases, time.Now())
  if result.RunOutDate != nil { ... }
*/
package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/finance-engine/schedule"
)

// =============================================================================
// TYPES
// =============================================================================

// Item carries the consumption parameters of one tracked consumable.
// Identity and metadata live in the persistence layer.
type Item struct {
	// ConsumptionPerDay is the linear depletion rate. Zero or negative
	// means the item never depletes from consumption.
	ConsumptionPerDay decimal.Decimal

	// InitialStock is the quantity on hand at InitialStockDate.
	InitialStock decimal.Decimal

	// InitialStockDate anchors the simulation. Callers default it to the
	// item's creation time when unset.
	InitialStockDate time.Time

	// ReminderAdvanceDays is how many days before run-out the reminder
	// fires. Must be >= 0.
	ReminderAdvanceDays int
}

// Purchase is one restock event. Stored unordered; the simulation sorts by
// PurchasedAt.
type Purchase struct {
	Quantity    decimal.Decimal
	PurchasedAt time.Time
}

// Runout is the derived forecast. RunOutDate is nil only when the item has
// no consumption rate. ReminderDate is RunOutDate minus the advance days.
type Runout struct {
	StockOnHand  decimal.Decimal
	RunOutDate   *time.Time
	ReminderDate *time.Time
}

// =============================================================================
// SIMULATION
// =============================================================================

// stockPrecision is the reported rounding of StockOnHand.
const stockPrecision = 4

// ComputeRunout walks the purchase history in chronological order, applying
// linear consumption between events, and projects the run-out date past the
// last event. asOf is the evaluation instant; consumption already elapsed by
// asOf is debited before projecting forward.
//
// A purchase dated before the running cursor rewinds the cursor without any
// consumption debit: consumption is only ever applied forward in time.
func ComputeRunout(item Item, purchases []Purchase, asOf time.Time) Runout {
	today := schedule.StartOfDay(asOf)
	cursor := schedule.StartOfDay(item.InitialStockDate)
	stock := item.InitialStock
	if stock.IsNegative() {
		stock = decimal.Zero
	}

	if !item.ConsumptionPerDay.IsPositive() {
		// No consumption configured; stock never depletes on its own.
		return Runout{StockOnHand: reportStock(stock)}
	}

	ordered := make([]Purchase, len(purchases))
	copy(ordered, purchases)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PurchasedAt.Before(ordered[j].PurchasedAt)
	})

	var runOut *time.Time

	for _, purchase := range ordered {
		purchaseDate := schedule.StartOfDay(purchase.PurchasedAt)

		if purchaseDate.After(cursor) {
			days := schedule.DifferenceInDays(purchaseDate, cursor)
			consumed := item.ConsumptionPerDay.Mul(decimal.NewFromInt(int64(days)))
			if !stock.Sub(consumed).IsPositive() {
				// Ran out strictly between cursor and this purchase.
				date := projectDepletion(cursor, stock, item.ConsumptionPerDay)
				runOut = &date
				break
			}
			stock = stock.Sub(consumed)
			cursor = purchaseDate
		} else if purchaseDate.Before(cursor) {
			cursor = purchaseDate
		}

		stock = stock.Add(purchase.Quantity)
	}

	if runOut == nil {
		if today.After(cursor) {
			days := schedule.DifferenceInDays(today, cursor)
			stock = stock.Sub(item.ConsumptionPerDay.Mul(decimal.NewFromInt(int64(days))))
			cursor = today
		}

		if !stock.IsPositive() {
			runOut = &today
		} else {
			date := projectDepletion(cursor, stock, item.ConsumptionPerDay)
			runOut = &date
		}
	}

	var reminder *time.Time
	if runOut != nil {
		r := schedule.AddDays(*runOut, -item.ReminderAdvanceDays)
		reminder = &r
	}

	return Runout{
		StockOnHand:  reportStock(stock),
		RunOutDate:   runOut,
		ReminderDate: reminder,
	}
}

// projectDepletion returns the date ceil(stock/rate) days after from.
func projectDepletion(from time.Time, stock, rate decimal.Decimal) time.Time {
	days := int(stock.Div(rate).Ceil().IntPart())
	if days < 0 {
		days = 0
	}
	return schedule.AddDays(from, days)
}

// reportStock clamps to zero and rounds to the reported precision.
func reportStock(stock decimal.Decimal) decimal.Decimal {
	rounded := stock.Round(stockPrecision)
	if rounded.IsNegative() {
		return decimal.Zero
	}
	return rounded
}
