/*
Package planner merges recurring financial events and inventory forecasts
into one chronological timeline.

PURPOSE:
  Answers "what is coming up in the next N days?": income payments,
  subscription charges, inventory restock reminders, and projected
  run-outs, sorted by date.

DESIGN PRINCIPLES:
  1. Purity: The caller supplies the clock and all records; the package
     performs no I/O and owns no state.
  2. Recomputation: Plans are built fresh per request from current records.
  3. Determinism: Stable sort; ties preserve insertion order
     (incomes, then subscriptions, then inventory).

USAGE:
  plan, err := planner.BuildPlan(planner.Input{
      Now:     time.Now(),
      Days:    60,
      Include: planner.IncludeAll(),
      Incomes: incomes,
  })

SEE ALSO:
  - schedule: Occurrence generation for income/subscription entries
  - inventory: Run-out forecasting for inventory entries
*/
package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/finance-engine/inventory"
	"github.com/pesoplan/finance-engine/schedule"
)

// =============================================================================
// EVENT MODEL
// =============================================================================

// EventType classifies a timeline entry.
type EventType string

const (
	EventIncome            EventType = "INCOME"
	EventSubscription      EventType = "SUBSCRIPTION"
	EventInventoryReminder EventType = "INVENTORY_REMINDER"
	EventInventoryRunout   EventType = "INVENTORY_RUNOUT"
)

// Event is one timeline entry. Derived per request; no lifecycle beyond the
// response. WindowEnd is set for range-type schedule occurrences.
type Event struct {
	Type      EventType
	ID        string
	Name      string
	Date      time.Time
	WindowEnd *time.Time
	Metadata  map[string]any
}

// Plan is the assembled look-ahead timeline.
type Plan struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Events      []Event
}

// =============================================================================
// INPUTS
// =============================================================================

// Stream is a schedule-bearing money flow: an income stream or a
// subscription.
type Stream struct {
	ID       string
	Name     string
	Amount   decimal.Decimal
	Currency string
	Notes    string
	Category string // Subscriptions only; empty otherwise.
	Schedule schedule.Config
}

// InventoryEntry pairs an item's simulation parameters with its identity
// and purchase history.
type InventoryEntry struct {
	ID          string
	Name        string
	Category    string
	Subcategory string
	Item        inventory.Item
	Purchases   []inventory.Purchase
}

// Include selects which event categories to build.
type Include struct {
	Incomes       bool
	Subscriptions bool
	Inventory     bool
}

// IncludeAll enables every category.
func IncludeAll() Include {
	return Include{Incomes: true, Subscriptions: true, Inventory: true}
}

// Input carries everything BuildPlan needs. Time is explicit so plans are
// reproducible under test.
type Input struct {
	Now           time.Time
	Days          int
	Include       Include
	Incomes       []Stream
	Subscriptions []Stream
	Inventory     []InventoryEntry
}

// =============================================================================
// PLAN ASSEMBLY
// =============================================================================

// BuildPlan assembles the timeline over [startOfDay(now), startOfDay(now)+days].
// Days must be positive.
func BuildPlan(in Input) (Plan, error) {
	if in.Days <= 0 {
		return Plan{}, &schedule.FieldError{Field: "days", Message: "must be a positive number"}
	}

	windowStart := schedule.StartOfDay(in.Now)
	windowEnd := schedule.AddDays(windowStart, in.Days)

	events := []Event{}

	if in.Include.Incomes {
		for _, stream := range in.Incomes {
			streamEvents, err := streamEvents(EventIncome, stream, windowStart, windowEnd)
			if err != nil {
				return Plan{}, err
			}
			events = append(events, streamEvents...)
		}
	}

	if in.Include.Subscriptions {
		for _, stream := range in.Subscriptions {
			streamEvents, err := streamEvents(EventSubscription, stream, windowStart, windowEnd)
			if err != nil {
				return Plan{}, err
			}
			events = append(events, streamEvents...)
		}
	}

	if in.Include.Inventory {
		for _, entry := range in.Inventory {
			events = append(events, inventoryEvents(entry, windowStart, windowEnd)...)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	return Plan{WindowStart: windowStart, WindowEnd: windowEnd, Events: events}, nil
}

// streamEvents expands one schedule-bearing stream into timeline events.
func streamEvents(eventType EventType, stream Stream, windowStart, windowEnd time.Time) ([]Event, error) {
	occurrences, err := schedule.Occurrences(stream.Schedule, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	prefix := "income"
	if eventType == EventSubscription {
		prefix = "subscription"
	}

	events := make([]Event, 0, len(occurrences))
	for _, occ := range occurrences {
		metadata := map[string]any{
			"amount":   stream.Amount,
			"currency": stream.Currency,
			"notes":    stream.Notes,
		}
		if eventType == EventSubscription {
			metadata["category"] = stream.Category
		}

		events = append(events, Event{
			Type:      eventType,
			ID:        fmt.Sprintf("%s-%s-%s", prefix, stream.ID, occ.Date.Format(time.RFC3339)),
			Name:      stream.Name,
			Date:      occ.Date,
			WindowEnd: occ.EndDate,
			Metadata:  metadata,
		})
	}
	return events, nil
}

// inventoryEvents runs the depletion forecast as of window start and emits
// reminder and run-out events that land inside the window. Both may fire
// for the same item.
func inventoryEvents(entry InventoryEntry, windowStart, windowEnd time.Time) []Event {
	metrics := inventory.ComputeRunout(entry.Item, entry.Purchases, windowStart)

	metadata := func() map[string]any {
		return map[string]any{
			"stockOnHand":  metrics.StockOnHand,
			"reminderDays": entry.Item.ReminderAdvanceDays,
			"category":     entry.Category,
			"subcategory":  entry.Subcategory,
		}
	}

	var events []Event

	if metrics.ReminderDate != nil && inWindow(*metrics.ReminderDate, windowStart, windowEnd) {
		md := metadata()
		md["runOutDate"] = metrics.RunOutDate
		events = append(events, Event{
			Type:     EventInventoryReminder,
			ID:       fmt.Sprintf("inventory-reminder-%s-%s", entry.ID, metrics.ReminderDate.Format(time.RFC3339)),
			Name:     entry.Name,
			Date:     *metrics.ReminderDate,
			Metadata: md,
		})
	}

	if metrics.RunOutDate != nil && inWindow(*metrics.RunOutDate, windowStart, windowEnd) {
		events = append(events, Event{
			Type:     EventInventoryRunout,
			ID:       fmt.Sprintf("inventory-runout-%s-%s", entry.ID, metrics.RunOutDate.Format(time.RFC3339)),
			Name:     entry.Name,
			Date:     *metrics.RunOutDate,
			Metadata: metadata(),
		})
	}

	return events
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
