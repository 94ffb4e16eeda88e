/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal records from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DECIMALS:
  Monetary amounts and stock quantities travel as JSON strings or numbers
  and are parsed into decimal.Decimal at this boundary, before anything
  touches the calculation packages. Responses serialize decimals as
  strings, preserving exactness.

SEE ALSO:
  - handlers.go and siblings: Use these types
  - schedule/types.go: The Config these payloads flatten
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/finance-engine/inventory"
	"github.com/pesoplan/finance-engine/planner"
	"github.com/pesoplan/finance-engine/schedule"
	"github.com/pesoplan/finance-engine/store/sqlite"
)

// ErrorResponse is the error envelope for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// USERS
// =============================================================================

type UserDTO struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toUserDTO(u *sqlite.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Subject:   u.Subject,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// CATEGORIES
// =============================================================================

type CategoryDTO struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Type          string           `json:"type"`
	Color         string           `json:"color,omitempty"`
	Icon          string           `json:"icon,omitempty"`
	Subcategories []SubcategoryDTO `json:"subcategories,omitempty"`
}

type SubcategoryDTO struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type SubcategoryRequest struct {
	Name string `json:"name"`
}

func toCategoryDTO(c sqlite.Category) CategoryDTO {
	dto := CategoryDTO{
		ID:    c.ID,
		Name:  c.Name,
		Type:  c.Type,
		Color: c.Color,
		Icon:  c.Icon,
	}
	for _, sub := range c.Subcategories {
		dto.Subcategories = append(dto.Subcategories, toSubcategoryDTO(sub))
	}
	return dto
}

func toSubcategoryDTO(s sqlite.Subcategory) SubcategoryDTO {
	return SubcategoryDTO{ID: s.ID, CategoryID: s.CategoryID, Name: s.Name}
}

// =============================================================================
// EXPENSES
// =============================================================================

type ExpenseDTO struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	OccurredAt    string          `json:"occurred_at"`
	CategoryID    string          `json:"category_id,omitempty"`
	SubcategoryID string          `json:"subcategory_id,omitempty"`
	Description   string          `json:"description,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type ExpenseRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Currency      string           `json:"currency,omitempty"`
	OccurredAt    string           `json:"occurredAt,omitempty"`
	CategoryID    *string          `json:"categoryId,omitempty"`
	SubcategoryID *string          `json:"subcategoryId,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func toExpenseDTO(e sqlite.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:            e.ID,
		Amount:        e.Amount,
		Currency:      e.Currency,
		OccurredAt:    e.OccurredAt.Format(time.RFC3339),
		CategoryID:    e.CategoryID,
		SubcategoryID: e.SubcategoryID,
		Description:   e.Description,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// BUDGETS
// =============================================================================

type BudgetDTO struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Period        string          `json:"period"`
	CategoryID    string          `json:"category_id,omitempty"`
	SubcategoryID string          `json:"subcategory_id,omitempty"`
	StartDate     *string         `json:"start_date,omitempty"`
	EndDate       *string         `json:"end_date,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type BudgetRequest struct {
	Name          string           `json:"name"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      string           `json:"currency,omitempty"`
	Period        string           `json:"period,omitempty"`
	CategoryID    *string          `json:"categoryId,omitempty"`
	SubcategoryID *string          `json:"subcategoryId,omitempty"`
	StartDate     *string          `json:"startDate,omitempty"`
	EndDate       *string          `json:"endDate,omitempty"`
}

// BudgetSummaryEntryDTO pairs a budget with actual spend over the month.
type BudgetSummaryEntryDTO struct {
	Budget   BudgetDTO       `json:"budget"`
	Actual   decimal.Decimal `json:"actual"`
	Variance decimal.Decimal `json:"variance"`
}

type BudgetSummaryDTO struct {
	Month       string                  `json:"month"`
	PeriodStart string                  `json:"period_start"`
	PeriodEnd   string                  `json:"period_end"`
	Results     []BudgetSummaryEntryDTO `json:"results"`
}

func toBudgetDTO(b sqlite.Budget) BudgetDTO {
	dto := BudgetDTO{
		ID:            b.ID,
		Name:          b.Name,
		Amount:        b.Amount,
		Currency:      b.Currency,
		Period:        b.Period,
		CategoryID:    b.CategoryID,
		SubcategoryID: b.SubcategoryID,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
	if b.StartDate != nil {
		s := b.StartDate.Format(time.RFC3339)
		dto.StartDate = &s
	}
	if b.EndDate != nil {
		s := b.EndDate.Format(time.RFC3339)
		dto.EndDate = &s
	}
	return dto
}

// =============================================================================
// SCHEDULE-BEARING STREAMS (incomes, subscriptions)
// =============================================================================

// SchedulePayload flattens a schedule.Config for transport.
type SchedulePayload struct {
	ScheduleType          string `json:"scheduleType"`
	DayOfMonth            *int   `json:"dayOfMonth,omitempty"`
	NthBusinessDay        *int   `json:"nthBusinessDay,omitempty"`
	MonthDayRangeStart    *int   `json:"monthDayRangeStart,omitempty"`
	MonthDayRangeEnd      *int   `json:"monthDayRangeEnd,omitempty"`
	BusinessDayRangeStart *int   `json:"businessDayRangeStart,omitempty"`
	BusinessDayRangeEnd   *int   `json:"businessDayRangeEnd,omitempty"`
	ActiveMonths          []int  `json:"activeMonths,omitempty"`
}

func (p SchedulePayload) config() schedule.Config {
	return schedule.Config{
		Type:                  schedule.Type(p.ScheduleType),
		DayOfMonth:            p.DayOfMonth,
		NthBusinessDay:        p.NthBusinessDay,
		MonthDayRangeStart:    p.MonthDayRangeStart,
		MonthDayRangeEnd:      p.MonthDayRangeEnd,
		BusinessDayRangeStart: p.BusinessDayRangeStart,
		BusinessDayRangeEnd:   p.BusinessDayRangeEnd,
		ActiveMonths:          p.ActiveMonths,
	}
}

// patch overlays the provided fields onto an existing config. ScheduleType
// present means a full replacement; otherwise only non-nil fields change.
func (p SchedulePayload) patch(existing schedule.Config) schedule.Config {
	if p.ScheduleType != "" {
		return p.config()
	}
	cfg := existing
	if p.DayOfMonth != nil {
		cfg.DayOfMonth = p.DayOfMonth
	}
	if p.NthBusinessDay != nil {
		cfg.NthBusinessDay = p.NthBusinessDay
	}
	if p.MonthDayRangeStart != nil {
		cfg.MonthDayRangeStart = p.MonthDayRangeStart
	}
	if p.MonthDayRangeEnd != nil {
		cfg.MonthDayRangeEnd = p.MonthDayRangeEnd
	}
	if p.BusinessDayRangeStart != nil {
		cfg.BusinessDayRangeStart = p.BusinessDayRangeStart
	}
	if p.BusinessDayRangeEnd != nil {
		cfg.BusinessDayRangeEnd = p.BusinessDayRangeEnd
	}
	if p.ActiveMonths != nil {
		cfg.ActiveMonths = p.ActiveMonths
	}
	return cfg
}

func toSchedulePayload(cfg schedule.Config) SchedulePayload {
	return SchedulePayload{
		ScheduleType:          string(cfg.Type),
		DayOfMonth:            cfg.DayOfMonth,
		NthBusinessDay:        cfg.NthBusinessDay,
		MonthDayRangeStart:    cfg.MonthDayRangeStart,
		MonthDayRangeEnd:      cfg.MonthDayRangeEnd,
		BusinessDayRangeStart: cfg.BusinessDayRangeStart,
		BusinessDayRangeEnd:   cfg.BusinessDayRangeEnd,
		ActiveMonths:          cfg.ActiveMonths,
	}
}

type StreamDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CategoryID string          `json:"category_id,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  string          `json:"created_at"`
	SchedulePayload
}

type StreamRequest struct {
	Name       string           `json:"name"`
	Amount     *decimal.Decimal `json:"amount"`
	Currency   string           `json:"currency,omitempty"`
	CategoryID *string          `json:"categoryId,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	SchedulePayload
}

func toStreamDTO(s sqlite.Stream) StreamDTO {
	return StreamDTO{
		ID:              s.ID,
		Name:            s.Name,
		Amount:          s.Amount,
		Currency:        s.Currency,
		CategoryID:      s.CategoryID,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		SchedulePayload: toSchedulePayload(s.Schedule),
	}
}

// =============================================================================
// INVENTORY
// =============================================================================

type RunoutDTO struct {
	StockOnHand  decimal.Decimal `json:"stockOnHand"`
	RunOutDate   *string         `json:"runOutDate"`
	ReminderDate *string         `json:"reminderDate"`
}

type InventoryItemDTO struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	CategoryID          string           `json:"category_id,omitempty"`
	SubcategoryID       string           `json:"subcategory_id,omitempty"`
	UnitName            string           `json:"unit_name,omitempty"`
	CostPerPurchase     *decimal.Decimal `json:"cost_per_purchase,omitempty"`
	PurchaseQuantity    *decimal.Decimal `json:"purchase_quantity,omitempty"`
	ConsumptionPerDay   *decimal.Decimal `json:"consumption_per_day,omitempty"`
	InitialStock        *decimal.Decimal `json:"initial_stock_quantity,omitempty"`
	InitialStockDate    *string          `json:"initial_stock_date,omitempty"`
	ReminderAdvanceDays int              `json:"reminder_advance_days"`
	Notes               string           `json:"notes,omitempty"`
	CreatedAt           string           `json:"created_at"`
	Metrics             RunoutDTO        `json:"metrics"`
}

type InventoryItemRequest struct {
	Name                string           `json:"name"`
	CategoryID          *string          `json:"categoryId,omitempty"`
	SubcategoryID       *string          `json:"subcategoryId,omitempty"`
	UnitName            *string          `json:"unitName,omitempty"`
	CostPerPurchase     *decimal.Decimal `json:"costPerPurchase,omitempty"`
	PurchaseQuantity    *decimal.Decimal `json:"purchaseQuantity,omitempty"`
	ConsumptionPerDay   *decimal.Decimal `json:"consumptionPerDay,omitempty"`
	InitialStock        *decimal.Decimal `json:"initialStockQuantity,omitempty"`
	InitialStockDate    *string          `json:"initialStockDate,omitempty"`
	ReminderAdvanceDays *int             `json:"reminderAdvanceDays,omitempty"`
	Notes               *string          `json:"notes,omitempty"`
}

type PurchaseDTO struct {
	ID          string           `json:"id"`
	ItemID      string           `json:"item_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	PurchasedAt string           `json:"purchased_at"`
	Notes       string           `json:"notes,omitempty"`
}

type PurchaseRequest struct {
	Quantity    *decimal.Decimal `json:"quantity"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	PurchasedAt string           `json:"purchasedAt"`
	Notes       string           `json:"notes,omitempty"`
}

func toRunoutDTO(r inventory.Runout) RunoutDTO {
	dto := RunoutDTO{StockOnHand: r.StockOnHand}
	if r.RunOutDate != nil {
		s := r.RunOutDate.Format(time.RFC3339)
		dto.RunOutDate = &s
	}
	if r.ReminderDate != nil {
		s := r.ReminderDate.Format(time.RFC3339)
		dto.ReminderDate = &s
	}
	return dto
}

func toInventoryItemDTO(item sqlite.InventoryItem, metrics inventory.Runout) InventoryItemDTO {
	dto := InventoryItemDTO{
		ID:                  item.ID,
		Name:                item.Name,
		CategoryID:          item.CategoryID,
		SubcategoryID:       item.SubcategoryID,
		UnitName:            item.UnitName,
		CostPerPurchase:     item.CostPerPurchase,
		PurchaseQuantity:    item.PurchaseQuantity,
		ConsumptionPerDay:   item.ConsumptionPerDay,
		InitialStock:        item.InitialStock,
		ReminderAdvanceDays: item.ReminderAdvanceDays,
		Notes:               item.Notes,
		CreatedAt:           item.CreatedAt.Format(time.RFC3339),
		Metrics:             toRunoutDTO(metrics),
	}
	if item.InitialStockDate != nil {
		s := item.InitialStockDate.Format(time.RFC3339)
		dto.InitialStockDate = &s
	}
	return dto
}

func toPurchaseDTO(p sqlite.InventoryPurchase) PurchaseDTO {
	return PurchaseDTO{
		ID:          p.ID,
		ItemID:      p.ItemID,
		Quantity:    p.Quantity,
		Cost:        p.Cost,
		PurchasedAt: p.PurchasedAt.Format(time.RFC3339),
		Notes:       p.Notes,
	}
}

// =============================================================================
// PLANNER
// =============================================================================

type PlannerEventDTO struct {
	Type      string         `json:"type"`
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Date      string         `json:"date"`
	WindowEnd *string        `json:"windowEnd,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type PlanDTO struct {
	WindowStart string            `json:"windowStart"`
	WindowEnd   string            `json:"windowEnd"`
	Events      []PlannerEventDTO `json:"events"`
}

func toPlanDTO(p planner.Plan) PlanDTO {
	dto := PlanDTO{
		WindowStart: p.WindowStart.Format(time.RFC3339),
		WindowEnd:   p.WindowEnd.Format(time.RFC3339),
		Events:      []PlannerEventDTO{},
	}
	for _, e := range p.Events {
		eventDTO := PlannerEventDTO{
			Type:     string(e.Type),
			ID:       e.ID,
			Name:     e.Name,
			Date:     e.Date.Format(time.RFC3339),
			Metadata: e.Metadata,
		}
		if e.WindowEnd != nil {
			s := e.WindowEnd.Format(time.RFC3339)
			eventDTO.WindowEnd = &s
		}
		dto.Events = append(dto.Events, eventDTO)
	}
	return dto
}

// =============================================================================
// DATE PARSING
// =============================================================================

// parseDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(value, field string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s must be a valid date", field)
}
