/*
expenses.go - Expense and budget HTTP handlers

PURPOSE:
  CRUD over one-off expenses plus the monthly budget summary, which
  compares each budget's amount against actual spend in a calendar
  month. Budget matching is narrowest-first: a budget scoped to a
  subcategory only counts expenses in that subcategory, a budget scoped
  to a category counts the whole category, and an unscoped budget counts
  everything.
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pesoplan/finance-engine/schedule"
	"github.com/pesoplan/finance-engine/store/sqlite"
)

// =============================================================================
// EXPENSE ENDPOINTS
// =============================================================================

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var filter sqlite.ExpenseFilter
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := parseDate(v, "from")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
		filter.From = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := parseDate(v, "to")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
		filter.To = &t
	}
	filter.CategoryID = r.URL.Query().Get("categoryId")
	filter.SubcategoryID = r.URL.Query().Get("subcategoryId")

	expenses, err := h.Store.ListExpenses(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}

	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, toExpenseDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	expense, err := h.Store.GetExpense(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get expense", err)
		return
	}
	if expense == nil {
		writeError(w, http.StatusNotFound, "Expense not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTO(*expense))
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req ExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "Amount is required", nil)
		return
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != "" {
		t, err := parseDate(req.OccurredAt, "occurredAt")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid occurredAt date", err)
			return
		}
		occurredAt = t
	}

	expense := sqlite.Expense{
		ID:         sqlite.NewID("exp"),
		UserID:     user.ID,
		Amount:     *req.Amount,
		Currency:   req.Currency,
		OccurredAt: occurredAt,
		CreatedAt:  time.Now().UTC(),
	}
	if expense.Currency == "" {
		expense.Currency = "ARS"
	}
	if req.CategoryID != nil {
		expense.CategoryID = *req.CategoryID
	}
	if req.SubcategoryID != nil {
		expense.SubcategoryID = *req.SubcategoryID
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Notes != nil {
		expense.Notes = *req.Notes
	}

	if err := h.Store.SaveExpense(r.Context(), expense); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(expense))
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetExpense(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get expense", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Expense not found", nil)
		return
	}

	var req ExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount != nil {
		existing.Amount = *req.Amount
	}
	if req.Currency != "" {
		existing.Currency = req.Currency
	}
	if req.OccurredAt != "" {
		t, err := parseDate(req.OccurredAt, "occurredAt")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid occurredAt date", err)
			return
		}
		existing.OccurredAt = t
	}
	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.SubcategoryID != nil {
		existing.SubcategoryID = *req.SubcategoryID
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}

	if err := h.Store.UpdateExpense(r.Context(), *existing); err != nil {
		writeDomainError(w, "Failed to update expense", err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTO(*existing))
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteExpense(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, "Failed to delete expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BUDGET ENDPOINTS
// =============================================================================

func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	budgets, err := h.Store.ListBudgets(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list budgets", err)
		return
	}

	dtos := make([]BudgetDTO, 0, len(budgets))
	for _, b := range budgets {
		dtos = append(dtos, toBudgetDTO(b))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req BudgetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "Amount is required", nil)
		return
	}

	budget := sqlite.Budget{
		ID:        sqlite.NewID("bud"),
		UserID:    user.ID,
		Name:      req.Name,
		Amount:    *req.Amount,
		Currency:  req.Currency,
		Period:    req.Period,
		CreatedAt: time.Now().UTC(),
	}
	if budget.Currency == "" {
		budget.Currency = "ARS"
	}
	if budget.Period == "" {
		budget.Period = "MONTHLY"
	}
	if req.CategoryID != nil {
		budget.CategoryID = *req.CategoryID
	}
	if req.SubcategoryID != nil {
		budget.SubcategoryID = *req.SubcategoryID
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate, "startDate")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid startDate", err)
			return
		}
		budget.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate, "endDate")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid endDate", err)
			return
		}
		budget.EndDate = &t
	}

	if err := h.Store.SaveBudget(r.Context(), budget); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create budget", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetDTO(budget))
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetBudget(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get budget", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Budget not found", nil)
		return
	}

	var req BudgetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Amount != nil {
		existing.Amount = *req.Amount
	}
	if req.Currency != "" {
		existing.Currency = req.Currency
	}
	if req.Period != "" {
		existing.Period = req.Period
	}
	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.SubcategoryID != nil {
		existing.SubcategoryID = *req.SubcategoryID
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate, "startDate")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid startDate", err)
			return
		}
		existing.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate, "endDate")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid endDate", err)
			return
		}
		existing.EndDate = &t
	}

	if err := h.Store.UpdateBudget(r.Context(), *existing); err != nil {
		writeDomainError(w, "Failed to update budget", err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(*existing))
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteBudget(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, "Failed to delete budget", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BudgetSummary reports actual spend versus each budget for a calendar
// month. The month query parameter is YYYY-MM; the current month is the
// default.
func (h *Handler) BudgetSummary(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	periodStart, periodEnd, err := schedule.MonthRangeFromISO(month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	budgets, err := h.Store.ListBudgets(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list budgets", err)
		return
	}
	expenses, err := h.Store.ListExpensesInRange(r.Context(), user.ID, periodStart, periodEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}

	results := make([]BudgetSummaryEntryDTO, 0, len(budgets))
	for _, b := range budgets {
		actual := decimal.Zero
		for _, e := range expenses {
			if budgetMatchesExpense(b, e) {
				actual = actual.Add(e.Amount)
			}
		}
		results = append(results, BudgetSummaryEntryDTO{
			Budget:   toBudgetDTO(b),
			Actual:   actual,
			Variance: b.Amount.Sub(actual),
		})
	}

	writeJSON(w, http.StatusOK, BudgetSummaryDTO{
		Month:       month,
		PeriodStart: periodStart.Format(time.RFC3339),
		PeriodEnd:   periodEnd.Format(time.RFC3339),
		Results:     results,
	})
}

func budgetMatchesExpense(b sqlite.Budget, e sqlite.Expense) bool {
	if b.SubcategoryID != "" {
		return e.SubcategoryID == b.SubcategoryID
	}
	if b.CategoryID != "" {
		return e.CategoryID == b.CategoryID
	}
	return true
}
