package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a spending target. Scope narrows from all expenses, to a
// category, to a subcategory, depending on which ids are set.
type Budget struct {
	ID            string
	UserID        string
	Name          string
	Amount        decimal.Decimal
	Currency      string
	Period        string // MONTHLY is the only period the summary resolves today.
	CategoryID    string
	SubcategoryID string
	StartDate     *time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
}

const budgetColumns = `id, user_id, name, amount, currency, period,
	category_id, subcategory_id, start_date, end_date, created_at`

// ListBudgets returns the user's budgets, newest first.
func (s *Store) ListBudgets(ctx context.Context, userID string) ([]Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

// GetBudget returns the user's budget by id, or nil when absent.
func (s *Store) GetBudget(ctx context.Context, userID, id string) (*Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	return scanBudget(row)
}

// SaveBudget inserts a new budget.
func (s *Store) SaveBudget(ctx context.Context, b Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, name, amount, currency, period,
		 category_id, subcategory_id, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Name, b.Amount.String(), b.Currency, b.Period,
		nullString(b.CategoryID), nullString(b.SubcategoryID),
		nullTime(b.StartDate), nullTime(b.EndDate), nowString(),
	)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// UpdateBudget overwrites the mutable fields of the user's budget.
func (s *Store) UpdateBudget(ctx context.Context, b Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET name = ?, amount = ?, currency = ?, period = ?,
		 category_id = ?, subcategory_id = ?, start_date = ?, end_date = ?
		 WHERE id = ? AND user_id = ?`,
		b.Name, b.Amount.String(), b.Currency, b.Period,
		nullString(b.CategoryID), nullString(b.SubcategoryID),
		nullTime(b.StartDate), nullTime(b.EndDate),
		b.ID, b.UserID,
	)
	return requireRowAffected(res, err)
}

// DeleteBudget removes the user's budget.
func (s *Store) DeleteBudget(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	return requireRowAffected(res, err)
}

func scanBudget(row rowsScanner) (*Budget, error) {
	var (
		b             Budget
		amount        string
		categoryID    sql.NullString
		subcategoryID sql.NullString
		startDate     sql.NullString
		endDate       sql.NullString
		createdAt     string
	)
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &amount, &b.Currency, &b.Period,
		&categoryID, &subcategoryID, &startDate, &endDate, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan budget: %w", err)
	}
	b.Amount = parseDecimalCol(amount)
	b.CategoryID = categoryID.String
	b.SubcategoryID = subcategoryID.String
	b.StartDate = fromNullTime(startDate)
	b.EndDate = fromNullTime(endDate)
	b.CreatedAt = parseTimeCol(createdAt)
	return &b, nil
}
