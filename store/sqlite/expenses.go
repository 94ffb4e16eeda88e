package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one spend record. CategoryID/SubcategoryID are empty when
// uncategorized.
type Expense struct {
	ID            string
	UserID        string
	Amount        decimal.Decimal
	Currency      string
	OccurredAt    time.Time
	CategoryID    string
	SubcategoryID string
	Description   string
	Notes         string
	CreatedAt     time.Time
}

// ExpenseFilter narrows ListExpenses. Zero values mean "no constraint".
type ExpenseFilter struct {
	From          *time.Time
	To            *time.Time
	CategoryID    string
	SubcategoryID string
}

const expenseColumns = `id, user_id, amount, currency, occurred_at,
	category_id, subcategory_id, description, notes, created_at`

// ListExpenses returns the user's expenses, newest first, narrowed by filter.
func (s *Store) ListExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = ?`
	args := []any{userID}

	if filter.From != nil {
		query += ` AND occurred_at >= ?`
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		query += ` AND occurred_at <= ?`
		args = append(args, formatTime(*filter.To))
	}
	if filter.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, filter.CategoryID)
	}
	if filter.SubcategoryID != "" {
		query += ` AND subcategory_id = ?`
		args = append(args, filter.SubcategoryID)
	}
	query += ` ORDER BY occurred_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *exp)
	}
	return expenses, rows.Err()
}

// ListExpensesInRange returns the user's expenses with occurred_at in the
// half-open range [from, to). Used by the budget summary.
func (s *Store) ListExpensesInRange(ctx context.Context, userID string, from, to time.Time) ([]Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ?
		 ORDER BY occurred_at ASC`,
		userID, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses in range: %w", err)
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *exp)
	}
	return expenses, rows.Err()
}

// GetExpense returns the user's expense by id, or nil when absent.
func (s *Store) GetExpense(ctx context.Context, userID, id string) (*Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	return scanExpense(row)
}

// SaveExpense inserts a new expense.
func (s *Store) SaveExpense(ctx context.Context, exp Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, amount, currency, occurred_at,
		 category_id, subcategory_id, description, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.UserID, exp.Amount.String(), exp.Currency, formatTime(exp.OccurredAt),
		nullString(exp.CategoryID), nullString(exp.SubcategoryID),
		nullString(exp.Description), nullString(exp.Notes), nowString(),
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

// UpdateExpense overwrites the mutable fields of the user's expense.
func (s *Store) UpdateExpense(ctx context.Context, exp Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, currency = ?, occurred_at = ?,
		 category_id = ?, subcategory_id = ?, description = ?, notes = ?
		 WHERE id = ? AND user_id = ?`,
		exp.Amount.String(), exp.Currency, formatTime(exp.OccurredAt),
		nullString(exp.CategoryID), nullString(exp.SubcategoryID),
		nullString(exp.Description), nullString(exp.Notes),
		exp.ID, exp.UserID,
	)
	return requireRowAffected(res, err)
}

// DeleteExpense removes the user's expense.
func (s *Store) DeleteExpense(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	return requireRowAffected(res, err)
}

func scanExpense(row rowsScanner) (*Expense, error) {
	var (
		exp           Expense
		amount        string
		occurredAt    string
		categoryID    sql.NullString
		subcategoryID sql.NullString
		description   sql.NullString
		notes         sql.NullString
		createdAt     string
	)
	err := row.Scan(&exp.ID, &exp.UserID, &amount, &exp.Currency, &occurredAt,
		&categoryID, &subcategoryID, &description, &notes, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}
	exp.Amount = parseDecimalCol(amount)
	exp.OccurredAt = parseTimeCol(occurredAt)
	exp.CategoryID = categoryID.String
	exp.SubcategoryID = subcategoryID.String
	exp.Description = description.String
	exp.Notes = notes.String
	exp.CreatedAt = parseTimeCol(createdAt)
	return &exp, nil
}
