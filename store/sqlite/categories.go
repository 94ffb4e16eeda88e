package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Category groups expenses, budgets, subscriptions, and inventory items.
// Type is EXPENSE or INCOME.
type Category struct {
	ID            string
	UserID        string
	Name          string
	Type          string
	Color         string
	Icon          string
	CreatedAt     time.Time
	Subcategories []Subcategory
}

// Subcategory nests under a category. UserID is denormalized for ownership
// checks without a join.
type Subcategory struct {
	ID         string
	UserID     string
	CategoryID string
	Name       string
	CreatedAt  time.Time
}

// =============================================================================
// CATEGORIES
// =============================================================================

// ListCategories returns the user's categories with subcategories attached,
// both sorted by name.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, color, icon, created_at
		 FROM categories WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range categories {
		subs, err := s.listSubcategories(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].Subcategories = subs
	}

	return categories, nil
}

// GetCategory returns the user's category by id, or nil when absent.
func (s *Store) GetCategory(ctx context.Context, userID, id string) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, color, icon, created_at
		 FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	return scanCategory(row)
}

// SaveCategory inserts a new category.
func (s *Store) SaveCategory(ctx context.Context, cat Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, type, color, icon, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.UserID, cat.Name, cat.Type,
		nullString(cat.Color), nullString(cat.Icon), nowString(),
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

// UpdateCategory overwrites the mutable fields of the user's category.
func (s *Store) UpdateCategory(ctx context.Context, cat Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, color = ?, icon = ?
		 WHERE id = ? AND user_id = ?`,
		cat.Name, cat.Type, nullString(cat.Color), nullString(cat.Icon),
		cat.ID, cat.UserID,
	)
	return requireRowAffected(res, err)
}

// DeleteCategory removes the user's category. Subcategories cascade.
func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	return requireRowAffected(res, err)
}

// =============================================================================
// SUBCATEGORIES
// =============================================================================

// GetSubcategory returns the user's subcategory by id, or nil when absent.
func (s *Store) GetSubcategory(ctx context.Context, userID, id string) (*Subcategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, name, created_at
		 FROM subcategories WHERE id = ? AND user_id = ?`, id, userID)
	return scanSubcategory(row)
}

// SaveSubcategory inserts a new subcategory.
func (s *Store) SaveSubcategory(ctx context.Context, sub Subcategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subcategories (id, user_id, category_id, name, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.UserID, sub.CategoryID, sub.Name, nowString(),
	)
	if err != nil {
		return fmt.Errorf("failed to save subcategory: %w", err)
	}
	return nil
}

// RenameSubcategory updates the user's subcategory name.
func (s *Store) RenameSubcategory(ctx context.Context, userID, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE subcategories SET name = ? WHERE id = ? AND user_id = ?`, name, id, userID)
	return requireRowAffected(res, err)
}

// DeleteSubcategory removes the user's subcategory.
func (s *Store) DeleteSubcategory(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM subcategories WHERE id = ? AND user_id = ?`, id, userID)
	return requireRowAffected(res, err)
}

func (s *Store) listSubcategories(ctx context.Context, categoryID string) ([]Subcategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, name, created_at
		 FROM subcategories WHERE category_id = ? ORDER BY name ASC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer rows.Close()

	subs := []Subcategory{}
	for rows.Next() {
		sub, err := scanSubcategory(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func scanCategory(row rowsScanner) (*Category, error) {
	var (
		cat       Category
		color     sql.NullString
		icon      sql.NullString
		createdAt string
	)
	err := row.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &color, &icon, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	cat.Color = color.String
	cat.Icon = icon.String
	cat.CreatedAt = parseTimeCol(createdAt)
	return &cat, nil
}

func scanSubcategory(row rowsScanner) (*Subcategory, error) {
	var (
		sub       Subcategory
		createdAt string
	)
	err := row.Scan(&sub.ID, &sub.UserID, &sub.CategoryID, &sub.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subcategory: %w", err)
	}
	sub.CreatedAt = parseTimeCol(createdAt)
	return &sub, nil
}
