package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a tracked consumable. The decimal parameters are nil when
// never configured; the depletion simulator treats absent values as zero.
type InventoryItem struct {
	ID                  string
	UserID              string
	Name                string
	CategoryID          string
	SubcategoryID       string
	UnitName            string
	CostPerPurchase     *decimal.Decimal
	PurchaseQuantity    *decimal.Decimal
	ConsumptionPerDay   *decimal.Decimal
	InitialStock        *decimal.Decimal
	InitialStockDate    *time.Time
	ReminderAdvanceDays int
	Notes               string
	CreatedAt           time.Time
}

// InventoryPurchase is one restock event for an item.
type InventoryPurchase struct {
	ID          string
	ItemID      string
	Quantity    decimal.Decimal
	Cost        *decimal.Decimal
	PurchasedAt time.Time
	Notes       string
	CreatedAt   time.Time
}

const inventoryItemColumns = `id, user_id, name, category_id, subcategory_id,
	unit_name, cost_per_purchase, purchase_quantity, consumption_per_day,
	initial_stock_quantity, initial_stock_date, reminder_advance_days, notes, created_at`

// =============================================================================
// ITEMS
// =============================================================================

// ListInventoryItems returns the user's items sorted by name.
func (s *Store) ListInventoryItems(ctx context.Context, userID string) ([]InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inventoryItemColumns+` FROM inventory_items
		 WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	items := []InventoryItem{}
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetInventoryItem returns the user's item by id, or nil when absent.
func (s *Store) GetInventoryItem(ctx context.Context, userID, id string) (*InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+inventoryItemColumns+` FROM inventory_items
		 WHERE id = ? AND user_id = ?`, id, userID)
	return scanInventoryItem(row)
}

// SaveInventoryItem inserts a new item.
func (s *Store) SaveInventoryItem(ctx context.Context, item InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_items (id, user_id, name, category_id, subcategory_id,
		 unit_name, cost_per_purchase, purchase_quantity, consumption_per_day,
		 initial_stock_quantity, initial_stock_date, reminder_advance_days, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Name,
		nullString(item.CategoryID), nullString(item.SubcategoryID), nullString(item.UnitName),
		nullDecimal(item.CostPerPurchase), nullDecimal(item.PurchaseQuantity),
		nullDecimal(item.ConsumptionPerDay), nullDecimal(item.InitialStock),
		nullTime(item.InitialStockDate), item.ReminderAdvanceDays,
		nullString(item.Notes), formatTime(item.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}
	return nil
}

// UpdateInventoryItem overwrites the mutable fields of the user's item.
func (s *Store) UpdateInventoryItem(ctx context.Context, item InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE inventory_items SET name = ?, category_id = ?, subcategory_id = ?,
		 unit_name = ?, cost_per_purchase = ?, purchase_quantity = ?,
		 consumption_per_day = ?, initial_stock_quantity = ?, initial_stock_date = ?,
		 reminder_advance_days = ?, notes = ?
		 WHERE id = ? AND user_id = ?`,
		item.Name, nullString(item.CategoryID), nullString(item.SubcategoryID),
		nullString(item.UnitName), nullDecimal(item.CostPerPurchase),
		nullDecimal(item.PurchaseQuantity), nullDecimal(item.ConsumptionPerDay),
		nullDecimal(item.InitialStock), nullTime(item.InitialStockDate),
		item.ReminderAdvanceDays, nullString(item.Notes),
		item.ID, item.UserID,
	)
	return requireRowAffected(res, err)
}

// DeleteInventoryItem removes the user's item. Purchases cascade.
func (s *Store) DeleteInventoryItem(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE id = ? AND user_id = ?`, id, userID)
	return requireRowAffected(res, err)
}

// =============================================================================
// PURCHASES
// =============================================================================

// ListInventoryPurchases returns an item's purchases. Ascending order feeds
// the simulator; descending feeds the history endpoint.
func (s *Store) ListInventoryPurchases(ctx context.Context, itemID string, ascending bool) ([]InventoryPurchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order := "DESC"
	if ascending {
		order = "ASC"
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, quantity, cost, purchased_at, notes, created_at
		 FROM inventory_purchases WHERE item_id = ? ORDER BY purchased_at `+order, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory purchases: %w", err)
	}
	defer rows.Close()

	purchases := []InventoryPurchase{}
	for rows.Next() {
		p, err := scanInventoryPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, *p)
	}
	return purchases, rows.Err()
}

// SaveInventoryPurchase inserts a new purchase.
func (s *Store) SaveInventoryPurchase(ctx context.Context, p InventoryPurchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_purchases (id, item_id, quantity, cost, purchased_at, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ItemID, p.Quantity.String(), nullDecimal(p.Cost),
		formatTime(p.PurchasedAt), nullString(p.Notes), nowString(),
	)
	if err != nil {
		return fmt.Errorf("failed to save inventory purchase: %w", err)
	}
	return nil
}

func scanInventoryItem(row rowsScanner) (*InventoryItem, error) {
	var (
		item             InventoryItem
		categoryID       sql.NullString
		subcategoryID    sql.NullString
		unitName         sql.NullString
		costPerPurchase  sql.NullString
		purchaseQuantity sql.NullString
		consumption      sql.NullString
		initialStock     sql.NullString
		initialStockDate sql.NullString
		notes            sql.NullString
		createdAt        string
	)
	err := row.Scan(&item.ID, &item.UserID, &item.Name, &categoryID, &subcategoryID,
		&unitName, &costPerPurchase, &purchaseQuantity, &consumption,
		&initialStock, &initialStockDate, &item.ReminderAdvanceDays, &notes, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory item: %w", err)
	}
	item.CategoryID = categoryID.String
	item.SubcategoryID = subcategoryID.String
	item.UnitName = unitName.String
	item.CostPerPurchase = fromNullDecimal(costPerPurchase)
	item.PurchaseQuantity = fromNullDecimal(purchaseQuantity)
	item.ConsumptionPerDay = fromNullDecimal(consumption)
	item.InitialStock = fromNullDecimal(initialStock)
	item.InitialStockDate = fromNullTime(initialStockDate)
	item.Notes = notes.String
	item.CreatedAt = parseTimeCol(createdAt)
	return &item, nil
}

func scanInventoryPurchase(row rowsScanner) (*InventoryPurchase, error) {
	var (
		p           InventoryPurchase
		quantity    string
		cost        sql.NullString
		purchasedAt string
		notes       sql.NullString
		createdAt   string
	)
	err := row.Scan(&p.ID, &p.ItemID, &quantity, &cost, &purchasedAt, &notes, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory purchase: %w", err)
	}
	p.Quantity = parseDecimalCol(quantity)
	p.Cost = fromNullDecimal(cost)
	p.PurchasedAt = parseTimeCol(purchasedAt)
	p.Notes = notes.String
	p.CreatedAt = parseTimeCol(createdAt)
	return &p, nil
}
