/*
Package sqlite provides the SQLite-backed persistence layer for the finance
tracker.

PURPOSE:
  Stores users, categories, budgets, expenses, income streams,
  subscriptions, and inventory items/purchases. The calculation packages
  (schedule, inventory, planner) never touch this package; handlers load
  records here and pass values into the pure core.

DERIVED VALUES ARE NOT STORED:
  Schedule occurrences and inventory run-out forecasts are recomputed on
  every read from the current records plus the current clock. There are no
  cached projections anywhere in the schema.

KEY TABLES:
  users                Identity records, keyed by auth subject
  categories           Per-user expense/income categories
  subcategories        Nested under categories
  expenses             Individual spend records (decimal amounts as TEXT)
  budgets              Target amounts per category/period
  income_streams       Schedule-bearing money inflows
  subscriptions        Schedule-bearing money outflows
  inventory_items      Consumables with depletion parameters
  inventory_purchases  Restock events per item
  planner_sweeps       Audit rows written by the background reminder sweep

CONCURRENCY:
  sync.RWMutex per store. SQLite runs in WAL mode so readers do not block.

USAGE:
  store, err := sqlite.New("./data/tracker.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api: The only consumer of this package
*/
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by update/delete operations when no row matched
// the id within the caller's ownership scope.
var ErrNotFound = errors.New("record not found")

// Store implements all persistence for the tracker using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to one so
	// every query sees the same data.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL UNIQUE,
		email TEXT,
		name TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'EXPENSE',
		color TEXT,
		icon TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(user_id);

	CREATE TABLE IF NOT EXISTS subcategories (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_subcategories_category ON subcategories(category_id);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'ARS',
		occurred_at TEXT NOT NULL,
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		subcategory_id TEXT REFERENCES subcategories(id) ON DELETE SET NULL,
		description TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_expenses_user_occurred
		ON expenses(user_id, occurred_at DESC);
	CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category_id);

	CREATE TABLE IF NOT EXISTS budgets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'ARS',
		period TEXT NOT NULL DEFAULT 'MONTHLY',
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		subcategory_id TEXT REFERENCES subcategories(id) ON DELETE SET NULL,
		start_date TEXT,
		end_date TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_budgets_user ON budgets(user_id);

	CREATE TABLE IF NOT EXISTS income_streams (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'ARS',
		schedule_type TEXT NOT NULL,
		day_of_month INTEGER,
		nth_business_day INTEGER,
		month_day_range_start INTEGER,
		month_day_range_end INTEGER,
		business_day_range_start INTEGER,
		business_day_range_end INTEGER,
		active_months TEXT NOT NULL DEFAULT '[]',
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		notes TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_income_streams_user ON income_streams(user_id);

	CREATE TABLE IF NOT EXISTS subscriptions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'ARS',
		schedule_type TEXT NOT NULL,
		day_of_month INTEGER,
		nth_business_day INTEGER,
		month_day_range_start INTEGER,
		month_day_range_end INTEGER,
		business_day_range_start INTEGER,
		business_day_range_end INTEGER,
		active_months TEXT NOT NULL DEFAULT '[]',
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		notes TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_subscriptions_user ON subscriptions(user_id);

	CREATE TABLE IF NOT EXISTS inventory_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		subcategory_id TEXT REFERENCES subcategories(id) ON DELETE SET NULL,
		unit_name TEXT,
		cost_per_purchase TEXT,
		purchase_quantity TEXT,
		consumption_per_day TEXT,
		initial_stock_quantity TEXT,
		initial_stock_date TEXT,
		reminder_advance_days INTEGER NOT NULL DEFAULT 7,
		notes TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_inventory_items_user ON inventory_items(user_id);

	CREATE TABLE IF NOT EXISTS inventory_purchases (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL REFERENCES inventory_items(id) ON DELETE CASCADE,
		quantity TEXT NOT NULL,
		cost TEXT,
		purchased_at TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_inventory_purchases_item
		ON inventory_purchases(item_id, purchased_at);

	CREATE TABLE IF NOT EXISTS planner_sweeps (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		ran_at TEXT NOT NULL,
		window_days INTEGER NOT NULL,
		event_count INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_planner_sweeps_user ON planner_sweeps(user_id, ran_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// rowsScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowsScanner interface {
	Scan(dest ...any) error
}
