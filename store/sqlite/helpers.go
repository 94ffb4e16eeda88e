package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ID GENERATION
// =============================================================================

// NewID returns a prefixed unique identifier, e.g. "exp-1724990000000000000".
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// =============================================================================
// NULLABLE COLUMN CONVERSIONS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func fromNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func fromNullDecimal(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil
	}
	return &d
}

func fromNullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func parseTimeCol(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseDecimalCol(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nowString() string {
	return formatTime(time.Now())
}

// =============================================================================
// ACTIVE MONTHS (JSON array column)
// =============================================================================

func marshalMonths(months []int) string {
	if months == nil {
		months = []int{}
	}
	b, _ := json.Marshal(months)
	return string(b)
}

func unmarshalMonths(raw string) []int {
	if raw == "" {
		return []int{}
	}
	var months []int
	if err := json.Unmarshal([]byte(raw), &months); err != nil {
		return []int{}
	}
	return months
}

// requireRowAffected converts a zero-row update/delete into ErrNotFound.
func requireRowAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
