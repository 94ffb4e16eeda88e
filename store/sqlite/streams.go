package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/finance-engine/schedule"
)

// Stream is a schedule-bearing money flow. Income streams and subscriptions
// share the same columns; they live in separate tables and differ only in
// direction and in subscriptions carrying a category.
type Stream struct {
	ID         string
	UserID     string
	Name       string
	Amount     decimal.Decimal
	Currency   string
	CategoryID string
	Schedule   schedule.Config
	Notes      string
	CreatedAt  time.Time
}

const (
	tableIncomeStreams = "income_streams"
	tableSubscriptions = "subscriptions"
)

const streamColumns = `id, user_id, name, amount, currency, schedule_type,
	day_of_month, nth_business_day, month_day_range_start, month_day_range_end,
	business_day_range_start, business_day_range_end, active_months,
	category_id, notes, created_at`

// =============================================================================
// INCOME STREAMS
// =============================================================================

func (s *Store) ListIncomeStreams(ctx context.Context, userID string) ([]Stream, error) {
	return s.listStreams(ctx, tableIncomeStreams, userID)
}

func (s *Store) GetIncomeStream(ctx context.Context, userID, id string) (*Stream, error) {
	return s.getStream(ctx, tableIncomeStreams, userID, id)
}

func (s *Store) SaveIncomeStream(ctx context.Context, stream Stream) error {
	return s.saveStream(ctx, tableIncomeStreams, stream)
}

func (s *Store) UpdateIncomeStream(ctx context.Context, stream Stream) error {
	return s.updateStream(ctx, tableIncomeStreams, stream)
}

func (s *Store) DeleteIncomeStream(ctx context.Context, userID, id string) error {
	return s.deleteStream(ctx, tableIncomeStreams, userID, id)
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

func (s *Store) ListSubscriptions(ctx context.Context, userID string) ([]Stream, error) {
	return s.listStreams(ctx, tableSubscriptions, userID)
}

func (s *Store) GetSubscription(ctx context.Context, userID, id string) (*Stream, error) {
	return s.getStream(ctx, tableSubscriptions, userID, id)
}

func (s *Store) SaveSubscription(ctx context.Context, stream Stream) error {
	return s.saveStream(ctx, tableSubscriptions, stream)
}

func (s *Store) UpdateSubscription(ctx context.Context, stream Stream) error {
	return s.updateStream(ctx, tableSubscriptions, stream)
}

func (s *Store) DeleteSubscription(ctx context.Context, userID, id string) error {
	return s.deleteStream(ctx, tableSubscriptions, userID, id)
}

// =============================================================================
// SHARED IMPLEMENTATION
// =============================================================================

func (s *Store) listStreams(ctx context.Context, table, userID string) ([]Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+streamColumns+` FROM `+table+` WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	streams := []Stream{}
	for rows.Next() {
		stream, err := scanStream(rows)
		if err != nil {
			return nil, err
		}
		streams = append(streams, *stream)
	}
	return streams, rows.Err()
}

func (s *Store) getStream(ctx context.Context, table, userID, id string) (*Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+streamColumns+` FROM `+table+` WHERE id = ? AND user_id = ?`, id, userID)
	return scanStream(row)
}

func (s *Store) saveStream(ctx context.Context, table string, stream Stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (id, user_id, name, amount, currency, schedule_type,
		 day_of_month, nth_business_day, month_day_range_start, month_day_range_end,
		 business_day_range_start, business_day_range_end, active_months,
		 category_id, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stream.ID, stream.UserID, stream.Name, stream.Amount.String(), stream.Currency,
		string(stream.Schedule.Type),
		nullInt(stream.Schedule.DayOfMonth), nullInt(stream.Schedule.NthBusinessDay),
		nullInt(stream.Schedule.MonthDayRangeStart), nullInt(stream.Schedule.MonthDayRangeEnd),
		nullInt(stream.Schedule.BusinessDayRangeStart), nullInt(stream.Schedule.BusinessDayRangeEnd),
		marshalMonths(stream.Schedule.ActiveMonths),
		nullString(stream.CategoryID), nullString(stream.Notes), nowString(),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s record: %w", table, err)
	}
	return nil
}

func (s *Store) updateStream(ctx context.Context, table string, stream Stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET name = ?, amount = ?, currency = ?, schedule_type = ?,
		 day_of_month = ?, nth_business_day = ?, month_day_range_start = ?,
		 month_day_range_end = ?, business_day_range_start = ?, business_day_range_end = ?,
		 active_months = ?, category_id = ?, notes = ?
		 WHERE id = ? AND user_id = ?`,
		stream.Name, stream.Amount.String(), stream.Currency, string(stream.Schedule.Type),
		nullInt(stream.Schedule.DayOfMonth), nullInt(stream.Schedule.NthBusinessDay),
		nullInt(stream.Schedule.MonthDayRangeStart), nullInt(stream.Schedule.MonthDayRangeEnd),
		nullInt(stream.Schedule.BusinessDayRangeStart), nullInt(stream.Schedule.BusinessDayRangeEnd),
		marshalMonths(stream.Schedule.ActiveMonths),
		nullString(stream.CategoryID), nullString(stream.Notes),
		stream.ID, stream.UserID,
	)
	return requireRowAffected(res, err)
}

func (s *Store) deleteStream(ctx context.Context, table, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE id = ? AND user_id = ?`, id, userID)
	return requireRowAffected(res, err)
}

func scanStream(row rowsScanner) (*Stream, error) {
	var (
		stream       Stream
		amount       string
		scheduleType string
		dayOfMonth   sql.NullInt64
		nthBusiness  sql.NullInt64
		mdRangeStart sql.NullInt64
		mdRangeEnd   sql.NullInt64
		bdRangeStart sql.NullInt64
		bdRangeEnd   sql.NullInt64
		activeMonths string
		categoryID   sql.NullString
		notes        sql.NullString
		createdAt    string
	)
	err := row.Scan(&stream.ID, &stream.UserID, &stream.Name, &amount, &stream.Currency,
		&scheduleType, &dayOfMonth, &nthBusiness, &mdRangeStart, &mdRangeEnd,
		&bdRangeStart, &bdRangeEnd, &activeMonths, &categoryID, &notes, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan stream: %w", err)
	}

	stream.Amount = parseDecimalCol(amount)
	stream.Schedule = schedule.Config{
		Type:                  schedule.Type(scheduleType),
		DayOfMonth:            fromNullInt(dayOfMonth),
		NthBusinessDay:        fromNullInt(nthBusiness),
		MonthDayRangeStart:    fromNullInt(mdRangeStart),
		MonthDayRangeEnd:      fromNullInt(mdRangeEnd),
		BusinessDayRangeStart: fromNullInt(bdRangeStart),
		BusinessDayRangeEnd:   fromNullInt(bdRangeEnd),
		ActiveMonths:          unmarshalMonths(activeMonths),
	}
	stream.CategoryID = categoryID.String
	stream.Notes = notes.String
	stream.CreatedAt = parseTimeCol(createdAt)
	return &stream, nil
}
