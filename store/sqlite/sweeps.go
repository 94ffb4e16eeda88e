package sqlite

import (
	"context"
	"fmt"
	"time"
)

// PlannerSweep is an audit row recorded each time the background reminder
// sweep evaluates a user's plan.
type PlannerSweep struct {
	ID         string
	UserID     string
	RanAt      time.Time
	WindowDays int
	EventCount int
}

// RecordPlannerSweep inserts a sweep audit row.
func (s *Store) RecordPlannerSweep(ctx context.Context, sweep PlannerSweep) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO planner_sweeps (id, user_id, ran_at, window_days, event_count)
		 VALUES (?, ?, ?, ?, ?)`,
		sweep.ID, sweep.UserID, formatTime(sweep.RanAt), sweep.WindowDays, sweep.EventCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record planner sweep: %w", err)
	}
	return nil
}

// ListPlannerSweeps returns the user's sweep history, newest first.
func (s *Store) ListPlannerSweeps(ctx context.Context, userID string, limit int) ([]PlannerSweep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, ran_at, window_days, event_count
		 FROM planner_sweeps WHERE user_id = ? ORDER BY ran_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list planner sweeps: %w", err)
	}
	defer rows.Close()

	sweeps := []PlannerSweep{}
	for rows.Next() {
		var (
			sweep PlannerSweep
			ranAt string
		)
		if err := rows.Scan(&sweep.ID, &sweep.UserID, &ranAt, &sweep.WindowDays, &sweep.EventCount); err != nil {
			return nil, fmt.Errorf("failed to scan planner sweep: %w", err)
		}
		sweep.RanAt = parseTimeCol(ranAt)
		sweeps = append(sweeps, sweep)
	}
	return sweeps, rows.Err()
}
