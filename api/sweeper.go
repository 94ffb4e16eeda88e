/*
sweeper.go - Background reminder sweep

PURPOSE:
  Periodically rebuilds each user's upcoming-event plan and surfaces
  reminder and run-out events in the server log, recording each run in
  the planner_sweeps table so the API can show when reminders were last
  evaluated. Scheduling is delegated to robfig/cron.
*/
package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pesoplan/finance-engine/planner"
	"github.com/pesoplan/finance-engine/store/sqlite"
)

// Sweeper runs the reminder sweep on a fixed interval.
type Sweeper struct {
	handler    *Handler
	windowDays int
	cron       *cron.Cron
}

func NewSweeper(h *Handler, intervalMinutes, windowDays int) (*Sweeper, error) {
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}
	if windowDays <= 0 {
		windowDays = h.DefaultPlannerDays
	}

	s := &Sweeper{handler: h, windowDays: windowDays, cron: cron.New()}
	spec := fmt.Sprintf("@every %dm", intervalMinutes)
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
	log.Printf("Reminder sweep scheduled (window %d days)", s.windowDays)
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	users, err := s.handler.Store.ListUsers(ctx)
	if err != nil {
		log.Printf("Sweep: failed to list users: %v", err)
		return
	}

	for _, user := range users {
		if err := s.sweepUser(ctx, user); err != nil {
			log.Printf("Sweep: user %s: %v", user.ID, err)
		}
	}
}

func (s *Sweeper) sweepUser(ctx context.Context, user sqlite.User) error {
	in, err := s.handler.plannerInput(ctx, user.ID, time.Now().UTC(), s.windowDays, planner.IncludeAll())
	if err != nil {
		return err
	}
	plan, err := planner.BuildPlan(in)
	if err != nil {
		return err
	}

	for _, event := range plan.Events {
		switch event.Type {
		case planner.EventInventoryReminder, planner.EventInventoryRunout:
			log.Printf("Sweep: user %s: %s %q on %s", user.ID, event.Type, event.Name, event.Date.Format("2006-01-02"))
		}
	}

	return s.handler.Store.RecordPlannerSweep(ctx, sqlite.PlannerSweep{
		ID:         sqlite.NewID("swp"),
		UserID:     user.ID,
		RanAt:      time.Now().UTC(),
		WindowDays: s.windowDays,
		EventCount: len(plan.Events),
	})
}
