/*
plannerapi.go - Planner HTTP handlers

PURPOSE:
  The upcoming-events endpoint loads every schedule-bearing record for
  the caller, hands them to the planner aggregator, and returns the
  merged timeline. The sweeps endpoint exposes the background reminder
  sweep's run history.

QUERY PARAMETERS (upcoming):
  - days:    window length in days from today (default from config)
  - include: comma-separated subset of incomes,subscriptions,inventory
             (default all)
*/
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pesoplan/finance-engine/planner"
	"github.com/pesoplan/finance-engine/store/sqlite"
)

func parseInclude(raw string) planner.Include {
	if raw == "" {
		return planner.IncludeAll()
	}
	var inc planner.Include
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "incomes":
			inc.Incomes = true
		case "subscriptions":
			inc.Subscriptions = true
		case "inventory":
			inc.Inventory = true
		}
	}
	return inc
}

func toPlannerStream(s sqlite.Stream) planner.Stream {
	return planner.Stream{
		ID:       s.ID,
		Name:     s.Name,
		Amount:   s.Amount,
		Currency: s.Currency,
		Notes:    s.Notes,
		Category: s.CategoryID,
		Schedule: s.Schedule,
	}
}

// plannerInput assembles the caller's streams and inventory into a
// planner input. Sections excluded by the selector are not even loaded.
func (h *Handler) plannerInput(ctx context.Context, userID string, now time.Time, days int, inc planner.Include) (planner.Input, error) {
	in := planner.Input{Now: now, Days: days, Include: inc}

	if inc.Incomes {
		streams, err := h.Store.ListIncomeStreams(ctx, userID)
		if err != nil {
			return planner.Input{}, err
		}
		for _, s := range streams {
			in.Incomes = append(in.Incomes, toPlannerStream(s))
		}
	}
	if inc.Subscriptions {
		streams, err := h.Store.ListSubscriptions(ctx, userID)
		if err != nil {
			return planner.Input{}, err
		}
		for _, s := range streams {
			in.Subscriptions = append(in.Subscriptions, toPlannerStream(s))
		}
	}
	if inc.Inventory {
		items, err := h.Store.ListInventoryItems(ctx, userID)
		if err != nil {
			return planner.Input{}, err
		}
		for _, item := range items {
			rows, err := h.Store.ListInventoryPurchases(ctx, item.ID, true)
			if err != nil {
				return planner.Input{}, err
			}
			simItem, purchases := simulationInput(item, rows)
			in.Inventory = append(in.Inventory, planner.InventoryEntry{
				ID:          item.ID,
				Name:        item.Name,
				Category:    item.CategoryID,
				Subcategory: item.SubcategoryID,
				Item:        simItem,
				Purchases:   purchases,
			})
		}
	}
	return in, nil
}

func (h *Handler) PlannerUpcoming(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	days := h.DefaultPlannerDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days must be an integer", err)
			return
		}
		days = parsed
	}
	inc := parseInclude(r.URL.Query().Get("include"))

	in, err := h.plannerInput(r.Context(), user.ID, time.Now().UTC(), days, inc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load planner data", err)
		return
	}

	plan, err := planner.BuildPlan(in)
	if err != nil {
		writeDomainError(w, "Failed to build plan", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

func (h *Handler) ListPlannerSweeps(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer", err)
			return
		}
		limit = parsed
	}

	sweeps, err := h.Store.ListPlannerSweeps(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sweeps", err)
		return
	}

	type sweepDTO struct {
		ID         string `json:"id"`
		RanAt      string `json:"ran_at"`
		WindowDays int    `json:"window_days"`
		EventCount int    `json:"event_count"`
	}
	dtos := make([]sweepDTO, 0, len(sweeps))
	for _, s := range sweeps {
		dtos = append(dtos, sweepDTO{
			ID:         s.ID,
			RanAt:      s.RanAt.Format(time.RFC3339),
			WindowDays: s.WindowDays,
			EventCount: s.EventCount,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}
