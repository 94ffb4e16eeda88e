/*
streams.go - Income stream and subscription HTTP handlers

PURPOSE:
  Incomes and subscriptions are the same shape (a named amount with an
  attached recurrence schedule), so both route families funnel into
  shared helpers parameterized by the store accessors. Schedules are
  validated before anything is written; updates merge the payload onto
  the stored schedule and revalidate the result.
*/
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pesoplan/finance-engine/schedule"
	"github.com/pesoplan/finance-engine/store/sqlite"
)

// streamOps binds the shared handlers to one of the two stream tables.
type streamOps struct {
	idPrefix string
	list     func(ctx context.Context, userID string) ([]sqlite.Stream, error)
	get      func(ctx context.Context, userID, id string) (*sqlite.Stream, error)
	save     func(ctx context.Context, stream sqlite.Stream) error
	update   func(ctx context.Context, stream sqlite.Stream) error
	delete   func(ctx context.Context, userID, id string) error
}

func (h *Handler) incomeOps() streamOps {
	return streamOps{
		idPrefix: "inc",
		list:     h.Store.ListIncomeStreams,
		get:      h.Store.GetIncomeStream,
		save:     h.Store.SaveIncomeStream,
		update:   h.Store.UpdateIncomeStream,
		delete:   h.Store.DeleteIncomeStream,
	}
}

func (h *Handler) subscriptionOps() streamOps {
	return streamOps{
		idPrefix: "sub",
		list:     h.Store.ListSubscriptions,
		get:      h.Store.GetSubscription,
		save:     h.Store.SaveSubscription,
		update:   h.Store.UpdateSubscription,
		delete:   h.Store.DeleteSubscription,
	}
}

// =============================================================================
// INCOME ENDPOINTS
// =============================================================================

func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	h.listStreams(w, r, h.incomeOps())
}

func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	h.createStream(w, r, h.incomeOps())
}

func (h *Handler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	h.updateStream(w, r, h.incomeOps())
}

func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	h.deleteStream(w, r, h.incomeOps())
}

// =============================================================================
// SUBSCRIPTION ENDPOINTS
// =============================================================================

func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	h.listStreams(w, r, h.subscriptionOps())
}

func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	h.createStream(w, r, h.subscriptionOps())
}

func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	h.updateStream(w, r, h.subscriptionOps())
}

func (h *Handler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	h.deleteStream(w, r, h.subscriptionOps())
}

// =============================================================================
// SHARED STREAM LOGIC
// =============================================================================

func (h *Handler) listStreams(w http.ResponseWriter, r *http.Request, ops streamOps) {
	user := currentUser(r)

	streams, err := ops.list(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list streams", err)
		return
	}

	dtos := make([]StreamDTO, 0, len(streams))
	for _, s := range streams {
		dtos = append(dtos, toStreamDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) createStream(w http.ResponseWriter, r *http.Request, ops streamOps) {
	user := currentUser(r)

	var req StreamRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "Amount is required", nil)
		return
	}

	cfg := req.SchedulePayload.config()
	if err := schedule.Validate(cfg); err != nil {
		writeDomainError(w, "Invalid schedule", err)
		return
	}

	stream := sqlite.Stream{
		ID:        sqlite.NewID(ops.idPrefix),
		UserID:    user.ID,
		Name:      req.Name,
		Amount:    *req.Amount,
		Currency:  req.Currency,
		Schedule:  cfg,
		CreatedAt: time.Now().UTC(),
	}
	if stream.Currency == "" {
		stream.Currency = "ARS"
	}
	if req.CategoryID != nil {
		stream.CategoryID = *req.CategoryID
	}
	if req.Notes != nil {
		stream.Notes = *req.Notes
	}

	if err := ops.save(r.Context(), stream); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create stream", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStreamDTO(stream))
}

func (h *Handler) updateStream(w http.ResponseWriter, r *http.Request, ops streamOps) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	existing, err := ops.get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get stream", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Not found", nil)
		return
	}

	var req StreamRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Amount != nil {
		existing.Amount = *req.Amount
	}
	if req.Currency != "" {
		existing.Currency = req.Currency
	}
	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}

	// The merged schedule must still validate, even when the payload
	// touched only part of it.
	cfg := req.SchedulePayload.patch(existing.Schedule)
	if err := schedule.Validate(cfg); err != nil {
		writeDomainError(w, "Invalid schedule", err)
		return
	}
	existing.Schedule = cfg

	if err := ops.update(r.Context(), *existing); err != nil {
		writeDomainError(w, "Failed to update stream", err)
		return
	}
	writeJSON(w, http.StatusOK, toStreamDTO(*existing))
}

func (h *Handler) deleteStream(w http.ResponseWriter, r *http.Request, ops streamOps) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	if err := ops.delete(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, "Failed to delete stream", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
