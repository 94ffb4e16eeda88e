/*
handlers.go - Handler wiring and shared response helpers

PURPOSE:
  Holds the Handler struct every route hangs off, plus the JSON response
  helpers and the mapping from calculation-package errors to HTTP status
  codes. Entity-specific handlers live in sibling files (expenses.go,
  streams.go, inventory.go, planner.go); this file keeps the handlers
  that are small enough not to deserve their own file.

ERROR MAPPING:
  - schedule.ErrInvalidArgument (incl. FieldError) -> 400
  - sqlite.ErrNotFound                             -> 404
  - schedule.ErrUnsupportedVariant                 -> 500 (stored data
    names a variant this build does not know; a client cannot fix that)
  - everything else                                -> 500
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pesoplan/finance-engine/schedule"
	"github.com/pesoplan/finance-engine/store/sqlite"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	Store              *sqlite.Store
	DefaultPlannerDays int
}

func NewHandler(store *sqlite.Store, defaultPlannerDays int) *Handler {
	if defaultPlannerDays <= 0 {
		defaultPlannerDays = 60
	}
	return &Handler{Store: store, DefaultPlannerDays: defaultPlannerDays}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeErrorCode is for responses where clients branch on a stable code
// rather than a human message.
func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeDomainError translates errors surfaced by the schedule, inventory
// and planner packages into HTTP responses.
func writeDomainError(w http.ResponseWriter, fallback string, err error) {
	var fieldErr *schedule.FieldError
	switch {
	case errors.As(err, &fieldErr):
		writeError(w, http.StatusBadRequest, fieldErr.Message, err)
	case errors.Is(err, schedule.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "Invalid argument", err)
	case errors.Is(err, sqlite.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		writeError(w, http.StatusInternalServerError, fallback, err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// =============================================================================
// USER ENDPOINTS
// =============================================================================

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserDTO(currentUser(r)))
}

// =============================================================================
// CATEGORY ENDPOINTS
// =============================================================================

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	categories, err := h.Store.ListCategories(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toCategoryDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	if req.Type == "" {
		req.Type = "EXPENSE"
	}

	category := sqlite.Category{
		ID:     sqlite.NewID("cat"),
		UserID: user.ID,
		Name:   req.Name,
		Type:   req.Type,
		Color:  req.Color,
		Icon:   req.Icon,
	}
	if err := h.Store.SaveCategory(r.Context(), category); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryDTO(category))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetCategory(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get category", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Category not found", nil)
		return
	}

	var req CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Type != "" {
		existing.Type = req.Type
	}
	if req.Color != "" {
		existing.Color = req.Color
	}
	if req.Icon != "" {
		existing.Icon = req.Icon
	}

	if err := h.Store.UpdateCategory(r.Context(), *existing); err != nil {
		writeDomainError(w, "Failed to update category", err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(*existing))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteCategory(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, "Failed to delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SUBCATEGORY ENDPOINTS
// =============================================================================

func (h *Handler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	categoryID := chi.URLParam(r, "id")

	category, err := h.Store.GetCategory(r.Context(), user.ID, categoryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get category", err)
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "Category not found", nil)
		return
	}

	var req SubcategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	sub := sqlite.Subcategory{
		ID:         sqlite.NewID("sub"),
		UserID:     user.ID,
		CategoryID: categoryID,
		Name:       req.Name,
	}
	if err := h.Store.SaveSubcategory(r.Context(), sub); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create subcategory", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubcategoryDTO(sub))
}

func (h *Handler) RenameSubcategory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	var req SubcategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	if err := h.Store.RenameSubcategory(r.Context(), user.ID, id, req.Name); err != nil {
		writeDomainError(w, "Failed to update subcategory", err)
		return
	}

	sub, err := h.Store.GetSubcategory(r.Context(), user.ID, id)
	if err != nil || sub == nil {
		writeError(w, http.StatusInternalServerError, "Failed to get subcategory", err)
		return
	}
	writeJSON(w, http.StatusOK, toSubcategoryDTO(*sub))
}

func (h *Handler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteSubcategory(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, "Failed to delete subcategory", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
