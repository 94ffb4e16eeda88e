/*
inventoryapi.go - Inventory item and purchase HTTP handlers

PURPOSE:
  CRUD for replenishable items plus purchase logging. Every item
  response is enriched with depletion metrics (stock on hand, projected
  run-out date, reminder date) computed against the item's purchase
  history as of the request time.
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pesoplan/finance-engine/inventory"
	"github.com/pesoplan/finance-engine/store/sqlite"
)

// simulationInput converts a stored item and its purchase rows into the
// calculation package's types. Missing initial stock date falls back to
// the item's creation time.
func simulationInput(item sqlite.InventoryItem, rows []sqlite.InventoryPurchase) (inventory.Item, []inventory.Purchase) {
	simItem := inventory.Item{
		ReminderAdvanceDays: item.ReminderAdvanceDays,
		InitialStockDate:    item.CreatedAt,
	}
	if item.ConsumptionPerDay != nil {
		simItem.ConsumptionPerDay = *item.ConsumptionPerDay
	}
	if item.InitialStock != nil {
		simItem.InitialStock = *item.InitialStock
	}
	if item.InitialStockDate != nil {
		simItem.InitialStockDate = *item.InitialStockDate
	}

	purchases := make([]inventory.Purchase, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, inventory.Purchase{
			Quantity:    row.Quantity,
			PurchasedAt: row.PurchasedAt,
		})
	}
	return simItem, purchases
}

func (h *Handler) itemMetrics(r *http.Request, item sqlite.InventoryItem) (inventory.Runout, error) {
	rows, err := h.Store.ListInventoryPurchases(r.Context(), item.ID, true)
	if err != nil {
		return inventory.Runout{}, err
	}
	simItem, purchases := simulationInput(item, rows)
	return inventory.ComputeRunout(simItem, purchases, time.Now().UTC()), nil
}

// =============================================================================
// ITEM ENDPOINTS
// =============================================================================

func (h *Handler) ListInventoryItems(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	items, err := h.Store.ListInventoryItems(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory items", err)
		return
	}

	dtos := make([]InventoryItemDTO, 0, len(items))
	for _, item := range items {
		metrics, err := h.itemMetrics(r, item)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to compute item metrics", err)
			return
		}
		dtos = append(dtos, toInventoryItemDTO(item, metrics))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetInventoryItem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	item, err := h.Store.GetInventoryItem(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get inventory item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Inventory item not found", nil)
		return
	}

	metrics, err := h.itemMetrics(r, *item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute item metrics", err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryItemDTO(*item, metrics))
}

func (h *Handler) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req InventoryItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	if req.ConsumptionPerDay != nil && req.ConsumptionPerDay.IsNegative() {
		writeError(w, http.StatusBadRequest, "consumptionPerDay must not be negative", nil)
		return
	}

	item := sqlite.InventoryItem{
		ID:                  sqlite.NewID("inv"),
		UserID:              user.ID,
		Name:                req.Name,
		CostPerPurchase:     req.CostPerPurchase,
		PurchaseQuantity:    req.PurchaseQuantity,
		ConsumptionPerDay:   req.ConsumptionPerDay,
		InitialStock:        req.InitialStock,
		ReminderAdvanceDays: 7,
		CreatedAt:           time.Now().UTC(),
	}
	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	if req.SubcategoryID != nil {
		item.SubcategoryID = *req.SubcategoryID
	}
	if req.UnitName != nil {
		item.UnitName = *req.UnitName
	}
	if req.ReminderAdvanceDays != nil {
		item.ReminderAdvanceDays = *req.ReminderAdvanceDays
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.InitialStockDate != nil {
		t, err := parseDate(*req.InitialStockDate, "initialStockDate")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid initialStockDate", err)
			return
		}
		item.InitialStockDate = &t
	}

	if err := h.Store.SaveInventoryItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create inventory item", err)
		return
	}

	metrics, err := h.itemMetrics(r, item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute item metrics", err)
		return
	}
	writeJSON(w, http.StatusCreated, toInventoryItemDTO(item, metrics))
}

func (h *Handler) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetInventoryItem(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get inventory item", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Inventory item not found", nil)
		return
	}

	var req InventoryItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ConsumptionPerDay != nil && req.ConsumptionPerDay.IsNegative() {
		writeError(w, http.StatusBadRequest, "consumptionPerDay must not be negative", nil)
		return
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.SubcategoryID != nil {
		existing.SubcategoryID = *req.SubcategoryID
	}
	if req.UnitName != nil {
		existing.UnitName = *req.UnitName
	}
	if req.CostPerPurchase != nil {
		existing.CostPerPurchase = req.CostPerPurchase
	}
	if req.PurchaseQuantity != nil {
		existing.PurchaseQuantity = req.PurchaseQuantity
	}
	if req.ConsumptionPerDay != nil {
		existing.ConsumptionPerDay = req.ConsumptionPerDay
	}
	if req.InitialStock != nil {
		existing.InitialStock = req.InitialStock
	}
	if req.InitialStockDate != nil {
		t, err := parseDate(*req.InitialStockDate, "initialStockDate")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid initialStockDate", err)
			return
		}
		existing.InitialStockDate = &t
	}
	if req.ReminderAdvanceDays != nil {
		existing.ReminderAdvanceDays = *req.ReminderAdvanceDays
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}

	if err := h.Store.UpdateInventoryItem(r.Context(), *existing); err != nil {
		writeDomainError(w, "Failed to update inventory item", err)
		return
	}

	metrics, err := h.itemMetrics(r, *existing)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute item metrics", err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryItemDTO(*existing, metrics))
}

func (h *Handler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteInventoryItem(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, "Failed to delete inventory item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PURCHASE ENDPOINTS
// =============================================================================

func (h *Handler) ListInventoryPurchases(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	item, err := h.Store.GetInventoryItem(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get inventory item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Inventory item not found", nil)
		return
	}

	rows, err := h.Store.ListInventoryPurchases(r.Context(), item.ID, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list purchases", err)
		return
	}

	dtos := make([]PurchaseDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toPurchaseDTO(row))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateInventoryPurchase(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	item, err := h.Store.GetInventoryItem(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get inventory item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Inventory item not found", nil)
		return
	}

	var req PurchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity == nil || !req.Quantity.IsPositive() {
		writeError(w, http.StatusBadRequest, "Quantity must be a positive number", nil)
		return
	}

	purchasedAt := time.Now().UTC()
	if req.PurchasedAt != "" {
		t, err := parseDate(req.PurchasedAt, "purchasedAt")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid purchasedAt date", err)
			return
		}
		purchasedAt = t
	}

	// Cost defaults from the item's usual purchase price scaled by
	// quantity, when both are known.
	cost := req.Cost
	if cost == nil && item.CostPerPurchase != nil && item.PurchaseQuantity != nil && item.PurchaseQuantity.IsPositive() {
		derived := item.CostPerPurchase.Div(*item.PurchaseQuantity).Mul(*req.Quantity).Round(2)
		cost = &derived
	}

	purchase := sqlite.InventoryPurchase{
		ID:          sqlite.NewID("pur"),
		ItemID:      item.ID,
		Quantity:    *req.Quantity,
		Cost:        cost,
		PurchasedAt: purchasedAt,
		Notes:       req.Notes,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Store.SaveInventoryPurchase(r.Context(), purchase); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record purchase", err)
		return
	}

	metrics, err := h.itemMetrics(r, *item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute item metrics", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"purchase": toPurchaseDTO(purchase),
		"item":     toInventoryItemDTO(*item, metrics),
	})
}
