/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the mobile app
  5. Identity:   Resolves the caller from the auth subject header
                 (api routes only; /healthz stays public)

ROUTE GROUPS:
  /api/users/*          Identity
  /api/categories/*     Categories and subcategories
  /api/expenses/*       Expense records
  /api/budgets/*        Budgets and the month summary
  /api/incomes/*        Schedule-bearing income streams
  /api/subscriptions/*  Schedule-bearing subscriptions
  /api/inventory/*      Consumables and purchases
  /api/planner/*        Look-ahead timeline

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Identity resolution
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Subject", "X-Auth-Email", "X-Auth-Name"},
		AllowCredentials: true,
	}))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// API routes (identity required)
	r.Route("/api", func(r chi.Router) {
		r.Use(h.Identity)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", h.GetMe)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
			r.Post("/{id}/subcategories", h.CreateSubcategory)
			r.Put("/subcategories/{id}", h.RenameSubcategory)
			r.Delete("/subcategories/{id}", h.DeleteSubcategory)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.CreateExpense)
			r.Get("/{id}", h.GetExpense)
			r.Put("/{id}", h.UpdateExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", h.ListBudgets)
			r.Post("/", h.CreateBudget)
			r.Get("/summary", h.BudgetSummary)
			r.Put("/{id}", h.UpdateBudget)
			r.Delete("/{id}", h.DeleteBudget)
		})

		r.Route("/incomes", func(r chi.Router) {
			r.Get("/", h.ListIncomes)
			r.Post("/", h.CreateIncome)
			r.Put("/{id}", h.UpdateIncome)
			r.Delete("/{id}", h.DeleteIncome)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", h.ListSubscriptions)
			r.Post("/", h.CreateSubscription)
			r.Put("/{id}", h.UpdateSubscription)
			r.Delete("/{id}", h.DeleteSubscription)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.ListInventoryItems)
			r.Post("/", h.CreateInventoryItem)
			r.Get("/{id}", h.GetInventoryItem)
			r.Put("/{id}", h.UpdateInventoryItem)
			r.Delete("/{id}", h.DeleteInventoryItem)
			r.Get("/{id}/purchases", h.ListInventoryPurchases)
			r.Post("/{id}/purchases", h.CreateInventoryPurchase)
		})

		r.Route("/planner", func(r chi.Router) {
			r.Get("/upcoming", h.PlannerUpcoming)
			r.Get("/sweeps", h.ListPlannerSweeps)
		})
	})

	return r
}
