package handlers

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"pos-backoffice/internal/dashboard"
	"pos-backoffice/internal/middleware"
	"pos-backoffice/internal/models"
	"pos-backoffice/internal/money"
	"pos-backoffice/internal/session"
	"pos-backoffice/internal/store"
)

// Dependencies are the components the console routes are served from
type Dependencies struct {
	Gate       *session.Gate
	Store      *store.Store
	Aggregator *dashboard.Aggregator
	Drafts     *DraftHandler
	Formatter  *money.Formatter
	Logger     *slog.Logger
}

// NewRouter builds the console routes. Everything under /api except the
// session endpoints requires a live session.
func NewRouter(deps Dependencies) *mux.Router {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	r.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)

	healthHandler := NewHealthHandler(deps.Gate, deps.Store)
	sessionHandler := NewSessionHandler(deps.Gate, deps.Logger)
	dashboardHandler := NewDashboardHandler(deps.Aggregator, deps.Formatter, deps.Logger)

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session", sessionHandler.Status).Methods("GET")
	api.HandleFunc("/session/login", sessionHandler.Login).Methods("POST")
	api.HandleFunc("/session/logout", sessionHandler.Logout).Methods("POST")
	api.HandleFunc("/session/profile", sessionHandler.Profile).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.RequireSession(deps.Gate))

	protected.HandleFunc("/dashboard", dashboardHandler.Summary).Methods("GET")

	s := deps.Store
	logger := deps.Logger

	protected.HandleFunc("/categories", listHandler(s.Categories, filterCategories, logger)).Methods("GET")
	protected.HandleFunc("/categories", createHandler(s.Categories, newPayload[models.CategoryPayload])).Methods("POST")
	protected.HandleFunc("/categories/{id}", updateHandler(s.Categories, newPayload[models.CategoryPayload])).Methods("PUT")
	protected.HandleFunc("/categories/{id}", deleteHandler(s.Categories)).Methods("DELETE")

	protected.HandleFunc("/products", listHandler(s.Products, filterProducts, logger)).Methods("GET")
	protected.HandleFunc("/products", createHandler(s.Products, newPayload[models.ProductPayload])).Methods("POST")
	protected.HandleFunc("/products/{id}", updateHandler(s.Products, newPayload[models.ProductPayload])).Methods("PUT")
	protected.HandleFunc("/products/{id}", deleteHandler(s.Products)).Methods("DELETE")

	protected.HandleFunc("/inventories", listHandler(s.Inventories, filterInventories, logger)).Methods("GET")
	protected.HandleFunc("/inventories", createHandler(s.Inventories, models.NewInventoryPayload)).Methods("POST")
	protected.HandleFunc("/inventories/{id}", updateHandler(s.Inventories, models.NewInventoryPayload)).Methods("PUT")
	protected.HandleFunc("/inventories/{id}", deleteHandler(s.Inventories)).Methods("DELETE")

	// Orders and invoices are created through drafts
	protected.HandleFunc("/orders", listHandler(s.Orders, filterOrders, logger)).Methods("GET")
	protected.HandleFunc("/orders/{id}", updateHandler(s.Orders, newPayload[models.OrderPayload])).Methods("PUT")
	protected.HandleFunc("/orders/{id}", deleteHandler(s.Orders)).Methods("DELETE")

	protected.HandleFunc("/invoices", listHandler(s.Invoices, filterInvoices, logger)).Methods("GET")
	protected.HandleFunc("/invoices/{id}", updateHandler(s.Invoices, newPayload[models.InvoicePayload])).Methods("PUT")
	protected.HandleFunc("/invoices/{id}", deleteHandler(s.Invoices)).Methods("DELETE")

	drafts := deps.Drafts
	protected.HandleFunc("/drafts/orders", drafts.CreateOrder).Methods("POST")
	protected.HandleFunc("/drafts/invoices", drafts.CreateInvoice).Methods("POST")
	protected.HandleFunc("/drafts/{id}", drafts.Get).Methods("GET")
	protected.HandleFunc("/drafts/{id}", drafts.Delete).Methods("DELETE")
	protected.HandleFunc("/drafts/{id}/header", drafts.UpdateHeader).Methods("PATCH")
	protected.HandleFunc("/drafts/{id}/messages", drafts.Dispatch).Methods("POST")
	protected.HandleFunc("/drafts/{id}/submit", drafts.Submit).Methods("POST")

	return r
}

func newPayload[P any]() P {
	var payload P
	return payload
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed on "+r.URL.Path, nil)
}

func query(r *http.Request) string {
	return r.URL.Query().Get("q")
}
