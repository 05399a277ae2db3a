package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"pos-backoffice/internal/client"
	"pos-backoffice/internal/dashboard"
	"pos-backoffice/internal/models"
	"pos-backoffice/internal/store"
)

type validator interface {
	Validate() error
}

// collectionResponse is a repository snapshot narrowed by the request's filters
type collectionResponse[T any] struct {
	Items      []T        `json:"items"`
	Total      int        `json:"total"`
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`
	LastSynced *time.Time `json:"lastSynced,omitempty"`
}

// filterFunc narrows a collection using the request's query string
type filterFunc[T any] func(items []T, r *http.Request) []T

// listHandler handles GET /api/{collection}. refresh=true fetches from the backend first.
func listHandler[T store.Entity, P any](repo *store.Repository[T, P], filter filterFunc[T], logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
			if err := repo.FetchAll(r.Context()); err != nil {
				logger.Warn("Collection refresh failed", "collection", repo.Name(), "error", err)
				writeFailure(w, err, repo.Snapshot().Error)
				return
			}
		}

		snapshot := repo.Snapshot()
		items := snapshot.Items
		if filter != nil {
			items = filter(items, r)
		}
		if items == nil {
			items = []T{}
		}

		response := collectionResponse[T]{
			Items:   items,
			Total:   len(snapshot.Items),
			Loading: snapshot.Loading,
			Error:   snapshot.Error,
		}
		if !snapshot.LastSynced.IsZero() {
			synced := snapshot.LastSynced
			response.LastSynced = &synced
		}
		writeJSONResponse(w, http.StatusOK, response)
	}
}

// createHandler handles POST /api/{collection}. newPayload supplies the form defaults.
func createHandler[T store.Entity, P any](repo *store.Repository[T, P], newPayload func() P) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !supported(w, repo, client.OpCreate) {
			return
		}
		payload, ok := decodePayload(w, r, newPayload)
		if !ok {
			return
		}

		created, err := repo.Create(r.Context(), payload)
		if err != nil {
			writeFailure(w, err, repo.Snapshot().Error)
			return
		}
		writeJSONResponse(w, http.StatusCreated, created)
	}
}

// updateHandler handles PUT /api/{collection}/{id}
func updateHandler[T store.Entity, P any](repo *store.Repository[T, P], newPayload func() P) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !supported(w, repo, client.OpUpdate) {
			return
		}
		id, ok := entityID(w, r)
		if !ok {
			return
		}
		payload, ok := decodePayload(w, r, newPayload)
		if !ok {
			return
		}

		updated, err := repo.Update(r.Context(), id, payload)
		if err != nil {
			writeFailure(w, err, repo.Snapshot().Error)
			return
		}
		writeJSONResponse(w, http.StatusOK, updated)
	}
}

// deleteHandler handles DELETE /api/{collection}/{id}
func deleteHandler[T store.Entity, P any](repo *store.Repository[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !supported(w, repo, client.OpDelete) {
			return
		}
		id, ok := entityID(w, r)
		if !ok {
			return
		}

		if err := repo.Delete(r.Context(), id); err != nil {
			writeFailure(w, err, repo.Snapshot().Error)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// supported answers 405 before the body is read when the backend has no such endpoint
func supported[T store.Entity, P any](w http.ResponseWriter, repo *store.Repository[T, P], op client.Op) bool {
	if repo.Supports(op) {
		return true
	}
	err := fmt.Errorf("%s %s: %w", op, repo.Name(), client.ErrOperationNotSupported)
	writeFailure(w, err, "")
	return false
}

// decodePayload decodes over the defaults and validates payloads that know how
func decodePayload[P any](w http.ResponseWriter, r *http.Request, newPayload func() P) (P, bool) {
	payload := newPayload()
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", invalidJSONMessage, nil)
		return payload, false
	}
	if v, ok := any(payload).(validator); ok {
		if err := v.Validate(); err != nil {
			writeFailure(w, err, "")
			return payload, false
		}
	}
	return payload, true
}

func entityID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("Invalid id: %s", raw), nil)
		return 0, false
	}
	return id, true
}

func filterCategories(items []models.Category, r *http.Request) []models.Category {
	return dashboard.FilterCategories(items, query(r))
}

func filterProducts(items []models.Product, r *http.Request) []models.Product {
	return dashboard.FilterProducts(items, query(r))
}

// filterInventories also honours stock=low|ok
func filterInventories(items []models.Inventory, r *http.Request) []models.Inventory {
	stock := dashboard.ParseStockFilter(r.URL.Query().Get("stock"))
	return dashboard.FilterInventories(items, stock, query(r))
}

func filterOrders(items []models.Order, r *http.Request) []models.Order {
	return dashboard.FilterOrders(items, query(r))
}

func filterInvoices(items []models.Invoice, r *http.Request) []models.Invoice {
	return dashboard.FilterInvoices(items, query(r))
}
