package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"pos-backoffice/internal/draft"
	"pos-backoffice/internal/money"
	"pos-backoffice/internal/store"
)

const maxMessageBytes = 64 << 10

// draftEntry guards one draft. submitting blocks edits and a second submit
// until the backend has answered; submitted is final.
type draftEntry struct {
	mu         sync.Mutex
	draft      *draft.Draft
	submitting bool
	submitted  bool
}

// busy rejects the request when the draft cannot change. Caller holds mu.
func (e *draftEntry) busy(w http.ResponseWriter, id string) bool {
	switch {
	case e.submitted:
		writeErrorResponse(w, http.StatusNotFound, "not_found", "Draft not found: "+id, nil)
		return true
	case e.submitting:
		writeErrorResponse(w, http.StatusConflict, "conflict", "Draft is being submitted", nil)
		return true
	}
	return false
}

// DraftHandler keeps the order and invoice forms being edited, keyed by id
type DraftHandler struct {
	store     *store.Store
	formatter *money.Formatter
	taxRate   float64
	now       func() time.Time
	logger    *slog.Logger

	mu     sync.RWMutex
	drafts map[string]*draftEntry
}

func NewDraftHandler(s *store.Store, formatter *money.Formatter, taxRate float64, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{
		store:     s,
		formatter: formatter,
		taxRate:   taxRate,
		now:       time.Now,
		logger:    logger,
		drafts:    make(map[string]*draftEntry),
	}
}

type draftDisplay struct {
	Currency    string `json:"currency"`
	Subtotal    string `json:"subtotal"`
	TaxAmount   string `json:"taxAmount"`
	Shipping    string `json:"shippingAmount"`
	TotalAmount string `json:"totalAmount"`
}

type draftResponse struct {
	ID string `json:"id"`
	draft.View
	Display draftDisplay `json:"display"`
}

func (h *DraftHandler) respond(w http.ResponseWriter, statusCode int, id string, d *draft.Draft) {
	totals := d.Totals()
	writeJSONResponse(w, statusCode, draftResponse{
		ID:   id,
		View: d.View(),
		Display: draftDisplay{
			Currency:    h.formatter.Currency(),
			Subtotal:    h.formatter.Format(totals.Subtotal),
			TaxAmount:   h.formatter.Format(totals.TaxAmount),
			Shipping:    h.formatter.Format(totals.Shipping),
			TotalAmount: h.formatter.Format(totals.TotalAmount),
		},
	})
}

func (h *DraftHandler) open(w http.ResponseWriter, d *draft.Draft) {
	id := uuid.NewString()

	h.mu.Lock()
	h.drafts[id] = &draftEntry{draft: d}
	h.mu.Unlock()

	h.logger.Info("Draft opened", "draft_id", id, "kind", d.Kind())
	h.respond(w, http.StatusCreated, id, d)
}

// lookup writes 404 and returns nil when the id is unknown
func (h *DraftHandler) lookup(w http.ResponseWriter, r *http.Request) (string, *draftEntry) {
	id := mux.Vars(r)["id"]

	h.mu.RLock()
	entry, ok := h.drafts[id]
	h.mu.RUnlock()

	if !ok {
		writeErrorResponse(w, http.StatusNotFound, "not_found", "Draft not found: "+id, nil)
		return id, nil
	}
	return id, entry
}

// CreateOrder handles POST /api/drafts/orders
func (h *DraftHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	h.open(w, draft.NewOrder(h.store.Products, h.taxRate))
}

// CreateInvoice handles POST /api/drafts/invoices
func (h *DraftHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	h.open(w, draft.NewInvoice(h.taxRate, h.now()))
}

// Get handles GET /api/drafts/{id}
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, entry := h.lookup(w, r)
	if entry == nil {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	h.respond(w, http.StatusOK, id, entry.draft)
}

// UpdateHeader handles PATCH /api/drafts/{id}/header. Fields missing from the
// body keep their current value.
func (h *DraftHandler) UpdateHeader(w http.ResponseWriter, r *http.Request) {
	id, entry := h.lookup(w, r)
	if entry == nil {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.busy(w, id) {
		return
	}

	d := entry.draft
	var err error
	switch d.Kind() {
	case draft.KindOrder:
		header := d.OrderHeader()
		if err = json.NewDecoder(r.Body).Decode(&header); err == nil {
			err = d.SetOrderHeader(header)
		}
	case draft.KindInvoice:
		header := d.InvoiceHeader()
		if err = json.NewDecoder(r.Body).Decode(&header); err == nil {
			err = d.SetInvoiceHeader(header)
		}
	}

	switch {
	case err == nil:
		h.respond(w, http.StatusOK, id, d)
	case isDecodeError(err), errors.Is(err, io.EOF):
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", invalidJSONMessage, nil)
	default:
		writeFailure(w, err, "")
	}
}

// Dispatch handles POST /api/drafts/{id}/messages with one editor message
func (h *DraftHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, entry := h.lookup(w, r)
	if entry == nil {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", invalidJSONMessage, nil)
		return
	}
	msg, err := draft.DecodeMsg(body, h.store.Orders)
	if err != nil {
		if isDecodeError(err) {
			writeErrorResponse(w, http.StatusBadRequest, "bad_request", invalidJSONMessage, nil)
			return
		}
		writeFailure(w, err, "")
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.busy(w, id) {
		return
	}

	if err := entry.draft.Apply(msg); err != nil {
		writeFailure(w, err, "")
		return
	}
	h.respond(w, http.StatusOK, id, entry.draft)
}

// Submit handles POST /api/drafts/{id}/submit. A draft that was accepted by
// the backend is discarded; a rejected one stays open for correction.
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, entry := h.lookup(w, r)
	if entry == nil {
		return
	}

	entry.mu.Lock()
	if entry.busy(w, id) {
		entry.mu.Unlock()
		return
	}

	d := entry.draft
	var send func() (any, error)
	var fallback func() string
	switch d.Kind() {
	case draft.KindOrder:
		payload, err := d.OrderPayload()
		if err != nil {
			entry.mu.Unlock()
			writeFailure(w, err, "")
			return
		}
		send = func() (any, error) { return h.store.Orders.Create(r.Context(), payload) }
		fallback = func() string { return h.store.Orders.Snapshot().Error }
	case draft.KindInvoice:
		payload, err := d.InvoicePayload()
		if err != nil {
			entry.mu.Unlock()
			writeFailure(w, err, "")
			return
		}
		send = func() (any, error) { return h.store.Invoices.Create(r.Context(), payload) }
		fallback = func() string { return h.store.Invoices.Snapshot().Error }
	}
	entry.submitting = true
	entry.mu.Unlock()

	created, err := send()

	entry.mu.Lock()
	entry.submitting = false
	if err != nil {
		entry.mu.Unlock()
		h.logger.Warn("Draft submission failed", "draft_id", id, "kind", d.Kind(), "error", err)
		writeFailure(w, err, fallback())
		return
	}
	entry.submitted = true
	h.discard(id)
	entry.mu.Unlock()

	h.logger.Info("Draft submitted", "draft_id", id, "kind", d.Kind())
	writeJSONResponse(w, http.StatusCreated, created)
}

// Delete handles DELETE /api/drafts/{id}
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, entry := h.lookup(w, r)
	if entry == nil {
		return
	}
	h.discard(id)
	w.WriteHeader(http.StatusNoContent)
}

// DiscardAll drops every open draft, e.g. when the session ends
func (h *DraftHandler) DiscardAll() {
	h.mu.Lock()
	removed := len(h.drafts)
	h.drafts = make(map[string]*draftEntry)
	h.mu.Unlock()

	if removed > 0 {
		h.logger.Info("Drafts discarded", "count", removed)
	}
}

func (h *DraftHandler) discard(id string) {
	h.mu.Lock()
	delete(h.drafts, id)
	h.mu.Unlock()
}

func asAny(err error, targets ...any) bool {
	for _, target := range targets {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return asAny(err, &syntaxErr, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
