package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-backoffice/internal/models"
)

type draftItem struct {
	ProductID   int64   `json:"productId"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type draftInvoice struct {
	OrderID   int64  `json:"orderId"`
	IssueDate string `json:"issueDate"`
	Notes     string `json:"notes"`
}

type draftTotals struct {
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"taxAmount"`
	Shipping    float64 `json:"shippingAmount"`
	TotalAmount float64 `json:"totalAmount"`
}

type draftBody struct {
	ID      string        `json:"id"`
	Kind    string        `json:"kind"`
	Items   []draftItem   `json:"items"`
	Invoice *draftInvoice `json:"invoice"`
	Totals  draftTotals   `json:"totals"`
	Display draftDisplay  `json:"display"`
}

func (c *console) send(t *testing.T, id string, msg map[string]any) draftBody {
	t.Helper()
	rr := c.do(t, http.MethodPost, "/api/drafts/"+id+"/messages", msg)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[draftBody](t, rr)
}

func TestOrderDraftLifecycle(t *testing.T) {
	c := newConsole(t)
	c.login(t)
	require.Equal(t, http.StatusOK, c.do(t, http.MethodGet, "/api/products?refresh=true", nil).Code)

	rr := c.do(t, http.MethodPost, "/api/drafts/orders", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[draftBody](t, rr)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "order", created.Kind)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 1.0, created.Items[0].Quantity)

	id := created.ID

	// Selecting a product back-fills price and description from the catalog
	body := c.send(t, id, map[string]any{"type": "setProduct", "index": 0, "productId": 1})
	assert.Equal(t, "Café", body.Items[0].Description)
	assert.Equal(t, 2500.0, body.Items[0].UnitPrice)

	c.send(t, id, map[string]any{"type": "setQuantity", "index": 0, "quantity": 2})
	body = c.send(t, id, map[string]any{"type": "setShipping", "amount": 1000})
	assert.Equal(t, 5000.0, body.Totals.Subtotal)
	assert.Equal(t, 950.0, body.Totals.TaxAmount)
	assert.Equal(t, 6950.0, body.Totals.TotalAmount)
	assert.Equal(t, "COP", body.Display.Currency)

	rr = c.do(t, http.MethodPost, "/api/drafts/"+id+"/messages", map[string]any{"type": "removeItem", "index": 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Without an order number the backend is never called
	rr = c.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = c.do(t, http.MethodPatch, "/api/drafts/"+id+"/header", map[string]any{"orderNumber": "ORD-8", "notes": "Mesa 4"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = c.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	order := decode[models.Order](t, rr)
	assert.Equal(t, "ORD-8", order.OrderNumber)

	c.backend.mu.Lock()
	sent := c.backend.lastOrder
	c.backend.mu.Unlock()
	assert.Equal(t, models.OrderStatusPending, sent.Status)
	assert.Equal(t, "Mesa 4", sent.Notes)
	assert.Equal(t, 6950.0, sent.TotalAmount)
	assert.Equal(t, 1000.0, sent.ShippingAmount)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, int64(1), sent.Items[0].ProductID)

	_, found := c.store.Orders.Find(order.ID)
	assert.True(t, found)

	rr = c.do(t, http.MethodGet, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInvoiceDraftFromOrder(t *testing.T) {
	c := newConsole(t)
	c.login(t)
	require.Equal(t, http.StatusOK, c.do(t, http.MethodGet, "/api/orders?refresh=true", nil).Code)

	rr := c.do(t, http.MethodPost, "/api/drafts/invoices", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[draftBody](t, rr)
	require.NotNil(t, created.Invoice)
	assert.Equal(t, "2026-03-14", created.Invoice.IssueDate)

	id := created.ID

	rr = c.do(t, http.MethodPost, "/api/drafts/"+id+"/messages", map[string]any{"type": "setShipping", "amount": 10})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = c.do(t, http.MethodPost, "/api/drafts/"+id+"/messages", map[string]any{"type": "selectOrder", "orderId": 99})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	body := c.send(t, id, map[string]any{"type": "selectOrder", "orderId": 7})
	require.Len(t, body.Items, 1)
	assert.Equal(t, int64(7), body.Invoice.OrderID)
	assert.Equal(t, "Entregar en la mañana", body.Invoice.Notes)
	assert.Equal(t, "Café", body.Items[0].Description)
	assert.Equal(t, 1000.0, body.Totals.Subtotal)
	assert.Equal(t, 1190.0, body.Totals.TotalAmount)

	rr = c.do(t, http.MethodPatch, "/api/drafts/"+id+"/header", map[string]any{"invoiceNumber": "FAC-1", "paymentMethod": "CARD"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = c.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	c.backend.mu.Lock()
	sent := c.backend.lastInvoice
	c.backend.mu.Unlock()
	assert.Equal(t, "FAC-1", sent.InvoiceNumber)
	assert.Equal(t, int64(7), sent.OrderID)
	assert.Equal(t, models.PaymentMethodCard, sent.PaymentMethod)
	assert.Equal(t, models.InvoiceStatusDraft, sent.Status)
	assert.Equal(t, 1190.0, sent.TotalAmount)
}

func TestDraftRequests(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	rr := c.do(t, http.MethodPost, "/api/drafts/orders", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode[draftBody](t, rr).ID

	testCases := []struct {
		name           string
		method         string
		path           string
		body           any
		expectedStatus int
	}{
		{"Unknown Draft", http.MethodGet, "/api/drafts/missing", nil, http.StatusNotFound},
		{"Malformed Message", http.MethodPost, "/api/drafts/" + id + "/messages", "{", http.StatusBadRequest},
		{"Unknown Message", http.MethodPost, "/api/drafts/" + id + "/messages", map[string]any{"type": "explode"}, http.StatusBadRequest},
		{"Index Out Of Range", http.MethodPost, "/api/drafts/" + id + "/messages", map[string]any{"type": "setQuantity", "index": 3}, http.StatusBadRequest},
		{"Negative Quantity Is Accepted", http.MethodPost, "/api/drafts/" + id + "/messages", map[string]any{"type": "setQuantity", "index": 0, "quantity": -1}, http.StatusOK},
		{"Empty Header", http.MethodPatch, "/api/drafts/" + id + "/header", nil, http.StatusBadRequest},
		{"Get Draft", http.MethodGet, "/api/drafts/" + id, nil, http.StatusOK},
		{"Delete Draft", http.MethodDelete, "/api/drafts/" + id, nil, http.StatusNoContent},
		{"Deleted Draft", http.MethodGet, "/api/drafts/" + id, nil, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := c.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.expectedStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestSubmitWhileSubmittingConflicts(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	rr := c.do(t, http.MethodPost, "/api/drafts/orders", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode[draftBody](t, rr).ID

	c.drafts.mu.RLock()
	entry := c.drafts.drafts[id]
	c.drafts.mu.RUnlock()
	require.NotNil(t, entry)

	entry.mu.Lock()
	entry.submitting = true
	entry.mu.Unlock()

	rr = c.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	msg, err := json.Marshal(map[string]any{"type": "addItem"})
	require.NoError(t, err)
	rr = c.do(t, http.MethodPost, "/api/drafts/"+id+"/messages", string(msg))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSubmittedDraftCannotBeSubmittedAgain(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	rr := c.do(t, http.MethodPost, "/api/drafts/orders", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode[draftBody](t, rr).ID

	rr = c.do(t, http.MethodPatch, "/api/drafts/"+id+"/header", map[string]any{"orderNumber": "ORD-9"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	c.drafts.mu.RLock()
	entry := c.drafts.drafts[id]
	c.drafts.mu.RUnlock()
	require.NotNil(t, entry)

	c.backend.mu.Lock()
	before := c.backend.nextID
	c.backend.mu.Unlock()

	rr = c.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// A request that found the entry before it was discarded still holds it
	c.drafts.mu.Lock()
	c.drafts.drafts[id] = entry
	c.drafts.mu.Unlock()

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"Submit", http.MethodPost, "/api/drafts/" + id + "/submit", nil},
		{"Message", http.MethodPost, "/api/drafts/" + id + "/messages", map[string]any{"type": "addItem"}},
		{"Header", http.MethodPatch, "/api/drafts/" + id + "/header", map[string]any{"notes": "otra"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := c.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusNotFound, rr.Code, rr.Body.String())
		})
	}

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	assert.Equal(t, before+1, c.backend.nextID)
}
