package draft

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-backoffice/internal/models"
	"pos-backoffice/internal/money"
)

type catalogStub map[int64]models.Product

func (c catalogStub) Find(id int64) (models.Product, bool) {
	p, ok := c[id]
	return p, ok
}

func price(v float64) *float64 { return &v }

func assertTotalsInvariant(t *testing.T, d *Draft) {
	t.Helper()
	totals := d.Totals()
	expected := money.ComputeTotals(d.Items(), d.TaxRate(), totals.Shipping)
	assert.InDelta(t, expected.Subtotal, totals.Subtotal, 1e-9)
	assert.InDelta(t, expected.TaxAmount, totals.TaxAmount, 1e-9)
	assert.InDelta(t, expected.TotalAmount, totals.TotalAmount, 1e-9)
}

func TestNewDrafts(t *testing.T) {
	order := NewOrder(nil, DefaultTaxRate)
	require.Len(t, order.Items(), 1)
	assert.Equal(t, money.BlankItem(), order.Items()[0])
	assert.Equal(t, models.OrderStatusPending, order.OrderHeader().Status)
	assert.Zero(t, order.Totals().TotalAmount)

	today := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	invoice := NewInvoice(DefaultTaxRate, today)
	header := invoice.InvoiceHeader()
	assert.Equal(t, "2026-03-14", header.IssueDate)
	assert.Equal(t, "2026-03-14", header.DueDate)
	assert.Equal(t, models.PaymentMethodCash, header.PaymentMethod)
	assert.Equal(t, models.InvoiceStatusDraft, header.Status)
}

func TestApply_TotalsInvariant(t *testing.T) {
	d := NewOrder(nil, 19)

	msgs := []Msg{
		SetQuantity{Index: 0, Quantity: 2},
		SetUnitPrice{Index: 0, UnitPrice: 10},
		AddItem{},
		SetUnitPrice{Index: 1, UnitPrice: 5},
	}
	for _, msg := range msgs {
		require.NoError(t, d.Apply(msg))
		assertTotalsInvariant(t, d)
	}

	totals := d.Totals()
	assert.InDelta(t, 25, totals.Subtotal, 1e-9)
	assert.InDelta(t, 4.75, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 29.75, totals.TotalAmount, 1e-9)

	require.NoError(t, d.Apply(SetShipping{Amount: 10}))
	assert.InDelta(t, 39.75, d.Totals().TotalAmount, 1e-9)

	require.NoError(t, d.Apply(SetTaxRate{Rate: 0}))
	assert.InDelta(t, 35, d.Totals().TotalAmount, 1e-9)
}

func TestApply_NeverEmpty(t *testing.T) {
	d := NewOrder(nil, 19)
	require.NoError(t, d.Apply(SetUnitPrice{Index: 0, UnitPrice: 7}))

	err := d.Apply(RemoveItem{Index: 0})

	assert.ErrorIs(t, err, ErrLastLineItem)
	require.Len(t, d.Items(), 1)
	assert.Equal(t, 7.0, d.Items()[0].UnitPrice)

	require.NoError(t, d.Apply(AddItem{}))
	require.NoError(t, d.Apply(RemoveItem{Index: 0}))
	require.Len(t, d.Items(), 1)
	assert.Equal(t, money.BlankItem(), d.Items()[0])
}

func TestApply_IndexOutOfRange(t *testing.T) {
	testCases := []struct {
		name string
		msg  Msg
	}{
		{"Remove", RemoveItem{Index: 3}},
		{"Set Product", SetProduct{Index: -1, ProductID: 1}},
		{"Set Description", SetDescription{Index: 1, Description: "x"}},
		{"Set Quantity", SetQuantity{Index: 1, Quantity: 3}},
		{"Set Unit Price", SetUnitPrice{Index: 9, UnitPrice: 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewOrder(nil, 19)
			before := d.View()

			assert.ErrorIs(t, d.Apply(tc.msg), ErrIndexOutOfRange)
			assert.Equal(t, before, d.View())
		})
	}
}

func TestApply_SetProductBackFill(t *testing.T) {
	catalog := catalogStub{
		1: {ID: 1, Name: "Café 500g", CostPrice: price(12000)},
		2: {ID: 2, Name: "Azúcar"},
	}

	t.Run("Order Fills From Catalog", func(t *testing.T) {
		d := NewOrder(catalog, 19)
		require.NoError(t, d.Apply(SetProduct{Index: 0, ProductID: 1}))

		item := d.Items()[0]
		assert.Equal(t, int64(1), item.ProductID)
		assert.Equal(t, "Café 500g", item.Description)
		assert.Equal(t, 12000.0, item.UnitPrice)
		assert.InDelta(t, 14280, d.Totals().TotalAmount, 1e-9)
	})

	t.Run("Order Keeps Price Without Cost", func(t *testing.T) {
		d := NewOrder(catalog, 19)
		require.NoError(t, d.Apply(SetUnitPrice{Index: 0, UnitPrice: 300}))
		require.NoError(t, d.Apply(SetProduct{Index: 0, ProductID: 2}))

		item := d.Items()[0]
		assert.Equal(t, "Azúcar", item.Description)
		assert.Equal(t, 300.0, item.UnitPrice)
	})

	t.Run("Order Unknown Product", func(t *testing.T) {
		d := NewOrder(catalog, 19)
		require.NoError(t, d.Apply(SetProduct{Index: 0, ProductID: 99}))
		assert.Equal(t, int64(99), d.Items()[0].ProductID)
		assert.Empty(t, d.Items()[0].Description)
	})

	t.Run("Invoice Only Sets Reference", func(t *testing.T) {
		d := NewInvoice(19, time.Now())
		require.NoError(t, d.Apply(SetProduct{Index: 0, ProductID: 1}))

		item := d.Items()[0]
		assert.Equal(t, int64(1), item.ProductID)
		assert.Empty(t, item.Description)
		assert.Zero(t, item.UnitPrice)
	})
}

func TestApply_KindRestrictions(t *testing.T) {
	invoice := NewInvoice(19, time.Now())
	assert.ErrorIs(t, invoice.Apply(SetShipping{Amount: 5}), ErrShippingNotApplicable)
	assert.ErrorIs(t, invoice.SetOrderHeader(OrderHeader{}), ErrWrongKind)

	order := NewOrder(nil, 19)
	assert.ErrorIs(t, order.Apply(SelectOrder{}), ErrWrongKind)
	assert.ErrorIs(t, order.SetInvoiceHeader(InvoiceHeader{}), ErrWrongKind)
}

func TestValidate_BlocksSubmission(t *testing.T) {
	testCases := []struct {
		name   string
		build  func() *Draft
		fields []string
	}{
		{
			name:   "Empty Order",
			build:  func() *Draft { return NewOrder(nil, 19) },
			fields: []string{"orderNumber", "items"},
		},
		{
			name: "Negative Quantity And Shipping",
			build: func() *Draft {
				d := NewOrder(nil, 19)
				_ = d.SetOrderHeader(OrderHeader{OrderNumber: "ORD-1"})
				_ = d.Apply(SetProduct{Index: 0, ProductID: 1})
				_ = d.Apply(SetQuantity{Index: 0, Quantity: -2})
				_ = d.Apply(SetShipping{Amount: -1})
				return d
			},
			fields: []string{"shippingAmount", "items[0].quantity"},
		},
		{
			name: "Invoice Negative Tax",
			build: func() *Draft {
				d := NewInvoice(19, time.Now())
				_ = d.SetInvoiceHeader(InvoiceHeader{InvoiceNumber: "FAC-1", IssueDate: "2026-01-01"})
				_ = d.Apply(SetProduct{Index: 0, ProductID: 1})
				_ = d.Apply(SetTaxRate{Rate: -5})
				return d
			},
			fields: []string{"taxRate"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.build().Validate()
			require.Error(t, err)

			var verrs models.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			got := make([]string, 0, len(verrs))
			for _, detail := range verrs {
				got = append(got, detail.Field)
			}
			assert.Equal(t, tc.fields, got)
		})
	}
}

func TestOrderPayload_DropsRowsWithoutProduct(t *testing.T) {
	catalog := catalogStub{1: {ID: 1, Name: "Café", CostPrice: price(10)}}
	d := NewOrder(catalog, 19)
	require.NoError(t, d.SetOrderHeader(OrderHeader{OrderNumber: "ORD-7", Notes: "Llamar antes"}))
	require.NoError(t, d.Apply(SetProduct{Index: 0, ProductID: 1}))
	require.NoError(t, d.Apply(SetQuantity{Index: 0, Quantity: 3}))
	require.NoError(t, d.Apply(AddItem{}))
	require.NoError(t, d.Apply(SetUnitPrice{Index: 1, UnitPrice: 4}))

	payload, err := d.OrderPayload()
	require.NoError(t, err)

	assert.Equal(t, "ORD-7", payload.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, payload.Status)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, models.LineItemPayload{ProductID: 1, Description: "Café", Quantity: 3, UnitPrice: 10}, payload.Items[0])
	assert.InDelta(t, 34, payload.Subtotal, 1e-9, "totals still reflect every row in the editor")
	assert.Equal(t, 19.0, payload.TaxRate)

	_, err = d.InvoicePayload()
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestDecodeMsg(t *testing.T) {
	orders := orderLookupStub{5: {ID: 5, OrderNumber: "ORD-5"}}

	testCases := []struct {
		name     string
		body     string
		expected Msg
		err      error
	}{
		{"Add", `{"type":"addItem"}`, AddItem{}, nil},
		{"Quantity", `{"type":"setQuantity","index":1,"quantity":2.5}`, SetQuantity{Index: 1, Quantity: 2.5}, nil},
		{"Product", `{"type":"setProduct","index":0,"productId":3}`, SetProduct{ProductID: 3}, nil},
		{"Tax", `{"type":"setTaxRate","rate":16}`, SetTaxRate{Rate: 16}, nil},
		{"Select Order", `{"type":"selectOrder","orderId":5}`, SelectOrder{Order: models.Order{ID: 5, OrderNumber: "ORD-5"}}, nil},
		{"Missing Order", `{"type":"selectOrder","orderId":6}`, nil, ErrOrderNotFound},
		{"Unknown", `{"type":"explode"}`, nil, ErrUnknownMessage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := DecodeMsg([]byte(tc.body), orders)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, msg)
		})
	}
}

type orderLookupStub map[int64]models.Order

func (o orderLookupStub) Find(id int64) (models.Order, bool) {
	order, ok := o[id]
	return order, ok
}
