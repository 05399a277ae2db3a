package draft

import (
	"fmt"
	"strings"

	"pos-backoffice/internal/models"
	"pos-backoffice/internal/money"
)

// Validate checks what the backend would reject. The reducer itself accepts any number.
func (d *Draft) Validate() error {
	var errs models.ValidationErrors

	switch d.kind {
	case KindOrder:
		if strings.TrimSpace(d.order.OrderNumber) == "" {
			errs = errs.Add("orderNumber", "is required")
		}
		if !d.order.Status.Valid() {
			errs = errs.Add("status", "is not a valid order status")
		}
		if d.shipping < 0 {
			errs = errs.Add("shippingAmount", "must not be negative")
		}
	case KindInvoice:
		if strings.TrimSpace(d.invoice.InvoiceNumber) == "" {
			errs = errs.Add("invoiceNumber", "is required")
		}
		if strings.TrimSpace(d.invoice.IssueDate) == "" {
			errs = errs.Add("issueDate", "is required")
		}
		if !d.invoice.Status.Valid() {
			errs = errs.Add("status", "is not a valid invoice status")
		}
		if !d.invoice.PaymentMethod.Valid() {
			errs = errs.Add("paymentMethod", "is not a valid payment method")
		}
	}

	if d.taxRate < 0 {
		errs = errs.Add("taxRate", "must not be negative")
	}

	withProduct := 0
	for i, item := range d.items {
		if item.Quantity < 0 {
			errs = errs.Add(fmt.Sprintf("items[%d].quantity", i), "must not be negative")
		}
		if item.UnitPrice < 0 {
			errs = errs.Add(fmt.Sprintf("items[%d].unitPrice", i), "must not be negative")
		}
		if item.ProductID > 0 {
			withProduct++
		}
	}
	if withProduct == 0 {
		errs = errs.Add("items", "need at least one line with a product")
	}

	return errs.OrNil()
}

// submittedItems drops rows without a product
func (d *Draft) submittedItems() []models.LineItemPayload {
	out := make([]models.LineItemPayload, 0, len(d.items))
	for _, item := range d.items {
		if item.ProductID <= 0 {
			continue
		}
		out = append(out, models.LineItemPayload{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return out
}

// OrderPayload validates and builds the create body of an order draft
func (d *Draft) OrderPayload() (models.OrderPayload, error) {
	if d.kind != KindOrder {
		return models.OrderPayload{}, fmt.Errorf("order payload from %s draft: %w", d.kind, ErrWrongKind)
	}
	if err := d.Validate(); err != nil {
		return models.OrderPayload{}, err
	}

	return models.OrderPayload{
		OrderNumber:     d.order.OrderNumber,
		Status:          d.order.Status,
		Subtotal:        d.totals.Subtotal,
		TaxAmount:       d.totals.TaxAmount,
		ShippingAmount:  d.totals.Shipping,
		TotalAmount:     d.totals.TotalAmount,
		ShippingAddress: d.order.ShippingAddress,
		BillingAddress:  d.order.BillingAddress,
		Notes:           d.order.Notes,
		TaxRate:         d.taxRate,
		Items:           d.submittedItems(),
	}, nil
}

// InvoicePayload validates and builds the create body of an invoice draft
func (d *Draft) InvoicePayload() (models.InvoicePayload, error) {
	if d.kind != KindInvoice {
		return models.InvoicePayload{}, fmt.Errorf("invoice payload from %s draft: %w", d.kind, ErrWrongKind)
	}
	if err := d.Validate(); err != nil {
		return models.InvoicePayload{}, err
	}

	return models.InvoicePayload{
		InvoiceNumber: d.invoice.InvoiceNumber,
		OrderID:       d.invoice.OrderID,
		IssueDate:     d.invoice.IssueDate,
		DueDate:       d.invoice.DueDate,
		Subtotal:      d.totals.Subtotal,
		TaxAmount:     d.totals.TaxAmount,
		TotalAmount:   d.totals.TotalAmount,
		TaxRate:       d.taxRate,
		Status:        d.invoice.Status,
		PaymentMethod: d.invoice.PaymentMethod,
		Notes:         d.invoice.Notes,
		Items:         d.submittedItems(),
	}, nil
}

// View is the JSON shape of a draft
type View struct {
	Kind    Kind             `json:"kind"`
	Order   *OrderHeader     `json:"order,omitempty"`
	Invoice *InvoiceHeader   `json:"invoice,omitempty"`
	Items   []money.LineItem `json:"items"`
	TaxRate float64          `json:"taxRate"`
	Totals  money.Totals     `json:"totals"`
}

func (d *Draft) View() View {
	v := View{
		Kind:    d.kind,
		Items:   d.Items(),
		TaxRate: d.taxRate,
		Totals:  d.totals,
	}
	switch d.kind {
	case KindOrder:
		header := d.order
		v.Order = &header
	case KindInvoice:
		header := d.invoice
		v.Invoice = &header
	}
	return v
}
