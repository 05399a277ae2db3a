package draft

import (
	"fmt"
	"time"

	"pos-backoffice/internal/models"
	"pos-backoffice/internal/money"
)

type Kind string

const (
	KindOrder   Kind = "order"
	KindInvoice Kind = "invoice"
)

const DefaultTaxRate = 19.0

// Catalog resolves products for the order editor's back-fill
type Catalog interface {
	Find(id int64) (models.Product, bool)
}

type OrderHeader struct {
	OrderNumber     string             `json:"orderNumber"`
	Status          models.OrderStatus `json:"status"`
	ShippingAddress string             `json:"shippingAddress"`
	BillingAddress  string             `json:"billingAddress"`
	Notes           string             `json:"notes"`
}

type InvoiceHeader struct {
	InvoiceNumber string               `json:"invoiceNumber"`
	OrderID       int64                `json:"orderId"`
	IssueDate     string               `json:"issueDate"`
	DueDate       string               `json:"dueDate"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Status        models.InvoiceStatus `json:"status"`
	Notes         string               `json:"notes"`
}

// Draft is an order or invoice form being edited. Line items are never empty
// and the totals are always those of the current items, rate and shipping.
type Draft struct {
	kind     Kind
	order    OrderHeader
	invoice  InvoiceHeader
	items    []money.LineItem
	taxRate  float64
	shipping float64
	totals   money.Totals
	catalog  Catalog
}

// NewOrder opens an order draft. catalog may be nil, which disables back-fill.
func NewOrder(catalog Catalog, taxRate float64) *Draft {
	d := &Draft{
		kind:    KindOrder,
		order:   OrderHeader{Status: models.OrderStatusPending},
		items:   []money.LineItem{money.BlankItem()},
		taxRate: taxRate,
		catalog: catalog,
	}
	d.recompute()
	return d
}

// NewInvoice opens an invoice draft dated today (UTC)
func NewInvoice(taxRate float64, today time.Time) *Draft {
	date := today.UTC().Format(time.DateOnly)
	d := &Draft{
		kind: KindInvoice,
		invoice: InvoiceHeader{
			IssueDate:     date,
			DueDate:       date,
			PaymentMethod: models.PaymentMethodCash,
			Status:        models.InvoiceStatusDraft,
		},
		items:   []money.LineItem{money.BlankItem()},
		taxRate: taxRate,
	}
	d.recompute()
	return d
}

func (d *Draft) Kind() Kind { return d.kind }

func (d *Draft) Items() []money.LineItem {
	items := make([]money.LineItem, len(d.items))
	copy(items, d.items)
	return items
}

func (d *Draft) Totals() money.Totals { return d.totals }

func (d *Draft) TaxRate() float64 { return d.taxRate }

func (d *Draft) OrderHeader() OrderHeader { return d.order }

func (d *Draft) InvoiceHeader() InvoiceHeader { return d.invoice }

// SetOrderHeader replaces the non-derived order fields
func (d *Draft) SetOrderHeader(h OrderHeader) error {
	if d.kind != KindOrder {
		return fmt.Errorf("order header on %s draft: %w", d.kind, ErrWrongKind)
	}
	if h.Status == "" {
		h.Status = models.OrderStatusPending
	}
	d.order = h
	return nil
}

// SetInvoiceHeader replaces the non-derived invoice fields
func (d *Draft) SetInvoiceHeader(h InvoiceHeader) error {
	if d.kind != KindInvoice {
		return fmt.Errorf("invoice header on %s draft: %w", d.kind, ErrWrongKind)
	}
	if h.PaymentMethod == "" {
		h.PaymentMethod = models.PaymentMethodCash
	}
	if h.Status == "" {
		h.Status = models.InvoiceStatusDraft
	}
	d.invoice = h
	return nil
}

// Apply runs one transition. On error the draft is left unchanged.
func (d *Draft) Apply(msg Msg) error {
	switch m := msg.(type) {
	case AddItem:
		d.items = append(d.items, money.BlankItem())

	case RemoveItem:
		if err := d.checkIndex(m.Index); err != nil {
			return err
		}
		if len(d.items) == 1 {
			return ErrLastLineItem
		}
		items := make([]money.LineItem, 0, len(d.items)-1)
		items = append(items, d.items[:m.Index]...)
		d.items = append(items, d.items[m.Index+1:]...)

	case SetProduct:
		if err := d.checkIndex(m.Index); err != nil {
			return err
		}
		d.setProduct(m.Index, m.ProductID)

	case SetDescription:
		if err := d.checkIndex(m.Index); err != nil {
			return err
		}
		d.items[m.Index].Description = m.Description

	case SetQuantity:
		if err := d.checkIndex(m.Index); err != nil {
			return err
		}
		d.items[m.Index].Quantity = m.Quantity

	case SetUnitPrice:
		if err := d.checkIndex(m.Index); err != nil {
			return err
		}
		d.items[m.Index].UnitPrice = m.UnitPrice

	case SetTaxRate:
		d.taxRate = m.Rate

	case SetShipping:
		if d.kind != KindOrder {
			return ErrShippingNotApplicable
		}
		d.shipping = m.Amount

	case SelectOrder:
		if d.kind != KindInvoice {
			return fmt.Errorf("select order on %s draft: %w", d.kind, ErrWrongKind)
		}
		d.applyProjection(ProjectOrder(m.Order, d.taxRate))
		return nil

	default:
		return fmt.Errorf("%T: %w", msg, ErrUnknownMessage)
	}

	d.recompute()
	return nil
}

// setProduct sets the reference. Order drafts back-fill price and description
// from the catalog; invoice drafts keep what the user typed.
func (d *Draft) setProduct(index int, productID int64) {
	item := &d.items[index]
	item.ProductID = productID

	if d.kind != KindOrder || d.catalog == nil {
		return
	}
	product, ok := d.catalog.Find(productID)
	if !ok {
		return
	}
	if product.CostPrice != nil {
		item.UnitPrice = *product.CostPrice
	}
	if product.Name != "" {
		item.Description = product.Name
	}
}

func (d *Draft) applyProjection(p Projection) {
	d.invoice.OrderID = p.OrderID
	d.items = p.Items
	if p.Notes != "" {
		d.invoice.Notes = p.Notes
	}
	d.totals = p.Totals
}

func (d *Draft) checkIndex(index int) error {
	if index < 0 || index >= len(d.items) {
		return fmt.Errorf("index %d of %d: %w", index, len(d.items), ErrIndexOutOfRange)
	}
	return nil
}

func (d *Draft) recompute() {
	shipping := 0.0
	if d.kind == KindOrder {
		shipping = d.shipping
	}
	d.totals = money.ComputeTotals(d.items, d.taxRate, shipping)
}
