package models

import "strings"

type CategoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (p CategoryPayload) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(p.Name) == "" {
		errs = errs.Add("name", "is required")
	}
	return errs.OrNil()
}

type ProductPayload struct {
	SKU           string   `json:"sku"`
	Brand         string   `json:"brand,omitempty"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	BarCode       string   `json:"barCode"`
	MeasureUnit   string   `json:"measureUnit,omitempty"`
	CostPrice     *float64 `json:"costPrice"`
	IsActive      *bool    `json:"isActive,omitempty"`
	TaxPercentage *float64 `json:"taxPercentage,omitempty"`
	CategoryIDs   []int64  `json:"categoryIds,omitempty"`
}

func (p ProductPayload) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(p.SKU) == "" {
		errs = errs.Add("sku", "is required")
	}
	if strings.TrimSpace(p.BarCode) == "" {
		errs = errs.Add("barCode", "is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = errs.Add("name", "is required")
	}
	if p.CostPrice == nil {
		errs = errs.Add("costPrice", "is required")
	} else if *p.CostPrice < 0 {
		errs = errs.Add("costPrice", "must not be negative")
	}
	if p.TaxPercentage != nil && *p.TaxPercentage < 0 {
		errs = errs.Add("taxPercentage", "must not be negative")
	}
	return errs.OrNil()
}

type InventoryPayload struct {
	ProductID       int64  `json:"productId"`
	Quantity        int    `json:"quantity"`
	MinStock        int    `json:"minStock"`
	MaxStock        int    `json:"maxStock"`
	LastRestockDate string `json:"lastRestockDate,omitempty"`
	Location        string `json:"location,omitempty"`
}

// NewInventoryPayload returns the form defaults used when stocking a new product
func NewInventoryPayload() InventoryPayload {
	return InventoryPayload{MinStock: 5, MaxStock: 100}
}

func (p InventoryPayload) Validate() error {
	var errs ValidationErrors
	if p.ProductID <= 0 {
		errs = errs.Add("productId", "is required")
	}
	if p.Quantity < 0 {
		errs = errs.Add("quantity", "must not be negative")
	}
	if p.MinStock < 0 {
		errs = errs.Add("minStock", "must not be negative")
	}
	if p.MaxStock < 0 {
		errs = errs.Add("maxStock", "must not be negative")
	}
	return errs.OrNil()
}

// LineItemPayload is one submitted row of an order or invoice
type LineItemPayload struct {
	ProductID   int64   `json:"productId"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type OrderPayload struct {
	OrderNumber     string            `json:"orderNumber"`
	Status          OrderStatus       `json:"status"`
	Subtotal        float64           `json:"subtotal"`
	TaxAmount       float64           `json:"taxAmount"`
	ShippingAmount  float64           `json:"shippingAmount"`
	TotalAmount     float64           `json:"totalAmount"`
	ShippingAddress string            `json:"shippingAddress,omitempty"`
	BillingAddress  string            `json:"billingAddress,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	TaxRate         float64           `json:"taxRate"`
	Items           []LineItemPayload `json:"items"`
}

type InvoicePayload struct {
	InvoiceNumber string            `json:"invoiceNumber"`
	OrderID       int64             `json:"orderId"`
	IssueDate     string            `json:"issueDate"`
	DueDate       string            `json:"dueDate,omitempty"`
	Subtotal      float64           `json:"subtotal"`
	TaxAmount     float64           `json:"taxAmount"`
	TotalAmount   float64           `json:"totalAmount"`
	TaxRate       float64           `json:"taxRate"`
	Status        InvoiceStatus     `json:"status"`
	PaymentMethod PaymentMethod     `json:"paymentMethod"`
	PaymentDate   string            `json:"paymentDate,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Items         []LineItemPayload `json:"items"`
}

// NoPayload marks resources the console never updates
type NoPayload struct{}
