package money

// LineItem is one row of an order or invoice draft. ProductID zero means no product chosen.
type LineItem struct {
	ProductID   int64   `json:"productId"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// BlankItem returns the placeholder row used when a draft opens or grows
func BlankItem() LineItem {
	return LineItem{Quantity: 1}
}

// Total returns quantity times unit price
func (l LineItem) Total() float64 {
	return LineTotal(l.Quantity, l.UnitPrice)
}

// Totals holds the derived amounts of a draft
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"taxAmount"`
	Shipping    float64 `json:"shippingAmount"`
	TotalAmount float64 `json:"totalAmount"`
}

func LineTotal(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// ComputeTotals sums the rows, applies taxRatePercent to the subtotal and adds shipping.
// Inputs are not validated and nothing is rounded; rounding belongs to display.
func ComputeTotals(items []LineItem, taxRatePercent, shipping float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Total()
	}

	tax := subtotal * taxRatePercent / 100

	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		Shipping:    shipping,
		TotalAmount: subtotal + tax + shipping,
	}
}
