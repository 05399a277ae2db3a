package draft

import (
	"pos-backoffice/internal/models"
	"pos-backoffice/internal/money"
)

// Projection is an order's content in invoice form
type Projection struct {
	OrderID int64
	Items   []money.LineItem
	Notes   string
	Totals  money.Totals
}

// ProjectOrder copies each order line with the same product, quantity and
// unit price; the description becomes the product name. Totals are recomputed
// at taxRate rather than taken from the order.
func ProjectOrder(order models.Order, taxRate float64) Projection {
	items := make([]money.LineItem, 0, len(order.OrderItems))
	for _, line := range order.OrderItems {
		item := money.LineItem{
			Description: models.DefaultProductLabel,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
		if line.Product != nil {
			item.ProductID = line.Product.ID
			if line.Product.Name != "" {
				item.Description = line.Product.Name
			}
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		items = append(items, money.BlankItem())
	}

	return Projection{
		OrderID: order.ID,
		Items:   items,
		Notes:   order.Notes,
		Totals:  money.ComputeTotals(items, taxRate, 0),
	}
}
