package dashboard

import (
	"pos-backoffice/internal/models"
)

const (
	DefaultLowStockPreview = 10
	DefaultRecentPreview   = 5
)

// Options bound the preview lists
type Options struct {
	LowStockPreview int
	RecentPreview   int
}

func (o Options) withDefaults() Options {
	if o.LowStockPreview <= 0 {
		o.LowStockPreview = DefaultLowStockPreview
	}
	if o.RecentPreview <= 0 {
		o.RecentPreview = DefaultRecentPreview
	}
	return o
}

// CollectionState carries loading and error flags of an upstream collection
type CollectionState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Input is a consistent read of the collections the dashboard depends on
type Input struct {
	Products    []models.Product
	Categories  []models.Category
	Inventories []models.Inventory
	Orders      []models.Order
	Invoices    []models.Invoice
	States      map[string]CollectionState
}

// LowStockEntry is one row of the low-stock preview
type LowStockEntry struct {
	InventoryID int64  `json:"inventoryId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	MinStock    int    `json:"minStock"`
}

// Summary is the derived dashboard state
type Summary struct {
	TotalStockValue float64                    `json:"totalStockValue"`
	TotalSales      float64                    `json:"totalSales"`
	PendingOrders   int                        `json:"pendingOrders"`
	LowStock        []LowStockEntry            `json:"lowStock"`
	LowStockTotal   int                        `json:"lowStockTotal"`
	ProductCount    int                        `json:"productCount"`
	CategoryCount   int                        `json:"categoryCount"`
	RecentOrders    []models.Order             `json:"recentOrders"`
	RecentInvoices  []models.Invoice           `json:"recentInvoices"`
	Collections     map[string]CollectionState `json:"collections,omitempty"`
}

// Compute derives the summary. It is pure and never fails: missing
// numeric fields count as zero and upstream errors are only carried along.
func Compute(in Input, opts Options) Summary {
	opts = opts.withDefaults()

	summary := Summary{
		LowStock:       []LowStockEntry{},
		ProductCount:   len(in.Products),
		CategoryCount:  len(in.Categories),
		RecentOrders:   head(in.Orders, opts.RecentPreview),
		RecentInvoices: head(in.Invoices, opts.RecentPreview),
		Collections:    in.States,
	}

	for _, inv := range in.Inventories {
		if inv.Product != nil {
			summary.TotalStockValue += inv.Product.Cost() * float64(inv.Quantity)
		}

		if inv.IsLowStock() {
			summary.LowStockTotal++
			if len(summary.LowStock) < opts.LowStockPreview {
				summary.LowStock = append(summary.LowStock, LowStockEntry{
					InventoryID: inv.ID,
					ProductName: inv.ProductName(),
					Quantity:    inv.Quantity,
					MinStock:    inv.MinStock,
				})
			}
		}
	}

	for _, invoice := range in.Invoices {
		summary.TotalSales += invoice.TotalAmount
	}

	for _, order := range in.Orders {
		if order.Status.IsOpen() {
			summary.PendingOrders++
		}
	}

	return summary
}

func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
