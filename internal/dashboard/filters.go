package dashboard

import (
	"strings"

	"pos-backoffice/internal/models"
)

type StockFilter string

const (
	StockAll StockFilter = "all"
	StockLow StockFilter = "low"
	StockOK  StockFilter = "ok"
)

// ParseStockFilter maps unknown values to StockAll
func ParseStockFilter(value string) StockFilter {
	switch StockFilter(strings.ToLower(value)) {
	case StockLow:
		return StockLow
	case StockOK:
		return StockOK
	default:
		return StockAll
	}
}

func contains(field, query string) bool {
	return strings.Contains(strings.ToLower(field), query)
}

// FilterOrders matches number, status or notes, case-insensitively
func FilterOrders(orders []models.Order, query string) []models.Order {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return orders
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if contains(o.OrderNumber, query) || contains(string(o.Status), query) || contains(o.Notes, query) {
			out = append(out, o)
		}
	}
	return out
}

// FilterInvoices matches number, status or notes, case-insensitively
func FilterInvoices(invoices []models.Invoice, query string) []models.Invoice {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return invoices
	}

	out := make([]models.Invoice, 0, len(invoices))
	for _, i := range invoices {
		if contains(i.InvoiceNumber, query) || contains(string(i.Status), query) || contains(i.Notes, query) {
			out = append(out, i)
		}
	}
	return out
}

// FilterProducts matches name, barcode or SKU, case-insensitively
func FilterProducts(products []models.Product, query string) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if contains(p.Name, query) || contains(p.BarCode, query) || contains(p.SKU, query) {
			out = append(out, p)
		}
	}
	return out
}

// FilterCategories matches name or description
func FilterCategories(categories []models.Category, query string) []models.Category {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return categories
	}

	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if contains(c.Name, query) || contains(c.Description, query) {
			out = append(out, c)
		}
	}
	return out
}

// FilterInventories keeps rows by stock state and product name
func FilterInventories(inventories []models.Inventory, stock StockFilter, query string) []models.Inventory {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Inventory, 0, len(inventories))
	for _, inv := range inventories {
		switch stock {
		case StockLow:
			if !inv.IsLowStock() {
				continue
			}
		case StockOK:
			if inv.IsLowStock() {
				continue
			}
		}
		if query != "" && !contains(inv.ProductName(), query) && !contains(inv.Location, query) {
			continue
		}
		out = append(out, inv)
	}
	return out
}
