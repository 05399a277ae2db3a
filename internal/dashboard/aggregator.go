package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"pos-backoffice/internal/store"
)

// Aggregator keeps a Summary current by recomputing on every store change
// of a contributing collection.
type Aggregator struct {
	store       *store.Store
	opts        Options
	logger      *slog.Logger
	unsubscribe func()

	mu      sync.RWMutex
	summary Summary
}

// NewAggregator computes the initial summary and subscribes to the store
func NewAggregator(s *store.Store, opts Options, logger *slog.Logger) *Aggregator {
	a := &Aggregator{
		store:  s,
		opts:   opts,
		logger: logger,
	}
	a.recompute()
	a.unsubscribe = s.Subscribe(a.onChange)
	return a
}

func (a *Aggregator) onChange(change store.Change) {
	switch change.Collection {
	case store.CollectionProducts, store.CollectionCategories, store.CollectionInventories,
		store.CollectionOrders, store.CollectionInvoices:
		a.recompute()
	}
}

// recompute reads the store while holding the lock, so the last recompute to
// run always sees the latest collections
func (a *Aggregator) recompute() {
	a.mu.Lock()
	summary := Compute(Snapshot(a.store), a.opts)
	a.summary = summary
	a.mu.Unlock()

	a.logger.Debug("Dashboard recomputed",
		"pending_orders", summary.PendingOrders,
		"low_stock_total", summary.LowStockTotal,
	)
}

// Summary returns the latest computed state
func (a *Aggregator) Summary() Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.summary
}

// Refresh fetches all collections; the summary follows through the subscription
func (a *Aggregator) Refresh(ctx context.Context) (Summary, error) {
	err := a.store.RefreshAll(ctx)
	return a.Summary(), err
}

// Close stops listening to the store
func (a *Aggregator) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Snapshot reads the contributing collections of s
func Snapshot(s *store.Store) Input {
	products := s.Products.Snapshot()
	categories := s.Categories.Snapshot()
	inventories := s.Inventories.Snapshot()
	orders := s.Orders.Snapshot()
	invoices := s.Invoices.Snapshot()

	return Input{
		Products:    products.Items,
		Categories:  categories.Items,
		Inventories: inventories.Items,
		Orders:      orders.Items,
		Invoices:    invoices.Items,
		States: map[string]CollectionState{
			store.CollectionProducts:    {Loading: products.Loading, Error: products.Error},
			store.CollectionCategories:  {Loading: categories.Loading, Error: categories.Error},
			store.CollectionInventories: {Loading: inventories.Loading, Error: inventories.Error},
			store.CollectionOrders:      {Loading: orders.Loading, Error: orders.Error},
			store.CollectionInvoices:    {Loading: invoices.Loading, Error: invoices.Error},
		},
	}
}
