package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"pos-backoffice/internal/client"
	"pos-backoffice/internal/models"
)

const (
	CollectionCategories  = "categories"
	CollectionProducts    = "products"
	CollectionInventories = "inventories"
	CollectionOrders      = "orders"
	CollectionInvoices    = "invoices"
)

type ChangeOp string

const (
	ChangeLoading ChangeOp = "loading"
	ChangeFetched ChangeOp = "fetched"
	ChangeCreated ChangeOp = "created"
	ChangeUpdated ChangeOp = "updated"
	ChangeDeleted ChangeOp = "deleted"
	ChangeError   ChangeOp = "error"
	ChangeReset   ChangeOp = "reset"
)

// Change tells subscribers which collection moved
type Change struct {
	Collection string
	Op         ChangeOp
}

type (
	CategoryRepository  = Repository[models.Category, models.CategoryPayload]
	ProductRepository   = Repository[models.Product, models.ProductPayload]
	InventoryRepository = Repository[models.Inventory, models.InventoryPayload]
	OrderRepository     = Repository[models.Order, models.OrderPayload]
	InvoiceRepository   = Repository[models.Invoice, models.InvoicePayload]
)

// Store owns the five repositories and fans out their change notifications
type Store struct {
	Categories  *CategoryRepository
	Products    *ProductRepository
	Inventories *InventoryRepository
	Orders      *OrderRepository
	Invoices    *InvoiceRepository

	logger *slog.Logger

	subMutex    sync.RWMutex
	subscribers map[int]func(Change)
	nextSubID   int
}

// Remotes groups the backend resources a Store is built on
type Remotes struct {
	Categories  Remote[models.Category, models.CategoryPayload]
	Products    Remote[models.Product, models.ProductPayload]
	Inventories Remote[models.Inventory, models.InventoryPayload]
	Orders      Remote[models.Order, models.OrderPayload]
	Invoices    Remote[models.Invoice, models.InvoicePayload]
}

// RemotesFor wires every collection to its backend endpoints
func RemotesFor(c *client.Client) Remotes {
	return Remotes{
		Categories:  client.Categories(c),
		Products:    client.Products(c),
		Inventories: client.Inventories(c),
		Orders:      client.Orders(c),
		Invoices:    client.Invoices(c),
	}
}

// New builds a Store. stale may be nil.
func New(remotes Remotes, stale StaleRecorder, logger *slog.Logger) *Store {
	s := &Store{
		Categories:  NewRepository(remotes.Categories, DefaultMessages("categorías"), logger),
		Products:    NewRepository(remotes.Products, DefaultMessages("productos"), logger),
		Inventories: NewRepository(remotes.Inventories, DefaultMessages("inventarios"), logger),
		Orders:      NewRepository(remotes.Orders, DefaultMessages("órdenes"), logger),
		Invoices:    NewRepository(remotes.Invoices, DefaultMessages("facturas"), logger),
		logger:      logger,
		subscribers: make(map[int]func(Change)),
	}

	for _, repo := range s.repositories() {
		repo.setNotifier(s.broadcast)
		if stale != nil {
			repo.setStaleRecorder(stale)
		}
	}

	return s
}

type managed interface {
	Name() string
	FetchAll(ctx context.Context) error
	Reset()
	Status() CollectionStatus
	setNotifier(fn func(Change))
	setStaleRecorder(rec StaleRecorder)
}

func (s *Store) repositories() []managed {
	return []managed{s.Categories, s.Products, s.Inventories, s.Orders, s.Invoices}
}

// Status reports every collection in a fixed order
func (s *Store) Status() []CollectionStatus {
	repos := s.repositories()
	out := make([]CollectionStatus, 0, len(repos))
	for _, repo := range repos {
		out = append(out, repo.Status())
	}
	return out
}

// Subscribe registers fn for every change; the returned func removes it
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMutex.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMutex.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMutex.Lock()
			delete(s.subscribers, id)
			s.subMutex.Unlock()
		})
	}
}

// broadcast runs outside repository locks
func (s *Store) broadcast(change Change) {
	s.subMutex.RLock()
	subscribers := make([]func(Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.subMutex.RUnlock()

	for _, fn := range subscribers {
		fn(change)
	}
}

// RefreshAll fetches every collection concurrently. Each failure is also kept
// on its repository, so one failing collection does not stop the others.
func (s *Store) RefreshAll(ctx context.Context) error {
	var g errgroup.Group

	for _, repo := range s.repositories() {
		g.Go(func() error {
			if err := repo.FetchAll(ctx); err != nil {
				return fmt.Errorf("refresh %s: %w", repo.Name(), err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("Refresh finished with errors", "error", err)
		return err
	}

	s.logger.Info("All collections refreshed")
	return nil
}

// Reset clears every collection
func (s *Store) Reset() {
	for _, repo := range s.repositories() {
		repo.Reset()
	}
}
