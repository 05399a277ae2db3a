package client

import (
	"context"
	"fmt"
	"net/http"

	"pos-backoffice/internal/models"
)

// Op is a bit set of the endpoints a resource exposes
type Op uint8

const (
	OpList Op = 1 << iota
	OpCreate
	OpUpdate
	OpDelete

	OpAll = OpList | OpCreate | OpUpdate | OpDelete
)

func (o Op) String() string {
	switch o {
	case OpList:
		return "list"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Resource is the typed REST surface of one collection: T is the entity, P the create/update payload
type Resource[T any, P any] struct {
	client *Client
	name   string
	ops    Op
}

func NewResource[T any, P any](c *Client, name string, ops Op) *Resource[T, P] {
	return &Resource[T, P]{client: c, name: name, ops: ops}
}

func (r *Resource[T, P]) Name() string { return r.name }

// Supports reports whether the backend exposes op for this resource
func (r *Resource[T, P]) Supports(op Op) bool {
	return r.ops&op != 0
}

func (r *Resource[T, P]) check(op Op) error {
	if !r.Supports(op) {
		return fmt.Errorf("%s %s: %w", op, r.name, ErrOperationNotSupported)
	}
	return nil
}

func (r *Resource[T, P]) List(ctx context.Context) ([]T, error) {
	if err := r.check(OpList); err != nil {
		return nil, err
	}
	var items []T
	if err := r.client.Do(ctx, http.MethodGet, "/"+r.name, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Resource[T, P]) Create(ctx context.Context, payload P) (T, error) {
	var created T
	if err := r.check(OpCreate); err != nil {
		return created, err
	}
	err := r.client.Do(ctx, http.MethodPost, "/"+r.name, payload, &created)
	return created, err
}

func (r *Resource[T, P]) Update(ctx context.Context, id int64, payload P) (T, error) {
	var updated T
	if err := r.check(OpUpdate); err != nil {
		return updated, err
	}
	err := r.client.Do(ctx, http.MethodPut, fmt.Sprintf("/%s/%d", r.name, id), payload, &updated)
	return updated, err
}

func (r *Resource[T, P]) Delete(ctx context.Context, id int64) error {
	if err := r.check(OpDelete); err != nil {
		return err
	}
	return r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/%s/%d", r.name, id), nil, nil)
}

func Categories(c *Client) *Resource[models.Category, models.CategoryPayload] {
	return NewResource[models.Category, models.CategoryPayload](c, "categories", OpAll)
}

func Products(c *Client) *Resource[models.Product, models.ProductPayload] {
	return NewResource[models.Product, models.ProductPayload](c, "products", OpAll)
}

func Inventories(c *Client) *Resource[models.Inventory, models.InventoryPayload] {
	return NewResource[models.Inventory, models.InventoryPayload](c, "inventories", OpList|OpCreate|OpUpdate)
}

func Orders(c *Client) *Resource[models.Order, models.OrderPayload] {
	return NewResource[models.Order, models.OrderPayload](c, "orders", OpList|OpCreate|OpDelete)
}

func Invoices(c *Client) *Resource[models.Invoice, models.InvoicePayload] {
	return NewResource[models.Invoice, models.InvoicePayload](c, "invoices", OpList|OpCreate)
}
