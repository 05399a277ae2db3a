package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pos-backoffice/internal/client"
)

// Entity is anything with a server-assigned id
type Entity interface {
	GetID() int64
}

// Remote is the backend surface a repository synchronizes with; *client.Resource satisfies it
type Remote[T Entity, P any] interface {
	Name() string
	Supports(op client.Op) bool
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload P) (T, error)
	Update(ctx context.Context, id int64, payload P) (T, error)
	Delete(ctx context.Context, id int64) error
}

// StaleRecorder counts responses dropped because a newer one was already applied
type StaleRecorder interface {
	RecordStale(ctx context.Context, collection, operation string)
}

// Messages are the user-facing fallbacks used when the backend sends no message
type Messages struct {
	Fetch  string
	Create string
	Update string
	Delete string
}

// DefaultMessages builds the fallbacks for a collection label, e.g. "productos"
func DefaultMessages(label string) Messages {
	return Messages{
		Fetch:  "Error cargando " + label,
		Create: "Error creando " + label,
		Update: "Error actualizando " + label,
		Delete: "Error eliminando " + label,
	}
}

// Snapshot is a copy of a collection's state
type Snapshot[T Entity] struct {
	Items      []T       `json:"items"`
	Loading    bool      `json:"loading"`
	Error      string    `json:"error,omitempty"`
	LastSynced time.Time `json:"lastSynced,omitempty"`
}

// CollectionStatus is a repository's sync state without its items
type CollectionStatus struct {
	Name       string     `json:"name"`
	Count      int        `json:"count"`
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`
	LastSynced *time.Time `json:"lastSynced,omitempty"`
}

// Repository keeps one collection in sync with the backend.
// Every request takes a sequence number when issued; responses older than
// what was already applied are dropped instead of overwriting newer state.
type Repository[T Entity, P any] struct {
	remote   Remote[T, P]
	messages Messages
	logger   *slog.Logger
	stale    StaleRecorder
	notify   func(Change)

	mu           sync.RWMutex
	items        []T
	pending      int
	errMsg       string
	lastSynced   time.Time
	seq          uint64
	appliedFetch uint64
	mutatedAt    map[int64]uint64
	deletedAt    map[int64]uint64
}

func NewRepository[T Entity, P any](remote Remote[T, P], messages Messages, logger *slog.Logger) *Repository[T, P] {
	return &Repository[T, P]{
		remote:    remote,
		messages:  messages,
		logger:    logger.With("collection", remote.Name()),
		mutatedAt: make(map[int64]uint64),
		deletedAt: make(map[int64]uint64),
	}
}

// Name is the backend collection name, e.g. "products"
func (r *Repository[T, P]) Name() string {
	return r.remote.Name()
}

func (r *Repository[T, P]) Supports(op client.Op) bool {
	return r.remote.Supports(op)
}

func (r *Repository[T, P]) setNotifier(fn func(Change)) {
	r.notify = fn
}

func (r *Repository[T, P]) setStaleRecorder(rec StaleRecorder) {
	r.stale = rec
}

func (r *Repository[T, P]) publish(op ChangeOp) {
	if r.notify != nil {
		r.notify(Change{Collection: r.remote.Name(), Op: op})
	}
}

func (r *Repository[T, P]) next() uint64 {
	r.seq++
	return r.seq
}

func (r *Repository[T, P]) discard(ctx context.Context, operation string, seq uint64) {
	r.logger.Info("Discarding stale response", "operation", operation, "sequence", seq)
	if r.stale != nil {
		r.stale.RecordStale(ctx, r.remote.Name(), operation)
	}
}

// fail stores the message shown to the user and returns err wrapped with context
func (r *Repository[T, P]) fail(op client.Op, err error, fallback string) error {
	r.errMsg = client.MessageOr(err, fallback)
	r.logger.Error("Repository operation failed", "operation", op.String(), "error", err)
	return fmt.Errorf("%s %s: %w", op, r.remote.Name(), err)
}

// FetchAll replaces the collection with the server's list
func (r *Repository[T, P]) FetchAll(ctx context.Context) error {
	if !r.remote.Supports(client.OpList) {
		return fmt.Errorf("list %s: %w", r.remote.Name(), client.ErrOperationNotSupported)
	}

	r.mu.Lock()
	seq := r.next()
	r.pending++
	r.errMsg = ""
	r.mu.Unlock()
	r.publish(ChangeLoading)

	items, err := r.remote.List(ctx)

	r.mu.Lock()
	r.pending--
	if seq < r.appliedFetch {
		r.mu.Unlock()
		r.discard(ctx, "fetch", seq)
		r.publish(ChangeLoading)
		return nil
	}
	if err != nil {
		wrapped := r.fail(client.OpList, err, r.messages.Fetch)
		r.mu.Unlock()
		r.publish(ChangeError)
		return wrapped
	}

	r.items = r.reconcile(items, seq)
	r.appliedFetch = seq
	r.lastSynced = time.Now()
	count := len(r.items)
	r.mu.Unlock()

	r.logger.Debug("Collection fetched", "count", count, "sequence", seq)
	r.publish(ChangeFetched)
	return nil
}

// reconcile keeps mutations confirmed after the fetch was issued. Caller holds mu.
func (r *Repository[T, P]) reconcile(fetched []T, seq uint64) []T {
	local := make(map[int64]T, len(r.items))
	for _, item := range r.items {
		local[item.GetID()] = item
	}

	result := make([]T, 0, len(fetched)+len(r.mutatedAt))
	seen := make(map[int64]bool, len(fetched))
	for _, item := range fetched {
		id := item.GetID()
		if r.deletedAt[id] > seq {
			continue
		}
		if r.mutatedAt[id] > seq {
			if newer, ok := local[id]; ok {
				item = newer
			}
		}
		seen[id] = true
		result = append(result, item)
	}

	// Local order keeps creates at the end in the order they were confirmed
	for _, item := range r.items {
		id := item.GetID()
		if r.mutatedAt[id] > seq && !seen[id] {
			seen[id] = true
			result = append(result, item)
		}
	}

	for id, at := range r.mutatedAt {
		if at <= seq {
			delete(r.mutatedAt, id)
		}
	}
	for id, at := range r.deletedAt {
		if at <= seq {
			delete(r.deletedAt, id)
		}
	}

	return result
}

// Create sends payload and upserts the confirmed entity by id
func (r *Repository[T, P]) Create(ctx context.Context, payload P) (T, error) {
	var zero T
	if !r.remote.Supports(client.OpCreate) {
		return zero, fmt.Errorf("create %s: %w", r.remote.Name(), client.ErrOperationNotSupported)
	}

	r.mu.Lock()
	seq := r.next()
	r.mu.Unlock()

	created, err := r.remote.Create(ctx, payload)

	r.mu.Lock()
	if err != nil {
		wrapped := r.fail(client.OpCreate, err, r.messages.Create)
		r.mu.Unlock()
		r.publish(ChangeError)
		return zero, wrapped
	}

	r.upsert(created)
	r.mutatedAt[created.GetID()] = seq
	r.mu.Unlock()

	r.logger.Info("Entity created", "id", created.GetID())
	r.publish(ChangeCreated)
	return created, nil
}

// Update sends payload and replaces the entity with the same id in place
func (r *Repository[T, P]) Update(ctx context.Context, id int64, payload P) (T, error) {
	var zero T
	if !r.remote.Supports(client.OpUpdate) {
		return zero, fmt.Errorf("update %s: %w", r.remote.Name(), client.ErrOperationNotSupported)
	}

	r.mu.Lock()
	seq := r.next()
	r.mu.Unlock()

	updated, err := r.remote.Update(ctx, id, payload)

	r.mu.Lock()
	if err != nil {
		wrapped := r.fail(client.OpUpdate, err, r.messages.Update)
		r.mu.Unlock()
		r.publish(ChangeError)
		return zero, wrapped
	}

	if r.mutatedAt[updated.GetID()] > seq || r.deletedAt[updated.GetID()] > seq {
		r.mu.Unlock()
		r.discard(ctx, "update", seq)
		return updated, nil
	}

	r.replace(updated)
	r.mutatedAt[updated.GetID()] = seq
	r.mu.Unlock()

	r.logger.Info("Entity updated", "id", updated.GetID())
	r.publish(ChangeUpdated)
	return updated, nil
}

// Delete removes the entity after the backend confirms
func (r *Repository[T, P]) Delete(ctx context.Context, id int64) error {
	if !r.remote.Supports(client.OpDelete) {
		return fmt.Errorf("delete %s: %w", r.remote.Name(), client.ErrOperationNotSupported)
	}

	r.mu.Lock()
	seq := r.next()
	r.mu.Unlock()

	err := r.remote.Delete(ctx, id)

	r.mu.Lock()
	if err != nil {
		wrapped := r.fail(client.OpDelete, err, r.messages.Delete)
		r.mu.Unlock()
		r.publish(ChangeError)
		return wrapped
	}

	filtered := r.items[:0:0]
	for _, item := range r.items {
		if item.GetID() != id {
			filtered = append(filtered, item)
		}
	}
	r.items = filtered
	r.deletedAt[id] = seq
	delete(r.mutatedAt, id)
	r.mu.Unlock()

	r.logger.Info("Entity deleted", "id", id)
	r.publish(ChangeDeleted)
	return nil
}

// upsert appends or replaces by id. Caller holds mu.
func (r *Repository[T, P]) upsert(entity T) {
	if !r.replace(entity) {
		r.items = append(r.items, entity)
	}
}

// replace swaps the entity with the same id and reports whether one was found. Caller holds mu.
func (r *Repository[T, P]) replace(entity T) bool {
	for i, item := range r.items {
		if item.GetID() == entity.GetID() {
			items := make([]T, len(r.items))
			copy(items, r.items)
			items[i] = entity
			r.items = items
			return true
		}
	}
	return false
}

// Snapshot returns a copy safe to read without the lock
func (r *Repository[T, P]) Snapshot() Snapshot[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]T, len(r.items))
	copy(items, r.items)
	return Snapshot[T]{
		Items:      items,
		Loading:    r.pending > 0,
		Error:      r.errMsg,
		LastSynced: r.lastSynced,
	}
}

func (r *Repository[T, P]) Status() CollectionStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := CollectionStatus{
		Name:    r.remote.Name(),
		Count:   len(r.items),
		Loading: r.pending > 0,
		Error:   r.errMsg,
	}
	if !r.lastSynced.IsZero() {
		synced := r.lastSynced
		status.LastSynced = &synced
	}
	return status
}

// Find returns the entity with id, if present
func (r *Repository[T, P]) Find(id int64) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Reset drops all state, used when the session ends
func (r *Repository[T, P]) Reset() {
	r.mu.Lock()
	r.items = nil
	r.errMsg = ""
	r.lastSynced = time.Time{}
	r.appliedFetch = r.next()
	r.mutatedAt = make(map[int64]uint64)
	r.deletedAt = make(map[int64]uint64)
	r.mu.Unlock()

	r.publish(ChangeReset)
}
