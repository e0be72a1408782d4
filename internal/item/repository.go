package item

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
)

var (
	ErrNotFound      = apperror.New(apperror.NotFound, "Item not found")
	ErrMissingFields = apperror.New(apperror.InvalidArgument, "name, description, price and formationDate are required")
	ErrInvalidPrice  = apperror.New(apperror.InvalidArgument, "price must not be negative")
	ErrAdminsOnly    = apperror.New(apperror.Forbidden, "Forbidden: Admins only")
)

type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (Item, error)
	// ListByIDs returns the items that exist among ids, in no particular order.
	ListByIDs(ctx context.Context, ids []string) ([]Item, error)
	Create(ctx context.Context, it Item) (Item, error)
	Update(ctx context.Context, it Item) (Item, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// the memory store driver.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Item
}

func NewInMemoryRepository(seed []Item) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Item, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) List(_ context.Context) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, len(r.storage))
	copy(out, r.storage)
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.storage {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) ListByIDs(_ context.Context, ids []string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]Item, 0, len(ids))
	for _, it := range r.storage {
		if _, ok := want[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(_ context.Context, it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	r.storage = append(r.storage, it)
	return it, nil
}

func (r *InMemoryRepository) Update(_ context.Context, it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == it.ID {
			it.ID = r.storage[i].ID
			r.storage[i] = it
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
