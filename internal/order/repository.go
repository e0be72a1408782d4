package order

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
)

var (
	ErrNotFound        = apperror.New(apperror.NotFound, "Order not found")
	ErrForbidden       = apperror.New(apperror.Forbidden, "Forbidden")
	ErrNotDeletable    = apperror.New(apperror.Forbidden, "Order cannot be deleted after it is processed")
	ErrCancelOnly      = apperror.New(apperror.Forbidden, "Only admins can change an order other than cancelling it")
	ErrInvalidStatus   = apperror.New(apperror.InvalidArgument, "Status must be one of pending, processing, confirmed, cancelled")
	ErrInvalidQuantity = apperror.New(apperror.InvalidArgument, "Quantity must be at least 1")
	ErrInvalidTotal    = apperror.New(apperror.InvalidArgument, "totalPrice is required and must not be negative")
	ErrNoProducts      = apperror.New(apperror.InvalidArgument, "Order must contain at least one product")
	ErrProductNotFound = apperror.New(apperror.NotFound, "Product not found")
)

// Repository defines persistence operations for orders.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	Create(ctx context.Context, ord Order) (Order, error)
	// Update replaces the mutable fields of ord: products, totalPrice, status
	// and updatedAt.
	Update(ctx context.Context, ord Order) (Order, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is used for tests and the memory store driver.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{orders: make(map[string]Order, len(seed))}
	for _, o := range seed {
		r.orders[o.ID] = o
	}
	return r
}

func (r *InMemoryRepository) List(_ context.Context) ([]Order, error) {
	return r.filter(func(Order) bool { return true }), nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]Order, error) {
	return r.filter(func(o Order) bool { return o.User == userID }), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *InMemoryRepository) Create(_ context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ord.ID == "" {
		ord.ID = uuid.NewString()
	}
	r.orders[ord.ID] = cloneOrder(ord)
	return ord, nil
}

func (r *InMemoryRepository) Update(_ context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.orders[ord.ID]
	if !ok {
		return Order{}, ErrNotFound
	}
	existing.Products = ord.Products
	existing.TotalPrice = ord.TotalPrice
	existing.Status = ord.Status
	existing.UpdatedAt = ord.UpdatedAt
	r.orders[existing.ID] = cloneOrder(existing)
	return existing, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

// filter returns matching orders newest first.
func (r *InMemoryRepository) filter(keep func(Order) bool) []Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func cloneOrder(o Order) Order {
	lines := make([]Line, len(o.Products))
	copy(lines, o.Products)
	o.Products = lines
	return o
}
