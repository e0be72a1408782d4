package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
)

var (
	ErrProductNotFound = apperror.New(apperror.NotFound, "Product not found")
	ErrInvalidQuantity = apperror.New(apperror.InvalidArgument, "Quantity must be at least 1")
	ErrQuantityLimit   = apperror.New(apperror.InvalidArgument, fmt.Sprintf("Quantity must be at most %d", MaxLineQuantity))
	ErrCartNotFound    = apperror.New(apperror.NotFound, "Cart not found")
	ErrLineNotFound    = apperror.New(apperror.NotFound, "Product not found in cart")
	ErrAlreadyEmpty    = apperror.New(apperror.NotFound, "Cart is already empty")
	ErrForbidden       = apperror.New(apperror.Forbidden, "Forbidden")
)

// Repository stores one cart per user. Every mutation is atomic with
// respect to concurrent mutations of the same cart.
type Repository interface {
	Get(ctx context.Context, userID string) (Cart, error)
	// AddLine creates the cart if needed and merges qty into the product line.
	AddLine(ctx context.Context, userID, productID string, qty int, now time.Time) (Cart, error)
	SetLineQuantity(ctx context.Context, userID, productID string, qty int, now time.Time) (Cart, error)
	RemoveLine(ctx context.Context, userID, productID string, now time.Time) (Cart, error)
	Delete(ctx context.Context, userID string) error
}

// InMemoryRepository is used for tests and the memory store driver.
type InMemoryRepository struct {
	mu    sync.Mutex
	carts map[string]Cart
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[string]Cart)}
}

func (r *InMemoryRepository) Get(_ context.Context, userID string) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		return Cart{}, ErrCartNotFound
	}
	return c.clone(), nil
}

func (r *InMemoryRepository) AddLine(_ context.Context, userID, productID string, qty int, now time.Time) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// ids may alias request buffers; the map outlives the request
	userID, productID = strings.Clone(userID), strings.Clone(productID)

	c, ok := r.carts[userID]
	if !ok {
		c = Cart{UserID: userID, Products: []Line{}, CreatedAt: now}
	}
	if err := c.Add(productID, qty); err != nil {
		return Cart{}, err
	}
	c.UpdatedAt = now
	r.carts[userID] = c
	return c.clone(), nil
}

func (r *InMemoryRepository) SetLineQuantity(_ context.Context, userID, productID string, qty int, now time.Time) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		return Cart{}, ErrCartNotFound
	}
	if !c.SetQuantity(productID, qty) {
		return Cart{}, ErrLineNotFound
	}
	c.UpdatedAt = now
	r.carts[userID] = c
	return c.clone(), nil
}

func (r *InMemoryRepository) RemoveLine(_ context.Context, userID, productID string, now time.Time) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		return Cart{}, ErrCartNotFound
	}
	c.Remove(productID)
	c.UpdatedAt = now
	r.carts[userID] = c
	return c.clone(), nil
}

func (r *InMemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[userID]; !ok {
		return ErrCartNotFound
	}
	delete(r.carts, userID)
	return nil
}
