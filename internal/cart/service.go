package cart

import (
	"context"
	"errors"
	"time"

	"github.com/FrigaaAbdou/show-backend/internal/auth"
	"github.com/FrigaaAbdou/show-backend/internal/item"
)

// ItemLookup resolves catalog items referenced by cart lines.
type ItemLookup interface {
	GetByID(ctx context.Context, id string) (item.Item, error)
	Summaries(ctx context.Context, ids []string) (map[string]item.Summary, error)
}

// Service orchestrates cart operations.
type Service struct {
	repo  Repository
	items ItemLookup
	now   func() time.Time
}

func NewService(repo Repository, items ItemLookup) *Service {
	return &Service{repo: repo, items: items, now: time.Now}
}

// Add merges a product into the cart of userID, creating the cart on first
// use. A nil qty means one unit.
func (s *Service) Add(ctx context.Context, p auth.Principal, userID, productID string, qty *int) (Cart, error) {
	if userID == "" {
		userID = p.ID
	}
	if !auth.CanAccess(p, userID, auth.ActionWrite) {
		return Cart{}, ErrForbidden
	}

	n := 1
	if qty != nil {
		n = *qty
	}
	if n < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	if n > MaxLineQuantity {
		return Cart{}, ErrQuantityLimit
	}

	if _, err := s.items.GetByID(ctx, productID); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return Cart{}, ErrProductNotFound
		}
		return Cart{}, err
	}

	return s.repo.AddLine(ctx, userID, productID, n, s.now().UTC())
}

func (s *Service) Read(ctx context.Context, p auth.Principal, userID string) (Snapshot, error) {
	if !auth.CanAccess(p, userID, auth.ActionRead) {
		return Snapshot{}, ErrForbidden
	}

	c, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return Snapshot{Count: 0}, nil
	}
	if err != nil {
		return Snapshot{}, err
	}

	summaries, err := s.items.Summaries(ctx, c.productIDs())
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Count: len(c.Products), Cart: c.populate(summaries)}, nil
}

// SetQuantity replaces the quantity of an existing line. Quantities below
// one are rejected before the cart is looked up.
func (s *Service) SetQuantity(ctx context.Context, p auth.Principal, userID, productID string, qty int) (Cart, error) {
	if !auth.CanAccess(p, userID, auth.ActionWrite) {
		return Cart{}, ErrForbidden
	}
	if qty < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	if qty > MaxLineQuantity {
		return Cart{}, ErrQuantityLimit
	}
	return s.repo.SetLineQuantity(ctx, userID, productID, qty, s.now().UTC())
}

func (s *Service) Remove(ctx context.Context, p auth.Principal, userID, productID string) (Cart, error) {
	if !auth.CanAccess(p, userID, auth.ActionWrite) {
		return Cart{}, ErrForbidden
	}
	return s.repo.RemoveLine(ctx, userID, productID, s.now().UTC())
}

func (s *Service) Clear(ctx context.Context, p auth.Principal, userID string) error {
	if !auth.CanAccess(p, userID, auth.ActionDelete) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return ErrAlreadyEmpty
		}
		return err
	}
	return nil
}
