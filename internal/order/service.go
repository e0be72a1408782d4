package order

import (
	"context"
	"time"

	"github.com/FrigaaAbdou/show-backend/internal/auth"
	"github.com/FrigaaAbdou/show-backend/internal/item"
)

// ItemLookup resolves catalog items referenced by order lines.
type ItemLookup interface {
	Summaries(ctx context.Context, ids []string) (map[string]item.Summary, error)
}

// Service provides business logic for orders.
type Service struct {
	repo  Repository
	items ItemLookup
	now   func() time.Time
}

func NewService(r Repository, items ItemLookup) *Service {
	return &Service{repo: r, items: items, now: time.Now}
}

// Create places a pending order owned by the caller. totalPrice is taken as
// given.
func (s *Service) Create(ctx context.Context, p auth.Principal, lines []LineInput, totalPrice *float64) (PopulatedOrder, error) {
	if totalPrice == nil || *totalPrice < 0 {
		return PopulatedOrder{}, ErrInvalidTotal
	}
	resolved, summaries, err := s.resolveLines(ctx, lines)
	if err != nil {
		return PopulatedOrder{}, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, Order{
		User:       p.ID,
		Products:   resolved,
		TotalPrice: *totalPrice,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return PopulatedOrder{}, err
	}
	return created.populate(summaries), nil
}

// List returns every order for admins and the caller's own orders otherwise.
func (s *Service) List(ctx context.Context, p auth.Principal) ([]PopulatedOrder, error) {
	var (
		orders []Order
		err    error
	)
	if p.IsAdmin() {
		orders, err = s.repo.List(ctx)
	} else {
		orders, err = s.repo.ListByUser(ctx, p.ID)
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, o := range orders {
		ids = append(ids, o.productIDs()...)
	}
	summaries, err := s.items.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PopulatedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.populate(summaries))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (PopulatedOrder, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PopulatedOrder{}, err
	}
	if !auth.CanAccess(p, o.User, auth.ActionRead) {
		return PopulatedOrder{}, ErrForbidden
	}
	return s.populate(ctx, o)
}

// Update applies patch. Owners who are not admins may only cancel.
func (s *Service) Update(ctx context.Context, p auth.Principal, id string, patch Patch) (PopulatedOrder, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PopulatedOrder{}, err
	}
	if !auth.CanAccess(p, o.User, auth.ActionWrite) {
		return PopulatedOrder{}, ErrForbidden
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return PopulatedOrder{}, ErrInvalidStatus
	}
	if !p.IsAdmin() {
		if patch.Products != nil || patch.TotalPrice != nil {
			return PopulatedOrder{}, ErrCancelOnly
		}
		if patch.Status != nil && *patch.Status != StatusCancelled {
			return PopulatedOrder{}, ErrCancelOnly
		}
	}
	if patch.empty() {
		return s.populate(ctx, o)
	}

	if patch.Products != nil {
		resolved, _, err := s.resolveLines(ctx, patch.Products)
		if err != nil {
			return PopulatedOrder{}, err
		}
		o.Products = resolved
	}
	if patch.TotalPrice != nil {
		if *patch.TotalPrice < 0 {
			return PopulatedOrder{}, ErrInvalidTotal
		}
		o.TotalPrice = *patch.TotalPrice
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	o.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		return PopulatedOrder{}, err
	}
	return s.populate(ctx, updated)
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanAccess(p, o.User, auth.ActionDelete) {
		return ErrForbidden
	}
	if !auth.CanDeleteOrder(p, o.User, o.Status == StatusPending) {
		return ErrNotDeletable
	}
	return s.repo.Delete(ctx, id)
}

// resolveLines applies the quantity default and checks that every product
// exists in the catalog.
func (s *Service) resolveLines(ctx context.Context, inputs []LineInput) ([]Line, map[string]item.Summary, error) {
	if len(inputs) == 0 {
		return nil, nil, ErrNoProducts
	}

	lines := make([]Line, 0, len(inputs))
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		qty := 1
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		if qty < 1 {
			return nil, nil, ErrInvalidQuantity
		}
		lines = append(lines, Line{Product: in.Product, Quantity: qty})
		ids = append(ids, in.Product)
	}

	summaries, err := s.items.Summaries(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		if _, ok := summaries[id]; !ok {
			return nil, nil, ErrProductNotFound
		}
	}
	return lines, summaries, nil
}

func (s *Service) populate(ctx context.Context, o Order) (PopulatedOrder, error) {
	summaries, err := s.items.Summaries(ctx, o.productIDs())
	if err != nil {
		return PopulatedOrder{}, err
	}
	return o.populate(summaries), nil
}
