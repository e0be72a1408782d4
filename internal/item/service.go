package item

import (
	"context"
	"strings"
	"time"

	"github.com/FrigaaAbdou/show-backend/internal/auth"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	return s.repo.GetByID(ctx, id)
}

// Summaries resolves ids to their populated projection. Unknown ids are
// absent from the result.
func (s *Service) Summaries(ctx context.Context, ids []string) (map[string]Summary, error) {
	items, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Summary, len(items))
	for _, it := range items {
		out[it.ID] = it.Summary()
	}
	return out, nil
}

// Create builds an item from patch. Every field but FullDescription and
// ImgLink is required.
func (s *Service) Create(ctx context.Context, p auth.Principal, patch Patch) (Item, error) {
	if !p.IsAdmin() {
		return Item{}, ErrAdminsOnly
	}
	if patch.Price == nil {
		return Item{}, ErrMissingFields
	}

	var it Item
	it.apply(patch)
	it.Name = strings.TrimSpace(it.Name)
	if err := it.validate(); err != nil {
		return Item{}, err
	}

	now := s.now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now
	return s.repo.Create(ctx, it)
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id string, patch Patch) (Item, error) {
	if !p.IsAdmin() {
		return Item{}, ErrAdminsOnly
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}

	existing.apply(patch)
	if err := existing.validate(); err != nil {
		return Item{}, err
	}
	existing.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, existing)
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	if !p.IsAdmin() {
		return ErrAdminsOnly
	}
	return s.repo.Delete(ctx, id)
}
