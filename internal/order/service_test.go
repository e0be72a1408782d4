package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FrigaaAbdou/show-backend/internal/auth"
	"github.com/FrigaaAbdou/show-backend/internal/item"
)

var (
	alice = auth.Principal{ID: "alice", Role: auth.RoleUser}
	bob   = auth.Principal{ID: "bob", Role: auth.RoleUser}
	admin = auth.Principal{ID: "root", Role: auth.RoleAdmin}
)

func newTestService(seed []Order) *Service {
	items := item.NewService(item.NewInMemoryRepository([]item.Item{
		{ID: "i1", Name: "Poster", Description: "Tour poster", Price: 10, FormationDate: time.Now()},
		{ID: "i2", Name: "Ticket", Description: "Front row", Price: 40, FormationDate: time.Now()},
	}))
	return NewService(NewInMemoryRepository(seed), items)
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	o, err := svc.Create(ctx, alice, []LineInput{{Product: "i1", Quantity: ptr(2)}, {Product: "i2"}}, ptr(60.0))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if o.User != "alice" || o.Status != StatusPending || o.TotalPrice != 60 {
		t.Fatalf("unexpected order %+v", o)
	}
	if o.Products[1].Quantity != 1 || o.Products[0].Product == nil || o.Products[0].Product.Name != "Poster" {
		t.Fatalf("unexpected lines %+v", o.Products)
	}

	// totalPrice is stored as given
	o, err = svc.Create(ctx, alice, []LineInput{{Product: "i1"}}, ptr(1.0))
	if err != nil || o.TotalPrice != 1 {
		t.Fatalf("expected supplied total, got %v %+v", err, o)
	}

	if _, err := svc.Create(ctx, alice, []LineInput{{Product: "nope"}}, ptr(1.0)); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, alice, []LineInput{{Product: "i1", Quantity: ptr(0)}}, ptr(1.0)); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.Create(ctx, alice, []LineInput{{Product: "i1"}}, ptr(-1.0)); !errors.Is(err, ErrInvalidTotal) {
		t.Fatalf("expected ErrInvalidTotal, got %v", err)
	}
	if _, err := svc.Create(ctx, alice, []LineInput{{Product: "i1"}}, nil); !errors.Is(err, ErrInvalidTotal) {
		t.Fatalf("expected ErrInvalidTotal for missing total, got %v", err)
	}
	if _, err := svc.Create(ctx, alice, nil, ptr(1.0)); !errors.Is(err, ErrNoProducts) {
		t.Fatalf("expected ErrNoProducts, got %v", err)
	}
}

func TestListScopedByRole(t *testing.T) {
	now := time.Now()
	svc := newTestService([]Order{
		{ID: "o1", User: "alice", Products: []Line{{Product: "i1", Quantity: 1}}, Status: StatusPending, CreatedAt: now},
		{ID: "o2", User: "bob", Products: []Line{{Product: "i2", Quantity: 1}}, Status: StatusPending, CreatedAt: now.Add(time.Second)},
	})
	ctx := context.Background()

	own, err := svc.List(ctx, alice)
	if err != nil || len(own) != 1 || own[0].ID != "o1" {
		t.Fatalf("expected only own order, got %v %+v", err, own)
	}
	all, err := svc.List(ctx, admin)
	if err != nil || len(all) != 2 || all[0].ID != "o2" {
		t.Fatalf("expected all orders newest first, got %v %+v", err, all)
	}
}

func TestGetOwnership(t *testing.T) {
	svc := newTestService([]Order{{ID: "o1", User: "alice", Status: StatusPending}})
	ctx := context.Background()

	if _, err := svc.Get(ctx, bob, "o1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, admin, "o1"); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if _, err := svc.Get(ctx, admin, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRules(t *testing.T) {
	svc := newTestService([]Order{{ID: "o1", User: "alice", Products: []Line{{Product: "i1", Quantity: 1}}, TotalPrice: 10, Status: StatusPending}})
	ctx := context.Background()

	if _, err := svc.Update(ctx, bob, "o1", Patch{Status: ptr(StatusCancelled)}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other user, got %v", err)
	}
	if _, err := svc.Update(ctx, alice, "o1", Patch{Status: ptr(StatusConfirmed)}); !errors.Is(err, ErrCancelOnly) {
		t.Fatalf("expected ErrCancelOnly, got %v", err)
	}
	if _, err := svc.Update(ctx, alice, "o1", Patch{TotalPrice: ptr(0.0)}); !errors.Is(err, ErrCancelOnly) {
		t.Fatalf("expected ErrCancelOnly on price change, got %v", err)
	}
	if _, err := svc.Update(ctx, admin, "o1", Patch{Status: ptr(Status("shipped"))}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	o, err := svc.Update(ctx, admin, "o1", Patch{Status: ptr(StatusConfirmed), TotalPrice: ptr(25.0), Products: []LineInput{{Product: "i2", Quantity: ptr(3)}}})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if o.Status != StatusConfirmed || o.TotalPrice != 25 || o.User != "alice" || o.Products[0].Quantity != 3 {
		t.Fatalf("unexpected order %+v", o)
	}

	o, err = svc.Update(ctx, alice, "o1", Patch{Status: ptr(StatusCancelled)})
	if err != nil || o.Status != StatusCancelled {
		t.Fatalf("owner cancel failed: %v %+v", err, o)
	}
}

func TestDeletePendingOnlyForOwner(t *testing.T) {
	svc := newTestService([]Order{
		{ID: "pending", User: "alice", Status: StatusPending},
		{ID: "confirmed", User: "alice", Status: StatusConfirmed},
	})
	ctx := context.Background()

	if err := svc.Delete(ctx, bob, "pending"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other user, got %v", err)
	}
	if err := svc.Delete(ctx, alice, "pending"); err != nil {
		t.Fatalf("owner should delete pending order: %v", err)
	}
	if err := svc.Delete(ctx, alice, "confirmed"); !errors.Is(err, ErrNotDeletable) {
		t.Fatalf("expected ErrNotDeletable, got %v", err)
	}
	if err := svc.Delete(ctx, admin, "confirmed"); err != nil {
		t.Fatalf("admin should delete confirmed order: %v", err)
	}
	if err := svc.Delete(ctx, admin, "confirmed"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
