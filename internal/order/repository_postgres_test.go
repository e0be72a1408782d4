package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var orderCols = []string{"id", "user_id", "products", "total_price", "status", "created_at", "updated_at"}

func TestPostgresListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(orderCols).
		AddRow("o1", "alice", []byte(`[{"product":"i1","quantity":2}]`), 20.0, "pending", now, now)
	mock.ExpectQuery("WHERE user_id").WithArgs("alice").WillReturnRows(rows)

	orders, err := repo.ListByUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(orders) != 1 || orders[0].Status != StatusPending || orders[0].Products[0].Quantity != 2 {
		t.Fatalf("unexpected orders %+v", orders)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), "alice", `[{"product":"i1","quantity":1}]`, 10.0, "pending", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	o, err := repo.Create(context.Background(), Order{
		User:       "alice",
		Products:   []Line{{Product: "i1", Quantity: 1}},
		TotalPrice: 10,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if o.ID == "" {
		t.Fatalf("expected generated id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdate_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE orders").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("DELETE FROM orders").WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.Update(context.Background(), Order{ID: "gone", Status: StatusCancelled}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
