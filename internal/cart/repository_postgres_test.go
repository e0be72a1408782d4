package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var cartCols = []string{"user_id", "products", "created_at", "updated_at"}

func TestPostgresAddLine_MergesUnderLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO carts").WithArgs("u1", now).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FOR UPDATE").WithArgs("u1").WillReturnRows(
		sqlmock.NewRows(cartCols).AddRow("u1", []byte(`[{"productId":"p1","quantity":2}]`), now, now))
	mock.ExpectExec("UPDATE carts").
		WithArgs(`[{"productId":"p1","quantity":5}]`, now, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, err := repo.AddLine(context.Background(), "u1", "p1", 3, now)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(c.Products) != 1 || c.Products[0].Quantity != 5 {
		t.Fatalf("expected merged line, got %+v", c.Products)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSetLineQuantity_MissingLineRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("u1").WillReturnRows(
		sqlmock.NewRows(cartCols).AddRow("u1", []byte(`[]`), now, now))
	mock.ExpectRollback()

	if _, err := repo.SetLineQuantity(context.Background(), "u1", "p9", 2, now); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRemoveLine_NoCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("u1").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	if _, err := repo.RemoveLine(context.Background(), "u1", "p1", time.Now()); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM carts").WithArgs("u1").WillReturnRows(
		sqlmock.NewRows(cartCols).AddRow("u1", []byte(`[{"productId":"p1","quantity":1},{"productId":"p2","quantity":4}]`), now, now))
	mock.ExpectExec("DELETE FROM carts").WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM carts").WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 0))

	c, err := repo.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(c.Products) != 2 || c.Products[1].Quantity != 4 {
		t.Fatalf("unexpected cart %+v", c)
	}
	if err := repo.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("expected delete, got %v", err)
	}
	if err := repo.Delete(context.Background(), "u1"); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresAddLine_PastLimitRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)
	now := time.Now().UTC()

	full := fmt.Sprintf(`[{"productId":"p1","quantity":%d}]`, MaxLineQuantity)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO carts").WithArgs("u1", now).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FOR UPDATE").WithArgs("u1").WillReturnRows(
		sqlmock.NewRows(cartCols).AddRow("u1", []byte(full), now, now))
	mock.ExpectRollback()

	if _, err := repo.AddLine(context.Background(), "u1", "p1", 1, now); !errors.Is(err, ErrQuantityLimit) {
		t.Fatalf("expected ErrQuantityLimit, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
