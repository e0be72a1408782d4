package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	orderColumns = `id, user_id, products, total_price, status, created_at, updated_at`

	listOrdersQuery       = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	listOrdersByUserQuery = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	getOrderQuery         = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	insertOrderQuery = `
		INSERT INTO orders (id, user_id, products, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	updateOrderQuery = `
		UPDATE orders
		SET products = $1,
			total_price = $2,
			status = $3,
			updated_at = $4
		WHERE id = $5
		RETURNING ` + orderColumns
	deleteOrderQuery = `DELETE FROM orders WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Order, error) {
	return r.query(ctx, listOrdersQuery)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.query(ctx, listOrdersByUserQuery, userID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, getOrderQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ord Order) (Order, error) {
	if ord.ID == "" {
		ord.ID = uuid.NewString()
	}
	products, err := json.Marshal(ord.Products)
	if err != nil {
		return Order{}, err
	}

	_, err = r.db.ExecContext(ctx, insertOrderQuery,
		ord.ID,
		ord.User,
		string(products),
		ord.TotalPrice,
		string(ord.Status),
		ord.CreatedAt,
		ord.UpdatedAt,
	)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return ord, nil
}

func (r *PostgresRepository) Update(ctx context.Context, ord Order) (Order, error) {
	products, err := json.Marshal(ord.Products)
	if err != nil {
		return Order{}, err
	}

	updated, err := scanOrder(r.db.QueryRowContext(ctx, updateOrderQuery,
		string(products),
		ord.TotalPrice,
		string(ord.Status),
		ord.UpdatedAt,
		ord.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("update order: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteOrderQuery, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(scanner rowScanner) (Order, error) {
	var o Order
	var raw []byte
	var status string
	if err := scanner.Scan(&o.ID, &o.User, &raw, &o.TotalPrice, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}
	o.Status = Status(status)

	o.Products = []Line{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &o.Products); err != nil {
			return Order{}, fmt.Errorf("decode order products: %w", err)
		}
	}
	return o, nil
}
