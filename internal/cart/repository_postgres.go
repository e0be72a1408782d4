package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartQuery = `
		SELECT user_id, products, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`
	lockCartQuery = `
		SELECT user_id, products, created_at, updated_at
		FROM carts
		WHERE user_id = $1
		FOR UPDATE
	`
	ensureCartQuery = `
		INSERT INTO carts (user_id, products, created_at, updated_at)
		VALUES ($1, '[]', $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	saveCartQuery = `
		UPDATE carts
		SET products = $1,
			updated_at = $2
		WHERE user_id = $3
	`
	deleteCartQuery = `DELETE FROM carts WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (Cart, error) {
	c, err := scanCart(r.db.QueryRowContext(ctx, getCartQuery, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, ErrCartNotFound
		}
		return Cart{}, fmt.Errorf("get cart: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) AddLine(ctx context.Context, userID, productID string, qty int, now time.Time) (Cart, error) {
	return r.mutate(ctx, userID, now, true, func(c *Cart) error {
		return c.Add(productID, qty)
	})
}

func (r *PostgresRepository) SetLineQuantity(ctx context.Context, userID, productID string, qty int, now time.Time) (Cart, error) {
	return r.mutate(ctx, userID, now, false, func(c *Cart) error {
		if !c.SetQuantity(productID, qty) {
			return ErrLineNotFound
		}
		return nil
	})
}

func (r *PostgresRepository) RemoveLine(ctx context.Context, userID, productID string, now time.Time) (Cart, error) {
	return r.mutate(ctx, userID, now, false, func(c *Cart) error {
		c.Remove(productID)
		return nil
	})
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, deleteCartQuery, userID)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartNotFound
	}
	return nil
}

// mutate applies fn to the cart row while holding its row lock. With create
// set, a missing cart is inserted first.
func (r *PostgresRepository) mutate(ctx context.Context, userID string, now time.Time, create bool, fn func(*Cart) error) (Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Cart{}, fmt.Errorf("begin cart tx: %w", err)
	}
	defer tx.Rollback()

	if create {
		if _, err := tx.ExecContext(ctx, ensureCartQuery, userID, now); err != nil {
			return Cart{}, fmt.Errorf("ensure cart: %w", err)
		}
	}

	c, err := scanCart(tx.QueryRowContext(ctx, lockCartQuery, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, ErrCartNotFound
		}
		return Cart{}, fmt.Errorf("lock cart: %w", err)
	}

	if err := fn(&c); err != nil {
		return Cart{}, err
	}
	c.UpdatedAt = now

	products, err := json.Marshal(c.Products)
	if err != nil {
		return Cart{}, err
	}
	if _, err := tx.ExecContext(ctx, saveCartQuery, string(products), now, userID); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Cart{}, fmt.Errorf("commit cart: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCart(scanner rowScanner) (Cart, error) {
	var c Cart
	var raw []byte
	if err := scanner.Scan(&c.UserID, &raw, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Cart{}, err
	}

	c.Products = []Line{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c.Products); err != nil {
			return Cart{}, fmt.Errorf("decode cart products: %w", err)
		}
	}
	return c, nil
}
