package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	itemColumns = `id, name, description, full_description, price, img_link, formation_date, created_at, updated_at`

	listItemsQuery     = `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC`
	getItemQuery       = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	listItemsByIDQuery = `SELECT ` + itemColumns + ` FROM items WHERE id = ANY($1)`

	insertItemQuery = `
		INSERT INTO items (id, name, description, full_description, price, img_link, formation_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	updateItemQuery = `
		UPDATE items
		SET name = $1,
			description = $2,
			full_description = $3,
			price = $4,
			img_link = $5,
			formation_date = $6,
			updated_at = $7
		WHERE id = $8
	`
	deleteItemQuery = `DELETE FROM items WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Item, error) {
	return r.query(ctx, listItemsQuery)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, getItemQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]Item, error) {
	if len(ids) == 0 {
		return []Item{}, nil
	}
	return r.query(ctx, listItemsByIDQuery, pq.Array(ids))
}

func (r *PostgresRepository) Create(ctx context.Context, it Item) (Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, insertItemQuery,
		it.ID,
		it.Name,
		it.Description,
		it.FullDescription,
		it.Price,
		it.ImgLink,
		it.FormationDate,
		it.CreatedAt,
		it.UpdatedAt,
	)
	if err != nil {
		return Item{}, fmt.Errorf("insert item: %w", err)
	}
	return it, nil
}

func (r *PostgresRepository) Update(ctx context.Context, it Item) (Item, error) {
	result, err := r.db.ExecContext(ctx, updateItemQuery,
		it.Name,
		it.Description,
		it.FullDescription,
		it.Price,
		it.ImgLink,
		it.FormationDate,
		it.UpdatedAt,
		it.ID,
	)
	if err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Item{}, err
	}
	if affected == 0 {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteItemQuery, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
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

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanItem(scanner rowScanner) (Item, error) {
	var it Item
	var full sql.NullString
	err := scanner.Scan(
		&it.ID,
		&it.Name,
		&it.Description,
		&full,
		&it.Price,
		&it.ImgLink,
		&it.FormationDate,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return Item{}, err
	}
	it.FullDescription = full.String
	return it, nil
}
