package categories

import (
	"context"
	"errors"
	"fmt"

	"storeadmin/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("category not found")
	ErrBillboardNotFound = errors.New("billboard does not belong to this store")
	ErrInUse             = errors.New("category is used by one or more products")
)

type Store interface {
	Create(ctx context.Context, c *Category) (*Category, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*Category, error)
	List(ctx context.Context, storeID uuid.UUID) ([]*Category, error)
	Update(ctx context.Context, c *Category) (*Category, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectCategory = `
	SELECT c.id, c.store_id, c.billboard_id, b.label, c.name, c.created_at, c.updated_at
	FROM categories c
	JOIN billboards b ON b.id = c.billboard_id`

func scan(row pgx.Row) (*Category, error) {
	c := &Category{}
	err := row.Scan(&c.ID, &c.StoreID, &c.BillboardID, &c.BillboardLabel, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Create inserts the category only if its billboard lives in the same store.
func (r *Repository) Create(ctx context.Context, c *Category) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO categories (store_id, billboard_id, name)
			SELECT $1, b.id, $3
			FROM billboards b
			WHERE b.id = $2 AND b.store_id = $1
			RETURNING id, store_id, billboard_id, name, created_at, updated_at
		)
		SELECT ins.id, ins.store_id, ins.billboard_id, b.label, ins.name, ins.created_at, ins.updated_at
		FROM ins
		JOIN billboards b ON b.id = ins.billboard_id`, c.StoreID, c.BillboardID, c.Name)

	created, err := scan(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBillboardNotFound
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

func (r *Repository) Get(ctx context.Context, storeID, id uuid.UUID) (*Category, error) {
	return scan(r.pool.QueryRow(ctx, selectCategory+` WHERE c.id = $1 AND c.store_id = $2`, id, storeID))
}

func (r *Repository) List(ctx context.Context, storeID uuid.UUID) ([]*Category, error) {
	rows, err := r.pool.Query(ctx, selectCategory+` WHERE c.store_id = $1 ORDER BY c.created_at DESC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []*Category{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, c *Category) (*Category, error) {
	var billboardOK bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM billboards WHERE id = $1 AND store_id = $2)`,
		c.BillboardID, c.StoreID,
	).Scan(&billboardOK); err != nil {
		return nil, fmt.Errorf("check billboard: %w", err)
	}
	if !billboardOK {
		return nil, ErrBillboardNotFound
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET name = $3, billboard_id = $4, updated_at = now()
		WHERE id = $1 AND store_id = $2`, c.ID, c.StoreID, c.Name, c.BillboardID)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, c.StoreID, c.ID)
}

func (r *Repository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND store_id = $2`, id, storeID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
