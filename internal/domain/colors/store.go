package colors

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
	ErrNotFound = errors.New("color not found")
	ErrInUse    = errors.New("color is used by one or more product variations")
)

type Store interface {
	Create(ctx context.Context, c *Color) (*Color, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*Color, error)
	List(ctx context.Context, storeID uuid.UUID) ([]*Color, error)
	Update(ctx context.Context, c *Color) (*Color, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, store_id, name, value, created_at, updated_at`

func scan(row pgx.Row) (*Color, error) {
	c := &Color{}
	if err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.Value, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *Repository) Create(ctx context.Context, c *Color) (*Color, error) {
	created, err := scan(r.pool.QueryRow(ctx, `
		INSERT INTO colors (store_id, name, value)
		VALUES ($1, $2, lower($3))
		RETURNING `+columns, c.StoreID, c.Name, c.Value))
	if err != nil {
		return nil, fmt.Errorf("create color: %w", err)
	}
	return created, nil
}

func (r *Repository) Get(ctx context.Context, storeID, id uuid.UUID) (*Color, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM colors WHERE id = $1 AND store_id = $2`, id, storeID))
}

func (r *Repository) List(ctx context.Context, storeID uuid.UUID) ([]*Color, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM colors WHERE store_id = $1 ORDER BY created_at DESC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	defer rows.Close()

	out := []*Color{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, c *Color) (*Color, error) {
	return scan(r.pool.QueryRow(ctx, `
		UPDATE colors
		SET name = $3, value = lower($4), updated_at = now()
		WHERE id = $1 AND store_id = $2
		RETURNING `+columns, c.ID, c.StoreID, c.Name, c.Value))
}

func (r *Repository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM colors WHERE id = $1 AND store_id = $2`, id, storeID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete color: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
