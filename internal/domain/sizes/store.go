package sizes

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
	ErrNotFound = errors.New("size not found")
	ErrInUse    = errors.New("size is used by one or more product variations")
)

type Store interface {
	Create(ctx context.Context, s *Size) (*Size, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*Size, error)
	List(ctx context.Context, storeID uuid.UUID) ([]*Size, error)
	Update(ctx context.Context, s *Size) (*Size, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, store_id, name, value, created_at, updated_at`

func scan(row pgx.Row) (*Size, error) {
	s := &Size{}
	if err := row.Scan(&s.ID, &s.StoreID, &s.Name, &s.Value, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *Repository) Create(ctx context.Context, s *Size) (*Size, error) {
	created, err := scan(r.pool.QueryRow(ctx, `
		INSERT INTO sizes (store_id, name, value)
		VALUES ($1, $2, $3)
		RETURNING `+columns, s.StoreID, s.Name, s.Value))
	if err != nil {
		return nil, fmt.Errorf("create size: %w", err)
	}
	return created, nil
}

func (r *Repository) Get(ctx context.Context, storeID, id uuid.UUID) (*Size, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM sizes WHERE id = $1 AND store_id = $2`, id, storeID))
}

func (r *Repository) List(ctx context.Context, storeID uuid.UUID) ([]*Size, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM sizes WHERE store_id = $1 ORDER BY created_at DESC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list sizes: %w", err)
	}
	defer rows.Close()

	out := []*Size{}
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, s *Size) (*Size, error) {
	return scan(r.pool.QueryRow(ctx, `
		UPDATE sizes
		SET name = $3, value = $4, updated_at = now()
		WHERE id = $1 AND store_id = $2
		RETURNING `+columns, s.ID, s.StoreID, s.Name, s.Value))
}

func (r *Repository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sizes WHERE id = $1 AND store_id = $2`, id, storeID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete size: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
