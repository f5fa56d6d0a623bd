package billboards

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
	ErrNotFound = errors.New("billboard not found")
	ErrInUse    = errors.New("billboard is used by one or more categories")
)

type Store interface {
	Create(ctx context.Context, b *Billboard) (*Billboard, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*Billboard, error)
	List(ctx context.Context, storeID uuid.UUID) ([]*Billboard, error)
	Update(ctx context.Context, b *Billboard) (*Billboard, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) (*Billboard, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, store_id, label, image_url, image_public_id, created_at, updated_at`

func scan(row pgx.Row) (*Billboard, error) {
	b := &Billboard{}
	err := row.Scan(&b.ID, &b.StoreID, &b.Label, &b.ImageURL, &b.ImagePublicID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *Repository) Create(ctx context.Context, b *Billboard) (*Billboard, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO billboards (store_id, label, image_url, image_public_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+columns, b.StoreID, b.Label, b.ImageURL, b.ImagePublicID)
	created, err := scan(row)
	if err != nil {
		return nil, fmt.Errorf("create billboard: %w", err)
	}
	return created, nil
}

func (r *Repository) Get(ctx context.Context, storeID, id uuid.UUID) (*Billboard, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM billboards WHERE id = $1 AND store_id = $2`, id, storeID))
}

func (r *Repository) List(ctx context.Context, storeID uuid.UUID) ([]*Billboard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+columns+`
		FROM billboards
		WHERE store_id = $1
		ORDER BY created_at DESC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list billboards: %w", err)
	}
	defer rows.Close()

	out := []*Billboard{}
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, b *Billboard) (*Billboard, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE billboards
		SET label = $3, image_url = $4, image_public_id = $5, updated_at = now()
		WHERE id = $1 AND store_id = $2
		RETURNING `+columns, b.ID, b.StoreID, b.Label, b.ImageURL, b.ImagePublicID)
	return scan(row)
}

// Delete returns the removed row so the caller can purge its image.
func (r *Repository) Delete(ctx context.Context, storeID, id uuid.UUID) (*Billboard, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM billboards
		WHERE id = $1 AND store_id = $2
		RETURNING `+columns, id, storeID)
	b, err := scan(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrInUse
		}
		return nil, err
	}
	return b, nil
}
