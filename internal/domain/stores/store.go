package stores

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
	ErrNotFound      = errors.New("store not found")
	ErrHasOpenOrders = errors.New("store has paid orders that are not delivered yet")
)

type Repository interface {
	Create(ctx context.Context, userID, name string) (*Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Store, error)
	// GetForUser returns ErrNotFound when the store exists but belongs to
	// someone else.
	GetForUser(ctx context.Context, id uuid.UUID, userID string) (*Store, error)
	ListByUser(ctx context.Context, userID string) ([]*Store, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*Store, error)
	// Delete removes the store with its whole catalog and returns the media
	// public IDs that are no longer referenced.
	Delete(ctx context.Context, id uuid.UUID) ([]string, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const storeColumns = `id, user_id, name, created_at, updated_at`

func scanStore(row pgx.Row) (*Store, error) {
	s := &Store{}
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *PGRepository) Create(ctx context.Context, userID, name string) (*Store, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO stores (user_id, name)
		VALUES ($1, $2)
		RETURNING `+storeColumns, userID, name)
	s, err := scanStore(row)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return s, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
	return scanStore(row)
}

func (r *PGRepository) GetForUser(ctx context.Context, id uuid.UUID, userID string) (*Store, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1 AND user_id = $2`, id, userID)
	return scanStore(row)
}

func (r *PGRepository) ListByUser(ctx context.Context, userID string) ([]*Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+storeColumns+`
		FROM stores
		WHERE user_id = $1
		ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	out := []*Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepository) Rename(ctx context.Context, id uuid.UUID, name string) (*Store, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE stores
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+storeColumns, id, name)
	return scanStore(row)
}

func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var publicIDs []string

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var s Store
		if err := tx.QueryRow(ctx, `SELECT id FROM stores WHERE id = $1 FOR UPDATE`, id).Scan(&s.ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		var open bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM orders
				WHERE store_id = $1 AND is_paid = true AND delivered = false
			)`, id).Scan(&open); err != nil {
			return fmt.Errorf("check open orders: %w", err)
		}
		if open {
			return ErrHasOpenOrders
		}

		rows, err := tx.Query(ctx, `
			SELECT image_public_id FROM billboards WHERE store_id = $1
			UNION
			SELECT i.public_id
			FROM images i
			JOIN products p ON p.id = i.product_id
			WHERE p.store_id = $1`, id)
		if err != nil {
			return fmt.Errorf("collect media: %w", err)
		}
		for rows.Next() {
			var pid string
			if err := rows.Scan(&pid); err != nil {
				rows.Close()
				return err
			}
			publicIDs = append(publicIDs, pid)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		// Disconnected variations no longer hang off a product, but still
		// point at this store's sizes.
		if _, err := tx.Exec(ctx, `
			DELETE FROM product_variations
			WHERE size_id IN (SELECT id FROM sizes WHERE store_id = $1)
			   OR color_id IN (SELECT id FROM colors WHERE store_id = $1)`, id); err != nil {
			return fmt.Errorf("delete variations: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete store: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return publicIDs, nil
}
