// Package overview computes the dashboard figures of a store.
package overview

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

type MonthRevenue struct {
	Month        string `json:"month"`
	RevenueCents int64  `json:"revenue_cents"`
}

type Overview struct {
	TotalRevenueCents int64          `json:"total_revenue_cents"`
	SalesCount        int            `json:"sales_count"`
	StockCount        int            `json:"stock_count"`
	MonthlyRevenue    []MonthRevenue `json:"monthly_revenue"`
}

type Store interface {
	Get(ctx context.Context, storeID uuid.UUID, year int) (*Overview, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get runs the four dashboard queries concurrently.
func (r *Repository) Get(ctx context.Context, storeID uuid.UUID, year int) (*Overview, error) {
	out := &Overview{}
	var byMonth map[int]int64

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := r.pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(oi.quantity * oi.unit_price_cents), 0)::bigint
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.store_id = $1 AND o.is_paid = true`, storeID).Scan(&out.TotalRevenueCents)
		if err != nil {
			return fmt.Errorf("total revenue: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM orders WHERE store_id = $1 AND is_paid = true`, storeID,
		).Scan(&out.SalesCount)
		if err != nil {
			return fmt.Errorf("sales count: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := r.pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(pv.quantity), 0)::int
			FROM product_variations pv
			JOIN products p ON p.id = pv.product_id
			WHERE p.store_id = $1 AND p.is_archived = false`, storeID).Scan(&out.StockCount)
		if err != nil {
			return fmt.Errorf("stock count: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT EXTRACT(MONTH FROM o.created_at)::int, SUM(oi.quantity * oi.unit_price_cents)::bigint
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.store_id = $1 AND o.is_paid = true
			  AND EXTRACT(YEAR FROM o.created_at)::int = $2
			GROUP BY 1`, storeID, year)
		if err != nil {
			return fmt.Errorf("monthly revenue: %w", err)
		}
		defer rows.Close()

		m := map[int]int64{}
		for rows.Next() {
			var month int
			var cents int64
			if err := rows.Scan(&month, &cents); err != nil {
				return fmt.Errorf("scan monthly revenue: %w", err)
			}
			m[month] = cents
		}
		if err := rows.Err(); err != nil {
			return err
		}
		byMonth = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.MonthlyRevenue = MonthlySeries(byMonth)
	return out, nil
}

// MonthlySeries expands month number -> revenue into twelve Jan..Dec entries.
func MonthlySeries(byMonth map[int]int64) []MonthRevenue {
	out := make([]MonthRevenue, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, MonthRevenue{Month: m.String()[:3], RevenueCents: byMonth[int(m)]})
	}
	return out
}
