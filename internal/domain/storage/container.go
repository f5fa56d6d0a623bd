package storage

import (
	"context"
	"fmt"

	"storeadmin/internal/domain/billboards"
	"storeadmin/internal/domain/categories"
	"storeadmin/internal/domain/colors"
	"storeadmin/internal/domain/orders"
	"storeadmin/internal/domain/overview"
	"storeadmin/internal/domain/products"
	"storeadmin/internal/domain/sizes"
	"storeadmin/internal/domain/stores"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Container groups the repositories the API handlers depend on. Fields are
// interfaces so handler tests can swap in mocks.
type Container struct {
	pool       *pgxpool.Pool
	Stores     stores.Repository
	Billboards billboards.Store
	Categories categories.Store
	Sizes      sizes.Store
	Colors     colors.Store
	Products   products.Store
	Orders     orders.Store
	Overview   overview.Store
}

func NewContainer(db *pgxpool.Pool, codes *orders.CodeGenerator) *Container {
	return &Container{
		pool:       db,
		Stores:     stores.NewRepository(db),
		Billboards: billboards.NewRepository(db),
		Categories: categories.NewRepository(db),
		Sizes:      sizes.NewRepository(db),
		Colors:     colors.NewRepository(db),
		Products:   products.NewRepository(db),
		Orders:     orders.NewRepository(db, codes),
		Overview:   overview.NewRepository(db),
	}
}

// Ping checks the database behind the container.
func (c *Container) Ping(ctx context.Context) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}
	return c.pool.Ping(ctx)
}
