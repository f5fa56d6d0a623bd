package db

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, IsUniqueViolation(fk))

	assert.True(t, IsForeignKeyViolation(fmt.Errorf("delete: %w", fk)))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.False(t, IsForeignKeyViolation(fmt.Errorf("plain")))
}

func TestMigrationsAreOrdered(t *testing.T) {
	ms, err := Migrations()
	assert.NoError(t, err)
	if assert.Len(t, ms, 2) {
		assert.Equal(t, "0001_catalog", ms[0].Version)
		assert.Equal(t, "0002_orders", ms[1].Version)
		assert.Contains(t, ms[0].SQL, "CREATE TABLE IF NOT EXISTS product_variations")
	}
}
