package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()

	c, err := New("", "", 0, time.Minute)
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	require.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}))

	var dst map[string]int
	found, err := c.GetJSON(ctx, "k", &dst)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.DeletePattern(ctx, "k*"))
	assert.NoError(t, c.Close())

	var nilCache *Cache
	assert.False(t, nilCache.Enabled())
}

func TestKeys(t *testing.T) {
	s := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	p := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t, "store:11111111-1111-1111-1111-111111111111:categories", CategoriesKey(s))
	assert.Equal(t, "store:11111111-1111-1111-1111-111111111111:product:22222222-2222-2222-2222-222222222222", ProductKey(s, p))
}

func TestDeletePattern(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	defer c.Close()

	store, other := uuid.New(), uuid.New()
	require.NoError(t, c.SetJSON(ctx, CategoriesKey(store), []string{"shoes"}))
	for i := 0; i < 250; i++ {
		require.NoError(t, c.SetJSON(ctx, ProductKey(store, uuid.New()), i))
	}
	require.NoError(t, c.SetJSON(ctx, ProductKey(other, uuid.New()), 1))

	require.NoError(t, c.DeletePattern(ctx, ProductsPattern(store)))
	assert.Len(t, mr.Keys(), 2)
	assert.True(t, mr.Exists(CategoriesKey(store)))

	require.NoError(t, c.DeletePattern(ctx, StorePattern(store)))
	assert.False(t, mr.Exists(CategoriesKey(store)))
	assert.Len(t, mr.Keys(), 1)
}

func TestPatterns(t *testing.T) {
	s := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	assert.Equal(t, "store:11111111-1111-1111-1111-111111111111:*", StorePattern(s))
	assert.Equal(t, "store:11111111-1111-1111-1111-111111111111:product:*", ProductsPattern(s))
}
