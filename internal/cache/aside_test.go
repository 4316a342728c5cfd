package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			fetches++
			dest.ID = 7
			dest.Title = "minoxidil week 12"
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey(7), &first, PostTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "minoxidil week 12", first.Title)
	assert.True(t, mr.Exists(PostKey(7)))

	// second read must be served from the cache
	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey(7), &second, PostTTL, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestAside_NilClientFallsThrough(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var dest cachedPost
	err := Aside(context.Background(), PostKey(1), &dest, time.Minute, func() error {
		fetches++
		dest.ID = 1
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, uint(1), dest.ID)
}

func TestInvalidatePost(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(3), cachedPost{ID: 3}, time.Minute))
	require.NoError(t, SetJSON(ctx, PostListKey(), []cachedPost{{ID: 3}}, time.Minute))

	InvalidatePost(ctx, 3)

	assert.False(t, mr.Exists(PostKey(3)))
	assert.False(t, mr.Exists(PostListKey()))
}

func TestInvalidateTagRanks(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, TagRankKey(10), []string{"finasteride"}, time.Minute))
	require.NoError(t, SetJSON(ctx, TagRankKey(50), []string{"finasteride"}, time.Minute))
	require.NoError(t, SetJSON(ctx, PostKey(1), cachedPost{ID: 1}, time.Minute))

	InvalidateTagRanks(ctx)

	assert.False(t, mr.Exists(TagRankKey(10)))
	assert.False(t, mr.Exists(TagRankKey(50)))
	assert.True(t, mr.Exists(PostKey(1)))
}
