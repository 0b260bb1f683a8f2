package tmdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := newTTLCache[int64, *Movie](time.Hour, 0)

	_, ok := c.get(550)
	assert.False(t, ok, "empty cache should miss")

	c.set(550, &Movie{ID: 550, Title: "Fight Club"})
	c.set(603, &Movie{ID: 603, Title: "The Matrix"})

	got, ok := c.get(550)
	require.True(t, ok)
	assert.Equal(t, "Fight Club", got.Title)

	got, ok = c.get(603)
	require.True(t, ok)
	assert.Equal(t, "The Matrix", got.Title)

	_, ok = c.get(13)
	assert.False(t, ok, "different ID should miss")
}

func TestCache_ExpiryEvicts(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newTTLCache[int64, *Movie](time.Minute, 0)
	c.now = func() time.Time { return now }

	c.set(550, &Movie{ID: 550})
	_, ok := c.get(550)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.get(550)
	assert.False(t, ok, "should miss after TTL")
	assert.Equal(t, 0, c.len(), "expired entry should be evicted")
}

func TestCache_ZeroTTLDisables(t *testing.T) {
	c := newTTLCache[int64, *Movie](0, 0)
	c.set(550, &Movie{ID: 550})
	_, ok := c.get(550)
	assert.False(t, ok)
}

func TestCache_FullDropsClosestToExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newTTLCache[int64, string](time.Hour, 2)
	c.now = func() time.Time { return now }

	c.set(1, "first")
	now = now.Add(time.Minute)
	c.set(2, "second")
	now = now.Add(time.Minute)
	c.set(3, "third")

	assert.Equal(t, 2, c.len())
	_, ok := c.get(1)
	assert.False(t, ok, "oldest entry should be dropped")
	_, ok = c.get(3)
	assert.True(t, ok)

	c.set(2, "second again")
	assert.Equal(t, 2, c.len(), "overwriting an entry must not evict")
}

func TestCache_FullPrefersExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newTTLCache[int64, string](time.Minute, 2)
	c.now = func() time.Time { return now }

	c.set(1, "a")
	now = now.Add(30 * time.Second)
	c.set(2, "b")
	now = now.Add(45 * time.Second) // 1 expired, 2 still live
	c.set(3, "c")

	_, ok := c.get(2)
	assert.True(t, ok)
	_, ok = c.get(3)
	assert.True(t, ok)
}
