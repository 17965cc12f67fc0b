package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cookieRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "session:localhost", []cookieRecord{{Name: "connect.sid", Value: "abc"}}, 0))

	var got []cookieRecord
	require.NoError(t, c.Get(ctx, "session:localhost", &got))
	assert.Equal(t, []cookieRecord{{Name: "connect.sid", Value: "abc"}}, got)

	require.NoError(t, c.Delete(ctx, "session:localhost"))
	assert.ErrorIs(t, c.Get(ctx, "session:localhost", &got), ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache().(*memoryCache)
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	var v string
	require.NoError(t, c.Get(ctx, "k", &v))
	assert.Equal(t, "v", v)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrCacheMiss)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "session:a", 1, 0))
	require.NoError(t, c.Set(ctx, "session:b", 2, 0))
	require.NoError(t, c.Set(ctx, "other", 3, 0))

	require.NoError(t, c.DeletePattern(ctx, "session:*"))

	var n int
	assert.ErrorIs(t, c.Get(ctx, "session:a", &n), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "session:b", &n), ErrCacheMiss)
	require.NoError(t, c.Get(ctx, "other", &n))
	assert.Equal(t, 3, n)

	assert.Error(t, c.DeletePattern(ctx, "["))
}

func TestFileCache_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kambaz", "session.json")

	first, err := NewFileCache(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "session:localhost", []cookieRecord{{Name: "sid", Value: "s1"}}, time.Hour))
	require.NoError(t, first.Set(ctx, "scratch", "x", 0))
	require.NoError(t, first.Delete(ctx, "scratch"))

	second, err := NewFileCache(path)
	require.NoError(t, err)

	var got []cookieRecord
	require.NoError(t, second.Get(ctx, "session:localhost", &got))
	assert.Equal(t, "s1", got[0].Value)

	var s string
	assert.ErrorIs(t, second.Get(ctx, "scratch", &s), ErrCacheMiss)
}

func TestFileCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileCache(path)
	assert.Error(t, err)
}
