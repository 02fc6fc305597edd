package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveMaxSize(t *testing.T) {
	_, err := New(0, 0)
	require.Error(t, err)

	_, err = New(-1, 0)
	require.Error(t, err)
}

func TestSetThenGetReturnsSameValue(t *testing.T) {
	c, err := New(10, 0)
	require.NoError(t, err)

	c.Set("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestGetMissOnAbsentKey(t *testing.T) {
	c, err := New(10, 0)
	require.NoError(t, err)

	_, ok := c.Get("missing")
	require.False(t, ok)
	require.Equal(t, 1, c.Stats().Misses)
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New(2, 0)
	require.NoError(t, err)

	c.Set("a", 1)
	c.Set("b", 2)
	// touch "a" so "b" becomes least-recently-used
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	require.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
	require.Equal(t, 1, c.Stats().Evictions)
}

func TestSizeNeverExceedsMaxSize(t *testing.T) {
	c, err := New(3, 0)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		c.Set(string(rune('a'+i)), i)
		require.LessOrEqual(t, c.Size(), 3)
	}
}

func TestTTLExpiresLazilyOnGet(t *testing.T) {
	c, err := New(10, 10*time.Millisecond)
	require.NoError(t, err)

	c.Set("k", "v")
	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Size(), "expired entry should be evicted by the Get that noticed it")
}

func TestDelete(t *testing.T) {
	c, err := New(10, 0)
	require.NoError(t, err)

	c.Set("k", "v")
	require.True(t, c.Delete("k"))
	require.False(t, c.Delete("k"))

	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestClearResetsStatsAndEntries(t *testing.T) {
	c, err := New(10, 0)
	require.NoError(t, err)

	c.Set("k", "v")
	_, _ = c.Get("k")
	_, _ = c.Get("missing")
	c.Clear()

	stats := c.Stats()
	require.Equal(t, 0, stats.Size)
	require.Equal(t, 0, stats.Hits)
	require.Equal(t, 0, stats.Misses)
	require.Equal(t, 0, c.Size())
}

func TestStatsHitRate(t *testing.T) {
	c, err := New(10, 0)
	require.NoError(t, err)

	c.Set("k", "v")
	_, _ = c.Get("k")
	_, _ = c.Get("k")
	_, _ = c.Get("missing")

	stats := c.Stats()
	require.Equal(t, 2, stats.Hits)
	require.Equal(t, 1, stats.Misses)
	require.Equal(t, 3, stats.Total())
	require.InDelta(t, 2.0/3.0, stats.HitRate(), 0.0001)
}

func TestContainsDoesNotAffectRecencyOrStats(t *testing.T) {
	c, err := New(10, 0)
	require.NoError(t, err)

	c.Set("k", "v")
	require.True(t, c.Contains("k"))
	require.False(t, c.Contains("missing"))
	require.Equal(t, 0, c.Stats().Hits)
	require.Equal(t, 0, c.Stats().Misses)
}
