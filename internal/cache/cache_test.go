package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
	"github.com/PeterGeers/myAdmin-sub014/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cache_test.db"), logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testEntry(t *testing.T, administration, key string) models.PatternEntry {
	t.Helper()
	entry, err := models.NewPatternEntry(administration, key, models.BankSideDebet, "1100", "4000", "INV123", 10, 90,
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return entry
}

func TestGetPatterns_MissOnEmptyCache(t *testing.T) {
	c, err := New(newTestStore(t), DefaultConfig(), logging.NewMockLogger())
	require.NoError(t, err)

	entries, found, err := c.GetPatterns(context.Background(), "acme")
	require.NoError(t, err)
	assert.False(t, found, "empty cache is a miss, not an error")
	assert.Nil(t, entries)
}

func TestStoreThenGet_MemoryHit(t *testing.T) {
	ctx := context.Background()
	c, err := New(newTestStore(t), DefaultConfig(), logging.NewMockLogger())
	require.NoError(t, err)

	require.NoError(t, c.StorePatterns(ctx, "acme", []models.PatternEntry{testEntry(t, "acme", "PAYMENT_ACME")}))

	entries, found, err := c.GetPatterns(ctx, "acme")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, entries, 1)
	assert.Equal(t, "PAYMENT_ACME", entries[0].PatternKey)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.MemoryHits)
	assert.Equal(t, int64(0), stats.MemoryMisses)
}

func TestGetPatterns_PersistedLevelSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := New(s, DefaultConfig(), logging.NewMockLogger())
	require.NoError(t, err)
	require.NoError(t, first.StorePatterns(ctx, "acme", []models.PatternEntry{testEntry(t, "acme", "PAYMENT_ACME")}))

	// A fresh cache instance has an empty memory level but shares the store.
	second, err := New(s, DefaultConfig(), logging.NewMockLogger())
	require.NoError(t, err)

	entries, found, err := second.GetPatterns(ctx, "acme")
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, entries, 1)

	stats, err := second.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PersistedHits)
	assert.Equal(t, int64(1), stats.MemoryMisses)
	assert.Equal(t, 1, stats.EntriesByLevel[models.CacheLevelMemory], "promoted after persisted hit")

	// After promotion the next lookup hits memory.
	_, found, err = second.GetPatterns(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, found)
	stats, err = second.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.MemoryHits)
}

func TestGetPatterns_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Capacity: 10, TTL: 24 * time.Hour}
	c, err := New(newTestStore(t), cfg, logging.NewMockLogger())
	require.NoError(t, err)

	require.NoError(t, c.StorePatterns(ctx, "acme", []models.PatternEntry{testEntry(t, "acme", "PAYMENT_ACME")}))

	// Move the clock past the TTL: both levels must treat the entry as a miss.
	c.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, found, err := c.GetPatterns(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate_RemovesBothLevels(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c, err := New(s, DefaultConfig(), logging.NewMockLogger())
	require.NoError(t, err)

	require.NoError(t, c.StorePatterns(ctx, "acme", []models.PatternEntry{testEntry(t, "acme", "PAYMENT_ACME")}))
	require.NoError(t, c.StorePatterns(ctx, "other", []models.PatternEntry{testEntry(t, "other", "BETALING_KPN")}))

	require.NoError(t, c.Invalidate(ctx, "acme"))

	_, found, err := c.GetPatterns(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, found)

	entries, _, err := s.QueryPatternRows(ctx, "acme")
	require.NoError(t, err)
	assert.Empty(t, entries, "persisted level cleared too")

	// Other administrations are untouched.
	_, found, err = c.GetPatterns(ctx, "other")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryLevel_LRUEviction(t *testing.T) {
	ctx := context.Background()
	c, err := New(newTestStore(t), Config{Capacity: 1, TTL: time.Hour}, logging.NewMockLogger())
	require.NoError(t, err)

	require.NoError(t, c.StorePatterns(ctx, "acme", []models.PatternEntry{testEntry(t, "acme", "PAYMENT_ACME")}))
	require.NoError(t, c.StorePatterns(ctx, "other", []models.PatternEntry{testEntry(t, "other", "BETALING_KPN")}))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EntriesByLevel[models.CacheLevelMemory])

	// The evicted administration is still served by the persisted level.
	_, found, err := c.GetPatterns(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, found)
}
