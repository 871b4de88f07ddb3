// Package cache implements the multi-level pattern cache: an in-process LRU
// map in front of the persisted pattern rows, with recomputation left to the
// caller so the expensive path stays visible.
package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
)

// PersistedStore is the persisted cache level, shared across processes.
type PersistedStore interface {
	QueryPatternRows(ctx context.Context, administration string) ([]models.PatternEntry, time.Time, error)
	InsertPatternRows(ctx context.Context, administration string, entries []models.PatternEntry, storedAt time.Time) error
	DeletePatternRows(ctx context.Context, administration string) error
	CountPatternRows(ctx context.Context) (int, error)
}

// Config holds the cache tuning knobs. The cache is an explicit service
// object; configuration is injected, never read from globals.
type Config struct {
	// Capacity bounds the number of administrations held in memory.
	Capacity int

	// TTL after which entries at any level are treated as misses.
	TTL time.Duration
}

// DefaultConfig returns the standard capacity and TTL.
func DefaultConfig() Config {
	return Config{
		Capacity: 1000,
		TTL:      24 * time.Hour,
	}
}

type memoryEntry struct {
	entries  []models.PatternEntry
	storedAt time.Time
}

// PatternCache serves pattern entries per administration. Safe for concurrent
// use from multiple goroutines.
type PatternCache struct {
	memory *lru.Cache[string, memoryEntry]
	store  PersistedStore
	cfg    Config
	logger logging.Logger

	// now is replaceable in tests to exercise TTL expiry.
	now func() time.Time

	mu              sync.Mutex
	memoryHits      int64
	memoryMisses    int64
	persistedHits   int64
	persistedMisses int64
	invalidations   int64
}

// New creates a PatternCache over the given persisted store.
func New(store PersistedStore, cfg Config, logger logging.Logger) (*PatternCache, error) {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultConfig().Capacity
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}

	memory, err := lru.New[string, memoryEntry](cfg.Capacity)
	if err != nil {
		return nil, err
	}

	return &PatternCache{
		memory: memory,
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}, nil
}

// GetPatterns returns the cached pattern entries of one administration.
// found=false means both levels missed (or were stale) and the caller must
// recompute and call StorePatterns; that is a normal outcome, not an error.
func (c *PatternCache) GetPatterns(ctx context.Context, administration string) ([]models.PatternEntry, bool, error) {
	if entry, ok := c.memory.Get(administration); ok {
		if c.fresh(entry.storedAt) {
			c.count(&c.memoryHits)
			return entry.entries, true, nil
		}
		c.memory.Remove(administration)
	}
	c.count(&c.memoryMisses)

	entries, storedAt, err := c.store.QueryPatternRows(ctx, administration)
	if err != nil {
		return nil, false, err
	}
	if len(entries) == 0 || !c.fresh(storedAt) {
		c.count(&c.persistedMisses)
		return nil, false, nil
	}
	c.count(&c.persistedHits)

	// Promote into memory so the next lookup is sub-millisecond.
	c.memory.Add(administration, memoryEntry{entries: entries, storedAt: storedAt})
	c.logger.WithFields(
		logging.Field{Key: logging.FieldAdministration, Value: administration},
		logging.Field{Key: logging.FieldCacheLevel, Value: models.CacheLevelPersisted},
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
	).Debug("Promoted pattern entries into memory")
	return entries, true, nil
}

// StorePatterns writes the entries to the persisted store and the memory
// level. The persisted write is transactional; a failure leaves the previous
// rows (and the memory entry) untouched.
func (c *PatternCache) StorePatterns(ctx context.Context, administration string, entries []models.PatternEntry) error {
	storedAt := c.now()
	if err := c.store.InsertPatternRows(ctx, administration, entries, storedAt); err != nil {
		return err
	}
	c.memory.Add(administration, memoryEntry{entries: entries, storedAt: storedAt})
	return nil
}

// Invalidate removes the memory and persisted entries of one administration.
// Callers invoke this synchronously after a bulk import completes, before any
// path that might read patterns again.
func (c *PatternCache) Invalidate(ctx context.Context, administration string) error {
	c.memory.Remove(administration)
	if err := c.store.DeletePatternRows(ctx, administration); err != nil {
		return err
	}
	c.count(&c.invalidations)
	c.logger.WithField(logging.FieldAdministration, administration).Debug("Invalidated pattern cache")
	return nil
}

// Stats returns a snapshot of hit/miss counters and entry counts per level.
func (c *PatternCache) Stats(ctx context.Context) (models.CacheStats, error) {
	persisted, err := c.store.CountPatternRows(ctx)
	if err != nil {
		return models.CacheStats{}, err
	}

	c.mu.Lock()
	stats := models.CacheStats{
		MemoryHits:      c.memoryHits,
		MemoryMisses:    c.memoryMisses,
		PersistedHits:   c.persistedHits,
		PersistedMisses: c.persistedMisses,
		Invalidations:   c.invalidations,
		EntriesByLevel: map[models.CacheLevel]int{
			models.CacheLevelMemory:    c.memory.Len(),
			models.CacheLevelPersisted: persisted,
		},
	}
	c.mu.Unlock()

	lookups := stats.MemoryHits + stats.MemoryMisses
	if lookups > 0 {
		stats.HitRate = float64(stats.MemoryHits+stats.PersistedHits) / float64(lookups)
	}
	return stats, nil
}

func (c *PatternCache) fresh(storedAt time.Time) bool {
	return !storedAt.IsZero() && c.now().Sub(storedAt) <= c.cfg.TTL
}

func (c *PatternCache) count(counter *int64) {
	c.mu.Lock()
	*counter++
	c.mu.Unlock()
}
