package models

// CacheLevel names one level of the pattern cache.
type CacheLevel string

const (
	CacheLevelMemory    CacheLevel = "memory"
	CacheLevelPersisted CacheLevel = "persisted"
)

// CacheStats is a point-in-time snapshot of cache behaviour used for
// reporting. HitRate is the overall hit fraction across both levels.
type CacheStats struct {
	MemoryHits      int64
	MemoryMisses    int64
	PersistedHits   int64
	PersistedMisses int64
	Invalidations   int64
	HitRate         float64
	EntriesByLevel  map[CacheLevel]int
}
