// Package stats handles cache statistics commands
package stats

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PeterGeers/myAdmin-sub014/cmd/root"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
)

// Cmd represents the stats command
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pattern cache statistics",
	RunE:  statsFunc,
}

func statsFunc(cmd *cobra.Command, args []string) error {
	stats, err := root.Deps.Cache().Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Memory entries:    %d\n", stats.EntriesByLevel[models.CacheLevelMemory])
	fmt.Printf("Persisted entries: %d\n", stats.EntriesByLevel[models.CacheLevelPersisted])
	fmt.Printf("Memory hits:       %d\n", stats.MemoryHits)
	fmt.Printf("Memory misses:     %d\n", stats.MemoryMisses)
	fmt.Printf("Persisted hits:    %d\n", stats.PersistedHits)
	fmt.Printf("Persisted misses:  %d\n", stats.PersistedMisses)
	fmt.Printf("Invalidations:     %d\n", stats.Invalidations)
	fmt.Printf("Hit rate:          %.0f%%\n", stats.HitRate*100)
	return nil
}
