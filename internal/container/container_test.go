package container

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterGeers/myAdmin-sub014/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "error"
	cfg.Log.Format = "text"
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Cache.Capacity = 10
	cfg.Cache.TTLHours = 24
	cfg.Analyzer.LookbackYears = 2
	cfg.Duplicate.LookbackYears = 2
	cfg.Duplicate.TimeoutSeconds = 2
	return cfg
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, c.Close())
	}()

	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.Config())
	assert.NotNil(t, c.Store())
	assert.NotNil(t, c.Registry())
	assert.NotNil(t, c.Cache())
	assert.NotNil(t, c.Analyzer())
	assert.NotNil(t, c.Checker())
	assert.NotNil(t, c.Cleanup())
	assert.NotNil(t, c.Importer())
}

func TestNewContainerNilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	assert.Error(t, err)
}

func TestNewContainerBadDatabasePath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Path = filepath.Join(t.TempDir(), "missing", "nested", "test.db")

	_, err := NewContainer(cfg)
	assert.Error(t, err)
}
