// Package container provides dependency injection for the myAdmin pattern
// subsystem. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"github.com/PeterGeers/myAdmin-sub014/internal/analyzer"
	"github.com/PeterGeers/myAdmin-sub014/internal/cache"
	"github.com/PeterGeers/myAdmin-sub014/internal/cleanup"
	"github.com/PeterGeers/myAdmin-sub014/internal/config"
	"github.com/PeterGeers/myAdmin-sub014/internal/duplicate"
	"github.com/PeterGeers/myAdmin-sub014/internal/importer"
	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/store"
)

// Container holds all application dependencies and provides methods to access
// them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods. This prevents accidental modification
// of dependencies after initialization.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	store    *store.Store
	registry *store.BankAccountRegistry
	cache    *cache.PatternCache
	analyzer *analyzer.Analyzer
	checker  *duplicate.Checker
	cleanup  *cleanup.Manager
	importer *importer.Importer
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := config.ConfigureLoggingFromConfig(cfg)

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	registry := store.NewBankAccountRegistry(cfg.Registry.File, logger)

	patternCache, err := cache.New(st, cache.Config{
		Capacity: cfg.Cache.Capacity,
		TTL:      cfg.CacheTTL(),
	}, logger)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("creating pattern cache: %w", err)
	}

	patternAnalyzer := analyzer.New(st, registry, patternCache, analyzer.Config{
		LookbackYears: cfg.Analyzer.LookbackYears,
	}, logger)

	checker := duplicate.New(st, duplicate.Config{
		LookbackYears: cfg.Duplicate.LookbackYears,
		Timeout:       cfg.DuplicateTimeout(),
	}, logger)

	cleanupMgr := cleanup.NewManager(cleanup.LocalFileStore{}, logger)

	imp := importer.New(patternAnalyzer, checker, st, patternCache, cleanupMgr, logger)

	return &Container{
		logger:   logger,
		config:   cfg,
		store:    st,
		registry: registry,
		cache:    patternCache,
		analyzer: patternAnalyzer,
		checker:  checker,
		cleanup:  cleanupMgr,
		importer: imp,
	}, nil
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	return c.store.Close()
}

// Logger returns the application logger.
func (c *Container) Logger() logging.Logger { return c.logger }

// Config returns the application configuration.
func (c *Container) Config() *config.Config { return c.config }

// Store returns the SQLite-backed transaction store.
func (c *Container) Store() *store.Store { return c.store }

// Registry returns the bank account registry.
func (c *Container) Registry() *store.BankAccountRegistry { return c.registry }

// Cache returns the two-level pattern cache.
func (c *Container) Cache() *cache.PatternCache { return c.cache }

// Analyzer returns the pattern analyzer.
func (c *Container) Analyzer() *analyzer.Analyzer { return c.analyzer }

// Checker returns the duplicate checker.
func (c *Container) Checker() *duplicate.Checker { return c.checker }

// Cleanup returns the uploaded file cleanup manager.
func (c *Container) Cleanup() *cleanup.Manager { return c.cleanup }

// Importer returns the statement import pipeline.
func (c *Container) Importer() *importer.Importer { return c.importer }
