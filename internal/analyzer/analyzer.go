// Package analyzer builds account and reference predictions for an
// administration from its historical transactions.
package analyzer

import (
	"context"
	"sort"
	"time"

	"github.com/PeterGeers/myAdmin-sub014/internal/cache"
	"github.com/PeterGeers/myAdmin-sub014/internal/extractor"
	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
	"github.com/PeterGeers/myAdmin-sub014/internal/store"
)

// TransactionSource provides the historical transaction scan.
type TransactionSource interface {
	QueryTransactions(ctx context.Context, administration string, from, to time.Time, filter store.TransactionFilter) ([]models.Transaction, error)
}

// BankAccountSource resolves an administration's own bank accounts, used to
// decide which side of a transaction is the known side.
type BankAccountSource interface {
	BankAccounts(administration string) (map[string]bool, error)
}

// Config holds the analyzer tuning knobs.
type Config struct {
	// LookbackYears bounds the historical scan window.
	LookbackYears int
}

// DefaultConfig returns the standard lookback window.
func DefaultConfig() Config {
	return Config{LookbackYears: 2}
}

// PatternFilter selects pattern entries by any combination of fields.
// Empty fields match everything.
type PatternFilter struct {
	ReferenceNumber string
	DebetAccount    string
	CreditAccount   string
}

// Analyzer computes and serves pattern entries. All dependencies are
// injected; the analyzer itself holds no mutable state.
type Analyzer struct {
	source   TransactionSource
	registry BankAccountSource
	cache    *cache.PatternCache
	cfg      Config
	logger   logging.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// New creates an Analyzer.
func New(source TransactionSource, registry BankAccountSource, patternCache *cache.PatternCache, cfg Config, logger logging.Logger) *Analyzer {
	if cfg.LookbackYears <= 0 {
		cfg.LookbackYears = DefaultConfig().LookbackYears
	}
	return &Analyzer{
		source:   source,
		registry: registry,
		cache:    patternCache,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// AnalyzeHistoricalPatterns scans the lookback window and produces one
// pattern entry per distinct pattern key. A storage read failure propagates;
// the caller falls back to "no prediction" rather than blocking the import.
func (a *Analyzer) AnalyzeHistoricalPatterns(ctx context.Context, administration string) ([]models.PatternEntry, error) {
	to := a.now()
	from := to.AddDate(-a.cfg.LookbackYears, 0, 0)

	txs, err := a.source.QueryTransactions(ctx, administration, from, to, store.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	bankAccounts, err := a.registry.BankAccounts(administration)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]models.Transaction)
	for _, tx := range txs {
		key, ok := extractor.ExtractPatternKey(tx.Description)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], tx)
	}

	entries := make([]models.PatternEntry, 0, len(groups))
	for key, group := range groups {
		entry, ok := a.aggregateGroup(administration, key, group, bankAccounts)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	a.logger.WithFields(
		logging.Field{Key: logging.FieldAdministration, Value: administration},
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
	).Debug("Analyzed historical patterns")
	return entries, nil
}

// aggregateGroup reduces one pattern-key group to a single entry. The bank
// side is the side whose account appears in the registry; the opposite side's
// modal account is the prediction, and confidence is the modal share.
func (a *Analyzer) aggregateGroup(administration, key string, group []models.Transaction, bankAccounts map[string]bool) (models.PatternEntry, bool) {
	sideVotes := map[models.BankSide]int{}
	bankVotes := map[models.BankSide]map[string]int{
		models.BankSideDebet:  {},
		models.BankSideCredit: {},
	}
	counterVotes := map[models.BankSide]map[string]int{
		models.BankSideDebet:  {},
		models.BankSideCredit: {},
	}
	refVotes := map[string]int{}
	var lastSeen time.Time

	for _, tx := range group {
		side := models.BankSideDebet
		switch {
		case bankAccounts[tx.DebetAccount]:
			side = models.BankSideDebet
		case bankAccounts[tx.CreditAccount]:
			side = models.BankSideCredit
		case tx.DebetAccount == "":
			// Neither side registered and the debet side is unfilled:
			// nothing usable to learn from this row.
			continue
		}

		sideVotes[side]++
		if side == models.BankSideDebet {
			bankVotes[side][tx.DebetAccount]++
			if tx.CreditAccount != "" {
				counterVotes[side][tx.CreditAccount]++
			}
		} else {
			bankVotes[side][tx.CreditAccount]++
			if tx.DebetAccount != "" {
				counterVotes[side][tx.DebetAccount]++
			}
		}
		if tx.ReferenceNumber != "" {
			refVotes[tx.ReferenceNumber]++
		}
		if tx.Date.After(lastSeen) {
			lastSeen = tx.Date
		}
	}

	side, sideCount := modal(sideVotes)
	if sideCount == 0 {
		return models.PatternEntry{}, false
	}
	bankAccount, _ := modal(bankVotes[side])
	if bankAccount == "" {
		return models.PatternEntry{}, false
	}
	counterparty, counterCount := modal(counterVotes[side])
	if counterCount == 0 {
		// Only the bank side ever appeared; an entry without a counterparty
		// predicts nothing and must not surface as a match.
		return models.PatternEntry{}, false
	}
	reference, _ := modal(refVotes)

	occurrences := len(group)
	confidence := float64(counterCount) / float64(occurrences) * 100

	entry, err := models.NewPatternEntry(administration, key, side, bankAccount, counterparty, reference, occurrences, confidence, lastSeen)
	if err != nil {
		a.logger.WithError(err).WithField(logging.FieldPatternKey, key).Warn("Skipping unusable pattern group")
		return models.PatternEntry{}, false
	}
	return entry, true
}

// GetFilteredPatterns returns the pattern entries matching the filter,
// serving from the cache when possible. On a cache miss it explicitly
// recomputes and stores the result before returning.
func (a *Analyzer) GetFilteredPatterns(ctx context.Context, administration string, filter PatternFilter) ([]models.PatternEntry, error) {
	entries, found, err := a.cache.GetPatterns(ctx, administration)
	if err != nil {
		return nil, err
	}
	if !found {
		entries, err = a.AnalyzeHistoricalPatterns(ctx, administration)
		if err != nil {
			return nil, err
		}
		if err := a.cache.StorePatterns(ctx, administration, entries); err != nil {
			// The result is still valid; the previous persisted rows stay
			// in place for the next lookup.
			a.logger.WithError(err).WithField(logging.FieldAdministration, administration).Warn("Failed to store recomputed patterns")
		}
	}

	filtered := make([]models.PatternEntry, 0, len(entries))
	for _, e := range entries {
		if filter.ReferenceNumber != "" && e.ReferenceNumber != filter.ReferenceNumber {
			continue
		}
		if filter.DebetAccount != "" && e.DebetAccount != filter.DebetAccount {
			continue
		}
		if filter.CreditAccount != "" && e.CreditAccount != filter.CreditAccount {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

// PredictMissingFields fills the empty debet/credit/reference fields of a
// transaction from the best matching pattern entry. A transaction with no
// matching pattern comes back unchanged at confidence 0.
func (a *Analyzer) PredictMissingFields(ctx context.Context, tx models.Transaction) (models.Prediction, error) {
	if !tx.HasMissingFields() {
		return models.NoPrediction(tx), nil
	}

	key, ok := extractor.ExtractPatternKey(tx.Description)
	if !ok {
		return models.NoPrediction(tx), nil
	}

	entries, err := a.GetFilteredPatterns(ctx, tx.Administration, PatternFilter{})
	if err != nil {
		return models.NoPrediction(tx), err
	}

	var matches []models.PatternEntry
	for _, e := range entries {
		if e.PatternKey == key {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return models.NoPrediction(tx), nil
	}

	best := bestEntry(matches)
	if tx.DebetAccount == "" {
		tx.DebetAccount = best.DebetAccount
	}
	if tx.CreditAccount == "" {
		tx.CreditAccount = best.CreditAccount
	}
	if tx.ReferenceNumber == "" {
		tx.ReferenceNumber = best.ReferenceNumber
	}

	return models.Prediction{
		Transaction: tx,
		PatternKey:  key,
		Confidence:  best.Confidence,
		Matched:     true,
	}, nil
}

// bestEntry applies the tie-break policy: confidence, then occurrences, then
// most recently observed transaction date.
func bestEntry(entries []models.PatternEntry) models.PatternEntry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Confidence != entries[j].Confidence {
			return entries[i].Confidence > entries[j].Confidence
		}
		if entries[i].Occurrences != entries[j].Occurrences {
			return entries[i].Occurrences > entries[j].Occurrences
		}
		return entries[i].LastSeen.After(entries[j].LastSeen)
	})
	return entries[0]
}

// modal returns the most frequent key of a vote map and its count.
func modal[K comparable](votes map[K]int) (K, int) {
	var best K
	bestCount := 0
	for k, n := range votes {
		if n > bestCount {
			best, bestCount = k, n
		}
	}
	return best, bestCount
}
