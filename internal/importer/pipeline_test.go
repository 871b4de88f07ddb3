package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterGeers/myAdmin-sub014/internal/cleanup"
	"github.com/PeterGeers/myAdmin-sub014/internal/duplicate"
	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
)

type stubPredictor struct {
	fill map[string]models.Transaction
}

func (s *stubPredictor) PredictMissingFields(_ context.Context, tx models.Transaction) (models.Prediction, error) {
	if filled, ok := s.fill[tx.Description]; ok {
		return models.Prediction{Transaction: filled, PatternKey: "BETALING_ACME", Confidence: 90, Matched: true}, nil
	}
	return models.NoPrediction(tx), nil
}

type stubChecker struct {
	duplicates map[string]models.DuplicateResult
	timeout    map[string]bool
	decisions  []models.Decision
}

func (s *stubChecker) CheckForDuplicates(_ context.Context, candidate models.Transaction) (models.DuplicateResult, error) {
	if s.timeout[candidate.ReferenceNumber] {
		return models.DuplicateResult{Status: models.DuplicateStatusUnknown}, duplicate.ErrCheckTimeout
	}
	if res, ok := s.duplicates[candidate.ReferenceNumber]; ok {
		return res, nil
	}
	return models.DuplicateResult{Status: models.DuplicateStatusChecked}, nil
}

func (s *stubChecker) LogDuplicateDecision(_ context.Context, _ models.Transaction, decision models.Decision, _ string) (models.DecisionRecord, error) {
	s.decisions = append(s.decisions, decision)
	return models.DecisionRecord{Decision: decision}, nil
}

type stubSink struct {
	inserted []models.Transaction
}

func (s *stubSink) InsertTransactions(_ context.Context, txs []models.Transaction) error {
	s.inserted = append(s.inserted, txs...)
	return nil
}

type stubCache struct {
	invalidated []string
}

func (s *stubCache) Invalidate(_ context.Context, administration string) error {
	s.invalidated = append(s.invalidated, administration)
	return nil
}

func makeTx(t *testing.T, description, reference string) models.Transaction {
	t.Helper()
	tx, err := models.NewTransaction("acme", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		description, decimal.RequireFromString("150.00"))
	require.NoError(t, err)
	tx.ReferenceNumber = reference
	return tx
}

func TestImportPredictsAndBooks(t *testing.T) {
	tx := makeTx(t, "BETALING ACME SUPPLIES", "REF-001")
	filled := tx
	filled.DebetAccount = "4000"
	filled.CreditAccount = "1100"

	predictor := &stubPredictor{fill: map[string]models.Transaction{tx.Description: filled}}
	checker := &stubChecker{}
	sink := &stubSink{}
	cache := &stubCache{}

	imp := New(predictor, checker, sink, cache, nil, logging.NewMockLogger())
	result, err := imp.Import(context.Background(), []models.Transaction{tx}, Options{})
	require.NoError(t, err)

	assert.Equal(t, Result{Imported: 1, Predicted: 1}, result)
	require.Len(t, sink.inserted, 1)
	assert.Equal(t, "4000", sink.inserted[0].DebetAccount)
	assert.Equal(t, []string{"acme"}, cache.invalidated)
}

func TestImportSkipsDuplicates(t *testing.T) {
	fresh := makeTx(t, "BETALING ACME SUPPLIES", "REF-001")
	dup := makeTx(t, "BETALING ACME SUPPLIES", "REF-DUP")

	checker := &stubChecker{duplicates: map[string]models.DuplicateResult{
		"REF-DUP": {
			Matches:        []models.Transaction{fresh},
			HasDuplicates:  true,
			DuplicateCount: 1,
			Status:         models.DuplicateStatusChecked,
		},
	}}
	sink := &stubSink{}
	cache := &stubCache{}
	logger := logging.NewMockLogger()

	imp := New(&stubPredictor{}, checker, sink, cache, nil, logger)
	result, err := imp.Import(context.Background(), []models.Transaction{fresh, dup}, Options{Actor: "peter"})
	require.NoError(t, err)

	assert.Equal(t, Result{Imported: 1, Skipped: 1}, result)
	assert.Len(t, sink.inserted, 1)
	assert.Equal(t, []models.Decision{models.DecisionCancel}, checker.decisions)
	assert.True(t, logger.HasMessage("Skipping duplicate transaction"))
}

func TestImportDuplicatesWhenForced(t *testing.T) {
	dup := makeTx(t, "BETALING ACME SUPPLIES", "REF-DUP")

	checker := &stubChecker{duplicates: map[string]models.DuplicateResult{
		"REF-DUP": {Matches: []models.Transaction{dup}, HasDuplicates: true, DuplicateCount: 1, Status: models.DuplicateStatusChecked},
	}}
	sink := &stubSink{}

	imp := New(&stubPredictor{}, checker, sink, &stubCache{}, nil, logging.NewMockLogger())
	result, err := imp.Import(context.Background(), []models.Transaction{dup}, Options{ImportDuplicates: true, Actor: "peter"})
	require.NoError(t, err)

	assert.Equal(t, Result{Imported: 1}, result)
	assert.Equal(t, []models.Decision{models.DecisionContinue}, checker.decisions)
}

func TestImportContinuesOnCheckTimeout(t *testing.T) {
	tx := makeTx(t, "BETALING ACME SUPPLIES", "REF-SLOW")
	checker := &stubChecker{timeout: map[string]bool{"REF-SLOW": true}}
	sink := &stubSink{}

	imp := New(&stubPredictor{}, checker, sink, &stubCache{}, nil, logging.NewMockLogger())
	result, err := imp.Import(context.Background(), []models.Transaction{tx}, Options{})
	require.NoError(t, err)

	assert.Equal(t, Result{Imported: 1, Unchecked: 1}, result)
	assert.Len(t, sink.inserted, 1)
}

func TestImportCleansUpSupersededUpload(t *testing.T) {
	dir := t.TempDir()
	upload := filepath.Join(dir, "upload.csv")
	require.NoError(t, os.WriteFile(upload, []byte("data"), 0o600))

	existing := makeTx(t, "BETALING ACME SUPPLIES", "REF-DUP")
	existing.FileURL = filepath.Join(dir, "original.csv")
	dup := makeTx(t, "BETALING ACME SUPPLIES", "REF-DUP")

	checker := &stubChecker{duplicates: map[string]models.DuplicateResult{
		"REF-DUP": {Matches: []models.Transaction{existing}, HasDuplicates: true, DuplicateCount: 1, Status: models.DuplicateStatusChecked},
	}}
	logger := logging.NewMockLogger()
	mgr := cleanup.NewManager(cleanup.LocalFileStore{}, logger)

	imp := New(&stubPredictor{}, checker, &stubSink{}, &stubCache{}, mgr, logger)
	result, err := imp.Import(context.Background(), []models.Transaction{dup}, Options{FileURL: upload})
	require.NoError(t, err)

	assert.Equal(t, Result{Skipped: 1}, result)
	_, statErr := os.Stat(upload)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportEmptyBatch(t *testing.T) {
	imp := New(&stubPredictor{}, &stubChecker{}, &stubSink{}, &stubCache{}, nil, logging.NewMockLogger())
	result, err := imp.Import(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}
