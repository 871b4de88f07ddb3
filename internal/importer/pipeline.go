package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/PeterGeers/myAdmin-sub014/internal/cleanup"
	"github.com/PeterGeers/myAdmin-sub014/internal/duplicate"
	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
)

// Predictor fills missing account and reference fields from learned patterns.
type Predictor interface {
	PredictMissingFields(ctx context.Context, tx models.Transaction) (models.Prediction, error)
}

// DuplicateChecker screens candidates against previously booked transactions.
type DuplicateChecker interface {
	CheckForDuplicates(ctx context.Context, candidate models.Transaction) (models.DuplicateResult, error)
	LogDuplicateDecision(ctx context.Context, candidate models.Transaction, decision models.Decision, actor string) (models.DecisionRecord, error)
}

// TransactionSink persists accepted transactions.
type TransactionSink interface {
	InsertTransactions(ctx context.Context, txs []models.Transaction) error
}

// CacheInvalidator drops a tenant's cached patterns after new bookings land.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, administration string) error
}

// Options control one import run.
type Options struct {
	// FileURL is recorded on every imported transaction and used to decide
	// whether a superseded upload should be removed.
	FileURL string

	// ImportDuplicates books transactions even when the duplicate check
	// found prior matches. The decision is written to the audit trail
	// either way.
	ImportDuplicates bool

	// Actor is recorded on duplicate decision audit entries.
	Actor string
}

// Result summarizes an import run.
type Result struct {
	Imported  int
	Predicted int
	Skipped   int
	Unchecked int
}

// Importer runs statement files through prediction and duplicate screening
// and books the survivors.
type Importer struct {
	predictor Predictor
	checker   DuplicateChecker
	sink      TransactionSink
	cache     CacheInvalidator
	cleanup   *cleanup.Manager
	logger    logging.Logger
}

// New constructs an Importer. All collaborators are required except cleanup,
// which may be nil when no uploaded files are involved.
func New(predictor Predictor, checker DuplicateChecker, sink TransactionSink, cache CacheInvalidator, cleanupMgr *cleanup.Manager, logger logging.Logger) *Importer {
	return &Importer{
		predictor: predictor,
		checker:   checker,
		sink:      sink,
		cache:     cache,
		cleanup:   cleanupMgr,
		logger:    logger,
	}
}

// Import screens and books a batch of parsed transactions. Transactions with
// confirmed duplicates are skipped unless opts.ImportDuplicates is set; a
// timed-out duplicate check never blocks the import but is counted in
// Result.Unchecked.
func (i *Importer) Import(ctx context.Context, txs []models.Transaction, opts Options) (Result, error) {
	var result Result
	if len(txs) == 0 {
		return result, nil
	}
	administration := txs[0].Administration

	accepted := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		tx.FileURL = opts.FileURL

		pred, err := i.predictor.PredictMissingFields(ctx, tx)
		if err != nil {
			return result, fmt.Errorf("predicting fields for %q: %w", tx.Description, err)
		}
		if pred.Matched {
			tx = pred.Transaction
			result.Predicted++
		}

		dup, err := i.checker.CheckForDuplicates(ctx, tx)
		switch {
		case errors.Is(err, duplicate.ErrCheckTimeout):
			result.Unchecked++
		case err != nil:
			return result, fmt.Errorf("duplicate check for %q: %w", tx.Description, err)
		}

		if dup.HasDuplicates {
			if !opts.ImportDuplicates {
				i.skipDuplicate(ctx, tx, dup, opts)
				result.Skipped++
				continue
			}
			if _, err := i.checker.LogDuplicateDecision(ctx, tx, models.DecisionContinue, opts.Actor); err != nil {
				i.logger.WithError(err).Warn("Duplicate decision not audited")
			}
		}
		accepted = append(accepted, tx)
	}

	if len(accepted) > 0 {
		if err := i.sink.InsertTransactions(ctx, accepted); err != nil {
			return result, fmt.Errorf("booking transactions: %w", err)
		}
		result.Imported = len(accepted)

		if err := i.cache.Invalidate(ctx, administration); err != nil {
			i.logger.WithError(err).WithField(logging.FieldAdministration, administration).
				Warn("Pattern cache not invalidated after import")
		}
	}

	i.logger.WithFields(
		logging.Field{Key: logging.FieldAdministration, Value: administration},
		logging.Field{Key: logging.FieldCount, Value: result.Imported},
	).Info("Import run finished")
	return result, nil
}

// skipDuplicate records the cancel decision and removes the uploaded file
// when it would only duplicate an already stored statement.
func (i *Importer) skipDuplicate(ctx context.Context, tx models.Transaction, dup models.DuplicateResult, opts Options) {
	i.logger.WithFields(
		logging.Field{Key: logging.FieldReference, Value: tx.ReferenceNumber},
		logging.Field{Key: logging.FieldCount, Value: dup.DuplicateCount},
	).Warn("Skipping duplicate transaction")

	if _, err := i.checker.LogDuplicateDecision(ctx, tx, models.DecisionCancel, opts.Actor); err != nil {
		i.logger.WithError(err).Warn("Duplicate decision not audited")
	}

	if i.cleanup == nil || len(dup.Matches) == 0 {
		return
	}
	existing := dup.Matches[0].FileURL
	if i.cleanup.ShouldCleanupFile(opts.FileURL, existing) {
		if err := i.cleanup.CleanupUploadedFile(opts.FileURL); err != nil {
			i.logger.WithError(err).Warn("Uploaded file not cleaned up")
		}
	}
}
