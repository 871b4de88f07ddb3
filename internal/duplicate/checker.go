// Package duplicate detects probable duplicate transaction imports and keeps
// the audit trail of the user's continue/cancel decisions.
package duplicate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
)

// ErrCheckTimeout is returned when the duplicate check could not finish
// within its time budget. The import may proceed; the result carries
// Status=unknown so a human can review later.
var ErrCheckTimeout = errors.New("duplicate check timed out")

// ErrUnaudited is returned when the audit write for a decision failed. The
// decision itself still takes effect.
var ErrUnaudited = errors.New("duplicate decision not audited")

// Source provides the window query and the audit sink.
type Source interface {
	FindMatchingTransactions(ctx context.Context, administration, referenceNumber string, date time.Time, amount decimal.Decimal, from time.Time) ([]models.Transaction, error)
	InsertAuditRecord(ctx context.Context, rec models.DecisionRecord) error
}

// Config holds the duplicate checker tuning knobs.
type Config struct {
	// LookbackYears bounds the historical window scanned for matches.
	LookbackYears int

	// Timeout is the time budget for one check.
	Timeout time.Duration
}

// DefaultConfig returns the standard window and budget.
func DefaultConfig() Config {
	return Config{
		LookbackYears: 2,
		Timeout:       2 * time.Second,
	}
}

// Checker runs duplicate checks against the historical window.
type Checker struct {
	source Source
	cfg    Config
	logger logging.Logger

	// now and newID are replaceable in tests.
	now   func() time.Time
	newID func() string
}

// New creates a Checker.
func New(source Source, cfg Config, logger logging.Logger) *Checker {
	if cfg.LookbackYears <= 0 {
		cfg.LookbackYears = DefaultConfig().LookbackYears
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Checker{
		source: source,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// CheckForDuplicates looks for prior transactions of the same administration
// matching the candidate exactly on (reference number, date, amount) within
// the lookback window. A timeout yields Status=unknown together with
// ErrCheckTimeout; the caller should warn and allow the import.
func (c *Checker) CheckForDuplicates(ctx context.Context, candidate models.Transaction) (models.DuplicateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	from := c.now().AddDate(-c.cfg.LookbackYears, 0, 0)
	matches, err := c.source.FindMatchingTransactions(ctx, candidate.Administration,
		candidate.ReferenceNumber, candidate.Date, candidate.Amount, from)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			c.logger.WithField(logging.FieldAdministration, candidate.Administration).
				Warn("Duplicate check timed out, status unknown")
			return models.DuplicateResult{Status: models.DuplicateStatusUnknown}, ErrCheckTimeout
		}
		return models.DuplicateResult{Status: models.DuplicateStatusUnknown}, err
	}

	return models.DuplicateResult{
		Matches:        matches,
		HasDuplicates:  len(matches) > 0,
		DuplicateCount: len(matches),
		Status:         models.DuplicateStatusChecked,
	}, nil
}

// LogDuplicateDecision appends the audit record for a continue/cancel choice.
// If the audit write fails the returned record is flagged Unaudited and
// ErrUnaudited is surfaced; the decision still stands.
func (c *Checker) LogDuplicateDecision(ctx context.Context, candidate models.Transaction, decision models.Decision, actor string) (models.DecisionRecord, error) {
	rec := models.DecisionRecord{
		ID:              c.newID(),
		Administration:  candidate.Administration,
		ReferenceNumber: candidate.ReferenceNumber,
		Decision:        decision,
		Actor:           actor,
		Timestamp:       c.now(),
	}

	if err := c.source.InsertAuditRecord(ctx, rec); err != nil {
		rec.Unaudited = true
		c.logger.WithError(err).WithFields(
			logging.Field{Key: logging.FieldAdministration, Value: candidate.Administration},
			logging.Field{Key: logging.FieldDecision, Value: string(decision)},
		).Error("Audit write failed for duplicate decision")
		return rec, fmt.Errorf("%w: %v", ErrUnaudited, err)
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldAdministration, Value: candidate.Administration},
		logging.Field{Key: logging.FieldDecision, Value: string(decision)},
		logging.Field{Key: logging.FieldActor, Value: actor},
	).Info("Recorded duplicate decision")
	return rec, nil
}
