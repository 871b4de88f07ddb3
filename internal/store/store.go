// Package store provides the relational storage accessor for transactions
// ("mutaties"), persisted pattern rows and the duplicate-decision audit log.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// ErrDataUnavailable marks a failed storage read. Callers must fall back to
// "no prediction" rather than blocking the import pipeline.
var ErrDataUnavailable = errors.New("storage unavailable")

const schemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS mutaties (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	administration   TEXT NOT NULL,
	transaction_date TEXT NOT NULL,
	description      TEXT NOT NULL,
	amount           TEXT NOT NULL,
	debet_account    TEXT NOT NULL DEFAULT '',
	credit_account   TEXT NOT NULL DEFAULT '',
	reference_number TEXT NOT NULL DEFAULT '',
	file_url         TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS pattern_cache (
	administration   TEXT NOT NULL,
	pattern_key      TEXT NOT NULL,
	debet_account    TEXT NOT NULL DEFAULT '',
	credit_account   TEXT NOT NULL DEFAULT '',
	reference_number TEXT NOT NULL DEFAULT '',
	bank_side        TEXT NOT NULL,
	occurrences      INTEGER NOT NULL,
	confidence       REAL NOT NULL,
	last_seen        TEXT NOT NULL,
	stored_at        TEXT NOT NULL,
	PRIMARY KEY (administration, pattern_key)
);

CREATE TABLE IF NOT EXISTS duplicate_audit (
	id               TEXT PRIMARY KEY,
	administration   TEXT NOT NULL,
	reference_number TEXT NOT NULL DEFAULT '',
	decision         TEXT NOT NULL,
	actor            TEXT NOT NULL,
	decided_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mutaties_admin_date
	ON mutaties(administration, transaction_date);

CREATE INDEX IF NOT EXISTS idx_mutaties_duplicate
	ON mutaties(administration, reference_number, transaction_date, amount);
`

// dateLayout is the ISO date format used for all date columns.
const dateLayout = "2006-01-02"

// Store is the storage accessor. All methods are safe for concurrent use;
// database/sql provides the connection pooling.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the SQLite database at path and ensures the schema
// is at the current version.
func Open(path string, logger logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure db: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(schemaV1); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_meta LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec(`INSERT INTO schema_meta (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("unsupported schema version %d (want %d)", version, schemaVersion)
	}
	return nil
}

// TransactionFilter holds optional column filters for QueryTransactions.
// Empty fields match everything.
type TransactionFilter struct {
	DebetAccount    string
	CreditAccount   string
	ReferenceNumber string
}

// QueryTransactions returns the transactions of one administration between
// two dates (inclusive) that match the filter, ordered by date ascending.
func (s *Store) QueryTransactions(ctx context.Context, administration string, from, to time.Time, filter TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT administration, transaction_date, description, amount,
		debet_account, credit_account, reference_number, file_url
		FROM mutaties
		WHERE administration = ? AND transaction_date >= ? AND transaction_date <= ?`
	args := []interface{}{administration, from.Format(dateLayout), to.Format(dateLayout)}

	if filter.DebetAccount != "" {
		query += ` AND debet_account = ?`
		args = append(args, filter.DebetAccount)
	}
	if filter.CreditAccount != "" {
		query += ` AND credit_account = ?`
		args = append(args, filter.CreditAccount)
	}
	if filter.ReferenceNumber != "" {
		query += ` AND reference_number = ?`
		args = append(args, filter.ReferenceNumber)
	}
	query += ` ORDER BY transaction_date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query mutaties for %s: %v", ErrDataUnavailable, administration, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close result set")
		}
	}()

	return scanTransactions(rows, administration)
}

// FindMatchingTransactions returns prior transactions of one administration
// with exactly the given reference number, date and amount, no older than the
// from date. The (administration, reference, date) triple is matched in SQL,
// served by the composite index; the amount is compared in Go with
// decimal.Equal so that "150" and "150.00" match while any nonzero delta,
// however small, does not.
func (s *Store) FindMatchingTransactions(ctx context.Context, administration, referenceNumber string, date time.Time, amount decimal.Decimal, from time.Time) ([]models.Transaction, error) {
	query := `SELECT administration, transaction_date, description, amount,
		debet_account, credit_account, reference_number, file_url
		FROM mutaties
		WHERE administration = ? AND reference_number = ?
		  AND transaction_date = ? AND transaction_date >= ?`

	rows, err := s.db.QueryContext(ctx, query,
		administration, referenceNumber, date.Format(dateLayout), from.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("%w: find matching mutaties for %s: %v", ErrDataUnavailable, administration, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close result set")
		}
	}()

	candidates, err := scanTransactions(rows, administration)
	if err != nil {
		return nil, err
	}

	var matches []models.Transaction
	for _, tx := range candidates {
		if tx.Amount.Equal(amount) {
			matches = append(matches, tx)
		}
	}
	return matches, nil
}

// InsertTransactions writes a batch of transactions in a single database
// transaction.
func (s *Store) InsertTransactions(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert mutaties: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx, `INSERT INTO mutaties
		(administration, transaction_date, description, amount,
		 debet_account, credit_account, reference_number, file_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = dbTx.Rollback()
		return fmt.Errorf("prepare insert mutaties: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close statement")
		}
	}()

	for _, tx := range txs {
		if _, err := stmt.ExecContext(ctx,
			tx.Administration, tx.Date.Format(dateLayout), tx.Description,
			normalizeAmount(tx.Amount), tx.DebetAccount, tx.CreditAccount,
			tx.ReferenceNumber, tx.FileURL); err != nil {
			_ = dbTx.Rollback()
			return fmt.Errorf("insert mutatie: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit insert mutaties: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldAdministration, Value: txs[0].Administration},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
	).Debug("Inserted transactions")
	return nil
}

// InsertPatternRows supersedes the persisted pattern rows of one
// administration in a single transaction, so a failed recomputation can never
// leave the tenant without its previous rows.
func (s *Store) InsertPatternRows(ctx context.Context, administration string, entries []models.PatternEntry, storedAt time.Time) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert pattern rows: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM pattern_cache WHERE administration = ?`, administration); err != nil {
		_ = dbTx.Rollback()
		return fmt.Errorf("supersede pattern rows: %w", err)
	}

	for _, e := range entries {
		if _, err := dbTx.ExecContext(ctx, `INSERT INTO pattern_cache
			(administration, pattern_key, debet_account, credit_account,
			 reference_number, bank_side, occurrences, confidence, last_seen, stored_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Administration, e.PatternKey, e.DebetAccount, e.CreditAccount,
			e.ReferenceNumber, string(e.BankSide), e.Occurrences, e.Confidence,
			e.LastSeen.Format(dateLayout), storedAt.UTC().Format(time.RFC3339)); err != nil {
			_ = dbTx.Rollback()
			return fmt.Errorf("insert pattern row %s: %w", e.PatternKey, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit pattern rows: %w", err)
	}
	return nil
}

// QueryPatternRows returns the persisted pattern rows of one administration
// and the time they were stored. A tenant with no rows yields an empty slice
// and a zero time, not an error.
func (s *Store) QueryPatternRows(ctx context.Context, administration string) ([]models.PatternEntry, time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT administration, pattern_key,
		debet_account, credit_account, reference_number, bank_side,
		occurrences, confidence, last_seen, stored_at
		FROM pattern_cache WHERE administration = ?`, administration)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: query pattern rows for %s: %v", ErrDataUnavailable, administration, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close result set")
		}
	}()

	var entries []models.PatternEntry
	var storedAt time.Time
	for rows.Next() {
		var e models.PatternEntry
		var side, lastSeen, stored string
		if err := rows.Scan(&e.Administration, &e.PatternKey, &e.DebetAccount,
			&e.CreditAccount, &e.ReferenceNumber, &side, &e.Occurrences,
			&e.Confidence, &lastSeen, &stored); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: scan pattern row: %v", ErrDataUnavailable, err)
		}
		e.BankSide = models.BankSide(side)
		if e.LastSeen, err = time.Parse(dateLayout, lastSeen); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: parse last_seen %q: %v", ErrDataUnavailable, lastSeen, err)
		}
		ts, err := time.Parse(time.RFC3339, stored)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: parse stored_at %q: %v", ErrDataUnavailable, stored, err)
		}
		if storedAt.IsZero() || ts.Before(storedAt) {
			storedAt = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: iterate pattern rows: %v", ErrDataUnavailable, err)
	}
	return entries, storedAt, nil
}

// DeletePatternRows removes all persisted pattern rows of one administration.
func (s *Store) DeletePatternRows(ctx context.Context, administration string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pattern_cache WHERE administration = ?`, administration); err != nil {
		return fmt.Errorf("delete pattern rows for %s: %w", administration, err)
	}
	return nil
}

// CountPatternRows reports the number of persisted pattern rows across all
// administrations, used for cache statistics.
func (s *Store) CountPatternRows(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pattern_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count pattern rows: %v", ErrDataUnavailable, err)
	}
	return n, nil
}

// InsertAuditRecord appends one duplicate-decision audit record.
func (s *Store) InsertAuditRecord(ctx context.Context, rec models.DecisionRecord) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO duplicate_audit
		(id, administration, reference_number, decision, actor, decided_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Administration, rec.ReferenceNumber, string(rec.Decision),
		rec.Actor, rec.Timestamp.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

func scanTransactions(rows *sql.Rows, administration string) ([]models.Transaction, error) {
	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var date, amount string
		if err := rows.Scan(&tx.Administration, &date, &tx.Description, &amount,
			&tx.DebetAccount, &tx.CreditAccount, &tx.ReferenceNumber, &tx.FileURL); err != nil {
			return nil, fmt.Errorf("%w: scan mutatie: %v", ErrDataUnavailable, err)
		}
		var err error
		if tx.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("%w: parse transaction_date %q: %v", ErrDataUnavailable, date, err)
		}
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("%w: parse amount %q: %v", ErrDataUnavailable, amount, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate mutaties for %s: %v", ErrDataUnavailable, administration, err)
	}
	return txs, nil
}

// normalizeAmount renders amounts in canonical form for storage. Trailing
// zeros are dropped so "150" and "150.00" store the same text, while the
// value itself is kept at full precision.
func normalizeAmount(d decimal.Decimal) string {
	return d.String()
}
