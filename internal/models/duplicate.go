package models

import "time"

// DuplicateStatus tells the caller whether the duplicate check actually ran.
type DuplicateStatus string

const (
	// DuplicateStatusChecked means the lookback window was queried in full.
	DuplicateStatusChecked DuplicateStatus = "checked"

	// DuplicateStatusUnknown means the check timed out or could not run;
	// the import may proceed but should be flagged for review.
	DuplicateStatusUnknown DuplicateStatus = "unknown"
)

// DuplicateResult reports prior transactions matching a candidate on
// (reference number, date, amount) within the lookback window.
type DuplicateResult struct {
	Matches        []Transaction
	HasDuplicates  bool
	DuplicateCount int
	Status         DuplicateStatus
}

// Decision is the user's choice after a duplicate warning.
type Decision string

const (
	DecisionContinue Decision = "continue"
	DecisionCancel   Decision = "cancel"
)

// DecisionRecord is the audit trail entry for a continue/cancel choice.
// Unaudited is set when the audit write failed; the decision still stands.
type DecisionRecord struct {
	ID              string
	Administration  string
	ReferenceNumber string
	Decision        Decision
	Actor           string
	Timestamp       time.Time
	Unaudited       bool
}
