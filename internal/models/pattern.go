package models

import (
	"fmt"
	"strings"
	"time"
)

// BankSide identifies which side of a double-entry pair is the administration's
// own bank account.
type BankSide string

const (
	// BankSideDebet means the debet account is the bank account and the
	// credit side is the predicted counterparty account.
	BankSideDebet BankSide = "debet"

	// BankSideCredit means the credit account is the bank account and the
	// debet side is the predicted counterparty account.
	BankSideCredit BankSide = "credit"
)

// PatternEntry is one inferred rule: transactions whose description reduces
// to PatternKey, for this administration, usually carry these accounts and
// this reference number. A pattern only ever predicts the counterparty side;
// the bank side is known from the administration's account registry.
type PatternEntry struct {
	Administration  string
	PatternKey      string
	DebetAccount    string
	CreditAccount   string
	ReferenceNumber string
	BankSide        BankSide
	Occurrences     int
	Confidence      float64
	LastSeen        time.Time
}

// NewPatternEntry builds a PatternEntry from the known bank side and the
// predicted counterparty account. The constructor enforces the invariant that
// exactly one side is the bank account and the other is the prediction.
func NewPatternEntry(administration, patternKey string, side BankSide, bankAccount, counterpartyAccount, referenceNumber string, occurrences int, confidence float64, lastSeen time.Time) (PatternEntry, error) {
	if strings.TrimSpace(administration) == "" {
		return PatternEntry{}, fmt.Errorf("pattern entry requires a non-empty administration")
	}
	if strings.TrimSpace(patternKey) == "" {
		return PatternEntry{}, fmt.Errorf("pattern entry requires a non-empty pattern key")
	}
	if bankAccount == "" {
		return PatternEntry{}, fmt.Errorf("pattern entry requires the known bank account")
	}
	if confidence < 0 || confidence > 100 {
		return PatternEntry{}, fmt.Errorf("confidence must be between 0 and 100, got %v", confidence)
	}

	entry := PatternEntry{
		Administration:  administration,
		PatternKey:      patternKey,
		ReferenceNumber: referenceNumber,
		BankSide:        side,
		Occurrences:     occurrences,
		Confidence:      confidence,
		LastSeen:        lastSeen,
	}

	switch side {
	case BankSideDebet:
		entry.DebetAccount = bankAccount
		entry.CreditAccount = counterpartyAccount
	case BankSideCredit:
		entry.CreditAccount = bankAccount
		entry.DebetAccount = counterpartyAccount
	default:
		return PatternEntry{}, fmt.Errorf("invalid bank side %q", side)
	}

	return entry, nil
}

// PredictedAccount returns the counterparty account this entry predicts.
func (p *PatternEntry) PredictedAccount() string {
	if p.BankSide == BankSideDebet {
		return p.CreditAccount
	}
	return p.DebetAccount
}

// BankAccount returns the known bank-side account of this entry.
func (p *PatternEntry) BankAccount() string {
	if p.BankSide == BankSideDebet {
		return p.DebetAccount
	}
	return p.CreditAccount
}
