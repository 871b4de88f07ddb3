// Package models provides the data structures used throughout the application.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one bank or ledger entry (a "mutatie") for a single
// administration. DebetAccount, CreditAccount and ReferenceNumber may be empty
// when the record arrives from an import and has not been annotated yet.
type Transaction struct {
	Administration  string
	Date            time.Time
	Description     string
	Amount          decimal.Decimal
	DebetAccount    string
	CreditAccount   string
	ReferenceNumber string
	FileURL         string
}

// NewTransaction creates a Transaction and enforces that the administration
// is never empty. The amount sign convention is the caller's responsibility.
func NewTransaction(administration string, date time.Time, description string, amount decimal.Decimal) (Transaction, error) {
	if strings.TrimSpace(administration) == "" {
		return Transaction{}, fmt.Errorf("transaction requires a non-empty administration")
	}
	return Transaction{
		Administration: administration,
		Date:           date,
		Description:    description,
		Amount:         amount,
	}, nil
}

// HasMissingFields reports whether any of the fields the pattern subsystem
// can predict are still unset.
func (t *Transaction) HasMissingFields() bool {
	return t.DebetAccount == "" || t.CreditAccount == "" || t.ReferenceNumber == ""
}

// ParseAmount parses a string amount to decimal.Decimal. It tolerates the
// Dutch bank export conventions: comma decimal separator, dot or apostrophe
// thousand separators, and a currency symbol or code prefix.
func ParseAmount(amountStr string) decimal.Decimal {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "EUR", "")
	amount = strings.ReplaceAll(amount, "€", "")
	amount = strings.ReplaceAll(amount, "'", "")

	// "1.234,56" -> "1234.56"; a dot is only a thousand separator when a
	// comma decimal separator is present.
	if strings.Contains(amount, ",") {
		amount = strings.ReplaceAll(amount, ".", "")
		amount = strings.ReplaceAll(amount, ",", ".")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return dec
}
