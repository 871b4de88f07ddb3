package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewTransaction_RequiresAdministration(t *testing.T) {
	_, err := NewTransaction("", time.Now(), "PAYMENT ACME", decimal.NewFromInt(10))
	assert.Error(t, err)

	_, err = NewTransaction("   ", time.Now(), "PAYMENT ACME", decimal.NewFromInt(10))
	assert.Error(t, err)

	tx, err := NewTransaction("acme", time.Now(), "PAYMENT ACME", decimal.NewFromInt(10))
	assert.NoError(t, err)
	assert.Equal(t, "acme", tx.Administration)
}

func TestHasMissingFields(t *testing.T) {
	tx := Transaction{Administration: "acme", DebetAccount: "1100", CreditAccount: "4000", ReferenceNumber: "INV1"}
	assert.False(t, tx.HasMissingFields())

	tx.ReferenceNumber = ""
	assert.True(t, tx.HasMissingFields())

	tx = Transaction{Administration: "acme"}
	assert.True(t, tx.HasMissingFields())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "150.00", "150"},
		{"dutch decimal comma", "150,25", "150.25"},
		{"thousand separator dot", "1.234,56", "1234.56"},
		{"currency code", "EUR 99,95", "99.95"},
		{"euro symbol", "€ 12,50", "12.5"},
		{"negative", "-45,10", "-45.1"},
		{"garbage", "abc", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			want, err := decimal.NewFromString(tt.want)
			assert.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}
