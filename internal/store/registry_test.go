package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
)

func TestBankAccountRegistry(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bank_accounts.yaml")
	content := `acme:
  - "1100"
  - "1110"
other:
  - "1200"
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))

	r := NewBankAccountRegistry(file, logging.NewMockLogger())

	accounts, err := r.BankAccounts("acme")
	require.NoError(t, err)
	assert.True(t, accounts["1100"])
	assert.True(t, accounts["1110"])
	assert.False(t, accounts["1200"])

	// Unknown administration: empty set, not an error.
	accounts, err = r.BankAccounts("nobody")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestBankAccountRegistry_MissingFile(t *testing.T) {
	r := NewBankAccountRegistry(filepath.Join(t.TempDir(), "missing.yaml"), logging.NewMockLogger())
	accounts, err := r.BankAccounts("acme")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestBankAccountRegistry_Malformed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bank_accounts.yaml")
	require.NoError(t, os.WriteFile(file, []byte("acme: not-a-list\n"), 0600))

	r := NewBankAccountRegistry(file, logging.NewMockLogger())
	_, err := r.BankAccounts("acme")
	assert.Error(t, err)
}
