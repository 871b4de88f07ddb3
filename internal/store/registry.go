package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
)

// BankAccountRegistry resolves which ledger accounts are an administration's
// own bank accounts. The registry is a YAML file mapping administration to a
// list of account codes:
//
//	acme:
//	  - "1100"
//	  - "1110"
type BankAccountRegistry struct {
	File   string
	logger logging.Logger
}

// NewBankAccountRegistry creates a registry backed by the given YAML file.
func NewBankAccountRegistry(file string, logger logging.Logger) *BankAccountRegistry {
	return &BankAccountRegistry{File: file, logger: logger}
}

// findRegistryFile looks for the registry file in standard locations.
func (r *BankAccountRegistry) findRegistryFile() (string, error) {
	filename := r.File
	if filename == "" {
		filename = "bank_accounts.yaml"
	}

	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// BankAccounts returns the set of bank account codes of one administration.
// A missing file or unknown administration yields an empty set, not an error.
func (r *BankAccountRegistry) BankAccounts(administration string) (map[string]bool, error) {
	filePath, err := r.findRegistryFile()
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.WithField(logging.FieldFile, r.File).Warn("Bank account registry not found")
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("error resolving bank account registry: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading bank account registry: %w", err)
	}

	var registry map[string][]string
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("error parsing bank account registry: %w", err)
	}

	accounts := make(map[string]bool, len(registry[administration]))
	for _, code := range registry[administration] {
		accounts[code] = true
	}
	return accounts, nil
}
