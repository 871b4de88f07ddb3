// Package importer reads bank statement files and runs them through the
// prediction and duplicate checks before they reach the mutaties table.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/PeterGeers/myAdmin-sub014/internal/dateutils"
	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
)

// bankCSVRow is one line of a Dutch bank CSV export. The Debet and Credit
// columns are usually empty; filling them is the prediction step's job.
type bankCSVRow struct {
	Date        string `csv:"Datum"`
	Description string `csv:"Omschrijving"`
	Amount      string `csv:"Bedrag"`
	Reference   string `csv:"Kenmerk"`
	Debet       string `csv:"Debet"`
	Credit      string `csv:"Credit"`
}

// ReadCSV parses semicolon-delimited bank CSV data into transactions for the
// given administration.
func ReadCSV(r io.Reader, administration string, logger logging.Logger) ([]models.Transaction, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = ';'
		return cr
	})

	var rows []*bankCSVRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("error parsing bank CSV: %w", err)
	}

	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		date, err := dateutils.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		tx, err := models.NewTransaction(administration, date, row.Description, models.ParseAmount(row.Amount))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		tx.ReferenceNumber = row.Reference
		tx.DebetAccount = row.Debet
		tx.CreditAccount = row.Credit
		txs = append(txs, tx)
	}

	logger.WithField(logging.FieldCount, len(txs)).Info("Parsed bank CSV data")
	return txs, nil
}

// ReadCSVFile reads a bank CSV file from disk.
func ReadCSVFile(path, administration string, logger logging.Logger) ([]models.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file, administration, logger)
}
