package importer

import (
	"fmt"

	"github.com/PeterGeers/myAdmin-sub014/internal/dateutils"
	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
	"github.com/PeterGeers/myAdmin-sub014/internal/xmlutils"
)

// ReadCAMTFile parses a CAMT.053 bank statement into transactions for the
// given administration. Amounts are signed from the credit/debit indicator:
// DBIT entries come out negative. Account numbers are left blank; the
// statement only carries the bank's side of the booking.
func ReadCAMTFile(path, administration string, logger logging.Logger) ([]models.Transaction, error) {
	root, err := xmlutils.LoadXMLFile(path)
	if err != nil {
		return nil, err
	}

	amounts, err := xmlutils.ExtractFromXML(root, xmlutils.XPathAmount)
	if err != nil {
		return nil, err
	}
	sides, err := xmlutils.ExtractFromXML(root, xmlutils.XPathCreditDebitInd)
	if err != nil {
		return nil, err
	}
	dates, err := xmlutils.ExtractFromXML(root, xmlutils.XPathBookingDate)
	if err != nil {
		return nil, err
	}
	entryInfos, err := xmlutils.ExtractFromXML(root, xmlutils.XPathAddEntryInfo)
	if err != nil {
		return nil, err
	}
	remittances, err := xmlutils.ExtractFromXML(root, xmlutils.XPathRemittanceInfo)
	if err != nil {
		return nil, err
	}
	references, err := xmlutils.ExtractFromXML(root, xmlutils.XPathAccountSvcRef)
	if err != nil {
		return nil, err
	}
	ibans, err := xmlutils.ExtractFromXML(root, xmlutils.XPathIBAN)
	if err != nil {
		return nil, err
	}

	if len(dates) != len(amounts) {
		return nil, fmt.Errorf("malformed CAMT.053 statement: %d entries but %d booking dates", len(amounts), len(dates))
	}
	if len(sides) != len(amounts) {
		return nil, fmt.Errorf("malformed CAMT.053 statement: %d entries but %d credit/debit indicators", len(amounts), len(sides))
	}

	txs := make([]models.Transaction, 0, len(amounts))
	for i := range amounts {
		date, err := dateutils.ParseDate(dates[i])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}

		amount := models.ParseAmount(amounts[i])
		if sides[i] == "DBIT" {
			amount = amount.Neg()
		}

		// Remittance info is the counterparty's own description and the
		// better pattern source; it is optional per entry, so fall back to
		// the bank's additional entry info unless the statement carries one
		// remittance line per entry.
		description := xmlutils.GetOrEmpty(entryInfos, i)
		if len(remittances) == len(amounts) && remittances[i] != "" {
			description = remittances[i]
		}

		tx, err := models.NewTransaction(administration, date, description, amount)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		tx.ReferenceNumber = xmlutils.GetOrEmpty(references, i)
		txs = append(txs, tx)
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: "iban", Value: xmlutils.GetOrEmpty(ibans, 0)},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
	).Info("Parsed CAMT.053 statement")
	return txs, nil
}
