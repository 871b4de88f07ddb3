// Package predict handles prediction commands
package predict

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PeterGeers/myAdmin-sub014/cmd/root"
	"github.com/PeterGeers/myAdmin-sub014/internal/dateutils"
	"github.com/PeterGeers/myAdmin-sub014/internal/importer"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
)

var (
	inputFile   string
	description string
	date        string
	amount      string
	reference   string
)

// Cmd represents the predict command
var Cmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict missing account fields from learned patterns",
	Long: `Predict debet account, credit account and reference number from the
administration's learned booking patterns. Annotates a whole CSV statement
with --input, or a single transaction given --description and --date.`,
	RunE: predictFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "CSV statement to annotate")
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVar(&date, "date", "", "Transaction date")
	Cmd.Flags().StringVar(&amount, "amount", "0", "Transaction amount")
	Cmd.Flags().StringVar(&reference, "reference", "", "Bank reference number, if known")
}

func predictFunc(cmd *cobra.Command, args []string) error {
	administration, err := root.RequireAdministration()
	if err != nil {
		return err
	}

	if inputFile != "" {
		return predictFile(cmd, administration)
	}
	return predictSingle(cmd, administration)
}

func predictFile(cmd *cobra.Command, administration string) error {
	txs, err := importer.ReadCSVFile(inputFile, administration, root.Log)
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %-40s %-8s %-8s %-12s %5s\n",
		"DATE", "DESCRIPTION", "DEBET", "CREDIT", "REFERENCE", "CONF")
	for _, tx := range txs {
		pred, err := root.Deps.Analyzer().PredictMissingFields(cmd.Context(), tx)
		if err != nil {
			return err
		}
		out := pred.Transaction
		fmt.Printf("%-12s %-40.40s %-8s %-8s %-12s %4.0f%%\n",
			dateutils.ToISODate(out.Date), out.Description,
			out.DebetAccount, out.CreditAccount, out.ReferenceNumber, pred.Confidence)
	}
	return nil
}

func predictSingle(cmd *cobra.Command, administration string) error {
	if description == "" || date == "" {
		return fmt.Errorf("either --input or both --description and --date are required")
	}

	parsedDate, err := dateutils.ParseDate(date)
	if err != nil {
		return err
	}

	tx, err := models.NewTransaction(administration, parsedDate, description, models.ParseAmount(amount))
	if err != nil {
		return err
	}
	tx.ReferenceNumber = reference

	pred, err := root.Deps.Analyzer().PredictMissingFields(cmd.Context(), tx)
	if err != nil {
		return err
	}

	if !pred.Matched {
		fmt.Println("No pattern matched; fields left blank for manual entry.")
		return nil
	}

	fmt.Printf("Pattern:    %s\n", pred.PatternKey)
	fmt.Printf("Confidence: %.0f%%\n", pred.Confidence)
	fmt.Printf("Debet:      %s\n", pred.Transaction.DebetAccount)
	fmt.Printf("Credit:     %s\n", pred.Transaction.CreditAccount)
	fmt.Printf("Reference:  %s\n", pred.Transaction.ReferenceNumber)
	return nil
}
