// Package analyze handles pattern analysis commands
package analyze

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PeterGeers/myAdmin-sub014/cmd/root"
	"github.com/PeterGeers/myAdmin-sub014/internal/analyzer"
)

var (
	refFilter    string
	debetFilter  string
	creditFilter string
	refresh      bool
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show learned booking patterns for an administration",
	Long: `Analyze historical transactions and list the booking patterns learned
for an administration. Results come from the pattern cache when fresh.`,
	RunE: analyzeFunc,
}

func init() {
	Cmd.Flags().StringVar(&refFilter, "reference", "", "Only patterns with this reference number")
	Cmd.Flags().StringVar(&debetFilter, "debet", "", "Only patterns predicting this debet account")
	Cmd.Flags().StringVar(&creditFilter, "credit", "", "Only patterns predicting this credit account")
	Cmd.Flags().BoolVar(&refresh, "refresh", false, "Drop cached patterns and recompute from history")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	administration, err := root.RequireAdministration()
	if err != nil {
		return err
	}

	if refresh {
		if err := root.Deps.Cache().Invalidate(cmd.Context(), administration); err != nil {
			return err
		}
	}

	entries, err := root.Deps.Analyzer().GetFilteredPatterns(cmd.Context(), administration, analyzer.PatternFilter{
		ReferenceNumber: refFilter,
		DebetAccount:    debetFilter,
		CreditAccount:   creditFilter,
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No patterns found.")
		return nil
	}

	fmt.Printf("%-30s %-6s %-8s %-8s %-12s %5s %6s\n",
		"PATTERN", "SIDE", "DEBET", "CREDIT", "REFERENCE", "SEEN", "CONF")
	for _, e := range entries {
		fmt.Printf("%-30s %-6s %-8s %-8s %-12s %5d %5.0f%%\n",
			e.PatternKey, e.BankSide, e.DebetAccount, e.CreditAccount,
			e.ReferenceNumber, e.Occurrences, e.Confidence)
	}
	return nil
}
