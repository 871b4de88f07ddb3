// Package importcmd handles bank statement import commands
package importcmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PeterGeers/myAdmin-sub014/cmd/root"
	"github.com/PeterGeers/myAdmin-sub014/internal/importer"
	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
	"github.com/PeterGeers/myAdmin-sub014/internal/models"
)

var (
	inputFile        string
	format           string
	importDuplicates bool
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a bank statement file",
	Long: `Import a CSV or CAMT.053 bank statement. Missing account fields are
predicted from learned patterns and duplicates are screened before booking.`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Statement file to import")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Statement format: csv or camt (default: from file extension)")
	Cmd.Flags().BoolVar(&importDuplicates, "import-duplicates", false, "Book transactions even when duplicates were found")
	_ = Cmd.MarkFlagRequired("input")
}

func importFunc(cmd *cobra.Command, args []string) error {
	administration, err := root.RequireAdministration()
	if err != nil {
		return err
	}

	txs, err := readStatement(administration)
	if err != nil {
		return err
	}

	result, err := root.Deps.Importer().Import(cmd.Context(), txs, importer.Options{
		FileURL:          inputFile,
		ImportDuplicates: importDuplicates,
		Actor:            root.SharedFlags.Actor,
	})
	if err != nil {
		return err
	}

	root.Log.WithFields(
		logging.Field{Key: "imported", Value: result.Imported},
		logging.Field{Key: "predicted", Value: result.Predicted},
		logging.Field{Key: "skipped", Value: result.Skipped},
		logging.Field{Key: "unchecked", Value: result.Unchecked},
	).Info("Statement import completed")
	return nil
}

func readStatement(administration string) ([]models.Transaction, error) {
	switch resolveFormat() {
	case "csv":
		return importer.ReadCSVFile(inputFile, administration, root.Log)
	case "camt", "xml":
		return importer.ReadCAMTFile(inputFile, administration, root.Log)
	default:
		return nil, fmt.Errorf("unknown statement format for %q, use --format csv or camt", inputFile)
	}
}

func resolveFormat() string {
	if format != "" {
		return strings.ToLower(format)
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(inputFile)), ".")
}
