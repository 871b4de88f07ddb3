// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PeterGeers/myAdmin-sub014/internal/config"
	"github.com/PeterGeers/myAdmin-sub014/internal/container"
	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Administration string
	Actor          string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Deps is the wired dependency container, available to subcommands
	// after PersistentPreRunE has run.
	Deps *container.Container

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "myadmin-patterns",
		Short: "Pattern-based transaction classification for myAdmin bookkeeping.",
		Long: `myadmin-patterns learns booking patterns from historical transactions
and uses them to predict missing account fields, screen imports for
duplicates, and keep uploaded statement files tidy.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to myadmin-patterns!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}

			Deps, err = container.NewContainer(cfg)
			if err != nil {
				return err
			}
			Log = Deps.Logger()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if Deps == nil {
				return
			}
			if err := Deps.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close store")
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Administration, "administration", "a", "", "Administration (tenant) to operate on")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Actor, "actor", "", "Name recorded on audit trail entries")
}

// RequireAdministration returns the selected administration or an error when
// the flag was left empty.
func RequireAdministration() (string, error) {
	if SharedFlags.Administration == "" {
		return "", fmt.Errorf("--administration is required")
	}
	return SharedFlags.Administration, nil
}
