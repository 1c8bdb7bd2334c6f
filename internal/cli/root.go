// Package cli implements the allot command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/types"
)

// NewRootCmd builds the allot command with all subcommands attached.
func NewRootCmd(version string) *cobra.Command {
	if version == "" {
		version = "dev"
	}

	var logLevel string

	cmd := &cobra.Command{
		Use:          "allot",
		Short:        "Assign people to tasks under competency and availability constraints",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Reject unknown levels before any work starts.
			_, err := logging.ParseLevel(logLevel)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newVersionCmd(version))

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.Version = version

	return cmd
}

// loggerFor builds a text logger on the command's stderr at the --log-level level.
func loggerFor(cmd *cobra.Command) (types.Logger, error) {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		level = "warn"
	}

	return logging.NewText(cmd.ErrOrStderr(), level)
}
