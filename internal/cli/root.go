// Package cli wires configuration, backing stores and the gateway into the
// recetario command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/recetario/config"
)

// RootOptions holds state shared by all commands.
type RootOptions struct {
	// Config is loaded before any subcommand runs unless already set.
	Config *config.Config
}

// NewRootCommand creates the root command for the recetario CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "recetario",
		Short:         "Recetario - recipe sharing client core",
		Long:          "Runs the recetario local gateway and manages its backing store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Config != nil {
				return nil
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			opts.Config = cfg
			return nil
		},
	}

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewTipCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}
