package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/recetario/config"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the backing store schema",
		Long: `Create the SQL tables and apply the migrations in MIGRATIONS_DIR, or
create the Mongo indexes. The memory store needs nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if cfg.StoreDriver == config.DriverMemory {
				fmt.Fprintln(cmd.OutOrStdout(), "memory store has no schema")
				return nil
			}
			// Opening a SQL or Mongo backend migrates it.
			b, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			b.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "%s store is up to date\n", cfg.StoreDriver)
			return nil
		},
	}
}
