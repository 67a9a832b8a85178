package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/recetario/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo recipes and tips",
		Long:  "Load the bundled demo recipes and tips. Documents that already exist are skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := openBackend(ctx, rootOpts.Config)
			if err != nil {
				return err
			}
			defer b.Close()

			f, err := seed.Bundled()
			if err != nil {
				return err
			}
			res, err := seed.Load(ctx, b.store, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d recipes, %d tips (%d already present)\n", res.Recipes, res.Tips, res.Skipped)
			return nil
		},
	}
}
