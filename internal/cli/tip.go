package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/recetario/internal/service"
)

// NewTipCommand creates the tip command.
func NewTipCommand(rootOpts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "tip",
		Short: "Print the tip of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			loc := cfg.Location()
			day := time.Now().In(loc)
			if date != "" {
				d, err := time.ParseInLocation(time.DateOnly, date, loc)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				day = d
			}

			ctx := cmd.Context()
			b, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			tips, err := b.store.ListTips(ctx)
			if err != nil {
				return err
			}
			tip, ok := service.SelectTip(tips, day, cfg.TipEpoch)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no tips")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tip.ID, tip.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to select for (YYYY-MM-DD, default today)")
	return cmd
}
