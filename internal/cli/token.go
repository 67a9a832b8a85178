package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/recetario/internal/identity"
)

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		id  identity.Identity
		ttl time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development identity token",
		Long: `Mint an identity token signed with TOKEN_SECRET. POST it to
/api/v1/session as {"credential": "<token>"} to sign in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if id.UID == "" {
				return fmt.Errorf("--uid is required")
			}
			token, err := identity.NewTokenProvider(rootOpts.Config.TokenSecret).IssueToken(id, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&id.UID, "uid", "", "user id")
	cmd.Flags().StringVar(&id.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&id.Email, "email", "", "email address")
	cmd.Flags().StringVar(&id.PhotoURL, "photo", "", "photo URL")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
