package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ehr/fixtures/internal/platform/auth"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the serve seed and reset endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			token, err := auth.IssueToken(jwtConfig(cfg), subject, []string{"sandbox-admin"}, ttl)
			if err != nil {
				return fmt.Errorf("issue token (is SANDBOX_SIGNING_KEY set?): %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("subject", "fixtures-admin", "Token subject")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
