package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/srad/channelnotify/services"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for the API, signed with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			token, err := services.CreateToken(cfg.Secret, subject, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().String("subject", "admin", "token subject")
	cmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	return cmd
}
