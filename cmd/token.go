package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/deepgram/airelay/internal/config"
	"github.com/deepgram/airelay/internal/services/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the API (requires JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !config.AuthEnabled() {
				return errors.New("JWT_SECRET is not set, the API accepts requests without a token")
			}

			token, err := auth.Issue(config.GetJWTSecret(), subject, scopes, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "granted scopes (default all: prompt, threads:write)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
