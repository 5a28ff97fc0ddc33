package main

import (
	"fmt"
	"time"

	"gameportal/backend/pkg/jwt"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		nickname string
		email    string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for local development",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.close()

			token, err := jwt.GenerateToken(a.cfg.JWTSecret, args[0], nickname, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&nickname, "nickname", "", "nickname claim")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 7*24*time.Hour, "token lifetime")
	return cmd
}
