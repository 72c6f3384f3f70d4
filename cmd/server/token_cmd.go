package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"perfreview/internal/domain/auth"
	"perfreview/internal/domain/review"
)

func newTokenCmd() *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user (development only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := review.ParseUserID(user)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				return errors.New("token minting is disabled in production")
			}
			if strings.TrimSpace(cfg.JWTSecret) == "" {
				return errors.New("JWT_SECRET is required")
			}
			token, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: userID.String()}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "User UUID (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
