package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldworks/jobsector/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin API token",
	Long:  "Token generates a signed admin token for the feedback and reset endpoints, using the configured admin secret.",
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	if cfg.AdminSecret == "" {
		return fmt.Errorf("token generation requires ADMIN_SECRET (or admin_secret in the config file)")
	}

	token, err := server.NewJWTService(cfg.AdminSecret).GenerateAdminToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	fmt.Println(token)
	return nil
}
