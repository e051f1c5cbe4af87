package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay locally stored corrections to the remote store",
	Long:  "Sync pushes corrections that were saved to the local SQLite store while the remote database was unreachable, removing each local copy once the remote write succeeds.",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("sync requires DATABASE_URL (or database_url in the config file)")
	}

	store, closeStores, err := openCorrections(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	n, err := store.Replay(ctx)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	fmt.Printf("Replayed %d correction(s) to the remote store\n", n)
	return nil
}
