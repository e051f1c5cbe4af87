package main

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/fieldworks/jobsector/internal/config"
	"github.com/fieldworks/jobsector/internal/corrections"
	"github.com/fieldworks/jobsector/internal/learning"
	"github.com/fieldworks/jobsector/internal/notify"
	"github.com/fieldworks/jobsector/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the classification and learning HTTP API",
	Long:  "Serve starts the HTTP API that classifies postings, ingests reviewer feedback, and reports learning state. Locally stored corrections are replayed to the remote store on the configured schedule.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	store, err := loadTaxonomyStore(cfg)
	if err != nil {
		return err
	}

	corrStore, closeStores, err := openCorrections(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	engine := learning.NewEngine(store, cfg.Thresholds)
	notifier := notify.New(cfg.SlackToken, cfg.SlackChannel)

	scheduler := startReplayScheduler(cfg, corrStore)
	if scheduler != nil {
		defer scheduler.Stop()
	}

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		AdminSecret: cfg.AdminSecret,
		Thresholds:  cfg.Thresholds,
	}, server.Deps{
		Taxonomy:    store,
		Engine:      engine,
		Corrections: corrStore,
		Notifier:    notifier,
	})
	if err != nil {
		return err
	}
	return srv.Start()
}

// startReplayScheduler runs correction replay on the configured cron
// schedule so offline-accumulated corrections reach the remote store
// without operator intervention. Returns nil when no schedule is set.
func startReplayScheduler(cfg *config.Config, store *corrections.Store) *cron.Cron {
	if cfg.SyncSchedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.SyncSchedule, func() {
		n, err := store.Replay(context.Background())
		if err != nil {
			log.Printf("Scheduled correction replay failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Scheduled correction replay pushed %d correction(s)", n)
		}
	})
	if err != nil {
		log.Printf("Invalid sync schedule %q, replay disabled: %v", cfg.SyncSchedule, err)
		return nil
	}

	c.Start()
	fmt.Printf("Correction replay scheduled: %s\n", cfg.SyncSchedule)
	return c
}
