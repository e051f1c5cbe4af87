package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fieldworks/jobsector/internal/config"
	"github.com/fieldworks/jobsector/internal/corrections"
)

const remoteConnectTimeout = 10 * time.Second

// openCorrections assembles the layered correction store. The remote backend
// is optional: when DATABASE_URL is unset or unreachable the store runs on
// the local SQLite file alone.
func openCorrections(ctx context.Context, cfg *config.Config) (*corrections.Store, func(), error) {
	var remote *corrections.Remote
	if cfg.DatabaseURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, remoteConnectTimeout)
		r, err := corrections.ConnectRemote(connectCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: remote correction store unavailable, using local store: %v\n", err)
		} else {
			remote = r
		}
	}

	local, err := corrections.OpenLocal(cfg.LocalDBPath)
	if err != nil {
		if remote != nil {
			remote.Close()
		}
		return nil, nil, fmt.Errorf("failed to open local correction store: %w", err)
	}

	closeAll := func() {
		if remote != nil {
			remote.Close()
		}
		_ = local.Close()
	}
	return corrections.New(remote, local), closeAll, nil
}
