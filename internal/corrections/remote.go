// Package corrections provides durable storage for user corrections with a
// remote-primary/local-fallback write policy and session-overlay reads.
package corrections

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldworks/jobsector/internal/types"
)

const remoteSchema = `
CREATE TABLE IF NOT EXISTS corrections (
	job_id             TEXT PRIMARY KEY,
	original_category  TEXT NOT NULL,
	corrected_category TEXT NOT NULL,
	corrected_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Remote is the authoritative PostgreSQL correction store.
type Remote struct {
	pool *pgxpool.Pool
}

// ConnectRemote establishes a connection pool, verifies it, and ensures the
// corrections table exists.
func ConnectRemote(ctx context.Context, databaseURL string) (*Remote, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, remoteSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create corrections schema: %w", err)
	}

	return &Remote{pool: pool}, nil
}

// Save upserts a correction; last write wins per job id.
func (r *Remote) Save(ctx context.Context, c types.StoredCorrection) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO corrections (job_id, original_category, corrected_category, corrected_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id) DO UPDATE SET
		   original_category = $2, corrected_category = $3, corrected_at = $4`,
		c.JobID, c.OriginalCategory, c.CorrectedCategory, c.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save correction for job %s: %w", c.JobID, err)
	}
	return nil
}

// All returns every stored correction keyed by job id.
func (r *Remote) All(ctx context.Context) (map[string]types.StoredCorrection, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT job_id, original_category, corrected_category, corrected_at FROM corrections`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer rows.Close()

	out := make(map[string]types.StoredCorrection)
	for rows.Next() {
		var c types.StoredCorrection
		if err := rows.Scan(&c.JobID, &c.OriginalCategory, &c.CorrectedCategory, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		out[c.JobID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corrections: %w", err)
	}
	return out, nil
}

// Close closes the connection pool.
func (r *Remote) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}
