package corrections

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fieldworks/jobsector/internal/types"
)

const localSchema = `
CREATE TABLE IF NOT EXISTS corrections (
	job_id             TEXT PRIMARY KEY,
	original_category  TEXT NOT NULL,
	corrected_category TEXT NOT NULL,
	corrected_at       DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_corrections_corrected_at ON corrections(corrected_at);
`

// Local is the SQLite fallback correction store, used when the remote write
// fails so no correction is silently lost.
type Local struct {
	db *sql.DB
}

// OpenLocal opens (creating if necessary) the local fallback database.
func OpenLocal(path string) (*Local, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store %s: %w", path, err)
	}
	if _, err := db.Exec(localSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create local schema: %w", err)
	}
	return &Local{db: db}, nil
}

// Save upserts a correction record; last write wins per job id.
func (l *Local) Save(ctx context.Context, c types.StoredCorrection) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO corrections (job_id, original_category, corrected_category, corrected_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (job_id) DO UPDATE SET
		   original_category = excluded.original_category,
		   corrected_category = excluded.corrected_category,
		   corrected_at = excluded.corrected_at`,
		c.JobID, c.OriginalCategory, c.CorrectedCategory, c.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save correction locally for job %s: %w", c.JobID, err)
	}
	return nil
}

// All returns every locally stored correction keyed by job id.
func (l *Local) All(ctx context.Context) (map[string]types.StoredCorrection, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT job_id, original_category, corrected_category, corrected_at FROM corrections`)
	if err != nil {
		return nil, fmt.Errorf("failed to query local corrections: %w", err)
	}
	defer rows.Close()

	out := make(map[string]types.StoredCorrection)
	for rows.Next() {
		var c types.StoredCorrection
		if err := rows.Scan(&c.JobID, &c.OriginalCategory, &c.CorrectedCategory, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan local correction: %w", err)
		}
		out[c.JobID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read local corrections: %w", err)
	}
	return out, nil
}

// Delete removes one record, used after a successful replay to the remote store.
func (l *Local) Delete(ctx context.Context, jobID string) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM corrections WHERE job_id = ?`, jobID); err != nil {
		return fmt.Errorf("failed to delete local correction %s: %w", jobID, err)
	}
	return nil
}

// Close closes the underlying database.
func (l *Local) Close() error {
	return l.db.Close()
}
