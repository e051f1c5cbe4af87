package corrections

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fieldworks/jobsector/internal/types"
)

// remoteBackend is the authoritative store. Satisfied by *Remote.
type remoteBackend interface {
	Save(ctx context.Context, c types.StoredCorrection) error
	All(ctx context.Context) (map[string]types.StoredCorrection, error)
}

// localBackend is the fallback store. Satisfied by *Local.
type localBackend interface {
	Save(ctx context.Context, c types.StoredCorrection) error
	All(ctx context.Context) (map[string]types.StoredCorrection, error)
	Delete(ctx context.Context, jobID string) error
}

const (
	// remoteAttempts bounds how often a remote write is retried before
	// falling back locally. The caller is never blocked indefinitely.
	remoteAttempts = 2
	// remoteTimeout bounds each individual remote attempt.
	remoteTimeout = 5 * time.Second
)

// Store coordinates the remote-primary/local-fallback persistence policy. An
// in-memory session map is applied optimistically on every save, so reads
// reflect the latest corrections even while a remote write is failing.
type Store struct {
	remote remoteBackend // nil when running without a remote database
	local  localBackend

	mu      sync.Mutex
	session map[string]types.StoredCorrection
}

// New creates a correction store. remote may be nil for offline operation;
// local must be non-nil so corrections are never lost.
func New(remote *Remote, local *Local) *Store {
	s := &Store{local: local, session: make(map[string]types.StoredCorrection)}
	// A typed nil pointer must not masquerade as a usable backend.
	if remote != nil {
		s.remote = remote
	}
	return s
}

// Save persists the correction. The remote path is attempted first with
// bounded retries; on failure the record is written to the local fallback
// store. Returns fellBack=true when the record ended up only in the fallback
// store, which callers surface as a warning rather than a hard failure.
func (s *Store) Save(ctx context.Context, c types.StoredCorrection) (fellBack bool, err error) {
	s.mu.Lock()
	s.session[c.JobID] = c
	s.mu.Unlock()

	var remoteErr error
	if s.remote != nil {
		for attempt := 0; attempt < remoteAttempts; attempt++ {
			attemptCtx, cancel := context.WithTimeout(ctx, remoteTimeout)
			remoteErr = s.remote.Save(attemptCtx, c)
			cancel()
			if remoteErr == nil {
				return false, nil
			}
		}
	} else {
		remoteErr = fmt.Errorf("no remote store configured")
	}

	if localErr := s.local.Save(ctx, c); localErr != nil {
		return true, fmt.Errorf("remote save failed (%v) and local fallback failed: %w", remoteErr, localErr)
	}
	return true, nil
}

// All returns the merged correction view keyed by job id. Persisted records
// merge by newer timestamp across remote and local; the session overlay wins
// for any job id it contains.
func (s *Store) All(ctx context.Context) (map[string]types.StoredCorrection, error) {
	merged := make(map[string]types.StoredCorrection)

	local, err := s.local.All(ctx)
	if err != nil {
		return nil, err
	}
	for id, c := range local {
		merged[id] = c
	}

	if s.remote != nil {
		remote, err := s.remote.All(ctx)
		if err != nil {
			return nil, err
		}
		for id, c := range remote {
			if existing, ok := merged[id]; !ok || c.Timestamp.After(existing.Timestamp) {
				merged[id] = c
			}
		}
	}

	s.mu.Lock()
	for id, c := range s.session {
		merged[id] = c
	}
	s.mu.Unlock()

	return merged, nil
}

// Replay pushes locally stored fallback records to the remote store, deleting
// each one locally after a successful remote write. Returns how many records
// were replayed. A nil remote makes this a no-op.
func (s *Store) Replay(ctx context.Context) (int, error) {
	if s.remote == nil {
		return 0, nil
	}

	local, err := s.local.All(ctx)
	if err != nil {
		return 0, err
	}

	replayed := 0
	for _, c := range local {
		attemptCtx, cancel := context.WithTimeout(ctx, remoteTimeout)
		err := s.remote.Save(attemptCtx, c)
		cancel()
		if err != nil {
			return replayed, fmt.Errorf("replay stopped at job %s: %w", c.JobID, err)
		}
		if err := s.local.Delete(ctx, c.JobID); err != nil {
			return replayed, err
		}
		replayed++
	}
	return replayed, nil
}
