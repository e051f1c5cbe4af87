package corrections

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldworks/jobsector/internal/types"
)

type fakeRemote struct {
	records  map[string]types.StoredCorrection
	failSave bool
	saves    int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{records: make(map[string]types.StoredCorrection)}
}

func (f *fakeRemote) Save(ctx context.Context, c types.StoredCorrection) error {
	f.saves++
	if f.failSave {
		return fmt.Errorf("connection refused")
	}
	f.records[c.JobID] = c
	return nil
}

func (f *fakeRemote) All(ctx context.Context) (map[string]types.StoredCorrection, error) {
	out := make(map[string]types.StoredCorrection, len(f.records))
	for id, c := range f.records {
		out[id] = c
	}
	return out, nil
}

type fakeLocal struct {
	records  map[string]types.StoredCorrection
	failSave bool
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{records: make(map[string]types.StoredCorrection)}
}

func (f *fakeLocal) Save(ctx context.Context, c types.StoredCorrection) error {
	if f.failSave {
		return fmt.Errorf("disk full")
	}
	f.records[c.JobID] = c
	return nil
}

func (f *fakeLocal) All(ctx context.Context) (map[string]types.StoredCorrection, error) {
	out := make(map[string]types.StoredCorrection, len(f.records))
	for id, c := range f.records {
		out[id] = c
	}
	return out, nil
}

func (f *fakeLocal) Delete(ctx context.Context, jobID string) error {
	delete(f.records, jobID)
	return nil
}

func testStore(remote remoteBackend, local localBackend) *Store {
	return &Store{remote: remote, local: local, session: make(map[string]types.StoredCorrection)}
}

func testCorrection(jobID string, ts time.Time) types.StoredCorrection {
	return types.StoredCorrection{
		JobID:             jobID,
		OriginalCategory:  "general-other",
		CorrectedCategory: "energy-utilities",
		Timestamp:         ts,
	}
}

func TestStoreSave_RemoteFirst(t *testing.T) {
	remote := newFakeRemote()
	local := newFakeLocal()
	store := testStore(remote, local)

	fellBack, err := store.Save(context.Background(), testCorrection("j1", time.Now()))
	require.NoError(t, err)
	assert.False(t, fellBack)
	assert.Contains(t, remote.records, "j1")
	assert.NotContains(t, local.records, "j1")
}

func TestStoreSave_FallsBackWhenRemoteFails(t *testing.T) {
	remote := newFakeRemote()
	remote.failSave = true
	local := newFakeLocal()
	store := testStore(remote, local)

	fellBack, err := store.Save(context.Background(), testCorrection("j1", time.Now()))
	require.NoError(t, err)
	assert.True(t, fellBack)
	assert.Equal(t, 2, remote.saves) // bounded retry before falling back
	assert.Contains(t, local.records, "j1")
}

func TestStoreSave_NoRemoteConfigured(t *testing.T) {
	local := newFakeLocal()
	store := testStore(nil, local)

	fellBack, err := store.Save(context.Background(), testCorrection("j1", time.Now()))
	require.NoError(t, err)
	assert.True(t, fellBack)
	assert.Contains(t, local.records, "j1")
}

func TestStoreSave_BothBackendsFailing(t *testing.T) {
	remote := newFakeRemote()
	remote.failSave = true
	local := newFakeLocal()
	local.failSave = true
	store := testStore(remote, local)

	fellBack, err := store.Save(context.Background(), testCorrection("j1", time.Now()))
	assert.True(t, fellBack)
	assert.Error(t, err)
}

func TestStoreAll_MergesByNewerTimestamp(t *testing.T) {
	remote := newFakeRemote()
	local := newFakeLocal()
	store := testStore(remote, local)

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	local.records["j1"] = testCorrection("j1", older)
	remote.records["j1"] = types.StoredCorrection{
		JobID: "j1", OriginalCategory: "general-other",
		CorrectedCategory: "digital-technology", Timestamp: newer,
	}
	remote.records["j2"] = testCorrection("j2", older)

	all, err := store.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "digital-technology", all["j1"].CorrectedCategory)
}

func TestStoreAll_SessionOverlayWins(t *testing.T) {
	remote := newFakeRemote()
	local := newFakeLocal()
	store := testStore(remote, local)

	// An hour-old persisted record loses to the current session's save,
	// even though the session record carries an older timestamp.
	remote.records["j1"] = types.StoredCorrection{
		JobID: "j1", CorrectedCategory: "digital-technology",
		Timestamp: time.Now().Add(time.Hour),
	}
	_, err := store.Save(context.Background(), types.StoredCorrection{
		JobID: "j1", CorrectedCategory: "health-medical", Timestamp: time.Now(),
	})
	require.NoError(t, err)

	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "health-medical", all["j1"].CorrectedCategory)
}

func TestStoreReplay_PushesAndClearsLocal(t *testing.T) {
	remote := newFakeRemote()
	local := newFakeLocal()
	store := testStore(remote, local)

	local.records["j1"] = testCorrection("j1", time.Now())
	local.records["j2"] = testCorrection("j2", time.Now())

	n, err := store.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, local.records)
	assert.Len(t, remote.records, 2)
}

func TestStoreReplay_NoRemoteIsNoop(t *testing.T) {
	local := newFakeLocal()
	local.records["j1"] = testCorrection("j1", time.Now())
	store := testStore(nil, local)

	n, err := store.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, local.records, "j1")
}

func TestStoreReplay_StopsOnRemoteError(t *testing.T) {
	remote := newFakeRemote()
	remote.failSave = true
	local := newFakeLocal()
	local.records["j1"] = testCorrection("j1", time.Now())
	store := testStore(remote, local)

	n, err := store.Replay(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, local.records, "j1")
}

func TestNew_TypedNilRemote(t *testing.T) {
	var remote *Remote
	store := New(remote, &Local{})
	assert.Nil(t, store.remote)
}
