package corrections

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldworks/jobsector/internal/types"
)

func openTestLocal(t *testing.T) *Local {
	t.Helper()
	local, err := OpenLocal(filepath.Join(t.TempDir(), "corrections.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })
	return local
}

func TestLocal_SaveAndAll(t *testing.T) {
	local := openTestLocal(t)
	ctx := context.Background()

	ts := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, local.Save(ctx, types.StoredCorrection{
		JobID:             "j1",
		OriginalCategory:  "general-other",
		CorrectedCategory: "energy-utilities",
		Timestamp:         ts,
	}))

	all, err := local.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "energy-utilities", all["j1"].CorrectedCategory)
	assert.True(t, all["j1"].Timestamp.Equal(ts))
}

func TestLocal_SaveUpserts(t *testing.T) {
	local := openTestLocal(t)
	ctx := context.Background()

	c := types.StoredCorrection{
		JobID: "j1", OriginalCategory: "general-other",
		CorrectedCategory: "energy-utilities", Timestamp: time.Now().UTC(),
	}
	require.NoError(t, local.Save(ctx, c))

	c.CorrectedCategory = "digital-technology"
	require.NoError(t, local.Save(ctx, c))

	all, err := local.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "digital-technology", all["j1"].CorrectedCategory)
}

func TestLocal_Delete(t *testing.T) {
	local := openTestLocal(t)
	ctx := context.Background()

	require.NoError(t, local.Save(ctx, types.StoredCorrection{
		JobID: "j1", OriginalCategory: "a", CorrectedCategory: "b", Timestamp: time.Now().UTC(),
	}))
	require.NoError(t, local.Delete(ctx, "j1"))
	// Deleting a missing row is not an error
	require.NoError(t, local.Delete(ctx, "missing"))

	all, err := local.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
