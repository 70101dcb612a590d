package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRejectsBadPaths(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)

	_, err = Open(t.TempDir())
	assert.Error(t, err)
}

func TestSaveAndLoadRuns(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRun(Run{
		Input:          "drv.c",
		Timestamp:      base,
		ViolationCount: 2,
	}))
	require.NoError(t, store.SaveRun(Run{
		Input:          "drv.c",
		Timestamp:      base.Add(time.Minute),
		ViolationCount: 0,
		IsDiff:         true,
	}))
	require.NoError(t, store.SaveRun(Run{
		Input:          "other.c",
		Timestamp:      base.Add(2 * time.Minute),
		ViolationCount: 1,
	}))

	runs, err := store.LoadRuns("drv.c", time.Time{})
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, 2, runs[0].ViolationCount)
	assert.False(t, runs[0].IsDiff)
	assert.NotEmpty(t, runs[0].ID, "run ID should be generated when missing")
	assert.Equal(t, SchemaVersion, runs[0].SchemaVersion)

	assert.Equal(t, 0, runs[1].ViolationCount)
	assert.True(t, runs[1].IsDiff)
	assert.True(t, runs[1].Timestamp.After(runs[0].Timestamp))
}

func TestLoadRunsSinceFilter(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveRun(Run{
			Input:     "drv.c",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := store.LoadRuns("drv.c", base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	all, err := store.LoadRuns("", time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveRunUpsertsByID(t *testing.T) {
	store := openTestStore(t)

	run := Run{
		ID:             "fixed-id",
		Input:          "drv.c",
		Timestamp:      time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		ViolationCount: 1,
	}
	require.NoError(t, store.SaveRun(run))

	run.ViolationCount = 5
	require.NoError(t, store.SaveRun(run))

	runs, err := store.LoadRuns("drv.c", time.Time{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 5, runs[0].ViolationCount)
}

func TestReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(Run{Input: "drv.c"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.LoadRuns("drv.c", time.Time{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
