package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galacticcic/galacticcic/internal/store"
)

func TestDbStatsPrintsRowCounts(t *testing.T) {
	dir := withHomeOverride(t)

	s, err := store.Open(filepath.Join(dir, "metrics.db"))
	require.NoError(t, err)
	require.NoError(t, s.InsertServerMetrics(store.ServerMetrics{Timestamp: float64(time.Now().Unix())}))
	require.NoError(t, s.Close())

	out := captureStdout(t, func() {
		require.NoError(t, dbStatsCmd.RunE(dbStatsCmd, nil))
	})
	assert.Contains(t, out, "server_metrics")
	assert.Contains(t, out, "cron_metrics")
}

func TestDbPathPrintsWellKnownPath(t *testing.T) {
	dir := withHomeOverride(t)

	out := captureStdout(t, func() {
		require.NoError(t, dbPathCmd.RunE(dbPathCmd, nil))
	})
	assert.Contains(t, out, filepath.Join(dir, dbFileName))
}

func TestDbPruneYesSkipsPromptAndPrunes(t *testing.T) {
	dir := withHomeOverride(t)
	dbPruneYes = true
	t.Cleanup(func() { dbPruneYes = false })

	s, err := store.Open(filepath.Join(dir, "metrics.db"))
	require.NoError(t, err)
	old := float64(time.Now().Add(-31 * 24 * time.Hour).Unix())
	require.NoError(t, s.InsertServerMetrics(store.ServerMetrics{Timestamp: old}))
	require.NoError(t, s.Close())

	out := captureStdout(t, func() {
		require.NoError(t, dbPruneCmd.RunE(dbPruneCmd, nil))
	})
	assert.Contains(t, out, "pruned")

	s2, err := store.Open(filepath.Join(dir, "metrics.db"))
	require.NoError(t, err)
	defer s2.Close()
	stats, err := s2.Stats()
	require.NoError(t, err)
	for _, ts := range stats {
		if ts.Table == "server_metrics" {
			assert.Equal(t, int64(0), ts.Rows)
		}
	}
}
