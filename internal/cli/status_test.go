package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galacticcic/galacticcic/internal/config"
	"github.com/galacticcic/galacticcic/internal/store"
)

// withHomeOverride points config.Dir (and everything built on it) at a
// fresh temp directory for the duration of the test.
func withHomeOverride(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config.SetDirOverride(dir)
	t.Cleanup(func() { config.SetDirOverride("") })
	return dir
}

// captureStdout runs fn and returns whatever it printed to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestStatusReportsNotRunningWithNoPIDFile(t *testing.T) {
	withHomeOverride(t)

	out := captureStdout(t, func() {
		require.NoError(t, statusCmd.RunE(statusCmd, nil))
	})
	assert.Contains(t, out, "daemon: not running")
}

func TestReportFreshnessShowsNoDataThenAge(t *testing.T) {
	dir := withHomeOverride(t)

	s, err := store.Open(filepath.Join(dir, "metrics.db"))
	require.NoError(t, err)
	defer s.Close()

	now := float64(time.Now().Unix())
	require.NoError(t, s.InsertServerMetrics(store.ServerMetrics{Timestamp: now - 30}))

	out := captureStdout(t, func() { reportFreshness(s) })
	assert.Contains(t, out, "server_metrics")
	assert.Contains(t, out, "ago")
	assert.Contains(t, out, "agent_metrics")
	assert.Contains(t, out, "no data yet")
}
