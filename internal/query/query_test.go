package query

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/galacticcic/galacticcic/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadAgentFleetPanelSumsRawTokensNotRate(t *testing.T) {
	s := openTestStore(t)
	now := float64(time.Now().Unix())

	require.NoError(t, s.InsertAgentMetrics([]store.AgentMetrics{
		{Timestamp: now, AgentName: "main", Model: "opus", TokensUsed: 126000, Sessions: 3, IsDefault: true},
		{Timestamp: now, AgentName: "rentalops", Model: "sonnet", TokensUsed: 65000, Sessions: 4},
		{Timestamp: now, AgentName: "raven", Model: "haiku", TokensUsed: 168000, Sessions: 5},
	}))

	p, err := LoadAgentFleetPanel(s, now)
	require.NoError(t, err)
	assert.True(t, p.HasData)
	assert.Equal(t, 12, p.TotalSessions)
	assert.Equal(t, int64(359000), p.TotalTokensUsed)
	assert.Equal(t, float64(0), p.TotalTokensPerHour)
	assert.Len(t, p.Agents, 3)
}

func TestRecentServerRoundTrip(t *testing.T) {
	s := openTestStore(t)
	now := float64(time.Now().Unix())

	for i := 0; i < 3; i++ {
		require.NoError(t, s.InsertServerMetrics(store.ServerMetrics{
			Timestamp: now - float64(i*30), CPUPercent: float64(10 * i), MemUsedMB: 500, MemTotalMB: 1000,
		}))
	}

	points, err := RecentServer(s, now, 1, 20)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 50.0, points[0].MemPercent)
}

func TestMetricTrendCoversCPUMemDisk(t *testing.T) {
	s := openTestStore(t)
	now := float64(time.Now().Unix())

	require.NoError(t, s.InsertServerMetrics(store.ServerMetrics{
		Timestamp: now - 3600, CPUPercent: 20, MemUsedMB: 200, MemTotalMB: 1000, DiskUsedGB: 10, DiskTotalGB: 100,
	}))
	require.NoError(t, s.InsertServerMetrics(store.ServerMetrics{
		Timestamp: now, CPUPercent: 40, MemUsedMB: 800, MemTotalMB: 1000, DiskUsedGB: 10, DiskTotalGB: 100,
	}))

	cpuTrend, err := MetricTrend(s, "cpu_percent", now, time.Hour.Seconds())
	require.NoError(t, err)
	assert.Equal(t, ArrowUp, cpuTrend)

	memTrend, err := MetricTrend(s, "mem_percent", now, time.Hour.Seconds())
	require.NoError(t, err)
	assert.Equal(t, ArrowUp, memTrend)

	diskTrend, err := MetricTrend(s, "disk_percent", now, time.Hour.Seconds())
	require.NoError(t, err)
	assert.Equal(t, ArrowFlat, diskTrend)
}

func TestServerAveragesNoDataIsNil(t *testing.T) {
	s := openTestStore(t)
	now := float64(time.Now().Unix())

	avg, err := ServerAverages(s, now, 24)
	require.NoError(t, err)
	assert.Nil(t, avg.CPUPercent)
}

func TestNetworkAverageAndSparkline(t *testing.T) {
	s := openTestStore(t)
	now := float64(time.Now().Unix())

	for i := 0; i < 4; i++ {
		require.NoError(t, s.InsertNetworkMetrics(store.NetworkMetrics{
			Timestamp: now - float64(i*120), ActiveConnections: 10 + i, UniqueIPs: 2,
		}))
	}

	avg, err := NetworkAverage(s, now, 24)
	require.NoError(t, err)
	assert.InDelta(t, 11.5, avg, 0.01)

	spark, err := NetworkSparkline(s, now, 24, 4)
	require.NoError(t, err)
	assert.Len(t, []rune(spark), 4)
}
