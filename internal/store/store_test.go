package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenBootstrapsSchema(t *testing.T) {
	s := openTestStore(t)

	var version int
	row := s.db.QueryRow("SELECT version FROM schema_version")
	require.NoError(t, row.Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestRoundTripServerMetrics(t *testing.T) {
	s := openTestStore(t)

	now := float64(time.Now().Unix())
	for i := 0; i < 5; i++ {
		err := s.InsertServerMetrics(ServerMetrics{
			Timestamp: now - float64(i*30), CPUPercent: float64(i), MemUsedMB: 100, MemTotalMB: 1000,
			DiskUsedGB: 10, DiskTotalGB: 100, Load1m: 0.1, Load5m: 0.2, Load15m: 0.3,
		})
		require.NoError(t, err)
	}

	rows, err := s.RecentServerMetrics(now, 1, 20)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, now, rows[0].Timestamp, "newest first")
}

func TestMetricSampleNearCoversCPUMemDisk(t *testing.T) {
	s := openTestStore(t)

	now := float64(time.Now().Unix())
	require.NoError(t, s.InsertServerMetrics(ServerMetrics{
		Timestamp: now - 3600, CPUPercent: 10, MemUsedMB: 100, MemTotalMB: 1000,
		DiskUsedGB: 5, DiskTotalGB: 100,
	}))

	cpu, found, err := s.MetricSampleNear("cpu_percent", now, now-3600)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 10.0, cpu)

	mem, found, err := s.MetricSampleNear("mem_percent", now, now-3600)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 10.0, mem)

	disk, found, err := s.MetricSampleNear("disk_percent", now, now-3600)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 5.0, disk)

	_, _, err = s.MetricSampleNear("bogus_metric", now, now-3600)
	assert.Error(t, err)
}

func TestMetricSampleNearZeroDenominatorIsUnknown(t *testing.T) {
	s := openTestStore(t)

	now := float64(time.Now().Unix())
	require.NoError(t, s.InsertServerMetrics(ServerMetrics{
		Timestamp: now - 3600, CPUPercent: 10, MemUsedMB: 0, MemTotalMB: 0,
		DiskUsedGB: 0, DiskTotalGB: 0,
	}))

	_, found, err := s.MetricSampleNear("mem_percent", now, now-3600)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInsertAgentMetricsTransactional(t *testing.T) {
	s := openTestStore(t)
	now := float64(time.Now().Unix())

	err := s.InsertAgentMetrics([]AgentMetrics{
		{Timestamp: now, AgentName: "main", Model: "sonnet", TokensUsed: 126000, Sessions: 3, StorageBytes: 512, IsDefault: true},
		{Timestamp: now, AgentName: "rentalops", Model: "opus", TokensUsed: 65000, Sessions: 4, StorageBytes: 128, IsDefault: false},
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM agent_metrics").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestPortScansCountMatchesPortsOpen(t *testing.T) {
	s := openTestStore(t)
	now := float64(time.Now().Unix())

	err := s.InsertPortScans([]PortScan{
		{Timestamp: now, Port: 22, Service: "ssh", State: "open"},
		{Timestamp: now, Port: 80, Service: "http", State: "open"},
		{Timestamp: now, Port: 443, Service: "https", State: "open"},
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM port_scans WHERE timestamp = ?", now).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestPruneRemovesOldRowsKeepsRecent(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()
	oldTS := float64(now.Add(-31 * 24 * time.Hour).Unix())
	recentTS := float64(now.Add(-1 * time.Hour).Unix())

	require.NoError(t, s.InsertServerMetrics(ServerMetrics{Timestamp: oldTS}))
	require.NoError(t, s.InsertServerMetrics(ServerMetrics{Timestamp: recentTS}))

	require.NoError(t, s.Prune(now))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM server_metrics").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestPruneIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()
	oldTS := float64(now.Add(-40 * 24 * time.Hour).Unix())
	require.NoError(t, s.InsertServerMetrics(ServerMetrics{Timestamp: oldTS}))

	require.NoError(t, s.Prune(now))
	var countAfterFirst int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM server_metrics").Scan(&countAfterFirst))

	require.NoError(t, s.Prune(now))
	var countAfterSecond int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM server_metrics").Scan(&countAfterSecond))

	assert.Equal(t, countAfterFirst, countAfterSecond)
	assert.Equal(t, 0, countAfterSecond)
}

func TestDNSCacheUpsert(t *testing.T) {
	s := openTestStore(t)
	now := float64(time.Now().Unix())

	require.NoError(t, s.PutDNS(DNSEntry{IP: "1.2.3.4", Hostname: "a.example.com", ResolvedAt: now}))
	e, found, err := s.GetDNS("1.2.3.4")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a.example.com", e.Hostname)

	require.NoError(t, s.PutDNS(DNSEntry{IP: "1.2.3.4", Hostname: "b.example.com", ResolvedAt: now + 1}))
	e2, _, err := s.GetDNS("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "b.example.com", e2.Hostname)
}

func TestGetDNSMissReturnsNotFound(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.GetDNS("9.9.9.9")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStatsReportsRowCounts(t *testing.T) {
	s := openTestStore(t)
	now := float64(time.Now().Unix())
	require.NoError(t, s.InsertServerMetrics(ServerMetrics{Timestamp: now}))

	stats, err := s.Stats()
	require.NoError(t, err)

	var serverStats *TableStats
	for i := range stats {
		if stats[i].Table == "server_metrics" {
			serverStats = &stats[i]
		}
	}
	require.NotNil(t, serverStats)
	assert.Equal(t, int64(1), serverStats.Rows)
}
