package store

import (
	"database/sql"

	"github.com/galacticcic/galacticcic/internal/errors"
)

// RecentServerMetrics returns up to limit server_metrics rows newer than
// (now - hours), newest first.
func (s *Store) RecentServerMetrics(now float64, hours float64, limit int) ([]ServerMetrics, error) {
	cutoff := now - hours*3600

	rows, err := s.db.Query(`
		SELECT timestamp, cpu_percent, mem_used_mb, mem_total_mb, disk_used_gb, disk_total_gb, load_1m, load_5m, load_15m
		FROM server_metrics
		WHERE timestamp >= ?
		ORDER BY timestamp DESC
		LIMIT ?`, cutoff, limit)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to query server_metrics", "")
	}
	defer rows.Close()

	var out []ServerMetrics
	for rows.Next() {
		var m ServerMetrics
		if err := rows.Scan(&m.Timestamp, &m.CPUPercent, &m.MemUsedMB, &m.MemTotalMB, &m.DiskUsedGB, &m.DiskTotalGB, &m.Load1m, &m.Load5m, &m.Load15m); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to scan server_metrics row", "")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ServerAverages is the mean of CPU/MEM/DISK percentages over a window.
type ServerAverages struct {
	CPUPercent  sql.NullFloat64
	MemPercent  sql.NullFloat64
	DiskPercent sql.NullFloat64
}

// ServerAveragesWindow computes the mean CPU/MEM/DISK percentage over the
// trailing `hours` window. Each field is invalid (NULL) when there is no
// data in the window.
func (s *Store) ServerAveragesWindow(now float64, hours float64) (ServerAverages, error) {
	cutoff := now - hours*3600

	row := s.db.QueryRow(`
		SELECT AVG(cpu_percent), AVG(100.0 * mem_used_mb / mem_total_mb), AVG(100.0 * disk_used_gb / disk_total_gb)
		FROM server_metrics
		WHERE timestamp >= ? AND mem_total_mb > 0 AND disk_total_gb > 0`, cutoff)

	var cpu, mem, disk *float64
	if err := row.Scan(&cpu, &mem, &disk); err != nil {
		return ServerAverages{}, errors.WrapWithCode(err, errors.ErrStore, "failed to compute server averages", "")
	}

	var out ServerAverages
	if cpu != nil {
		out.CPUPercent = sql.NullFloat64{Float64: *cpu, Valid: true}
	}
	if mem != nil {
		out.MemPercent = sql.NullFloat64{Float64: *mem, Valid: true}
	}
	if disk != nil {
		out.DiskPercent = sql.NullFloat64{Float64: *disk, Valid: true}
	}
	return out, nil
}

// AgentTokenSamples returns (timestamp, tokens_used) pairs for one agent
// within the trailing window, oldest first.
func (s *Store) AgentTokenSamples(agent string, now, windowSeconds float64) ([]TokenSample, error) {
	cutoff := now - windowSeconds

	rows, err := s.db.Query(`
		SELECT timestamp, tokens_used FROM agent_metrics
		WHERE agent_name = ? AND timestamp >= ?
		ORDER BY timestamp ASC`, agent, cutoff)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to query agent token samples", "")
	}
	defer rows.Close()

	var out []TokenSample
	for rows.Next() {
		var ts TokenSample
		if err := rows.Scan(&ts.Timestamp, &ts.TokensUsed); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to scan token sample", "")
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// TokenSample is one (timestamp, tokens_used) pair for an agent.
type TokenSample struct {
	Timestamp  float64
	TokensUsed int64
}

// metricSampleExpr maps a trend-comparable metric name to the SQL
// expression that derives it from server_metrics' raw columns. Ratio
// metrics fall back to NULL (not a divide-by-zero) when their
// denominator column is zero.
func metricSampleExpr(metric string) (string, bool) {
	switch metric {
	case "cpu_percent":
		return "cpu_percent", true
	case "mem_percent":
		return "CASE WHEN mem_total_mb > 0 THEN 100 * mem_used_mb / mem_total_mb END", true
	case "disk_percent":
		return "CASE WHEN disk_total_gb > 0 THEN 100 * disk_used_gb / disk_total_gb END", true
	default:
		return "", false
	}
}

// MetricSampleNear returns the value of metric nearest to targetTS, used
// by the trend comparator. Supported metric names: "cpu_percent",
// "mem_percent", "disk_percent".
func (s *Store) MetricSampleNear(metric string, now, targetTS float64) (float64, bool, error) {
	expr, ok := metricSampleExpr(metric)
	if !ok {
		return 0, false, errors.New(errors.ErrStore, "unsupported trend metric "+metric, "")
	}

	row := s.db.QueryRow(`
		SELECT `+expr+` FROM server_metrics
		WHERE timestamp <= ?
		ORDER BY ABS(timestamp - ?) ASC
		LIMIT 1`, now, targetTS)

	var v sql.NullFloat64
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, errors.WrapWithCode(err, errors.ErrStore, "failed to query metric sample", "")
	}
	if !v.Valid {
		return 0, false, nil
	}
	return v.Float64, true, nil
}

// RecentNetworkMetrics mirrors RecentServerMetrics for network_metrics.
func (s *Store) RecentNetworkMetrics(now, hours float64, limit int) ([]NetworkMetrics, error) {
	cutoff := now - hours*3600

	rows, err := s.db.Query(`
		SELECT timestamp, active_connections, unique_ips FROM network_metrics
		WHERE timestamp >= ?
		ORDER BY timestamp DESC
		LIMIT ?`, cutoff, limit)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to query network_metrics", "")
	}
	defer rows.Close()

	var out []NetworkMetrics
	for rows.Next() {
		var m NetworkMetrics
		if err := rows.Scan(&m.Timestamp, &m.ActiveConnections, &m.UniqueIPs); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to scan network_metrics row", "")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LatestServerMetrics returns the single newest server_metrics row.
func (s *Store) LatestServerMetrics() (ServerMetrics, bool, error) {
	row := s.db.QueryRow(`
		SELECT timestamp, cpu_percent, mem_used_mb, mem_total_mb, disk_used_gb, disk_total_gb, load_1m, load_5m, load_15m
		FROM server_metrics ORDER BY timestamp DESC LIMIT 1`)
	var m ServerMetrics
	if err := row.Scan(&m.Timestamp, &m.CPUPercent, &m.MemUsedMB, &m.MemTotalMB, &m.DiskUsedGB, &m.DiskTotalGB, &m.Load1m, &m.Load5m, &m.Load15m); err != nil {
		if err == sql.ErrNoRows {
			return ServerMetrics{}, false, nil
		}
		return ServerMetrics{}, false, errors.WrapWithCode(err, errors.ErrStore, "failed to query latest server_metrics", "")
	}
	return m, true, nil
}

// LatestNetworkMetrics returns the single newest network_metrics row.
func (s *Store) LatestNetworkMetrics() (NetworkMetrics, bool, error) {
	row := s.db.QueryRow(`SELECT timestamp, active_connections, unique_ips FROM network_metrics ORDER BY timestamp DESC LIMIT 1`)
	var m NetworkMetrics
	if err := row.Scan(&m.Timestamp, &m.ActiveConnections, &m.UniqueIPs); err != nil {
		if err == sql.ErrNoRows {
			return NetworkMetrics{}, false, nil
		}
		return NetworkMetrics{}, false, errors.WrapWithCode(err, errors.ErrStore, "failed to query latest network_metrics", "")
	}
	return m, true, nil
}

// LatestSecurityMetrics returns the single newest security_metrics row.
func (s *Store) LatestSecurityMetrics() (SecurityMetrics, bool, error) {
	row := s.db.QueryRow(`
		SELECT timestamp, ssh_intrusions_24h, ports_open, ufw_active, fail2ban_active, root_login_enabled
		FROM security_metrics ORDER BY timestamp DESC LIMIT 1`)
	var m SecurityMetrics
	var ufw, fail2ban, root int
	if err := row.Scan(&m.Timestamp, &m.SSHIntrusions24h, &m.PortsOpen, &ufw, &fail2ban, &root); err != nil {
		if err == sql.ErrNoRows {
			return SecurityMetrics{}, false, nil
		}
		return SecurityMetrics{}, false, errors.WrapWithCode(err, errors.ErrStore, "failed to query latest security_metrics", "")
	}
	m.UFWActive = ufw != 0
	m.Fail2banActive = fail2ban != 0
	m.RootLoginEnabled = root != 0
	return m, true, nil
}

// LatestAgentMetrics returns every agent_metrics row sharing the newest
// timestamp, i.e. the most recent tick's full roster.
func (s *Store) LatestAgentMetrics() ([]AgentMetrics, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, agent_name, model, tokens_used, sessions, storage_bytes, is_default
		FROM agent_metrics
		WHERE timestamp = (SELECT MAX(timestamp) FROM agent_metrics)
		ORDER BY agent_name ASC`)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to query latest agent_metrics", "")
	}
	defer rows.Close()

	var out []AgentMetrics
	for rows.Next() {
		var m AgentMetrics
		var isDefault int
		if err := rows.Scan(&m.Timestamp, &m.AgentName, &m.Model, &m.TokensUsed, &m.Sessions, &m.StorageBytes, &isDefault); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to scan agent_metrics row", "")
		}
		m.IsDefault = isDefault != 0
		out = append(out, m)
	}
	return out, rows.Err()
}

// LatestCronMetrics returns every cron_metrics row sharing the newest
// timestamp.
func (s *Store) LatestCronMetrics() ([]CronMetrics, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, job_name, status, last_run, next_run, consecutive_errors
		FROM cron_metrics
		WHERE timestamp = (SELECT MAX(timestamp) FROM cron_metrics)
		ORDER BY job_name ASC`)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to query latest cron_metrics", "")
	}
	defer rows.Close()

	var out []CronMetrics
	for rows.Next() {
		var m CronMetrics
		if err := rows.Scan(&m.Timestamp, &m.JobName, &m.Status, &m.LastRun, &m.NextRun, &m.ConsecutiveErrors); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to scan cron_metrics row", "")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LatestPortScans returns every port_scans row sharing the newest
// timestamp, i.e. the most recent security tick's listening-port set.
func (s *Store) LatestPortScans() ([]PortScan, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, port, service, state
		FROM port_scans
		WHERE timestamp = (SELECT MAX(timestamp) FROM port_scans)
		ORDER BY port ASC`)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to query latest port_scans", "")
	}
	defer rows.Close()

	var out []PortScan
	for rows.Next() {
		var p PortScan
		if err := rows.Scan(&p.Timestamp, &p.Port, &p.Service, &p.State); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to scan port_scans row", "")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecentAttackerScans returns the freshest nmap result per attacker IP,
// newest-scanned first, capped at limit.
func (s *Store) RecentAttackerScans(limit int) ([]AttackerScan, error) {
	rows, err := s.db.Query(`SELECT ip, open_ports, os_guess, scanned_at FROM attacker_scans ORDER BY scanned_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to query attacker_scans", "")
	}
	defer rows.Close()

	var out []AttackerScan
	for rows.Next() {
		var a AttackerScan
		if err := rows.Scan(&a.IP, &a.OpenPorts, &a.OSGuess, &a.ScannedAt); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to scan attacker_scans row", "")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecentGeoEntries returns the freshest geo_cache rows, newest-resolved
// first, capped at limit.
func (s *Store) RecentGeoEntries(limit int) ([]GeoEntry, error) {
	rows, err := s.db.Query(`SELECT ip, country_code, city, isp, resolved_at FROM geo_cache ORDER BY resolved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to query geo_cache", "")
	}
	defer rows.Close()

	var out []GeoEntry
	for rows.Next() {
		var g GeoEntry
		if err := rows.Scan(&g.IP, &g.CountryCode, &g.City, &g.ISP, &g.ResolvedAt); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore, "failed to scan geo_cache row", "")
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
