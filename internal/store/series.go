package store

import (
	"database/sql"

	"github.com/galacticcic/galacticcic/internal/errors"
)

// ServerMetrics is one row written by the server-health collector.
type ServerMetrics struct {
	Timestamp   float64
	CPUPercent  float64
	MemUsedMB   float64
	MemTotalMB  float64
	DiskUsedGB  float64
	DiskTotalGB float64
	Load1m      float64
	Load5m      float64
	Load15m     float64
}

// InsertServerMetrics writes one server_metrics row in its own short
// transaction.
func (s *Store) InsertServerMetrics(m ServerMetrics) error {
	_, err := s.db.Exec(`
		INSERT INTO server_metrics
			(timestamp, cpu_percent, mem_used_mb, mem_total_mb, disk_used_gb, disk_total_gb, load_1m, load_5m, load_15m)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Timestamp, m.CPUPercent, m.MemUsedMB, m.MemTotalMB, m.DiskUsedGB, m.DiskTotalGB, m.Load1m, m.Load5m, m.Load15m,
	)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "failed to write server_metrics row", "")
	}
	return nil
}

// AgentMetrics is one row per agent per tick, written by the agents
// collector.
type AgentMetrics struct {
	Timestamp    float64
	AgentName    string
	Model        string
	TokensUsed   int64
	Sessions     int
	StorageBytes int64
	IsDefault    bool
}

// InsertAgentMetrics writes every agent's row for one tick inside a
// single transaction keyed on that tick's timestamp.
func (s *Store) InsertAgentMetrics(rows []AgentMetrics) error {
	return s.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO agent_metrics
				(timestamp, agent_name, model, tokens_used, sessions, storage_bytes, is_default)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			isDefault := 0
			if r.IsDefault {
				isDefault = 1
			}
			if _, err := stmt.Exec(r.Timestamp, r.AgentName, r.Model, r.TokensUsed, r.Sessions, r.StorageBytes, isDefault); err != nil {
				return err
			}
		}
		return nil
	}, "agent_metrics")
}

// CronMetrics is one row per job per tick.
type CronMetrics struct {
	Timestamp         float64
	JobName           string
	Status            string
	LastRun           string
	NextRun           string
	ConsecutiveErrors int
}

// InsertCronMetrics writes every job's row for one tick in a transaction.
func (s *Store) InsertCronMetrics(rows []CronMetrics) error {
	return s.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO cron_metrics
				(timestamp, job_name, status, last_run, next_run, consecutive_errors)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.Exec(r.Timestamp, r.JobName, r.Status, r.LastRun, r.NextRun, r.ConsecutiveErrors); err != nil {
				return err
			}
		}
		return nil
	}, "cron_metrics")
}

// SecurityMetrics is one row written by the security collector.
type SecurityMetrics struct {
	Timestamp        float64
	SSHIntrusions24h int
	PortsOpen        int
	UFWActive        bool
	Fail2banActive   bool
	RootLoginEnabled bool
}

// InsertSecurityMetrics writes one security_metrics row.
func (s *Store) InsertSecurityMetrics(m SecurityMetrics) error {
	_, err := s.db.Exec(`
		INSERT INTO security_metrics
			(timestamp, ssh_intrusions_24h, ports_open, ufw_active, fail2ban_active, root_login_enabled)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.Timestamp, m.SSHIntrusions24h, m.PortsOpen, boolToInt(m.UFWActive), boolToInt(m.Fail2banActive), boolToInt(m.RootLoginEnabled),
	)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "failed to write security_metrics row", "")
	}
	return nil
}

// NetworkMetrics is one row written by the network collector.
type NetworkMetrics struct {
	Timestamp         float64
	ActiveConnections int
	UniqueIPs         int
}

// InsertNetworkMetrics writes one network_metrics row.
func (s *Store) InsertNetworkMetrics(m NetworkMetrics) error {
	_, err := s.db.Exec(`
		INSERT INTO network_metrics (timestamp, active_connections, unique_ips)
		VALUES (?, ?, ?)`,
		m.Timestamp, m.ActiveConnections, m.UniqueIPs,
	)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "failed to write network_metrics row", "")
	}
	return nil
}

// PortScan is one open port found during a single nmap run.
type PortScan struct {
	Timestamp float64
	Port      int
	Service   string
	State     string
}

// InsertPortScans writes every open port from one nmap invocation inside
// a single transaction keyed by that invocation's timestamp, so
// ports_open always equals the count of port_scans rows sharing the tick.
func (s *Store) InsertPortScans(rows []PortScan) error {
	return s.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO port_scans (timestamp, port, service, state) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.Exec(r.Timestamp, r.Port, r.Service, r.State); err != nil {
				return err
			}
		}
		return nil
	}, "port_scans")
}

func (s *Store) withTx(fn func(tx *sql.Tx) error, table string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "could not begin transaction for "+table, "")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return errors.WrapWithCode(err, errors.ErrStore, "failed to write "+table+" rows", "")
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "could not commit "+table+" transaction", "")
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
