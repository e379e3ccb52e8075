package store

// CurrentSchemaVersion is the schema version this binary knows how to
// produce and migrate to. Bumping it requires adding a migration entry.
const CurrentSchemaVersion = 1

// migration is one monotonic step in the schema's evolution. Migrations
// never run out of order and never downgrade.
type migration struct {
	version int
	ddl     string
}

// migrations are applied in slice order, each inside its own transaction
// that also bumps schema_version to migration.version.
var migrations = []migration{
	{version: 1, ddl: baseSchema},
}

const baseSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS server_metrics (
	timestamp     REAL NOT NULL,
	cpu_percent   REAL NOT NULL,
	mem_used_mb   REAL NOT NULL,
	mem_total_mb  REAL NOT NULL,
	disk_used_gb  REAL NOT NULL,
	disk_total_gb REAL NOT NULL,
	load_1m       REAL NOT NULL,
	load_5m       REAL NOT NULL,
	load_15m      REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_server_metrics_ts ON server_metrics(timestamp);

CREATE TABLE IF NOT EXISTS agent_metrics (
	timestamp     REAL NOT NULL,
	agent_name    TEXT NOT NULL,
	model         TEXT NOT NULL,
	tokens_used   INTEGER NOT NULL,
	sessions      INTEGER NOT NULL,
	storage_bytes INTEGER NOT NULL,
	is_default    INTEGER NOT NULL,
	PRIMARY KEY (agent_name, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_agent_metrics_ts ON agent_metrics(timestamp);

CREATE TABLE IF NOT EXISTS cron_metrics (
	timestamp          REAL NOT NULL,
	job_name           TEXT NOT NULL,
	status             TEXT NOT NULL,
	last_run           TEXT NOT NULL,
	next_run           TEXT NOT NULL,
	consecutive_errors INTEGER NOT NULL,
	PRIMARY KEY (job_name, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_cron_metrics_ts ON cron_metrics(timestamp);

CREATE TABLE IF NOT EXISTS security_metrics (
	timestamp          REAL NOT NULL,
	ssh_intrusions_24h INTEGER NOT NULL,
	ports_open         INTEGER NOT NULL,
	ufw_active         INTEGER NOT NULL,
	fail2ban_active    INTEGER NOT NULL,
	root_login_enabled INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_security_metrics_ts ON security_metrics(timestamp);

CREATE TABLE IF NOT EXISTS network_metrics (
	timestamp          REAL NOT NULL,
	active_connections INTEGER NOT NULL,
	unique_ips         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_network_metrics_ts ON network_metrics(timestamp);

CREATE TABLE IF NOT EXISTS port_scans (
	timestamp REAL NOT NULL,
	port      INTEGER NOT NULL,
	service   TEXT NOT NULL,
	state     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_port_scans_ts ON port_scans(timestamp);

CREATE TABLE IF NOT EXISTS dns_cache (
	ip          TEXT PRIMARY KEY,
	hostname    TEXT NOT NULL,
	resolved_at REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS geo_cache (
	ip           TEXT PRIMARY KEY,
	country_code TEXT NOT NULL,
	city         TEXT NOT NULL,
	isp          TEXT NOT NULL,
	resolved_at  REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS attacker_scans (
	ip         TEXT PRIMARY KEY,
	open_ports TEXT NOT NULL,
	os_guess   TEXT NOT NULL,
	scanned_at REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS sitrep_cache (
	key       TEXT PRIMARY KEY,
	payload   TEXT NOT NULL,
	cached_at REAL NOT NULL
);
`
