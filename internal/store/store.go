// Package store persists GalacticCIC's time-series metrics and keyed
// caches in an embedded SQLite database opened in WAL mode.
package store

import (
	"database/sql"
	"time"

	"github.com/galacticcic/galacticcic/internal/errors"
	_ "modernc.org/sqlite"
)

// RetentionWindow is how long a time-series row is kept before it becomes
// eligible for pruning.
const RetentionWindow = 30 * 24 * time.Hour

// Store wraps the SQLite connection and bootstraps/migrates its schema.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path, enables WAL
// journaling, and brings the schema up to CurrentSchemaVersion.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"could not open metrics database",
			"check that "+path+" is writable")
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"could not enable WAL journaling",
			"")
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// DB exposes the underlying *sql.DB for packages (query, cache) that need
// to run their own statements against the store.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads schema_version and applies every migration whose version
// exceeds it, in order, never downgrading. An empty schema_version table
// means a fresh database: every migration applies.
func (s *Store) migrate() error {
	var current int
	row := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&current); err != nil {
		if err != sql.ErrNoRows {
			// schema_version doesn't exist yet; fall through with current=0.
			current = 0
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrStore, "could not begin migration", "")
		}

		if _, err := tx.Exec(m.ddl); err != nil {
			tx.Rollback()
			return errors.WrapWithCode(err, errors.ErrStore,
				"migration to schema version failed", "")
		}

		if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
			tx.Rollback()
			return errors.WrapWithCode(err, errors.ErrStore, "could not clear schema_version", "")
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return errors.WrapWithCode(err, errors.ErrStore, "could not record schema_version", "")
		}

		if err := tx.Commit(); err != nil {
			return errors.WrapWithCode(err, errors.ErrStore, "could not commit migration", "")
		}
	}

	return nil
}

// Prune deletes time-series rows older than RetentionWindow and evicts
// expired cache rows. It is idempotent: running it twice back-to-back
// with no new writes in between removes the same rows the second time —
// zero, since the first call already removed everything eligible.
func (s *Store) Prune(now time.Time) error {
	cutoff := float64(now.Add(-RetentionWindow).Unix())

	tsTables := []string{
		"server_metrics", "agent_metrics", "cron_metrics",
		"security_metrics", "network_metrics", "port_scans",
	}
	for _, table := range tsTables {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE timestamp < ?", cutoff); err != nil {
			return errors.WrapWithCode(err, errors.ErrStore, "prune failed on "+table, "")
		}
	}

	if err := s.pruneCache("dns_cache", "resolved_at", 24*time.Hour, now); err != nil {
		return err
	}
	if err := s.pruneCache("geo_cache", "resolved_at", 7*24*time.Hour, now); err != nil {
		return err
	}
	if err := s.pruneCache("attacker_scans", "scanned_at", 6*time.Hour, now); err != nil {
		return err
	}

	return nil
}

func (s *Store) pruneCache(table, tsColumn string, ttl time.Duration, now time.Time) error {
	cutoff := float64(now.Add(-ttl).Unix())
	_, err := s.db.Exec("DELETE FROM "+table+" WHERE "+tsColumn+" < ?", cutoff)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "cache prune failed on "+table, "")
	}
	return nil
}

// TableStats is one row of `galacticcic db stats` output.
type TableStats struct {
	Table    string
	Rows     int64
	OldestTS float64
	NewestTS float64
}

// timeSeriesTables lists the append-only tables db stats reports on.
var timeSeriesTables = []string{
	"server_metrics", "agent_metrics", "cron_metrics",
	"security_metrics", "network_metrics", "port_scans",
}

// Stats returns row counts and oldest/newest timestamps for every
// time-series table.
func (s *Store) Stats() ([]TableStats, error) {
	var out []TableStats
	for _, table := range timeSeriesTables {
		var stats TableStats
		stats.Table = table

		row := s.db.QueryRow("SELECT COUNT(*), COALESCE(MIN(timestamp), 0), COALESCE(MAX(timestamp), 0) FROM " + table)
		if err := row.Scan(&stats.Rows, &stats.OldestTS, &stats.NewestTS); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore, "could not read stats for "+table, "")
		}
		out = append(out, stats)
	}
	return out, nil
}
