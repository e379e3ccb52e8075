package store

import (
	"database/sql"

	"github.com/galacticcic/galacticcic/internal/errors"
)

// GetConfigValue reads a single key from the store's config table, used
// for small pieces of daemon-persisted state that don't belong in
// config.json (which is dashboard-owned).
func (s *Store) GetConfigValue(key string) (string, bool, error) {
	row := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, errors.WrapWithCode(err, errors.ErrStore, "failed to read config table", "")
	}
	return value, true, nil
}

// SetConfigValue upserts a single key/value pair in the config table.
func (s *Store) SetConfigValue(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "failed to write config table", "")
	}
	return nil
}
