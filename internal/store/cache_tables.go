package store

import (
	"database/sql"

	"github.com/galacticcic/galacticcic/internal/errors"
)

// DNSEntry is one row of dns_cache.
type DNSEntry struct {
	IP         string
	Hostname   string
	ResolvedAt float64
}

// GetDNS returns the cached hostname for ip, if any row exists.
func (s *Store) GetDNS(ip string) (DNSEntry, bool, error) {
	row := s.db.QueryRow("SELECT ip, hostname, resolved_at FROM dns_cache WHERE ip = ?", ip)
	var e DNSEntry
	if err := row.Scan(&e.IP, &e.Hostname, &e.ResolvedAt); err != nil {
		if err == sql.ErrNoRows {
			return DNSEntry{}, false, nil
		}
		return DNSEntry{}, false, errors.WrapWithCode(err, errors.ErrCache, "failed to read dns_cache", "")
	}
	return e, true, nil
}

// PutDNS upserts a dns_cache row, stamping resolved_at.
func (s *Store) PutDNS(e DNSEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO dns_cache (ip, hostname, resolved_at) VALUES (?, ?, ?)
		ON CONFLICT(ip) DO UPDATE SET hostname = excluded.hostname, resolved_at = excluded.resolved_at`,
		e.IP, e.Hostname, e.ResolvedAt)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCache, "failed to write dns_cache", "")
	}
	return nil
}

// GeoEntry is one row of geo_cache.
type GeoEntry struct {
	IP          string
	CountryCode string
	City        string
	ISP         string
	ResolvedAt  float64
}

// GetGeo returns the cached geolocation for ip, if any row exists.
func (s *Store) GetGeo(ip string) (GeoEntry, bool, error) {
	row := s.db.QueryRow("SELECT ip, country_code, city, isp, resolved_at FROM geo_cache WHERE ip = ?", ip)
	var e GeoEntry
	if err := row.Scan(&e.IP, &e.CountryCode, &e.City, &e.ISP, &e.ResolvedAt); err != nil {
		if err == sql.ErrNoRows {
			return GeoEntry{}, false, nil
		}
		return GeoEntry{}, false, errors.WrapWithCode(err, errors.ErrCache, "failed to read geo_cache", "")
	}
	return e, true, nil
}

// PutGeo upserts a geo_cache row.
func (s *Store) PutGeo(e GeoEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO geo_cache (ip, country_code, city, isp, resolved_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(ip) DO UPDATE SET country_code = excluded.country_code, city = excluded.city,
			isp = excluded.isp, resolved_at = excluded.resolved_at`,
		e.IP, e.CountryCode, e.City, e.ISP, e.ResolvedAt)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCache, "failed to write geo_cache", "")
	}
	return nil
}

// AttackerScan is one row of attacker_scans.
type AttackerScan struct {
	IP        string
	OpenPorts string // comma-separated port list
	OSGuess   string
	ScannedAt float64
}

// GetAttackerScan returns the cached nmap result for ip, if any.
func (s *Store) GetAttackerScan(ip string) (AttackerScan, bool, error) {
	row := s.db.QueryRow("SELECT ip, open_ports, os_guess, scanned_at FROM attacker_scans WHERE ip = ?", ip)
	var e AttackerScan
	if err := row.Scan(&e.IP, &e.OpenPorts, &e.OSGuess, &e.ScannedAt); err != nil {
		if err == sql.ErrNoRows {
			return AttackerScan{}, false, nil
		}
		return AttackerScan{}, false, errors.WrapWithCode(err, errors.ErrCache, "failed to read attacker_scans", "")
	}
	return e, true, nil
}

// PutAttackerScan upserts an attacker_scans row.
func (s *Store) PutAttackerScan(e AttackerScan) error {
	_, err := s.db.Exec(`
		INSERT INTO attacker_scans (ip, open_ports, os_guess, scanned_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(ip) DO UPDATE SET open_ports = excluded.open_ports, os_guess = excluded.os_guess,
			scanned_at = excluded.scanned_at`,
		e.IP, e.OpenPorts, e.OSGuess, e.ScannedAt)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCache, "failed to write attacker_scans", "")
	}
	return nil
}

// SitrepEntry is one row of sitrep_cache.
type SitrepEntry struct {
	Key      string
	Payload  string // JSON-encoded payload
	CachedAt float64
}

// GetSitrep returns the cached SITREP payload for key, if any.
func (s *Store) GetSitrep(key string) (SitrepEntry, bool, error) {
	row := s.db.QueryRow("SELECT key, payload, cached_at FROM sitrep_cache WHERE key = ?", key)
	var e SitrepEntry
	if err := row.Scan(&e.Key, &e.Payload, &e.CachedAt); err != nil {
		if err == sql.ErrNoRows {
			return SitrepEntry{}, false, nil
		}
		return SitrepEntry{}, false, errors.WrapWithCode(err, errors.ErrCache, "failed to read sitrep_cache", "")
	}
	return e, true, nil
}

// PutSitrep upserts a sitrep_cache row.
func (s *Store) PutSitrep(e SitrepEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO sitrep_cache (key, payload, cached_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		e.Key, e.Payload, e.CachedAt)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCache, "failed to write sitrep_cache", "")
	}
	return nil
}
