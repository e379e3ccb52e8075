package cache

import (
	"time"

	"github.com/galacticcic/galacticcic/internal/store"
)

// Status is the tagged result of a cache lookup.
type Status int

const (
	Miss Status = iota
	Fresh
	Stale
)

func (s Status) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "miss"
	}
}

// DNSCache resolves reverse-DNS lookups, caching for 24h.
type DNSCache struct {
	store *store.Store
	sf    *group
	ttl   time.Duration
}

// NewDNSCache wraps s with a 24h-TTL DNS cache.
func NewDNSCache(s *store.Store) *DNSCache {
	return &DNSCache{store: s, sf: newGroup(), ttl: 24 * time.Hour}
}

// Lookup returns the cached hostname for ip. On a miss or stale entry it
// calls resolve at most once even if multiple goroutines race on the
// same ip, then writes the result back to the store.
func (c *DNSCache) Lookup(ip string, now time.Time, resolve func(ip string) (string, error)) (hostname string, status Status, age time.Duration, err error) {
	entry, found, err := c.store.GetDNS(ip)
	if err != nil {
		return "", Miss, 0, err
	}

	if found {
		age = now.Sub(time.Unix(int64(entry.ResolvedAt), 0))
		if age <= c.ttl {
			return entry.Hostname, Fresh, age, nil
		}
	}

	result, err := c.sf.do(ip, func() (any, error) {
		return resolve(ip)
	})
	if err != nil {
		if found {
			return entry.Hostname, Stale, age, nil
		}
		return "", Miss, 0, err
	}

	newHostname := result.(string)
	if putErr := c.store.PutDNS(store.DNSEntry{IP: ip, Hostname: newHostname, ResolvedAt: float64(now.Unix())}); putErr != nil {
		return newHostname, Fresh, 0, putErr
	}
	return newHostname, Fresh, 0, nil
}

// GeoCache resolves IP geolocation, caching for 7d.
type GeoCache struct {
	store *store.Store
	sf    *group
	ttl   time.Duration
}

// NewGeoCache wraps s with a 7-day-TTL geolocation cache.
func NewGeoCache(s *store.Store) *GeoCache {
	return &GeoCache{store: s, sf: newGroup(), ttl: 7 * 24 * time.Hour}
}

// Lookup returns the cached geolocation for ip, refetching via resolve on
// a miss or expired entry. On a transient resolve failure, a stale entry
// is still returned so collectors can opportunistically refetch next tick
// without blanking the Security panel.
func (c *GeoCache) Lookup(ip string, now time.Time, resolve func(ip string) (store.GeoEntry, error)) (entry store.GeoEntry, status Status, age time.Duration, err error) {
	cached, found, err := c.store.GetGeo(ip)
	if err != nil {
		return store.GeoEntry{}, Miss, 0, err
	}

	if found {
		age = now.Sub(time.Unix(int64(cached.ResolvedAt), 0))
		if age <= c.ttl {
			return cached, Fresh, age, nil
		}
	}

	result, err := c.sf.do(ip, func() (any, error) {
		return resolve(ip)
	})
	if err != nil {
		if found {
			return cached, Stale, age, nil
		}
		return store.GeoEntry{}, Miss, 0, err
	}

	fresh := result.(store.GeoEntry)
	fresh.IP = ip
	fresh.ResolvedAt = float64(now.Unix())
	if putErr := c.store.PutGeo(fresh); putErr != nil {
		return fresh, Fresh, 0, putErr
	}
	return fresh, Fresh, 0, nil
}

// NmapCache caches attacker-nmap scan results for 6h.
type NmapCache struct {
	store *store.Store
	sf    *group
	ttl   time.Duration
}

// NewNmapCache wraps s with a 6h-TTL nmap result cache.
func NewNmapCache(s *store.Store) *NmapCache {
	return &NmapCache{store: s, sf: newGroup(), ttl: 6 * time.Hour}
}

// Lookup returns the cached scan for ip, running scan only on a miss or
// expired entry.
func (c *NmapCache) Lookup(ip string, now time.Time, scan func(ip string) (store.AttackerScan, error)) (entry store.AttackerScan, status Status, age time.Duration, err error) {
	cached, found, err := c.store.GetAttackerScan(ip)
	if err != nil {
		return store.AttackerScan{}, Miss, 0, err
	}

	if found {
		age = now.Sub(time.Unix(int64(cached.ScannedAt), 0))
		if age <= c.ttl {
			return cached, Fresh, age, nil
		}
	}

	result, err := c.sf.do(ip, func() (any, error) {
		return scan(ip)
	})
	if err != nil {
		if found {
			return cached, Stale, age, nil
		}
		return store.AttackerScan{}, Miss, 0, err
	}

	fresh := result.(store.AttackerScan)
	fresh.IP = ip
	fresh.ScannedAt = float64(now.Unix())
	if putErr := c.store.PutAttackerScan(fresh); putErr != nil {
		return fresh, Fresh, 0, putErr
	}
	return fresh, Fresh, 0, nil
}

// SitrepCache caches SITREP payloads with a per-key TTL (channels 5m,
// update check 1h, action items 5m).
type SitrepCache struct {
	store *store.Store
	sf    *group
}

// NewSitrepCache wraps s with a SITREP payload cache.
func NewSitrepCache(s *store.Store) *SitrepCache {
	return &SitrepCache{store: s, sf: newGroup()}
}

// Lookup returns the cached payload for key, refreshing via fetch when
// the entry is older than ttl.
func (c *SitrepCache) Lookup(key string, ttl time.Duration, now time.Time, fetch func() (string, error)) (payload string, status Status, age time.Duration, err error) {
	cached, found, err := c.store.GetSitrep(key)
	if err != nil {
		return "", Miss, 0, err
	}

	if found {
		age = now.Sub(time.Unix(int64(cached.CachedAt), 0))
		if age <= ttl {
			return cached.Payload, Fresh, age, nil
		}
	}

	result, err := c.sf.do(key, func() (any, error) {
		return fetch()
	})
	if err != nil {
		if found {
			return cached.Payload, Stale, age, nil
		}
		return "", Miss, 0, err
	}

	fresh := result.(string)
	if putErr := c.store.PutSitrep(store.SitrepEntry{Key: key, Payload: fresh, CachedAt: float64(now.Unix())}); putErr != nil {
		return fresh, Fresh, 0, putErr
	}
	return fresh, Fresh, 0, nil
}

// SitrepTTL returns the per-key TTL for SITREP cache entries.
func SitrepTTL(key string) time.Duration {
	switch key {
	case "update_check":
		return time.Hour
	default: // "channels", "action_items"
		return 5 * time.Minute
	}
}
