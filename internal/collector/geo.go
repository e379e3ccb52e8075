package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/galacticcic/galacticcic/internal/cache"
	"github.com/galacticcic/galacticcic/internal/store"
)

// geoRateLimiter enforces the ≤1 req/s aggregate cap across both
// geolocation endpoints, process-wide.
var geoRateLimiter = &rateLimiter{minInterval: time.Second}

type rateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	last        time.Time
}

func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.last.IsZero() {
		elapsed := time.Since(r.last)
		if elapsed < r.minInterval {
			select {
			case <-time.After(r.minInterval - elapsed):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	r.last = time.Now()
	return nil
}

// Geo resolves geolocation for the attacker watchlist's IPs via a
// free-tier HTTP endpoint with a fallback, rate-limited to ≤1 req/s.
// Glacial tier.
type Geo struct{}

func (Geo) Name() string { return "geo" }
func (Geo) Tier() Tier   { return Glacial }

type ipAPIResponse struct {
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
	ISP         string `json:"isp"`
}

type ipinfoResponse struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Org     string `json:"org"`
}

func (c Geo) Run(ctx context.Context, deps *Deps) Outcome {
	raw, found, err := deps.Store.GetConfigValue(attackerWatchlistConfigKey)
	if err != nil {
		deps.Log.Error("geo: watchlist read failed: %v", err)
		return Failed
	}
	if !found {
		return Ok
	}

	var ips []string
	if err := json.Unmarshal([]byte(raw), &ips); err != nil {
		deps.Log.Warn("geo: watchlist payload malformed: %v", err)
		return Degraded
	}

	degraded := false
	for _, ip := range ips {
		_, status, _, err := deps.GeoCache.Lookup(ip, deps.now(), func(ip string) (store.GeoEntry, error) {
			return fetchGeo(ctx, deps.HTTPClient, ip)
		})
		if err != nil {
			deps.Log.Warn("geo: lookup for %s failed: %v", ip, err)
			degraded = true
			continue
		}
		if status == cache.Miss {
			degraded = true
		}
	}

	if degraded {
		return Degraded
	}
	return Ok
}

// fetchGeo tries the primary ip-api.com endpoint, falling back to
// ipinfo.io on any error, respecting the global rate limiter across
// both.
func fetchGeo(ctx context.Context, client *http.Client, ip string) (store.GeoEntry, error) {
	if err := geoRateLimiter.wait(ctx); err != nil {
		return store.GeoEntry{}, err
	}

	entry, err := fetchGeoIPAPI(ctx, client, ip)
	if err == nil {
		return entry, nil
	}

	if err := geoRateLimiter.wait(ctx); err != nil {
		return store.GeoEntry{}, err
	}
	return fetchGeoIPInfo(ctx, client, ip)
}

func fetchGeoIPAPI(ctx context.Context, client *http.Client, ip string) (store.GeoEntry, error) {
	url := fmt.Sprintf("http://ip-api.com/json/%s?fields=country,countryCode,city,isp", ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return store.GeoEntry{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return store.GeoEntry{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return store.GeoEntry{}, fmt.Errorf("ip-api.com: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return store.GeoEntry{}, err
	}
	var parsed ipAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return store.GeoEntry{}, err
	}

	return store.GeoEntry{CountryCode: parsed.CountryCode, City: parsed.City, ISP: parsed.ISP}, nil
}

func fetchGeoIPInfo(ctx context.Context, client *http.Client, ip string) (store.GeoEntry, error) {
	url := fmt.Sprintf("https://ipinfo.io/%s/json", ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return store.GeoEntry{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return store.GeoEntry{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return store.GeoEntry{}, fmt.Errorf("ipinfo.io: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return store.GeoEntry{}, err
	}
	var parsed ipinfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return store.GeoEntry{}, err
	}

	return store.GeoEntry{CountryCode: parsed.Country, City: parsed.City, ISP: parsed.Org}, nil
}
