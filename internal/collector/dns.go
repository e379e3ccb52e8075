package collector

import (
	"context"
	"encoding/json"
	"net"
)

// DNS resolves reverse hostnames for the busiest network peers from the
// preceding medium-tier network collector, through the DNS cache so
// repeated runs within 24h cost no external lookup. Glacial tier.
type DNS struct{}

func (DNS) Name() string { return "dns" }
func (DNS) Tier() Tier   { return Glacial }

func (c DNS) Run(ctx context.Context, deps *Deps) Outcome {
	raw, found, err := deps.Store.GetConfigValue(networkWatchlistConfigKey)
	if err != nil {
		deps.Log.Error("dns: watchlist read failed: %v", err)
		return Failed
	}
	if !found {
		return Ok
	}

	var ips []string
	if err := json.Unmarshal([]byte(raw), &ips); err != nil {
		deps.Log.Warn("dns: watchlist payload malformed: %v", err)
		return Degraded
	}

	degraded := false
	for _, ip := range ips {
		_, _, _, err := deps.DNSCache.Lookup(ip, deps.now(), resolveHostname)
		if err != nil {
			deps.Log.Debug("dns: lookup for %s failed: %v", ip, err)
			degraded = true
		}
	}

	if degraded {
		return Degraded
	}
	return Ok
}

// resolveHostname performs the reverse-DNS lookup behind the DNS cache.
func resolveHostname(ip string) (string, error) {
	names, err := net.LookupAddr(ip)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}
