package collector

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/galacticcic/galacticcic/internal/cache"
	"github.com/galacticcic/galacticcic/internal/runner"
)

// Sitrep collects channel health, update availability, and aggregated
// action items through the per-key SITREP cache. Slow tier.
type Sitrep struct{}

func (Sitrep) Name() string { return "sitrep" }
func (Sitrep) Tier() Tier   { return Slow }

var sitrepKeys = []string{"channels", "update_check", "action_items"}

func (c Sitrep) Run(ctx context.Context, deps *Deps) Outcome {
	degraded := false

	for _, key := range sitrepKeys {
		ttl := cache.SitrepTTL(key)
		_, status, _, err := deps.SitrepCache.Lookup(key, ttl, deps.now(), func() (string, error) {
			return fetchSitrep(ctx, deps, key)
		})
		if err != nil {
			deps.Log.Warn("sitrep: %s fetch failed: %v", key, err)
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

func fetchSitrep(ctx context.Context, deps *Deps, key string) (string, error) {
	switch key {
	case "channels":
		return fetchChannelHealth(ctx, deps)
	case "update_check":
		return fetchUpdateCheck(deps)
	case "action_items":
		return fetchActionItems(deps)
	default:
		return "{}", nil
	}
}

func fetchChannelHealth(ctx context.Context, deps *Deps) (string, error) {
	res := deps.Runner.Run(ctx, []string{"openclaw", "gateway", "status"}, 10*time.Second)
	if res.Outcome != runner.Ok {
		return "", errScanUnavailable
	}
	payload, err := json.Marshal(map[string]string{"raw": res.Stdout})
	return string(payload), err
}

// fetchUpdateCheck and fetchActionItems derive their answer from the
// PlatformStatus collector's own `openclaw status`/`gateway status` output
// (stashed under platformStatusConfigKey) instead of inventing subcommands
// `openclaw` doesn't have; both read the same snapshot this tier's
// PlatformStatus collector already wrote.
func fetchUpdateCheck(deps *Deps) (string, error) {
	snap, found, err := readPlatformStatusSnapshot(deps)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errScanUnavailable
	}
	updateAvailable := strings.Contains(strings.ToLower(snap.Status), "update available")
	payload, err := json.Marshal(map[string]bool{"update_available": updateAvailable})
	return string(payload), err
}

func fetchActionItems(deps *Deps) (string, error) {
	snap, found, err := readPlatformStatusSnapshot(deps)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errScanUnavailable
	}
	payload, err := json.Marshal(map[string][]string{"items": actionItemLines(snap.Status)})
	return string(payload), err
}

// readPlatformStatusSnapshot reads the PlatformStatus collector's latest
// `openclaw status`/`gateway status` snapshot out of the config table.
func readPlatformStatusSnapshot(deps *Deps) (platformSnapshot, bool, error) {
	raw, found, err := deps.Store.GetConfigValue(platformStatusConfigKey)
	if err != nil || !found {
		return platformSnapshot{}, found, err
	}
	var snap platformSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return platformSnapshot{}, found, err
	}
	return snap, found, nil
}

// actionItemLines pulls out the lines of `openclaw status` that flag
// something needing attention, rather than a dedicated --action-items
// subcommand the real CLI doesn't expose.
func actionItemLines(status string) []string {
	var items []string
	for _, line := range strings.Split(status, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "action required") || strings.Contains(lower, "action item") {
			items = append(items, line)
		}
	}
	return items
}
