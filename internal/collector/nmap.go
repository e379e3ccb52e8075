package collector

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/galacticcic/galacticcic/internal/cache"
	"github.com/galacticcic/galacticcic/internal/errors"
	"github.com/galacticcic/galacticcic/internal/parsers"
	"github.com/galacticcic/galacticcic/internal/store"
)

var errScanUnavailable = errors.New(errors.ErrCollector, "nmap produced no output", "")

// nmapActiveConfigKey mirrors the in-process nmap_active counter into
// the store so the dashboard, which runs as a separate process and
// only ever reads the store, can show the same "scan in flight"
// indicator the spec ties to the in-memory flag.
const nmapActiveConfigKey = "nmap_active"

func persistNmapActive(deps *Deps) {
	value := "false"
	if NmapActive(deps.NmapActive) {
		value = "true"
	}
	if err := deps.Store.SetConfigValue(nmapActiveConfigKey, value); err != nil {
		deps.Log.Warn("nmap: failed to persist nmap_active flag: %v", err)
	}
}

// Nmap scans the top-3 failed-login IPs (from the attacker watchlist)
// with a bounded port scan, caching results for 6h. The nmap_active
// counter is held for the duration of every scan, including cache
// single-flight waits, so overlapping glacial ticks report correctly.
// Glacial tier.
type Nmap struct{}

func (Nmap) Name() string { return "nmap" }
func (Nmap) Tier() Tier   { return Glacial }

func (c Nmap) Run(ctx context.Context, deps *Deps) Outcome {
	raw, found, err := deps.Store.GetConfigValue(attackerWatchlistConfigKey)
	if err != nil {
		deps.Log.Error("nmap: watchlist read failed: %v", err)
		return Failed
	}
	if !found {
		return Ok
	}

	var ips []string
	if err := json.Unmarshal([]byte(raw), &ips); err != nil {
		deps.Log.Warn("nmap: watchlist payload malformed: %v", err)
		return Degraded
	}

	degraded := false
	for _, ip := range ips {
		IncNmapActive(deps.NmapActive)
		persistNmapActive(deps)
		_, status, _, err := deps.NmapCache.Lookup(ip, deps.now(), func(ip string) (store.AttackerScan, error) {
			return scanHost(ctx, deps, ip)
		})
		DecNmapActive(deps.NmapActive)
		persistNmapActive(deps)

		if err != nil {
			deps.Log.Warn("nmap: scan of %s failed: %v", ip, err)
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

func scanHost(ctx context.Context, deps *Deps, ip string) (store.AttackerScan, error) {
	res := deps.Runner.Run(ctx, []string{"nmap", "-sT", "--top-ports", "20", ip}, 10*time.Second)
	if res.Stdout == "" {
		return store.AttackerScan{}, errScanUnavailable
	}

	result := parsers.ParseNmap(res.Stdout)
	ports := make([]string, 0, len(result.OpenPorts))
	for _, p := range result.OpenPorts {
		ports = append(ports, strconv.Itoa(p.Port))
	}

	return store.AttackerScan{
		IP:        ip,
		OpenPorts: strings.Join(ports, ","),
		OSGuess:   result.OSGuess,
	}, nil
}
