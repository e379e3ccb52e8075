package collector

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/galacticcic/galacticcic/internal/parsers"
	"github.com/galacticcic/galacticcic/internal/runner"
	"github.com/galacticcic/galacticcic/internal/store"
)

// networkWatchlistConfigKey holds the JSON-encoded top peer IPs by
// connection count, handed off to the glacial-tier DNS collector.
const networkWatchlistConfigKey = "network_peer_watchlist"

// Network collects active connection counts and unique peer IPs via
// `ss -tnp`. Medium tier. Reverse-DNS resolution of the busiest peers
// happens separately on the glacial tier, so this collector only records
// the top-10-by-connection-count candidate IP list for that later pass.
type Network struct{}

func (Network) Name() string { return "network" }
func (Network) Tier() Tier   { return Medium }

func (c Network) Run(ctx context.Context, deps *Deps) Outcome {
	res := deps.Runner.Run(ctx, []string{"ss", "-tnp"}, 10*time.Second)
	if res.Outcome != runner.Ok {
		deps.Log.Warn("network: ss -tnp unavailable (%s)", res.Outcome)
		return Degraded
	}

	peers := parsers.ParseSSConnections(res.Stdout)
	if len(peers) == 0 {
		if err := deps.Store.InsertNetworkMetrics(store.NetworkMetrics{Timestamp: float64(deps.now().Unix())}); err != nil {
			deps.Log.Error("network: store write failed: %v", err)
			return Failed
		}
		return Ok
	}

	active := 0
	for _, p := range peers {
		active += p.ConnectionCount
	}

	m := store.NetworkMetrics{
		Timestamp:         float64(deps.now().Unix()),
		ActiveConnections: active,
		UniqueIPs:         len(peers),
	}
	if err := deps.Store.InsertNetworkMetrics(m); err != nil {
		deps.Log.Error("network: store write failed: %v", err)
		return Failed
	}

	top := make([]parsers.PeerConnection, len(peers))
	copy(top, peers)
	sort.Slice(top, func(i, j int) bool { return top[i].ConnectionCount > top[j].ConnectionCount })
	if len(top) > 10 {
		top = top[:10]
	}
	ips := make([]string, 0, len(top))
	for _, p := range top {
		ips = append(ips, p.PeerIP)
	}
	if payload, err := json.Marshal(ips); err == nil {
		if err := deps.Store.SetConfigValue(networkWatchlistConfigKey, string(payload)); err != nil {
			deps.Log.Error("network: watchlist write failed: %v", err)
		}
	}

	return Ok
}
