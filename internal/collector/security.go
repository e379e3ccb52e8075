package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/galacticcic/galacticcic/internal/parsers"
	"github.com/galacticcic/galacticcic/internal/runner"
	"github.com/galacticcic/galacticcic/internal/store"
)

// attackerWatchlistConfigKey holds the JSON-encoded top-3 failed-login
// IPs, handed off to the glacial-tier nmap and geo collectors.
const attackerWatchlistConfigKey = "attacker_watchlist"

// acceptedSSHEventsConfigKey holds the JSON-encoded accepted-login lines
// from the same auth.log parse, for the Activity collector's SSH-events
// stream to pick up — auth.log is read here, not re-read by Activity.
const acceptedSSHEventsConfigKey = "ssh_accepted_events"

// Security collects SSH intrusion counts, listening ports, and firewall
// policy state. Slow tier.
type Security struct{}

func (Security) Name() string { return "security" }
func (Security) Tier() Tier   { return Slow }

func (c Security) Run(ctx context.Context, deps *Deps) Outcome {
	authRes := deps.Runner.Run(ctx, []string{"cat", "/var/log/auth.log"}, 10*time.Second)
	ssRes := deps.Runner.Run(ctx, []string{"ss", "-tlnp"}, 10*time.Second)
	ufwRes := deps.Runner.Run(ctx, []string{"ufw", "status"}, 5*time.Second)
	f2bRes := deps.Runner.Run(ctx, []string{"fail2ban-client", "status"}, 5*time.Second)
	sshdRes := deps.Runner.Run(ctx, []string{"sshd", "-T"}, 5*time.Second)

	degraded := false
	m := store.SecurityMetrics{Timestamp: float64(deps.now().Unix())}

	var failedIPs []parsers.AuthEvent
	if authRes.Outcome == runner.Ok {
		accepted, failed := parsers.ParseAuthLog(authRes.Stdout, deps.now())
		failedIPs = failed
		total := 0
		for _, f := range failed {
			total += f.Count
		}
		m.SSHIntrusions24h = total

		if err := writeAcceptedSSHEvents(deps, accepted); err != nil {
			deps.Log.Error("security: accepted-login event write failed: %v", err)
		}
	} else {
		deps.Log.Warn("security: auth.log unavailable (%s)", authRes.Outcome)
		degraded = true
	}

	var listening []parsers.OpenPort
	if ssRes.Outcome == runner.Ok {
		listening = listeningPortsFromSS(ssRes.Stdout)
		m.PortsOpen = len(listening)
	} else {
		deps.Log.Warn("security: ss -tlnp unavailable (%s)", ssRes.Outcome)
		degraded = true
	}

	m.UFWActive = ufwRes.Outcome == runner.Ok && containsActive(ufwRes.Stdout)
	m.Fail2banActive = f2bRes.Outcome == runner.Ok
	m.RootLoginEnabled = sshdRes.Outcome == runner.Ok && rootLoginPermitted(sshdRes.Stdout)

	if err := deps.Store.InsertSecurityMetrics(m); err != nil {
		deps.Log.Error("security: store write failed: %v", err)
		return Failed
	}

	if len(listening) > 0 {
		ts := m.Timestamp
		rows := make([]store.PortScan, 0, len(listening))
		for _, p := range listening {
			rows = append(rows, store.PortScan{Timestamp: ts, Port: p.Port, Service: p.Service, State: "listen"})
		}
		if err := deps.Store.InsertPortScans(rows); err != nil {
			deps.Log.Error("security: port_scans write failed: %v", err)
			return Failed
		}
	}

	if len(failedIPs) > 0 {
		if err := writeAttackerWatchlist(deps, failedIPs); err != nil {
			deps.Log.Error("security: watchlist write failed: %v", err)
		}
	}

	if degraded {
		return Degraded
	}
	return Ok
}

// listeningPortsFromSS extracts the port and process name from `ss
// -tlnp` output.
func listeningPortsFromSS(output string) []parsers.OpenPort {
	return parsers.ParseListeningPorts(output)
}

func containsActive(s string) bool {
	return strings.Contains(strings.ToLower(s), "active")
}

func rootLoginPermitted(sshdConfigDump string) bool {
	return strings.Contains(strings.ToLower(sshdConfigDump), "permitrootlogin yes")
}

// writeAttackerWatchlist persists the top-3 failed-login IPs by count
// for the glacial-tier nmap and geo collectors to consume.
func writeAttackerWatchlist(deps *Deps, failed []parsers.AuthEvent) error {
	sorted := make([]parsers.AuthEvent, len(failed))
	copy(sorted, failed)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })

	n := 3
	if len(sorted) < n {
		n = len(sorted)
	}
	ips := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ips = append(ips, sorted[i].IP)
	}

	payload, err := json.Marshal(ips)
	if err != nil {
		return err
	}
	return deps.Store.SetConfigValue(attackerWatchlistConfigKey, string(payload))
}

// writeAcceptedSSHEvents formats each accepted login as a one-line event
// and persists it for the Activity collector's SSH-events stream.
func writeAcceptedSSHEvents(deps *Deps, accepted []parsers.AuthEvent) error {
	lines := make([]string, 0, len(accepted))
	for _, a := range accepted {
		lines = append(lines, fmt.Sprintf("ssh: accepted login from %s (x%d, last %s)",
			a.IP, a.Count, a.LastSeen.Format(time.RFC3339)))
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return deps.Store.SetConfigValue(acceptedSSHEventsConfigKey, string(payload))
}
