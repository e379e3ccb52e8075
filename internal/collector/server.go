package collector

import (
	"context"
	"time"

	"github.com/galacticcic/galacticcic/internal/parsers"
	"github.com/galacticcic/galacticcic/internal/runner"
	"github.com/galacticcic/galacticcic/internal/store"
)

// ServerHealth collects memory, disk, and load-average usage via free,
// df, and uptime. Fast tier.
type ServerHealth struct{}

func (ServerHealth) Name() string { return "server_health" }
func (ServerHealth) Tier() Tier   { return Fast }

func (c ServerHealth) Run(ctx context.Context, deps *Deps) Outcome {
	memRes := deps.Runner.Run(ctx, []string{"free", "-h"}, 5*time.Second)
	dfRes := deps.Runner.Run(ctx, []string{"df", "-h"}, 5*time.Second)
	uptimeRes := deps.Runner.Run(ctx, []string{"uptime"}, 5*time.Second)

	if memRes.Outcome != runner.Ok || dfRes.Outcome != runner.Ok || uptimeRes.Outcome != runner.Ok {
		deps.Log.Warn("server_health: one or more commands unavailable (mem=%s df=%s uptime=%s)",
			memRes.Outcome, dfRes.Outcome, uptimeRes.Outcome)
	}

	mem := parsers.ParseFree(memRes.Stdout)
	disk := parsers.ParseDF(dfRes.Stdout)
	load := parsers.ParseUptime(uptimeRes.Stdout)

	if !mem.OK && !disk.OK && !load.OK {
		return Degraded
	}

	m := store.ServerMetrics{Timestamp: float64(deps.now().Unix())}
	if mem.OK {
		m.MemUsedMB, m.MemTotalMB = mem.UsedMB, mem.TotalMB
	}
	if disk.OK {
		m.DiskUsedGB, m.DiskTotalGB = disk.UsedGB, disk.TotalGB
	}
	if load.OK {
		m.Load1m, m.Load5m, m.Load15m = load.Load1, load.Load5, load.Load15
		m.CPUPercent = cpuPercentFromLoad(load)
	}

	if err := deps.Store.InsertServerMetrics(m); err != nil {
		deps.Log.Error("server_health: store write failed: %v", err)
		return Failed
	}

	if !mem.OK || !disk.OK || !load.OK {
		return Degraded
	}
	return Ok
}

// cpuPercentFromLoad approximates instantaneous CPU pressure as the
// 1-minute load average expressed as a percentage of one core, clamped
// to 100. This is a rough proxy in the absence of a dedicated
// per-core-normalized CPU sampler among the invoked commands.
func cpuPercentFromLoad(l parsers.LoadAverages) float64 {
	pct := l.Load1 * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
