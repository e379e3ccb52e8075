package collector

import (
	"context"
	"time"

	"github.com/galacticcic/galacticcic/internal/parsers"
	"github.com/galacticcic/galacticcic/internal/runner"
	"github.com/galacticcic/galacticcic/internal/store"
)

// Agents collects fleet state via `openclaw agents list`. Slow tier.
// A missing binary writes nothing for this tick, letting the Query
// Layer surface "N/A" rather than a stale/fabricated zero row.
type Agents struct{}

func (Agents) Name() string { return "agents" }
func (Agents) Tier() Tier   { return Slow }

func (c Agents) Run(ctx context.Context, deps *Deps) Outcome {
	res := deps.Runner.Run(ctx, []string{"openclaw", "agents", "list"}, 10*time.Second)
	switch res.Outcome {
	case runner.Missing, runner.Timeout:
		deps.Log.Warn("agents: openclaw unavailable (%s)", res.Outcome)
		return Degraded
	case runner.Nonzero, runner.IOError:
		deps.Log.Warn("agents: openclaw agents list failed (%s)", res.Outcome)
		return Degraded
	}

	records := parsers.ParseAgents(res.Stdout)
	if len(records) == 0 {
		return Degraded
	}

	ts := float64(deps.now().Unix())
	rows := make([]store.AgentMetrics, 0, len(records))
	for _, r := range records {
		rows = append(rows, store.AgentMetrics{
			Timestamp:    ts,
			AgentName:    r.Name,
			Model:        r.Model,
			TokensUsed:   r.TokensUsed,
			Sessions:     r.Sessions,
			StorageBytes: r.StorageBytes,
			IsDefault:    r.IsDefault,
		})
	}

	if err := deps.Store.InsertAgentMetrics(rows); err != nil {
		deps.Log.Error("agents: store write failed: %v", err)
		return Failed
	}
	return Ok
}
