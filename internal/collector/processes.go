package collector

import (
	"context"
	"encoding/json"
	"time"

	"github.com/galacticcic/galacticcic/internal/parsers"
	"github.com/galacticcic/galacticcic/internal/runner"
)

// topProcessesConfigKey is where the latest process snapshot is stashed
// in the store's config table; the data model names no dedicated table
// for transient process rows, and the dashboard only reads the store.
const topProcessesConfigKey = "top_processes_snapshot"

// TopProcesses lists the five busiest processes by CPU for the Server
// Health panel's detail view. Fast tier.
type TopProcesses struct{}

func (TopProcesses) Name() string { return "top_processes" }
func (TopProcesses) Tier() Tier   { return Fast }

func (c TopProcesses) Run(ctx context.Context, deps *Deps) Outcome {
	res := deps.Runner.Run(ctx, []string{"ps", "aux", "--sort=-%cpu"}, 5*time.Second)
	if res.Outcome != runner.Ok {
		deps.Log.Warn("top_processes: ps unavailable (%s)", res.Outcome)
		return Degraded
	}

	rows := parsers.ParseTopProcesses(res.Stdout, 5)
	if len(rows) == 0 {
		return Degraded
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		deps.Log.Error("top_processes: marshal failed: %v", err)
		return Failed
	}
	if err := deps.Store.SetConfigValue(topProcessesConfigKey, string(payload)); err != nil {
		deps.Log.Error("top_processes: store write failed: %v", err)
		return Failed
	}
	return Ok
}
