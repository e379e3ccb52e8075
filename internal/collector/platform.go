package collector

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/galacticcic/galacticcic/internal/runner"
)

const platformStatusConfigKey = "platform_status_snapshot"

// PlatformStatus is the free-text snapshot of `openclaw status` and
// `openclaw gateway status`, surfaced verbatim on the SITREP panel
// rather than parsed into a typed table, since the data model names no
// dedicated columns for it.
type PlatformStatus struct{}

func (PlatformStatus) Name() string { return "platform_status" }
func (PlatformStatus) Tier() Tier   { return Slow }

type platformSnapshot struct {
	Status        string `json:"status"`
	GatewayStatus string `json:"gateway_status"`
}

func (c PlatformStatus) Run(ctx context.Context, deps *Deps) Outcome {
	statusRes := deps.Runner.Run(ctx, []string{"openclaw", "status"}, 10*time.Second)
	gatewayRes := deps.Runner.Run(ctx, []string{"openclaw", "gateway", "status"}, 10*time.Second)

	if statusRes.Outcome != runner.Ok && gatewayRes.Outcome != runner.Ok {
		deps.Log.Warn("platform_status: openclaw unavailable (status=%s gateway=%s)",
			statusRes.Outcome, gatewayRes.Outcome)
		return Degraded
	}

	snap := platformSnapshot{
		Status:        strings.TrimSpace(statusRes.Stdout),
		GatewayStatus: strings.TrimSpace(gatewayRes.Stdout),
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		deps.Log.Error("platform_status: marshal failed: %v", err)
		return Failed
	}
	if err := deps.Store.SetConfigValue(platformStatusConfigKey, string(payload)); err != nil {
		deps.Log.Error("platform_status: store write failed: %v", err)
		return Failed
	}

	if statusRes.Outcome != runner.Ok || gatewayRes.Outcome != runner.Ok {
		return Degraded
	}
	return Ok
}
