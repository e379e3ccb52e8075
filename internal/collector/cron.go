package collector

import (
	"context"
	"time"

	"github.com/galacticcic/galacticcic/internal/parsers"
	"github.com/galacticcic/galacticcic/internal/runner"
	"github.com/galacticcic/galacticcic/internal/store"
)

// Cron collects scheduled-job state via `openclaw cron list`. Medium
// tier.
type Cron struct{}

func (Cron) Name() string { return "cron" }
func (Cron) Tier() Tier   { return Medium }

func (c Cron) Run(ctx context.Context, deps *Deps) Outcome {
	res := deps.Runner.Run(ctx, []string{"openclaw", "cron", "list"}, 10*time.Second)
	switch res.Outcome {
	case runner.Missing, runner.Timeout, runner.Nonzero, runner.IOError:
		deps.Log.Warn("cron: openclaw unavailable (%s)", res.Outcome)
		return Degraded
	}

	records := parsers.ParseCron(res.Stdout)
	if len(records) == 0 {
		return Degraded
	}

	ts := float64(deps.now().Unix())
	rows := make([]store.CronMetrics, 0, len(records))
	for _, r := range records {
		rows = append(rows, store.CronMetrics{
			Timestamp:         ts,
			JobName:           r.JobName,
			Status:            string(r.Status),
			LastRun:           r.LastRun,
			NextRun:           r.NextRun,
			ConsecutiveErrors: r.ConsecutiveErrors,
		})
	}

	if err := deps.Store.InsertCronMetrics(rows); err != nil {
		deps.Log.Error("cron: store write failed: %v", err)
		return Failed
	}
	return Ok
}
