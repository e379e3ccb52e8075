package collector

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/galacticcic/galacticcic/internal/runner"
)

const activityLogConfigKey = "activity_log_snapshot"

// activitySnapshot is the Activity Log panel's streams. It has no
// dedicated table in the data model, so the latest snapshot is stashed
// as JSON in the store's config table, like the other untyped panels.
type activitySnapshot struct {
	Errors    []string `json:"errors"`
	Recent    []string `json:"recent"`
	SSHEvents []string `json:"ssh_events"`
}

// Activity collects OpenClaw logs, system events, and SSH events into the
// Activity Log panel's errors/recent/ssh_events streams. Medium tier.
type Activity struct{}

func (Activity) Name() string { return "activity" }
func (Activity) Tier() Tier   { return Medium }

func (c Activity) Run(ctx context.Context, deps *Deps) Outcome {
	logsRes := deps.Runner.Run(ctx, []string{"openclaw", "logs", "--limit", "200"}, 10*time.Second)
	systemLines, sysErr := readOpenClawSystemLogs()
	sshEvents, _, sshErr := readAcceptedSSHEvents(deps)

	if logsRes.Outcome != runner.Ok && sysErr != nil {
		deps.Log.Warn("activity: no log sources available")
		return Degraded
	}
	if sysErr != nil {
		deps.Log.Warn("activity: ~/.openclaw/logs unavailable (%v)", sysErr)
	}
	if sshErr != nil {
		deps.Log.Warn("activity: ssh accepted-event lookup failed: %v", sshErr)
	}

	var all []string
	all = append(all, splitNonEmptyLines(logsRes.Stdout)...)
	all = append(all, systemLines...)

	snap := activitySnapshot{}
	for _, line := range all {
		if isErrorLine(line) {
			snap.Errors = append(snap.Errors, line)
		} else {
			snap.Recent = append(snap.Recent, line)
		}
	}
	snap.SSHEvents = sshEvents
	trimToTail(&snap.Errors, 50)
	trimToTail(&snap.Recent, 200)
	trimToTail(&snap.SSHEvents, 50)

	payload, err := json.Marshal(snap)
	if err != nil {
		deps.Log.Error("activity: marshal failed: %v", err)
		return Failed
	}
	if err := deps.Store.SetConfigValue(activityLogConfigKey, string(payload)); err != nil {
		deps.Log.Error("activity: store write failed: %v", err)
		return Failed
	}

	if logsRes.Outcome != runner.Ok || sysErr != nil || sshErr != nil {
		return Degraded
	}
	return Ok
}

// readOpenClawSystemLogs reads every file under ~/.openclaw/logs/ as the
// Activity Log panel's system-events stream, per the external interface
// list's "read-only access to ~/.openclaw/logs/*" (no such subprocess
// command exists — this is a direct filesystem read, not a Runner call).
func readOpenClawSystemLogs() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".openclaw", "logs")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		lines = append(lines, splitNonEmptyLines(string(data))...)
	}
	return lines, nil
}

// readAcceptedSSHEvents reads the accepted-login lines the Security
// collector derived from /var/log/auth.log and persisted for this stream,
// rather than re-reading and re-parsing auth.log here.
func readAcceptedSSHEvents(deps *Deps) (lines []string, found bool, err error) {
	payload, found, err := deps.Store.GetConfigValue(acceptedSSHEventsConfigKey)
	if err != nil || !found {
		return nil, found, err
	}
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, found, err
	}
	return lines, found, nil
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func isErrorLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "error") || strings.Contains(lower, "fail") || strings.Contains(lower, "panic")
}

func trimToTail(lines *[]string, n int) {
	if len(*lines) > n {
		*lines = (*lines)[len(*lines)-n:]
	}
}
