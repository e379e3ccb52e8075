package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// box renders one panel's full bordered content: header with title and
// a right-aligned status value, one line per content row, and a
// footer. The title draws in the highlight color when focused is true,
// letting Tab/1-6 visibly move attention between panels; the border
// keeps its usual color.
func box(t Theme, focused bool, title, value string, width int, lines []string) string {
	header := t.SectionHeader(title, value, width)
	if focused {
		header = t.SectionHeader(t.HighlightStyle().Render(title), value, width)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	if len(lines) == 0 {
		b.WriteString(t.SectionLine(t.DimStyle().Render("no data yet"), width))
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(t.SectionLine(line, width))
		b.WriteString("\n")
	}
	b.WriteString(t.SectionFooter(width))
	return b.String()
}

func (m Model) renderAgentFleetPanel(width int) string {
	p := m.agentFleet
	var lines []string
	for _, a := range p.Agents {
		name := a.Name
		if a.IsDefault {
			name += "*"
		}
		rate := "--"
		if !a.TokensPerHour.Unknown {
			rate = formatTokens(a.TokensPerHour.Rate) + "/h"
		}
		lines = append(lines, fmt.Sprintf("%-14s %-10s sessions %-3d tokens %-8s disk %s", name, a.Model, a.Sessions, rate, humanize.IBytes(uint64(a.StorageBytes))))
	}
	if p.HasData {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Sessions: %d, Total: %s", p.TotalSessions, formatTokens(float64(p.TotalTokensUsed))))
		if p.TotalTokensPerHour > 0 {
			lines = append(lines, fmt.Sprintf("Rate: %s/h", formatTokens(p.TotalTokensPerHour)))
		}
	}

	status := "N/A"
	if p.HasData {
		status = fmt.Sprintf("%d agents", len(p.Agents))
	}
	return box(m.theme, m.focused == PanelAgentFleet, "Agent Fleet", status, width, lines)
}

func (m Model) renderServerHealthPanel(width int) string {
	p := m.serverHealth
	var lines []string
	if p.HasData {
		lines = append(lines,
			fmt.Sprintf("CPU  %s %5.1f%% %s", m.theme.ProgressBar(20, p.CPUPercent), p.CPUPercent, p.CPUTrend),
			fmt.Sprintf("MEM  %s %5.1f%% %s", m.theme.ProgressBar(20, p.MemPercent), p.MemPercent, p.MemTrend),
			fmt.Sprintf("DISK %s %5.1f%% %s", m.theme.ProgressBar(20, p.DiskPercent), p.DiskPercent, p.DiskTrend),
			fmt.Sprintf("load %.2f %.2f %.2f", p.Load1, p.Load5, p.Load15),
		)
		if p.CPUSparkline != "" {
			lines = append(lines, "cpu  "+p.CPUSparkline)
		}
		lines = append(lines, fmt.Sprintf("net  %d conns, %d peers", p.NetworkActiveConnections, p.NetworkUniqueIPs))
		if p.NetworkSparkline != "" {
			lines = append(lines, "net  "+p.NetworkSparkline)
		}
		if len(p.TopProcesses) > 0 {
			lines = append(lines, "")
			lines = append(lines, "top processes:")
			for _, proc := range p.TopProcesses {
				lines = append(lines, fmt.Sprintf("  %5.1f%% %5.1f%% %s", proc.CPUPct, proc.MemPct, truncate(proc.Command, width-20)))
			}
		}
	}

	status := "N/A"
	if p.HasData {
		status = fmt.Sprintf("age %ds", int(p.AgeSeconds))
	}
	return box(m.theme, m.focused == PanelServerHealth, "Server Health", status, width, lines)
}

func (m Model) renderCronJobsPanel(width int) string {
	p := m.cronJobs
	var lines []string
	for _, job := range p.Jobs {
		lines = append(lines, fmt.Sprintf("%-20s %-10s last %-8s errs %d", truncate(job.JobName, 20), job.Status, job.LastRun, job.ConsecutiveErrors))
	}

	status := "N/A"
	if p.HasData {
		status = fmt.Sprintf("%d jobs", len(p.Jobs))
	}
	return box(m.theme, m.focused == PanelCronJobs, "Cron Jobs", status, width, lines)
}

func (m Model) renderSecurityPanel(width int) string {
	p := m.security
	var lines []string
	if p.HasMetrics {
		lines = append(lines,
			fmt.Sprintf("SSH intrusions (24h): %d", p.Metrics.SSHIntrusions24h),
			fmt.Sprintf("ports open: %d   ufw: %s   fail2ban: %s   root login: %s",
				p.Metrics.PortsOpen, onOff(p.Metrics.UFWActive), onOff(p.Metrics.Fail2banActive), onOff(p.Metrics.RootLoginEnabled)),
		)
	}
	if len(p.ListeningPorts) > 0 {
		lines = append(lines, "")
		lines = append(lines, "listening:")
		for _, port := range p.ListeningPorts {
			lines = append(lines, fmt.Sprintf("  %-6d %s", port.Port, port.Service))
		}
	}
	if len(p.Attackers) > 0 {
		lines = append(lines, "")
		lines = append(lines, "watchlist:")
		for _, a := range p.Attackers {
			loc := a.Country
			if a.City != "" {
				loc = a.City + ", " + a.Country
			}
			lines = append(lines, fmt.Sprintf("  %-16s %-14s %s", a.IP, loc, truncate(a.OpenPorts, 18)))
		}
	}

	title := "Security"
	status := "N/A"
	if p.HasMetrics {
		status = fmt.Sprintf("%d intrusions", p.Metrics.SSHIntrusions24h)
	}
	if p.NmapActive {
		status = m.theme.NmapStyle().Render("NMAP ACTIVE") + " " + status
	}
	return box(m.theme, m.focused == PanelSecurity, title, status, width, lines)
}

func (m Model) renderActivityLogPanel(width int) string {
	p := m.activityLog
	status := "N/A"
	if p.HasData {
		status = fmt.Sprintf("%d errors", len(p.Errors))
	}

	if !m.viewportReady {
		var lines []string
		for _, e := range lastN(p.Errors, 5) {
			lines = append(lines, m.theme.ErrorStyle().Render(truncate(e, width-4)))
		}
		return box(m.theme, m.focused == PanelActivityLog, "Activity Log", status, width, lines)
	}

	header := m.theme.SectionHeader("Activity Log", status, width)
	if m.focused == PanelActivityLog {
		header = m.theme.SectionHeader(m.theme.HighlightStyle().Render("Activity Log"), status, width)
	}
	return header + "\n" + m.activityViewport.View()
}

// renderActivityViewportContent builds the full scrollable content for
// the Activity Log panel's viewport: errors first (styled), then SSH
// events, then the recent stream.
func (m Model) renderActivityViewportContent() string {
	p := m.activityLog
	errors, recent, sshEvents := p.Errors, p.Recent, p.SSHEvents
	if m.filter != "" {
		errors = filterLines(errors, m.filter)
		recent = filterLines(recent, m.filter)
		sshEvents = filterLines(sshEvents, m.filter)
	}

	var b strings.Builder
	if m.filtering || m.filter != "" {
		b.WriteString(m.theme.HighlightStyle().Render("/" + m.filter))
		b.WriteString("\n\n")
	}
	if len(errors) > 0 {
		b.WriteString(m.theme.ErrorStyle().Render("-- errors --"))
		b.WriteString("\n")
		for _, e := range errors {
			b.WriteString(m.theme.ErrorStyle().Render(e))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if len(sshEvents) > 0 {
		b.WriteString(m.theme.DimStyle().Render("-- ssh events --"))
		b.WriteString("\n")
		for _, e := range sshEvents {
			b.WriteString(e)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.DimStyle().Render("-- recent --"))
	b.WriteString("\n")
	for _, r := range recent {
		b.WriteString(r)
		b.WriteString("\n")
	}
	return b.String()
}

// filterLines keeps only the lines containing needle, case-insensitive.
func filterLines(lines []string, needle string) []string {
	lower := strings.ToLower(needle)
	var out []string
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l), lower) {
			out = append(out, l)
		}
	}
	return out
}

func (m Model) renderSitrepPanel(width int) string {
	p := m.sitrep
	var lines []string
	if p.HasPlatformStatus {
		lines = append(lines, "status: "+truncate(oneLine(p.PlatformStatus), width-12))
		lines = append(lines, "gateway: "+truncate(oneLine(p.GatewayStatus), width-12))
	}
	if p.HasChannelHealth {
		lines = append(lines, "channels: "+truncate(oneLine(p.ChannelHealth), width-12))
	}
	if p.HasUpdateCheck {
		state := "up to date"
		if p.UpdateAvailable {
			state = "update available"
		}
		lines = append(lines, "update: "+state)
	}
	if p.HasActionItems {
		items := "none"
		if len(p.ActionItems) > 0 {
			items = truncate(strings.Join(p.ActionItems, "; "), width-16)
		}
		lines = append(lines, "action items: "+items)
	}

	status := "N/A"
	if p.HasPlatformStatus || p.HasChannelHealth {
		status = "ok"
	}
	return box(m.theme, m.focused == PanelSitrep, "SITREP", status, width, lines)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func truncate(s string, max int) string {
	if max < 1 {
		max = 1
	}
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

func oneLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}

func lastN(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

func formatTokens(value float64) string {
	switch {
	case value >= 1_000_000:
		return trimTrailingPointZero(value/1_000_000) + "m"
	case value >= 1_000:
		return trimTrailingPointZero(value/1_000) + "k"
	default:
		return strconv.FormatFloat(value, 'f', 0, 64)
	}
}

// trimTrailingPointZero formats v to one decimal place, dropping the
// decimal entirely when it's a whole number ("359.0" -> "359").
func trimTrailingPointZero(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}
