package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderDashboard renders the complete dashboard: header, the six
// panels laid out across LayoutColumns() columns, and the footer.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderPanelGrid())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar and last-refresh summary.
func (m Model) renderHeader() string {
	var status string
	switch {
	case m.refreshErr != nil:
		status = m.theme.ErrorStyle().Render("refresh failed: " + m.refreshErr.Error())
	case m.lastRefresh.IsZero():
		status = m.theme.DimStyle().Render("loading...")
	default:
		status = m.theme.DimStyle().Render(fmt.Sprintf("updated %ds ago", int(time.Since(m.lastRefresh).Seconds())))
	}

	title := m.theme.HeaderStyle().Render("GalacticCIC") + "  " + m.theme.DimStyle().Render(m.theme.Name)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", status)
}

// renderPanelGrid lays the six panels out across LayoutColumns()
// columns, filling rows left to right in focus-cycle order.
func (m Model) renderPanelGrid() string {
	columns := m.LayoutColumns()

	width := m.width
	if width <= 0 {
		width = 80
	}
	panelWidth := width/columns - 1
	if panelWidth < 20 {
		panelWidth = 20
	}

	panels := []string{
		m.renderAgentFleetPanel(panelWidth),
		m.renderServerHealthPanel(panelWidth),
		m.renderCronJobsPanel(panelWidth),
		m.renderSecurityPanel(panelWidth),
		m.renderActivityLogPanel(panelWidth),
		m.renderSitrepPanel(panelWidth),
	}

	var rows []string
	for i := 0; i < len(panels); i += columns {
		end := i + columns
		if end > len(panels) {
			end = len(panels)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panels[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the keyboard hint bar, plus a degraded-health
// warning when the daemon has hit its consecutive-write-failure threshold.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"tab/1-6 focus",
		"t theme",
		"? help",
	}
	bar := m.theme.FooterStyle().Render(strings.Join(hints, " | "))
	if m.degraded {
		bar += "  " + m.theme.ErrorStyle().Render("degraded: daemon writes failing")
	}
	return bar
}
