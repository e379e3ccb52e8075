package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding is one keyboard shortcut entry shown in the help overlay.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings lists every shortcut the dashboard responds to.
var helpBindings = []HelpBinding{
	{Key: "q / ctrl+c", Desc: "Quit"},
	{Key: "r", Desc: "Force refresh"},
	{Key: "t", Desc: "Cycle theme"},
	{Key: "tab", Desc: "Focus next panel"},
	{Key: "1-6", Desc: "Jump to a panel"},
	{Key: "up/down", Desc: "Scroll the Activity Log panel"},
	{Key: "/", Desc: "Filter the Activity Log (when focused)"},
	{Key: "esc", Desc: "Clear the Activity Log filter"},
	{Key: "?", Desc: "Toggle this help"},
}

// renderHelpOverlay renders a centered box listing every shortcut,
// closing on any other keypress.
func (m Model) renderHelpOverlay() string {
	theme := m.theme

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2)

	titleStyle := theme.HeaderStyle().MarginBottom(1)
	keyStyle := theme.HighlightStyle().Width(14)
	descStyle := theme.DimStyle()

	var lines []string
	lines = append(lines, titleStyle.Render("Keyboard Shortcuts"))
	for _, binding := range helpBindings {
		lines = append(lines, keyStyle.Render(binding.Key)+descStyle.Render(binding.Desc))
	}
	lines = append(lines, "")
	lines = append(lines, descStyle.Render("Press any key to close"))

	box := boxStyle.Render(strings.Join(lines, "\n"))

	width, height := m.width, m.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
