// Package dashboard implements the read-only terminal dashboard: a
// Bubble Tea program that polls the query layer on a bounded interval
// and renders six panels across responsive layouts.
package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps semantic roles to colors, the same eight roles spec'd for
// every palette: normal, highlight, warning, error, dim, header,
// footer, nmap.
type Theme struct {
	Name string

	Normal    lipgloss.Color
	Highlight lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Dim       lipgloss.Color
	Header    lipgloss.Color
	Footer    lipgloss.Color
	Nmap      lipgloss.Color

	Background lipgloss.Color
	Border     lipgloss.Color
}

// Phosphor, Amber, and Blue are the three built-in palettes. Cycled
// with 't'.
var (
	Phosphor = Theme{
		Name:       "phosphor",
		Normal:     lipgloss.Color("#33FF33"),
		Highlight:  lipgloss.Color("#B6FFB6"),
		Warning:    lipgloss.Color("#FFD700"),
		Error:      lipgloss.Color("#FF4444"),
		Dim:        lipgloss.Color("#1F8F1F"),
		Header:     lipgloss.Color("#66FF66"),
		Footer:     lipgloss.Color("#1F8F1F"),
		Nmap:       lipgloss.Color("#FF4444"),
		Background: lipgloss.Color("#001100"),
		Border:     lipgloss.Color("#1F8F1F"),
	}

	Amber = Theme{
		Name:       "amber",
		Normal:     lipgloss.Color("#FFB000"),
		Highlight:  lipgloss.Color("#FFE0A0"),
		Warning:    lipgloss.Color("#FFA500"),
		Error:      lipgloss.Color("#FF5030"),
		Dim:        lipgloss.Color("#A06800"),
		Header:     lipgloss.Color("#FFC940"),
		Footer:     lipgloss.Color("#A06800"),
		Nmap:       lipgloss.Color("#FF5030"),
		Background: lipgloss.Color("#140A00"),
		Border:     lipgloss.Color("#A06800"),
	}

	Blue = Theme{
		Name:       "blue",
		Normal:     lipgloss.Color("#00D7FF"),
		Highlight:  lipgloss.Color("#B0F0FF"),
		Warning:    lipgloss.Color("#FFD700"),
		Error:      lipgloss.Color("#FF5F5F"),
		Dim:        lipgloss.Color("#00718F"),
		Header:     lipgloss.Color("#5FE0FF"),
		Footer:     lipgloss.Color("#00718F"),
		Nmap:       lipgloss.Color("#FF5F5F"),
		Background: lipgloss.Color("#00131A"),
		Border:     lipgloss.Color("#00718F"),
	}
)

// themes is the cycle order for the 't' key.
var themes = []Theme{Phosphor, Amber, Blue}

// ThemeByName returns the named palette, defaulting to Phosphor for an
// unknown or empty name.
func ThemeByName(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return Phosphor
}

// Next cycles to the following palette in fixed order.
func (t Theme) Next() Theme {
	for i, candidate := range themes {
		if candidate.Name == t.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return Phosphor
}

// Metric severity thresholds, shared across every panel's percentage
// fields.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

// MetricColor returns the themed color for a percentage-based metric:
// normal below the warning threshold, warning between the two
// thresholds, error at or above the critical one.
func (t Theme) MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return t.Error
	case percent >= WarningThreshold:
		return t.Warning
	default:
		return t.Normal
	}
}

// MetricStyle wraps MetricColor in a lipgloss.Style.
func (t Theme) MetricStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.MetricColor(percent))
}

// HeaderStyle, FooterStyle, BorderStyle, and DimStyle are the
// chrome styles shared by every panel.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true)
}

func (t Theme) FooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Footer)
}

func (t Theme) BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Border)
}

func (t Theme) DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Dim)
}

func (t Theme) HighlightStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Highlight).Bold(true)
}

func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error)
}

func (t Theme) NmapStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Nmap).Bold(true)
}

// ProgressBar renders a threshold-colored bar of the given width.
func (t Theme) ProgressBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteRune('▰')
		} else {
			bar.WriteRune('▱')
		}
	}

	return lipgloss.NewStyle().Foreground(t.MetricColor(percent)).Render(bar.String())
}

// SectionHeader renders "╭─ Title ──── Value ╮" padded to width.
func (t Theme) SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2
	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	border := t.BorderStyle()
	title = t.HeaderStyle().Render(title)
	value = t.HighlightStyle().Render(value)

	return border.Render("╭─ ") + title + border.Render(" "+strings.Repeat("─", fillWidth)+" ") + value + border.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func (t Theme) SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return t.BorderStyle().Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionLine renders one bordered, padded content line.
func (t Theme) SectionLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	border := t.BorderStyle()
	innerWidth := width - 4
	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return border.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + border.Render("│")
}
