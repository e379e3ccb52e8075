package dashboard

import tea "github.com/charmbracelet/bubbletea"

// PanelID identifies one of the six dashboard panels, in focus-cycle
// order.
type PanelID int

const (
	PanelAgentFleet PanelID = iota
	PanelServerHealth
	PanelCronJobs
	PanelSecurity
	PanelActivityLog
	PanelSitrep
)

const panelCount = 6

// Title returns the panel's display name.
func (p PanelID) Title() string {
	switch p {
	case PanelAgentFleet:
		return "Agent Fleet"
	case PanelServerHealth:
		return "Server Health"
	case PanelCronJobs:
		return "Cron Jobs"
	case PanelSecurity:
		return "Security"
	case PanelActivityLog:
		return "Activity Log"
	case PanelSitrep:
		return "SITREP"
	default:
		return "?"
	}
}

// Next cycles to the following panel, wrapping around.
func (p PanelID) Next() PanelID {
	return PanelID((int(p) + 1) % panelCount)
}

// Key bindings as constants for consistency with the help overlay.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyCycleTheme = "t"
	KeyTab        = "tab"
	KeyToggleHelp = "?"
	KeyFocus1     = "1"
	KeyFocus2     = "2"
	KeyFocus3     = "3"
	KeyFocus4     = "4"
	KeyFocus5     = "5"
	KeyFocus6     = "6"
	KeyFilter     = "/"
	KeyFilterQuit = "esc"
	KeyEnter      = "enter"
	KeyBackspace  = "backspace"
)

// HandleKeyMsg processes keyboard input, returning whether the key was
// handled and any command it produced.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp {
		// Any other key closes the help overlay rather than reaching
		// the panels underneath.
		m.showHelp = false
		return true, nil
	}

	if m.filtering {
		switch key {
		case KeyEnter, KeyFilterQuit:
			m.filtering = false
			if key == KeyFilterQuit {
				m.filter = ""
			}
			m.syncActivityViewport()
			return true, nil
		case KeyBackspace:
			if len(m.filter) > 0 {
				m.filter = m.filter[:len(m.filter)-1]
			}
			m.syncActivityViewport()
			return true, nil
		default:
			if len(key) == 1 {
				m.filter += key
				m.syncActivityViewport()
			}
			return true, nil
		}
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		return true, m.refreshCmd()

	case KeyCycleTheme:
		m.theme = m.theme.Next()
		return true, m.saveThemeCmd()

	case KeyTab:
		m.focused = m.focused.Next()
		return true, nil

	case KeyFocus1:
		m.focused = PanelAgentFleet
		return true, nil
	case KeyFocus2:
		m.focused = PanelServerHealth
		return true, nil
	case KeyFocus3:
		m.focused = PanelCronJobs
		return true, nil
	case KeyFocus4:
		m.focused = PanelSecurity
		return true, nil
	case KeyFocus5:
		m.focused = PanelActivityLog
		return true, nil
	case KeyFocus6:
		m.focused = PanelSitrep
		return true, nil

	case KeyFilter:
		if m.focused == PanelActivityLog {
			m.filtering = true
			return true, nil
		}
	}

	if m.focused == PanelActivityLog {
		var cmd tea.Cmd
		m.activityViewport, cmd = m.activityViewport.Update(msg)
		return true, cmd
	}

	return false, nil
}
