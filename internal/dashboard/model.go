package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/galacticcic/galacticcic/internal/config"
	"github.com/galacticcic/galacticcic/internal/query"
	"github.com/galacticcic/galacticcic/internal/scheduler"
	"github.com/galacticcic/galacticcic/internal/store"
)

// defaultRefreshInterval is used until the persisted config is loaded
// in NewModel; 'r' always forces an out-of-band refresh outside
// whatever cadence is configured.
const defaultRefreshInterval = 2 * time.Second

// Width breakpoints for the three layout modes.
const (
	BreakpointTwoColumn = 60
	BreakpointGrid      = 120
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	store *store.Store
	theme Theme

	width, height   int
	focused         PanelID
	showHelp        bool
	quitting        bool
	refreshInterval time.Duration

	filtering bool
	filter    string

	lastRefresh time.Time
	refreshErr  error
	degraded    bool

	serverHealth query.ServerHealthPanel
	agentFleet   query.AgentFleetPanel
	cronJobs     query.CronJobsPanel
	security     query.SecurityPanel
	activityLog  query.ActivityLogPanel
	sitrep       query.SitrepPanel

	activityViewport viewport.Model
	viewportReady    bool
}

// panelDataMsg carries a freshly pulled snapshot of every panel.
type panelDataMsg struct {
	serverHealth query.ServerHealthPanel
	agentFleet   query.AgentFleetPanel
	cronJobs     query.CronJobsPanel
	security     query.SecurityPanel
	activityLog  query.ActivityLogPanel
	sitrep       query.SitrepPanel
	degraded     bool
	err          error
	at           time.Time
}

// tickMsg drives the bounded-rate refresh loop.
type tickMsg time.Time

// NewModel creates a dashboard model reading from s, starting on the
// theme persisted in the user's config file.
func NewModel(s *store.Store) Model {
	cfg := config.Load()
	interval := time.Duration(cfg.RefreshInterval) * time.Second
	if interval < time.Duration(config.MinRefreshIntervalSeconds)*time.Second {
		interval = defaultRefreshInterval
	}
	return Model{
		store:           s,
		theme:           ThemeByName(cfg.Theme),
		focused:         PanelAgentFleet,
		refreshInterval: interval,
	}
}

// Init triggers the first refresh and starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.refreshCmd())
}

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight, footerHeight := 2, 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.viewportReady {
			m.activityViewport = viewport.New(m.width, viewportHeight)
			m.viewportReady = true
		} else {
			m.activityViewport.Width = m.width
			m.activityViewport.Height = viewportHeight
		}
		m.syncActivityViewport()

	case tickMsg:
		return m, tea.Batch(m.tickCmd(), m.refreshCmd())

	case panelDataMsg:
		m.lastRefresh = msg.at
		m.refreshErr = msg.err
		if msg.err == nil {
			m.serverHealth = msg.serverHealth
			m.agentFleet = msg.agentFleet
			m.cronJobs = msg.cronJobs
			m.security = msg.security
			m.activityLog = msg.activityLog
			m.sitrep = msg.sitrep
			m.degraded = msg.degraded
			m.syncActivityViewport()
		}
	}

	return m, nil
}

// View renders the full dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd re-reads every panel's data from the store in one shot.
func (m Model) refreshCmd() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		now := float64(time.Now().Unix())
		msg := panelDataMsg{at: time.Now()}

		var err error
		if msg.serverHealth, err = query.LoadServerHealthPanel(s, now); err != nil {
			msg.err = err
			return msg
		}
		if msg.agentFleet, err = query.LoadAgentFleetPanel(s, now); err != nil {
			msg.err = err
			return msg
		}
		if msg.cronJobs, err = query.LoadCronJobsPanel(s); err != nil {
			msg.err = err
			return msg
		}
		if msg.security, err = query.LoadSecurityPanel(s); err != nil {
			msg.err = err
			return msg
		}
		if msg.activityLog, err = query.LoadActivityLogPanel(s); err != nil {
			msg.err = err
			return msg
		}
		if msg.sitrep, err = query.LoadSitrepPanel(s); err != nil {
			msg.err = err
			return msg
		}
		if degraded, found, err := s.GetConfigValue(scheduler.DegradedConfigKey); err == nil && found {
			msg.degraded = degraded == "1"
		}
		return msg
	}
}

// saveThemeCmd persists the current theme choice after a 't' press,
// preserving whatever refresh interval is already on disk.
func (m Model) saveThemeCmd() tea.Cmd {
	theme := m.theme.Name
	return func() tea.Msg {
		cfg := config.Load()
		cfg.Theme = theme
		_ = config.Save(cfg)
		return nil
	}
}

func (m *Model) syncActivityViewport() {
	if !m.viewportReady {
		return
	}
	m.activityViewport.SetContent(m.renderActivityViewportContent())
}

// LayoutColumns returns how many panel columns the current width
// supports.
func (m Model) LayoutColumns() int {
	switch {
	case m.width >= BreakpointGrid:
		return 3
	case m.width >= BreakpointTwoColumn:
		return 2
	default:
		return 1
	}
}
