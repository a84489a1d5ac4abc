package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hikarukin/gametrack/internal/tracker"
)

// BotController starts and stops the gateway connection.
type BotController interface {
	Start() error
	Stop() error
}

// SessionLister exposes the currently open game sessions.
type SessionLister interface {
	ActiveSessions() []tracker.ActiveInfo
}

// LogSource supplies the buffered log lines for the log view.
type LogSource interface {
	Lines() []string
}

// PanelModel is the control-panel dashboard: bot status, open sessions,
// and a live log tail.
type PanelModel struct {
	width  int
	height int

	bot      BotController
	sessions SessionLister
	logs     LogSource

	logView viewport.Model

	// Bot state
	running  bool
	toggling bool // True while a start/stop is in flight
	lastErr  error
	quitting bool
}

// refreshTickMsg drives the periodic session/log refresh.
type refreshTickMsg struct{}

// botToggledMsg reports the result of an async start/stop.
type botToggledMsg struct {
	running bool
	err     error
}

var chatCommands = []string{
	"!history [days] - server play history",
	"!top [days] - popular games",
	"!mygames [days] - your statistics",
	"!profile [@member] - favorites and play hours",
	"!similar [days] - find similar players",
	"!recommend [days] - game recommendations",
	"!calendar - weekly calendar image",
	"!week [offset] / !day [date] - text views",
}

// NewPanelModel creates the dashboard model.
func NewPanelModel(bot BotController, sessions SessionLister, logs LogSource) PanelModel {
	vp := viewport.New(80, 10)
	return PanelModel{
		bot:      bot,
		sessions: sessions,
		logs:     logs,
		logView:  vp,
	}
}

// Init starts the refresh ticker.
func (m PanelModel) Init() tea.Cmd {
	return refreshTick()
}

func refreshTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// Update handles messages.
func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshTickMsg:
		atBottom := m.logView.AtBottom()
		m.logView.SetContent(strings.Join(m.logs.Lines(), "\n"))
		if atBottom {
			m.logView.GotoBottom()
		}
		if m.quitting {
			return m, nil
		}
		return m, refreshTick()

	case botToggledMsg:
		m.toggling = false
		m.running = msg.running
		m.lastErr = msg.err
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 6
		logHeight := msg.Height - 16 - len(chatCommands)
		if logHeight < 3 {
			logHeight = 3
		}
		m.logView.Height = logHeight
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			if m.toggling {
				return m, nil
			}
			m.toggling = true
			return m, m.toggleBot()
		case "ctrl+c", "esc", "q":
			m.quitting = true
			if m.running && !m.toggling {
				m.toggling = true
				return m, m.toggleBot()
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m PanelModel) toggleBot() tea.Cmd {
	running := m.running
	return func() tea.Msg {
		if running {
			err := m.bot.Stop()
			return botToggledMsg{running: err != nil, err: err}
		}
		err := m.bot.Start()
		return botToggledMsg{running: err == nil, err: err}
	}
}

// View renders the dashboard.
func (m PanelModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)
	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Bold(true)
	rowStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDisabledText))
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText))
	logBoxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1)

	var b strings.Builder

	b.WriteString(titleStyle.Render("gametrack control panel"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Status: "))
	b.WriteString(m.statusText())
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Active sessions"))
	b.WriteString("\n")
	active := m.sessions.ActiveSessions()
	if len(active) == 0 {
		b.WriteString(mutedStyle.Render("  nobody is playing right now"))
		b.WriteString("\n")
	} else {
		for _, info := range active {
			elapsed := time.Since(info.StartTime).Round(time.Second)
			b.WriteString(rowStyle.Render(fmt.Sprintf("  %s - %s (%s)",
				info.UserName, info.GameName, elapsed)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Log"))
	b.WriteString("\n")
	b.WriteString(logBoxStyle.Render(m.logView.View()))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Chat commands"))
	b.WriteString("\n")
	for _, cmd := range chatCommands {
		b.WriteString(mutedStyle.Render("  " + cmd))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("s: start/stop bot • q: quit"))

	return b.String()
}

func (m PanelModel) statusText() string {
	runningStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	stoppedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))

	var status string
	switch {
	case m.toggling && m.running:
		status = warnStyle.Render("stopping...")
	case m.toggling:
		status = warnStyle.Render("starting...")
	case m.running:
		status = runningStyle.Render("running")
	default:
		status = stoppedStyle.Render("stopped")
	}

	if m.lastErr != nil {
		status += " " + errStyle.Render(fmt.Sprintf("(%v)", m.lastErr))
	}
	return status
}
