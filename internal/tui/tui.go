package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// RunPanel opens the control-panel dashboard and blocks until the user
// quits. A running bot is stopped on the way out.
func RunPanel(bot BotController, sessions SessionLister, logs LogSource) error {
	p := tea.NewProgram(NewPanelModel(bot, sessions, logs), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
