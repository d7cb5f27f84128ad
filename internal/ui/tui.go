// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program with mouse and focus reporting enabled
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits
func Run(ctrl Controller, sounds []string, text string) error {
	p := tea.NewProgram(
		NewModel(ctrl, sounds, text),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
