package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the first page load and the controller event pump.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.fetchFirstPage(), b.waitForEvent())
}
