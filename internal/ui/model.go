// Package ui provides internal state management and rendering utilities for ephemeral terminal notifications.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelfeed/reelfeed/style"
)

// Lifetime is how long a notification stays on screen.
const Lifetime = 3 * time.Second

// Model encapsulates the state for displaying non-blocking terminal alerts.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// NotificationMsg replaces the current notification.
type NotificationMsg string

// ClearNotificationMsg is a Bubbletea message used to reset the visual notification state.
// Only a clear matching the latest notification takes effect.
type ClearNotificationMsg struct {
	At time.Time
}

// Notify returns a tea.Cmd that shows text in the notification slot.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

// NotifyQueued reports an interaction that will be retried in the background.
func NotifyQueued() tea.Cmd {
	return Notify("Offline - queued for background sync")
}

// ClearNotification returns a delayed tea.Cmd that clears the notification shown at the given time.
func ClearNotification(at time.Time) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{At: at}
	})
}

// Current returns the notification being shown, "" if none.
func (m *Model) Current() string {
	return m.notification
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		m.notifiedAt = time.Now()
		return ClearNotification(m.notifiedAt)
	case ClearNotificationMsg:
		if msg.At.Equal(m.notifiedAt) {
			m.notification = ""
		}
		return nil
	}
	return nil
}

// View injects the current notification message into the last line of the view.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] = lines[len(lines)-1] + "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
