// Package style wraps lipgloss into plain string renderers.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/reelfeed/reelfeed/color"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer with the given foreground.
func Fg(c lipgloss.Color) func(string) string {
	s := New().Foreground(c)
	return func(text string) string { return s.Render(text) }
}

var (
	faint      = New().Faint(true)
	bold       = New().Bold(true)
	title      = New().Foreground(color.Cream).Background(color.Indigo).Padding(0, 1)
	errorTitle = New().Foreground(color.Cream).Background(color.Red).Padding(0, 1)
)

func Faint(s string) string { return faint.Render(s) }

func Bold(s string) string { return bold.Render(s) }

// Title renders a screen heading.
func Title(s string) string { return title.Render(s) }

// ErrorTitle renders the heading of an error screen.
func ErrorTitle(s string) string { return errorTitle.Render(s) }
