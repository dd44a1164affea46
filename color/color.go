// Package color names the terminal colors used by the CLI output.
// ANSI numbers follow the user's terminal theme; the hex ones do not.
package color

import "github.com/charmbracelet/lipgloss"

var (
	Red      = lipgloss.Color("1")
	Green    = lipgloss.Color("2")
	Yellow   = lipgloss.Color("3")
	Blue     = lipgloss.Color("4")
	Purple   = lipgloss.Color("5")
	Cyan     = lipgloss.Color("6")
	HiRed    = lipgloss.Color("9")
	HiPurple = lipgloss.Color("13")

	Orange = lipgloss.Color("#ffb703")

	// Cream is the text on title banners.
	Cream = lipgloss.Color("230")
	// Indigo is the background of the feed title.
	Indigo = lipgloss.Color("62")
)
