package style

import "github.com/charmbracelet/lipgloss"

// Feed screen palette (catppuccin mocha).
var (
	Base    = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Mauve   = lipgloss.Color("#cba6f7")
	Red     = lipgloss.Color("#f38ba8")
	Peach   = lipgloss.Color("#fab387")
	Yellow  = lipgloss.Color("#f9e2af")
	Overlay = lipgloss.Color("#6c7086")

	AccentColor = Mauve
	HiRed       = Red
)

// Card element styles.
var (
	Liked  = lipgloss.NewStyle().Foreground(Red)
	Locked = lipgloss.NewStyle().Foreground(Yellow)
	// Badge is the title of the comments overlay.
	Badge = lipgloss.NewStyle().Foreground(Base).Background(Peach).Padding(0, 1)
)
