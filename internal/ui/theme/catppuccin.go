package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Macchiato.
var (
	Base     = lipgloss.Color("#24273a")
	Mantle   = lipgloss.Color("#1e2030")
	Surface1 = lipgloss.Color("#494d64")
	Overlay0 = lipgloss.Color("#6e738d")
	Text     = lipgloss.Color("#cad3f5")
	Subtext0 = lipgloss.Color("#a5adcb")
	Lavender = lipgloss.Color("#b7bdf8")
	Sapphire = lipgloss.Color("#7dc4e4")
	Green    = lipgloss.Color("#a6da95")
	Peach    = lipgloss.Color("#f5a97f")
	Maroon   = lipgloss.Color("#ee99a0")
)

var (
	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Alert = lipgloss.NewStyle().Foreground(Maroon).Bold(true)

	Clock        = lipgloss.NewStyle().Foreground(Overlay0).Bold(true)
	ClockRunning = lipgloss.NewStyle().Foreground(Green).Bold(true)

	Bar = lipgloss.NewStyle().Background(Mantle).Foreground(Text)
)
