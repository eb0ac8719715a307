package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin mocha, reduced to what the pager draws.
var (
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Peach    = lipgloss.Color("#fab387")

	Title   = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(Subtext0)
	Hot     = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Spinner = lipgloss.NewStyle().Foreground(Lavender)
)

// Page sizes the body to exactly width x height cells. It adds no padding
// or border: the page text is already laid out to that rectangle.
func Page(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(Text).
		Width(width).
		Height(height).
		MaxHeight(height)
}
