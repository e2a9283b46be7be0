package styles

import "github.com/charmbracelet/lipgloss"

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Label is used for field names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// AccentText is for commands the user is expected to copy.
	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)
)

// StatusStyle returns the style for an EC2 instance state name.
func StatusStyle(state string) lipgloss.Style {
	switch state {
	case "running":
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "pending":
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case "stopping", "shutting-down":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "stopped", "terminated":
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a small dot + state text with appropriate color.
func StatusIndicator(state string) string {
	style := StatusStyle(state)
	return style.Render("●") + " " + style.Render(state)
}
