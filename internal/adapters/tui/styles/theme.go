package styles

import (
	"github.com/charmbracelet/lipgloss"

	"vpgsync/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Info      = lipgloss.Color("#60A5FA") // Blue
	White     = lipgloss.Color("#FFFFFF")

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Object list
	ObjectName = lipgloss.NewStyle().
			Bold(true)

	ObjectSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	ObjectPath = lipgloss.NewStyle().
			Foreground(Muted)

	// VPG text
	TextVertex  = lipgloss.NewStyle().Foreground(Secondary)
	TextFace    = lipgloss.NewStyle().Foreground(Info)
	TextComment = lipgloss.NewStyle().Foreground(Muted).Italic(true)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// PhaseColor returns the color for a sync phase
func PhaseColor(p domain.Phase) lipgloss.Color {
	switch p {
	case domain.PhaseLinked:
		return Secondary
	case domain.PhaseTextAhead:
		return Info
	case domain.PhaseGeometryAhead:
		return Warning
	default:
		return Muted
	}
}

// Phase renders a phase label in its color
func Phase(p domain.Phase) string {
	return lipgloss.NewStyle().Foreground(PhaseColor(p)).Render(p.String())
}
