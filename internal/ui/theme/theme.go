package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/huertalab/durazno/internal/inference"
)

// Orchard palette
var (
	Primary   = lipgloss.Color("#FB923C") // Peach
	Secondary = lipgloss.Color("#84CC16") // Leaf
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#F97316") // Orange
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Checked = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// LabelColor is green for confirmed, orange for suspected and red otherwise.
func LabelColor(l inference.Label) color.Color {
	switch l {
	case inference.LabelConfirmed:
		return Success
	case inference.LabelSuspected:
		return Warning
	default:
		return Error
	}
}

// RiskColor mirrors LabelColor for risk levels, high being red.
func RiskColor(l inference.RiskLevel) color.Color {
	switch l {
	case inference.RiskHigh:
		return Error
	case inference.RiskMedium:
		return Warning
	default:
		return Success
	}
}
