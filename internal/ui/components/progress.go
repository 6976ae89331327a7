package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/huertalab/durazno/internal/ui/theme"
)

// ScoreBar is a horizontal bar for a value in [0,1].
type ScoreBar struct {
	Label   string
	Percent float64
	Color   color.Color
	Width   int
}

// NewScoreBar creates a bar. A nil colour uses the secondary theme colour.
func NewScoreBar(label string, percent float64, c color.Color, width int) ScoreBar {
	if c == nil {
		c = theme.Secondary
	}
	return ScoreBar{Label: label, Percent: percent, Color: c, Width: width}
}

// View renders label, bar and percentage on one line.
func (p ScoreBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	const percentWidth = 8 // "  100.0%"
	barWidth := max(p.Width-lipgloss.Width(result)-percentWidth, 4)
	filled := min(max(int(float64(barWidth)*p.Percent+0.5), 0), barWidth)

	result += lipgloss.NewStyle().Background(p.Color).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().
		Foreground(p.Color).
		Render(fmt.Sprintf("  %5.1f%%", p.Percent*100))
	return result
}
