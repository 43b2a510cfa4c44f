package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the set of lipgloss styles derived from a theme.
type styles struct {
	panel    lipgloss.Style
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	failed   lipgloss.Style
	hint     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		label:    lipgloss.NewStyle().Foreground(t.Muted),
		value:    lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		failed:   lipgloss.NewStyle().Foreground(t.Error),
		hint:     lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
	}
}

// formatValue prints a coefficient, keeping NaN readable.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}

// SlopeBar renders |v| relative to top as a bar of the given width.
func SlopeBar(v, top float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if top > 0 && !math.IsNaN(v) {
		filled = int(math.Round(math.Abs(v) / top * float64(width)))
	}
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
