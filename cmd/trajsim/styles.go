package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/trajsim/internal/sim"
)

var (
	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	metricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(14)

	metricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	statusSettled = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	statusForced = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	statusFlying = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	sparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	sparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	sparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func row(label, value string) string {
	return metricLabel.Render(label) + metricValue.Render(value)
}

// renderRecord draws one launch as a bordered panel in the projectile color.
func renderRecord(r *sim.LaunchRecord, metrics map[string]float64) string {
	name := fmt.Sprintf("#%d %s / %s", r.ID, r.Labels.Profile, r.Labels.Projectile)
	if r.Labels.Label != "" {
		name += "  " + subtle.Render(r.Labels.Label)
	}

	lines := []string{title.Foreground(lipgloss.Color(r.Color)).Render("●") + " " + title.Render(name)}
	switch {
	case r.Summary == nil:
		lines = append(lines, statusFlying.Render("in flight"))
	case r.Summary.Forced:
		lines = append(lines, statusForced.Render("forced settle"))
	default:
		lines = append(lines, statusSettled.Render("settled"))
	}

	if s := r.Summary; s != nil {
		lines = append(lines,
			row("range", fmt.Sprintf("%.2f m", s.Range)),
			row("max height", fmt.Sprintf("%.2f m", s.MaxHeight)),
			row("flight time", fmt.Sprintf("%.2f s", s.FlightTime)),
			row("impact speed", fmt.Sprintf("%.2f m/s", s.ImpactSpeed)),
			row("bounces", fmt.Sprintf("%d", s.Bounces)),
		)
	}
	for _, name := range sortedKeys(metrics) {
		lines = append(lines, row(strings.ReplaceAll(name, "_", " "), fmt.Sprintf("%.4f", metrics[name])))
	}

	alt := make([]float64, len(r.Samples))
	for i, smp := range r.Samples {
		alt[i] = smp.Altitude
	}
	lines = append(lines, metricLabel.Render("altitude")+sparkline(alt, 40))

	return panel.Render(strings.Join(lines, "\n"))
}

// sparkline renders values as a one-line bar chart of at most width cells.
func sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		c := string(chars[min(int(norm*float64(len(chars)-1)), len(chars)-1)])
		switch {
		case norm > 0.7:
			b.WriteString(sparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(sparkMid.Render(c))
		default:
			b.WriteString(sparkLow.Render(c))
		}
	}
	return b.String()
}
