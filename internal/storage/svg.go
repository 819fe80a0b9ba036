package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/trajsim/internal/sim"
)

// WriteSVG draws a side view of every record: planar range from the launch
// origin on x, altitude on y, one path per launch in its color. All paths
// share the same scale.
func WriteSVG(w io.Writer, records []*sim.LaunchRecord, width, height int) error {
	var maxX, maxY float64
	n := 0
	for _, r := range records {
		for _, s := range r.Samples {
			maxX = max(maxX, s.Range)
			maxY = max(maxY, s.Altitude)
		}
		if len(r.Samples) >= 2 {
			n++
		}
	}
	if n == 0 {
		return fmt.Errorf("no trajectory with two or more samples")
	}
	if maxX == 0 {
		maxX = 1
	}
	if maxY == 0 {
		maxY = 1
	}
	// 5% margin on every side
	const pad = 0.05
	sx := float64(width) * (1 - 2*pad) / maxX
	sy := float64(height) * (1 - 2*pad) / maxY
	x0 := float64(width) * pad
	y0 := float64(height) * (1 - pad)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-width="1"/>
`, width, height, width, height, y0, width, y0)

	for _, r := range records {
		if len(r.Samples) < 2 {
			continue
		}
		color := r.Color
		if color == "" {
			color = "#00ff00"
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
		for i, s := range r.Samples {
			x := x0 + s.Range*sx
			y := y0 - s.Altitude*sy
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		fmt.Fprintf(&sb, "\"><title>#%d %s/%s</title></path>\n", r.ID, r.Labels.Profile, r.Labels.Projectile)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
