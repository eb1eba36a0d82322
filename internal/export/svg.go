package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/nicosim/internal/sim"
)

// Timeline series colors, matching the live view.
const (
	colorDA   = "#4ade80"
	colorGABA = "#f87171"
	colorNic  = "#fbbf24"
	colorPuff = "#94a3b8"
)

// TimelineSVG renders the trace as a standalone SVG: one polyline per
// observable (da, gaba, nic) over a dark background, with puff events
// marked as ticks along the bottom edge. All observables share the fixed
// [0,1] vertical scale.
func TimelineSVG(points []sim.TracePoint, width, height int) string {
	if len(points) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	t0 := points[0].T
	t1 := points[len(points)-1].T
	span := t1 - t0
	if span <= 0 {
		return ""
	}

	x := func(t float64) float64 {
		return (t - t0) / span * float64(width)
	}
	y := func(v float64) float64 {
		return (1 - v) * float64(height)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	writeLine := func(color string, value func(sim.TracePoint) float64) {
		fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, color)
		for i, pt := range points {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x(pt.T), y(value(pt)))
		}
		sb.WriteString("\"/>\n")
	}

	writeLine(colorNic, func(pt sim.TracePoint) float64 { return pt.Nic })
	writeLine(colorGABA, func(pt sim.TracePoint) float64 { return pt.GABA })
	writeLine(colorDA, func(pt sim.TracePoint) float64 { return pt.DA })

	for _, pt := range points {
		if pt.Puff {
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="%s" stroke-width="1"/>
`, x(pt.T), height-8, x(pt.T), height, colorPuff)
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVGFile renders the timeline and writes it to a new file at path.
func WriteSVGFile(path string, points []sim.TracePoint, width, height int) error {
	svg := TimelineSVG(points, width, height)
	if svg == "" {
		return fmt.Errorf("not enough trace points to render a timeline")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
