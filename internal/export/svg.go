// Package export renders run artifacts to SVG: telemetry curves from
// saved frames and the residue splatter map left behind by droplets.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/propsim/internal/droplet"
	"github.com/san-kum/propsim/internal/scenario"
)

// TelemetryToSVG plots one telemetry series over time as an SVG polyline.
func TelemetryToSVG(frames []scenario.Frame, pick func(scenario.Frame) float64, width, height int, strokeColor string) string {
	if len(frames) < 2 {
		return ""
	}

	minY, maxY := pick(frames[0]), pick(frames[0])
	for _, f := range frames {
		v := pick(f)
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	t0 := frames[0].Time
	rangeT := frames[len(frames)-1].Time - t0
	if rangeT == 0 {
		rangeT = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, f := range frames {
		x := (f.Time - t0) / rangeT * float64(width)
		y := float64(height) - (pick(f)-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SplatterToSVG renders residue marks as a top-down map. extent is the
// world half-width covered by the image; dryness fades the marks out.
func SplatterToSVG(marks []droplet.Residue, extent float64, width, height int) string {
	if len(marks) == 0 || extent <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#1a1612"/>
`, width, height, width, height))

	sx := float64(width) / (2 * extent)
	sy := float64(height) / (2 * extent)
	for _, m := range marks {
		cx := (m.Pos.X + extent) * sx
		cy := (m.Pos.Z + extent) * sy
		opacity := 0.85 * (1 - m.Dryness)
		if opacity <= 0.01 {
			continue
		}
		sb.WriteString(fmt.Sprintf(
			`<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" transform="rotate(%.1f %.1f %.1f)" fill="#3d6e91" fill-opacity="%.2f"/>`+"\n",
			cx, cy, m.RadiusA*sx, m.RadiusB*sy, m.Angle*180/3.14159265, cx, cy, opacity))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
