// Package export writes game views as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/thermoscan/internal/viz"
)

// HeatMapSVG draws grid as cell×cell squares coloured with theme's heat
// ramp. Non-nil labels are written centred in each square.
func HeatMapSVG(grid [][]float64, theme viz.Theme, cell float64, labels [][]string) string {
	rows := len(grid)
	cols := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range grid {
		cols = max(cols, len(row))
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if rows == 0 || cols == 0 {
		return ""
	}

	width := float64(cols) * cell
	height := float64(rows) * cell

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, width, height, width, height))

	for i, row := range grid {
		for j, v := range row {
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(j)*cell, float64(i)*cell, cell, cell, theme.HeatColor(v, lo, hi)))
		}
	}

	if labels != nil {
		sb.WriteString(fmt.Sprintf(`<g fill="%s" font-family="monospace" font-size="%.1f" text-anchor="middle" dominant-baseline="central">
`, theme.Text, cell/3))
		for i := range labels {
			for j, label := range labels[i] {
				if label == "" {
					continue
				}
				sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%s</text>
`, (float64(j)+0.5)*cell, (float64(i)+0.5)*cell, label))
			}
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#ff8800">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// HistoriesToSVG draws the expert (green) and player (red) deviation
// histories as polylines on shared axes.
func HistoriesToSVG(expert, player []float64, width, height int) string {
	n := max(len(expert), len(player))
	if n < 2 {
		return ""
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range [][]float64{expert, player} {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	path := func(data []float64, stroke string) {
		if len(data) < 2 {
			return
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
		for i, v := range data {
			x := float64(i) / float64(n-1) * float64(width)
			y := float64(height) - (v-lo)/span*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}
	path(expert, "#00ff88")
	path(player, "#ff4444")

	sb.WriteString("</svg>")
	return sb.String()
}
