package viz

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ramp is the glyph ramp used by HeatMap, coldest first.
const Ramp = " .:-=+*#%@"

// HeatMap renders grid with one glyph per cell. Each glyph is doubled so
// cells come out roughly square. lo == hi uses the grid's own range.
func HeatMap(grid [][]float64, lo, hi float64) string {
	if lo == hi {
		lo, hi = gridBounds(grid)
	}
	ramp := []rune(Ramp)

	var b strings.Builder
	for _, row := range grid {
		for _, v := range row {
			g := ramp[glyphIndex(normalize(v, lo, hi), len(ramp))]
			b.WriteRune(g)
			b.WriteRune(g)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ColorGrid renders grid as coloured blocks using theme's heat ramp. Labels,
// if non-nil, are printed inside the blocks and padded to cellWidth columns.
func ColorGrid(grid [][]float64, lo, hi float64, theme Theme, labels [][]string, cellWidth int) string {
	if lo == hi {
		lo, hi = gridBounds(grid)
	}
	cellWidth = max(cellWidth, 2)

	rows := make([]string, len(grid))
	for i, row := range grid {
		var b strings.Builder
		for j, v := range row {
			label := ""
			if labels != nil && i < len(labels) && j < len(labels[i]) {
				label = labels[i][j]
			}
			style := lipgloss.NewStyle().
				Background(theme.HeatColor(v, lo, hi)).
				Foreground(theme.Text)
			b.WriteString(style.Render(center(label, cellWidth)))
		}
		rows[i] = b.String()
	}
	return strings.Join(rows, "\n")
}

// Table renders grid as right-aligned numbers with prec decimals.
func Table(grid [][]float64, prec int) string {
	cells := make([][]string, len(grid))
	width := 0
	for i, row := range grid {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			s := strconv.FormatFloat(v, 'f', prec, 64)
			cells[i][j] = s
			width = max(width, runewidth.StringWidth(s))
		}
	}

	var b strings.Builder
	for _, row := range cells {
		for j, s := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(runewidth.FillLeft(s, width))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// IslandLabels numbers an m×m island grid row-major from 1. Islands for
// which done reports true get mark instead of their number.
func IslandLabels(m int, done func(island int) bool, mark string) [][]string {
	labels := make([][]string, m)
	for i := range labels {
		labels[i] = make([]string, m)
		for j := range labels[i] {
			island := i*m + j + 1
			if done != nil && done(island) {
				labels[i][j] = mark
			} else {
				labels[i][j] = strconv.Itoa(island)
			}
		}
	}
	return labels
}

func center(s string, width int) string {
	s = runewidth.Truncate(s, width, "")
	pad := width - runewidth.StringWidth(s)
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func normalize(v, lo, hi float64) float64 {
	if hi <= lo || math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max((v-lo)/(hi-lo), 0), 1)
}

func glyphIndex(f float64, n int) int {
	return min(int(f*float64(n-1)+0.5), n-1)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func gridBounds(grid [][]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range grid {
		l, h := bounds(row)
		lo = math.Min(lo, l)
		hi = math.Max(hi, h)
	}
	return lo, hi
}
