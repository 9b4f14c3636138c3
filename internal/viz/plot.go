package viz

import (
	"github.com/guptarohit/asciigraph"
)

// PlotHistories draws the expert and player deviation histories on one
// chart. Empty input yields an empty string.
func PlotHistories(expert, player []float64, width, height int, caption string) string {
	series := make([][]float64, 0, 2)
	colors := make([]asciigraph.AnsiColor, 0, 2)
	if len(expert) > 0 {
		series = append(series, padSingle(expert))
		colors = append(colors, asciigraph.Green)
	}
	if len(player) > 0 {
		series = append(series, padSingle(player))
		colors = append(colors, asciigraph.Red)
	}
	if len(series) == 0 {
		return ""
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.SeriesColors(colors...),
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.PlotMany(series, opts...)
}

// Plot draws a single series.
func Plot(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(padSingle(data),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// padSingle repeats a lone point so the chart has a segment to draw.
func padSingle(data []float64) []float64 {
	if len(data) == 1 {
		return []float64{data[0], data[0]}
	}
	return data
}
