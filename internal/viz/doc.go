// Package viz renders game state as text: glyph heat maps, coloured island
// grids, braille field plots and asciigraph score histories.
package viz
