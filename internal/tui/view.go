package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/viz"
)

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateBuilding:
		return "\n   " + cyan.Render("building model") + dim.Render(" ...") + "\n"
	case statePlay, stateDone:
		return m.viewGame()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("         " + cyan.Render("t h e r m o s c a n") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, size := range m.sizes {
		name := fmt.Sprintf("%dx%d islands", size, size)
		desc := sizeInfo[size]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	if m.message != "" {
		b.WriteString("      " + m.renderMessage() + "\n\n")
	}
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")
	return b.String()
}

func (m model) viewGame() string {
	var b strings.Builder
	s := m.session
	st := s.State()
	size := s.Engine().Size()

	status := green.Render("●") + " " + cyan.Render(fmt.Sprintf("%dx%d", size, size))
	if m.state == stateDone {
		status = yellow.Render("○") + " " + cyan.Render("complete")
	}
	b.WriteString(fmt.Sprintf("\n   %s  %s\n", status,
		dim.Render(fmt.Sprintf("step %d/%d", st.Step, s.Engine().Islands()))))

	progress := float64(st.Step) / float64(s.Engine().Islands())
	barWidth := 36
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString("   " + bar + "  " + m.accuracyLine() + "\n\n")

	labels := viz.IslandLabels(size, func(i int) bool { return !st.Has(i) }, "·")
	cursor := m.row*size + m.col
	labels[m.row][m.col] = "[" + labels[m.row][m.col] + "]"
	if m.hint > 0 && m.hint-1 != cursor {
		r, c := (m.hint-1)/size, (m.hint-1)%size
		labels[r][c] = "*" + labels[r][c]
	}
	grid := viz.ColorGrid(s.IslandMap(), 0, 0, viz.CurrentTheme, labels, 6)
	for _, line := range strings.Split(grid, "\n") {
		b.WriteString("   " + line + "\n")
	}
	b.WriteString("\n")

	if st.Step > 0 {
		b.WriteString("   " + dim.Render("expert ") + viz.Sparkline(st.RExpert.Values(), 24) +
			"  " + white.Render(strconv.FormatFloat(st.RExpert.Last(), 'f', 4, 64)) + "\n")
		b.WriteString("   " + dim.Render("player ") + viz.Sparkline(st.RPlayer.Values(), 24) +
			"  " + white.Render(strconv.FormatFloat(st.RPlayer.Last(), 'f', 4, 64)) + "\n\n")
	}

	if m.message != "" {
		b.WriteString("   " + m.renderMessage() + "\n")
	}
	if m.savedID != "" {
		b.WriteString("   " + dim.Render("saved as "+m.savedID) + "\n")
	}

	if m.state == stateDone {
		b.WriteString("\n" + dim.Render("   c copy order  n new game  q quit") + "\n")
	} else {
		b.WriteString("\n" + dim.Render("   ←↑↓→ move  enter scan  s suggest  c copy order  t theme  q menu") + "\n")
	}
	return b.String()
}

func (m model) accuracyLine() string {
	acc, err := m.session.FinalAccuracy()
	switch {
	case errors.Is(err, game.ErrAccuracyUndefined):
		return dim.Render("accuracy ") + yellow.Render("undefined")
	case err != nil || m.session.State().Step == 0:
		return dim.Render("accuracy ") + dimmer.Render("--")
	}
	style := green
	if acc < 80 {
		style = yellow
	}
	if acc < 50 {
		style = red
	}
	return dim.Render("accuracy ") + style.Render(fmt.Sprintf("%.1f%%", acc))
}

func (m model) renderMessage() string {
	if m.msgErr {
		return red.Render(m.message)
	}
	return magenta.Render(m.message)
}
