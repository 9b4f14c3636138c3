package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/thermoscan/internal/experiment"
	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws the island heat map after each autoplay move. Frames
// closer together than the frame rate allows are skipped, except the last.
type LiveRenderer struct {
	w         io.Writer
	frameRate int
	lastFrame time.Time
}

func NewLiveRenderer(w io.Writer, frameRate int) *LiveRenderer {
	return &LiveRenderer{w: w, frameRate: max(frameRate, 1)}
}

// OnMove satisfies experiment.Observer.
func (r *LiveRenderer) OnMove(mv experiment.Move, s *game.Session) {
	if !s.IsComplete() && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.render(mv, s)
}

func (r *LiveRenderer) render(mv experiment.Move, s *game.Session) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  step %d/%d  player %d  expert %d\n",
		mv.Step, s.Engine().Islands(), mv.Player, mv.Expert))
	b.WriteString("  " + strings.Repeat("-", 40) + "\n")

	for _, line := range strings.Split(strings.TrimRight(viz.HeatMap(s.IslandMap(), 0, 0), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("  " + strings.Repeat("-", 40) + "\n")
	if mv.Scored {
		b.WriteString(fmt.Sprintf("  accuracy %.2f%%  r_expert %.4f  r_player %.4f\n", mv.Accuracy, mv.RExpert, mv.RPlayer))
	} else {
		b.WriteString(fmt.Sprintf("  accuracy undefined  r_expert %.4f  r_player %.4f\n", mv.RExpert, mv.RPlayer))
	}
	fmt.Fprint(r.w, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.w, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.w, showCursor) }
