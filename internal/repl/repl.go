// Package repl is a line-mode front end for one game.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/viz"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("repl: quit")

const help = `commands:
  scan <i>   scan island i
  map        island heat map
  field      lattice temperatures above melt
  left       unscanned islands
  state      step, accuracy and score histories
  suggest    island the expert would scan
  help       this text
  quit       leave`

type REPL struct {
	session *game.Session
	out     io.Writer
}

func New(s *game.Session, out io.Writer) *REPL {
	return &REPL{session: s, out: out}
}

// Exec runs one command line and writes its output.
func (r *REPL) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "scan", "s":
		if len(fields) != 2 {
			return fmt.Errorf("usage: scan <island>")
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid island %q", fields[1])
		}
		return r.scan(idx)
	case "map", "m":
		fmt.Fprint(r.out, viz.HeatMap(r.session.IslandMap(), 0, 0))
		fmt.Fprint(r.out, viz.Table(r.session.IslandMap(), 1))
	case "field":
		p := r.session.Engine().Params()
		c := viz.FieldCanvas(r.session.FieldMap(), p.TMelt, p.N)
		fmt.Fprint(r.out, c.String())
	case "left", "l":
		fmt.Fprintln(r.out, joinInts(r.session.UnscannedIslands()))
	case "state":
		r.printState()
	case "suggest":
		island, err := r.session.Suggest()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "expert would scan %d\n", island)
	case "help", "?":
		fmt.Fprintln(r.out, help)
	case "quit", "exit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
	return nil
}

func (r *REPL) scan(idx int) error {
	res, err := r.session.MakeMove(idx)
	if err != nil {
		fmt.Fprintln(r.out, res.Message)
		return nil
	}
	if res.Scored {
		fmt.Fprintf(r.out, "%s, expert scanned %d, accuracy %.2f%%\n", res.Message, res.ExpertIsland, res.Accuracy)
	} else {
		fmt.Fprintf(r.out, "%s, expert scanned %d\n", res.Message, res.ExpertIsland)
	}
	if r.session.IsComplete() {
		fmt.Fprintln(r.out, "all islands scanned")
	}
	return nil
}

func (r *REPL) printState() {
	st := r.session.State()
	fmt.Fprintf(r.out, "step %d/%d\n", st.Step, r.session.Engine().Islands())
	acc, err := r.session.FinalAccuracy()
	switch {
	case errors.Is(err, game.ErrAccuracyUndefined):
		fmt.Fprintln(r.out, "accuracy undefined")
	case err == nil && st.Step > 0:
		fmt.Fprintf(r.out, "accuracy %.2f%%\n", acc)
	}
	if st.Step > 0 {
		fmt.Fprintln(r.out, viz.PlotHistories(st.RExpert.Values(), st.RPlayer.Values(), 0, 8, "expert (green) vs player (red)"))
	}
	fmt.Fprintf(r.out, "player %s\nexpert %s\n", joinInts(st.PlayerMoves), joinInts(st.ExpertMoves))
}

// Run reads commands until quit, EOF or interrupt.
func (r *REPL) Run(historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "thermoscan> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          r.out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(r.out, help)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.Exec(line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintln(r.out, err)
		}
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("scan"),
		readline.PcItem("map"),
		readline.PcItem("field"),
		readline.PcItem("left"),
		readline.PcItem("state"),
		readline.PcItem("suggest"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}
