package game

import (
	"slices"

	"github.com/san-kum/thermoscan/internal/linalg"
	"github.com/san-kum/thermoscan/internal/metrics"
)

// State is the run state of one game. Engine.Apply never modifies a State it
// is given; it returns a new one.
type State struct {
	T  linalg.Vector // expert trajectory
	T2 linalg.Vector // player trajectory

	// Remaining holds the unscanned 1-based islands in ascending order.
	Remaining []int

	RExpert metrics.History
	RPlayer metrics.History

	Step int

	ExpertMoves []int
	PlayerMoves []int
}

// Complete reports whether every island has been scanned.
func (s State) Complete() bool { return len(s.Remaining) == 0 }

// Has reports whether island index is still unscanned.
func (s State) Has(index int) bool {
	_, ok := slices.BinarySearch(s.Remaining, index)
	return ok
}

// Clone returns a deep copy.
func (s State) Clone() State {
	return State{
		T:           s.T.Clone(),
		T2:          s.T2.Clone(),
		Remaining:   slices.Clone(s.Remaining),
		RExpert:     metrics.NewHistory(s.RExpert.Values()...),
		RPlayer:     metrics.NewHistory(s.RPlayer.Values()...),
		Step:        s.Step,
		ExpertMoves: slices.Clone(s.ExpertMoves),
		PlayerMoves: slices.Clone(s.PlayerMoves),
	}
}

func without(set []int, v int) []int {
	out := make([]int, 0, len(set))
	for _, x := range set {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func appendCopy(set []int, v int) []int {
	out := make([]int, len(set), len(set)+1)
	copy(out, set)
	return append(out, v)
}
