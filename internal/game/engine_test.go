package game

import (
	"errors"
	"slices"
	"testing"

	"github.com/san-kum/thermoscan/internal/metrics"
	"github.com/san-kum/thermoscan/internal/model"
)

func newEngine(t *testing.T, size int, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(size, opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	e := newEngine(t, 3)
	s0 := e.Initial()
	keep := s0.Clone()

	s1, res, err := e.Apply(s0, 3)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !res.Success {
		t.Fatal("expected success")
	}

	if s0.Step != keep.Step || len(s0.Remaining) != len(keep.Remaining) {
		t.Error("input state changed")
	}
	for i := range keep.T {
		if s0.T[i] != keep.T[i] || s0.T2[i] != keep.T2[i] {
			t.Fatalf("input trajectory changed at %d", i)
		}
	}
	if s1.Step != 1 || s1.Has(3) {
		t.Errorf("unexpected next state: step=%d remaining=%v", s1.Step, s1.Remaining)
	}
}

func TestApplyRejectedMoveReturnsSameState(t *testing.T) {
	e := newEngine(t, 3)
	s0 := e.Initial()

	s1, res, err := e.Apply(s0, 42)
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
	var me *MoveError
	if !errors.As(err, &me) || me.Index != 42 || me.Step != 0 {
		t.Errorf("expected MoveError with context, got %#v", err)
	}
	if res.Success {
		t.Error("rejected move reported success")
	}
	if s1.Step != 0 || len(s1.Remaining) != 9 {
		t.Error("rejected move changed state")
	}
}

func TestExpertAndPlayerTrajectoriesDiffer(t *testing.T) {
	e := newEngine(t, 4)
	s := e.Initial()

	var err error
	for _, idx := range []int{1, 2, 3, 4} {
		s, _, err = e.Apply(s, idx)
		if err != nil {
			t.Fatalf("apply %d: %v", idx, err)
		}
	}
	if len(s.ExpertMoves) != 4 || len(s.PlayerMoves) != 4 {
		t.Fatalf("expected 4 logged moves, got %d/%d", len(s.ExpertMoves), len(s.PlayerMoves))
	}
	for i, idx := range s.PlayerMoves {
		if idx != i+1 {
			t.Errorf("player move %d = %d", i, idx)
		}
	}
	if s.RExpert.Len() != 4 || s.RPlayer.Len() != 4 {
		t.Error("histories not appended")
	}
}

func TestAccuracyUndefined(t *testing.T) {
	e := newEngine(t, 3)
	s := e.Initial()
	s.RExpert = metrics.NewHistory(0.1)
	s.RPlayer = metrics.NewHistory(0)

	if _, err := e.Accuracy(s); !errors.Is(err, ErrAccuracyUndefined) {
		t.Errorf("expected ErrAccuracyUndefined, got %v", err)
	}
}

func TestTemperatureMapShape(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m := s.TemperatureMap()
	if len(m) != 9 {
		t.Fatalf("expected 9 rows, got %d", len(m))
	}
	for _, row := range m {
		if len(row) != 3 {
			t.Fatalf("expected rows of 3, got %d", len(row))
		}
		for _, v := range row {
			if v != 293 {
				t.Fatalf("expected initial temperature, got %f", v)
			}
		}
	}
}

func TestTemperatureMapRowsFollowField(t *testing.T) {
	for _, size := range []int{3, 5, 10} {
		s, err := New(size, WithInfluence(model.UniformBlock{Gain: 1}))
		if err != nil {
			t.Fatalf("new %d: %v", size, err)
		}
		for _, island := range s.UnscannedIslands() {
			if _, err := s.MakeMove(island); err != nil {
				t.Fatalf("size %d move %d: %v", size, island, err)
			}
		}

		m := s.TemperatureMap()
		if len(m) != size*size {
			t.Fatalf("size %d: expected %d rows, got %d", size, size*size, len(m))
		}
		field := s.FieldMap()
		w := size * size
		for r, row := range m {
			if len(row) != size {
				t.Fatalf("size %d: row %d has %d columns", size, r, len(row))
			}
			for c, v := range row {
				flat := r*size + c
				if want := field[flat/w][flat%w]; v != want {
					t.Fatalf("size %d: map[%d][%d]=%f, field=%f", size, r, c, v, want)
				}
			}
		}
	}
}

func TestIslandMapTracksScannedIsland(t *testing.T) {
	s, err := New(3, WithInfluence(model.UniformBlock{Gain: 1}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.MakeMove(6); err != nil {
		t.Fatalf("move: %v", err)
	}

	g := s.IslandMap()
	if len(g) != 3 || len(g[0]) != 3 {
		t.Fatalf("unexpected island map shape %dx%d", len(g), len(g[0]))
	}
	hot := g[1][2]
	for i := range g {
		for j := range g[i] {
			if i == 1 && j == 2 {
				continue
			}
			if g[i][j] >= hot {
				t.Errorf("island (%d,%d)=%f not cooler than scanned island %f", i, j, g[i][j], hot)
			}
		}
	}

	field := s.FieldMap()
	if len(field) != 9 || len(field[0]) != 9 {
		t.Fatalf("unexpected field shape %dx%d", len(field), len(field[0]))
	}
}

func TestSuggestOnCompleteGame(t *testing.T) {
	e := newEngine(t, 3)
	s := e.Initial()
	s.Remaining = nil
	if _, err := e.Suggest(s); err == nil {
		t.Error("expected error on complete game")
	}
	if _, _, err := e.Apply(s, 1); !errors.Is(err, ErrGameComplete) {
		t.Errorf("expected ErrGameComplete, got %v", err)
	}
}

func TestReplayReconstructsSession(t *testing.T) {
	e := newEngine(t, 3)
	orig := NewSession(e)
	for _, idx := range []int{5, 1, 9, 3} {
		if _, err := orig.MakeMove(idx); err != nil {
			t.Fatalf("move %d: %v", idx, err)
		}
	}
	want := orig.GameState()

	replayed, err := Replay(e, want.PlayerMoves)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	got := replayed.GameState()
	if !slices.Equal(got.ExpertMoves, want.ExpertMoves) {
		t.Errorf("expert moves differ: %v vs %v", got.ExpertMoves, want.ExpertMoves)
	}
	for i := range want.T2 {
		if got.T2[i] != want.T2[i] {
			t.Fatalf("T2[%d] differs: %v vs %v", i, got.T2[i], want.T2[i])
		}
	}

	if _, err := Replay(e, []int{1, 1}); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection, got %v", err)
	}
}
