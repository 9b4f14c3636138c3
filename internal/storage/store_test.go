package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/thermoscan/internal/game"
)

func sampleMoves() []MoveRecord {
	return []MoveRecord{
		{Step: 1, Player: 1, Expert: 5, RExpert: 0.25, RPlayer: 0.5, Accuracy: 50},
		{Step: 2, Player: 5, Expert: 1, RExpert: 0.5, RPlayer: 0.25, Accuracy: 100},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Size:      3,
		Influence: "diffused",
		Policy:    "sequential",
		Accuracy:  100,
		Scored:    true,
		Metrics:   map[string]float64{"peak": 1800},
	}
	runID, err := st.Save(meta, sampleMoves())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != runID || loaded.Size != 3 || loaded.Policy != "sequential" {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", loaded.Steps)
	}
	if loaded.Metrics["peak"] != 1800 {
		t.Errorf("expected peak 1800, got %f", loaded.Metrics["peak"])
	}
	if loaded.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	moves, err := st.LoadMoves(runID)
	if err != nil {
		t.Fatalf("load moves failed: %v", err)
	}
	want := sampleMoves()
	if len(moves) != len(want) {
		t.Fatalf("expected %d moves, got %d", len(want), len(moves))
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("move %d: expected %+v, got %+v", i, want[i], moves[i])
		}
	}
}

func TestListNewestFirst(t *testing.T) {
	st := New(t.TempDir())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		meta := RunMetadata{ID: id, Size: 3, Timestamp: base.Add(time.Duration(i) * time.Hour)}
		if _, err := st.Save(meta, nil); err != nil {
			t.Fatalf("save %s failed: %v", id, err)
		}
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "c" || runs[2].ID != "a" {
		t.Errorf("unexpected order: %s %s %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Size: 4, Policy: "random"}, sampleMoves())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if data.Metadata.ID != runID || len(data.Moves) != 2 {
		t.Errorf("unexpected export: %+v", data)
	}
}

func TestSavePlayedSession(t *testing.T) {
	s, err := game.New(3)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	for _, idx := range s.UnscannedIslands() {
		if _, err := s.MakeMove(idx); err != nil {
			t.Fatalf("move %d: %v", idx, err)
		}
	}
	snap := s.GameState()
	moves := MovesFromSnapshot(snap)
	if len(moves) != 9 {
		t.Fatalf("expected 9 records, got %d", len(moves))
	}
	for i, m := range moves {
		if m.Step != i+1 || m.Player != i+1 {
			t.Errorf("record %d: %+v", i, m)
		}
	}

	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Size: 3, Policy: "sequential"}, moves)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := st.LoadMoves(runID)
	if err != nil {
		t.Fatalf("load moves failed: %v", err)
	}
	for i := range moves {
		if loaded[i] != moves[i] {
			t.Errorf("record %d did not round trip: %+v vs %+v", i, loaded[i], moves[i])
		}
	}

	acc, err := s.FinalAccuracy()
	if err == nil && moves[len(moves)-1].Accuracy != acc {
		t.Errorf("last record accuracy %f, final accuracy %f", moves[len(moves)-1].Accuracy, acc)
	}
}

type failingClose struct {
	io.WriteCloser
}

func (f failingClose) Close() error {
	_ = f.WriteCloser.Close()
	return errors.New("disk full")
}

func TestSaveReportsCloseError(t *testing.T) {
	for _, target := range []string{metadataFile, movesFile} {
		t.Run(target, func(t *testing.T) {
			s := New(t.TempDir())
			s.create = func(name string) (io.WriteCloser, error) {
				f, err := os.Create(name)
				if err != nil || filepath.Base(name) != target {
					return f, err
				}
				return failingClose{WriteCloser: f}, nil
			}

			id, err := s.Save(RunMetadata{Size: 3}, sampleMoves())
			if err == nil {
				t.Fatalf("expected close error, got id %q", id)
			}
			if !strings.Contains(err.Error(), "disk full") || !strings.Contains(err.Error(), target) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
