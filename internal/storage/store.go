// Package storage persists finished games as a directory per session.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	movesFile    = "moves.csv"
)

var movesHeader = []string{"step", "player", "expert", "r_expert", "r_player", "accuracy"}

type Store struct {
	baseDir string
	create  func(name string) (io.WriteCloser, error)
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, create: createFile}
}

func createFile(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Size      int                `json:"size"`
	Influence string             `json:"influence"`
	Gain      float64            `json:"gain,omitempty"`
	Policy    string             `json:"policy"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed,omitempty"`
	Accuracy  float64            `json:"accuracy"`
	Scored    bool               `json:"scored"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// MoveRecord is one row of moves.csv. Islands are 1-based.
type MoveRecord struct {
	Step     int     `json:"step"`
	Player   int     `json:"player"`
	Expert   int     `json:"expert"`
	RExpert  float64 `json:"r_expert"`
	RPlayer  float64 `json:"r_player"`
	Accuracy float64 `json:"accuracy"`
}

// MovesFromSnapshot rebuilds per-step records from a session snapshot. The
// accuracy column is the running accuracy after each step, 0 where undefined.
func MovesFromSnapshot(snap game.Snapshot) []MoveRecord {
	n := min(len(snap.PlayerMoves), len(snap.ExpertMoves), len(snap.RExpert), len(snap.RPlayer))
	out := make([]MoveRecord, n)
	for i := range n {
		acc, err := metrics.Accuracy(
			metrics.NewHistory(snap.RExpert[:i+1]...),
			metrics.NewHistory(snap.RPlayer[:i+1]...),
		)
		if err != nil {
			acc = 0
		}
		out[i] = MoveRecord{
			Step:     i + 1,
			Player:   snap.PlayerMoves[i],
			Expert:   snap.ExpertMoves[i],
			RExpert:  snap.RExpert[i],
			RPlayer:  snap.RPlayer[i],
			Accuracy: acc,
		}
	}
	return out
}

// Save writes a new run directory and returns its id. An empty meta.ID is
// replaced with a fresh uuid and a zero Timestamp with the current time.
func (s *Store) Save(meta RunMetadata, moves []MoveRecord) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	if meta.Steps == 0 {
		meta.Steps = len(moves)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := s.writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}
	if err := s.writeFile(filepath.Join(runDir, movesFile), func(w io.Writer) error {
		return writeMoves(w, moves)
	}); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// writeFile creates name, runs write on it and reports the first error of the
// write and the close.
func (s *Store) writeFile(name string, write func(io.Writer) error) (err error) {
	f, err := s.create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", filepath.Base(name), cerr)
		}
	}()
	return write(f)
}

func writeMoves(out io.Writer, moves []MoveRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(movesHeader); err != nil {
		return err
	}
	for _, m := range moves {
		row := []string{
			strconv.Itoa(m.Step),
			strconv.Itoa(m.Player),
			strconv.Itoa(m.Expert),
			strconv.FormatFloat(m.RExpert, 'g', -1, 64),
			strconv.FormatFloat(m.RPlayer, 'g', -1, 64),
			strconv.FormatFloat(m.Accuracy, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadMoves(runID string) ([]MoveRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, movesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(movesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []MoveRecord{}, nil
	}

	moves := make([]MoveRecord, 0, len(records)-1)
	for i, rec := range records[1:] {
		m, err := parseMove(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", movesFile, i+2, err)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func parseMove(rec []string) (MoveRecord, error) {
	var m MoveRecord
	var err error
	if m.Step, err = strconv.Atoi(rec[0]); err != nil {
		return m, err
	}
	if m.Player, err = strconv.Atoi(rec[1]); err != nil {
		return m, err
	}
	if m.Expert, err = strconv.Atoi(rec[2]); err != nil {
		return m, err
	}
	if m.RExpert, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return m, err
	}
	if m.RPlayer, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return m, err
	}
	if m.Accuracy, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return m, err
	}
	return m, nil
}
