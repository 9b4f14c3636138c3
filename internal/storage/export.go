package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Metadata RunMetadata  `json:"metadata"`
	Moves    []MoveRecord `json:"moves"`
}

// ExportJSON writes a stored run as one JSON document to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	moves, err := s.LoadMoves(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Metadata: *meta, Moves: moves})
}

// ExportJSONFile is ExportJSON into a new file at path.
func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}
