package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/san-kum/thermoscan/internal/game"
)

type initRequest struct {
	Size int `json:"size"`
}

type initResponse struct {
	Session string      `json:"session"`
	Size    int         `json:"size"`
	Grid    [][]float64 `json:"grid"`
}

type moveRequest struct {
	Index   int    `json:"index"`
	Session string `json:"session,omitempty"`
}

type moveResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	Expert   int      `json:"expert,omitempty"`
	Step     int      `json:"step,omitempty"`
}

type statusResponse struct {
	Session        string      `json:"session"`
	TemperatureMap [][]float64 `json:"temperatureMap"`
	Grid           [][]float64 `json:"grid"`
	Complete       bool        `json:"complete"`
	Accuracy       *float64    `json:"accuracy"`
	Step           int         `json:"step"`
	Remaining      []int       `json:"remaining"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	req := initRequest{Size: s.cfg.DefaultSize}
	if r.ContentLength != 0 {
		if !decode(w, r, &req) {
			return
		}
	}
	if req.Size == 0 {
		req.Size = s.cfg.DefaultSize
	}

	ent, err := s.create(req.Size)
	if err != nil {
		if errors.Is(err, game.ErrInvalidSize) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error("[SESSION] create failed", "size", req.Size, "error", err)
		writeError(w, http.StatusInternalServerError, "could not start game")
		return
	}

	ent.mu.Lock()
	grid := ent.session.IslandMap()
	ent.mu.Unlock()

	writeJSON(w, http.StatusOK, initResponse{Session: ent.id, Size: req.Size, Grid: grid})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}

	ent, err := s.lookup(req.Session)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	res, err := ent.session.MakeMove(req.Index)
	if err != nil {
		if errors.Is(err, game.ErrInvalidSelection) || errors.Is(err, game.ErrGameComplete) {
			writeJSON(w, http.StatusOK, moveResponse{Success: false, Message: res.Message})
			return
		}
		s.log.Error("[SESSION] move failed", "session", ent.id, "index", req.Index, "error", err)
		writeError(w, http.StatusInternalServerError, "move failed")
		return
	}
	if ent.session.IsComplete() {
		ent.finished.Store(true)
	}
	s.persist(ent)

	resp := moveResponse{
		Success: true,
		Message: res.Message,
		Expert:  res.ExpertIsland,
		Step:    res.Step,
	}
	if res.Scored {
		acc := res.Accuracy
		resp.Accuracy = &acc
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ent, err := s.lookup(r.URL.Query().Get("session"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	sess := ent.session
	resp := statusResponse{
		Session:        ent.id,
		TemperatureMap: sess.TemperatureMap(),
		Grid:           sess.IslandMap(),
		Complete:       sess.IsComplete(),
		Step:           sess.State().Step,
		Remaining:      sess.UnscannedIslands(),
	}
	if resp.Step > 0 {
		if acc, err := sess.FinalAccuracy(); err == nil {
			resp.Accuracy = &acc
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body of at most maxBodyBytes into v, writing the error
// response itself when it fails.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
