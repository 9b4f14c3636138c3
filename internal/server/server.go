// Package server exposes games over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/model"
	"github.com/san-kum/thermoscan/internal/storage"
)

// ErrUnknownSession indicates a session id that was never issued.
var ErrUnknownSession = errors.New("server: unknown session")

const (
	defaultIdleTimeout = 30 * time.Minute
	defaultMaxSessions = 256

	// maxBodyBytes caps request bodies.
	maxBodyBytes = 4 << 10
)

type Config struct {
	DefaultSize int
	Influence   model.Influence
	Gain        float64
	Workers     int

	// IdleTimeout evicts sessions untouched for this long.
	IdleTimeout time.Duration
	// MaxSessions bounds the session table. Creating a session at the bound
	// evicts the least recently used one, finished games first.
	MaxSessions int
}

type entry struct {
	mu      sync.Mutex
	id      string
	session *game.Session
	saved   bool

	finished atomic.Bool
	touched  time.Time // guarded by Server.mu
}

type Server struct {
	cfg   Config
	store *storage.Store
	log   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
	latest   string

	buildMu sync.Mutex
	engines map[int]*game.Engine

	now func() time.Time
}

// New returns a server. store may be nil, in which case finished games are
// not persisted.
func New(cfg Config, store *storage.Store, logger *slog.Logger) *Server {
	if cfg.DefaultSize == 0 {
		cfg.DefaultSize = game.MinSize
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		log:      logger,
		sessions: make(map[string]*entry),
		engines:  make(map[int]*game.Engine),
		now:      time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/init", s.handleInit)
	mux.HandleFunc("POST /api/move", s.handleMove)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("[HTTP] listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	sweep := time.NewTicker(max(s.cfg.IdleTimeout/2, time.Second))
	defer sweep.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-sweep.C:
				s.Sweep()
			}
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("[HTTP] shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// engine returns the cached engine for size, building it on first use.
func (s *Server) engine(size int) (*game.Engine, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if e, ok := s.engines[size]; ok {
		return e, nil
	}

	var opts []game.Option
	if s.cfg.Influence != nil {
		opts = append(opts, game.WithInfluence(s.cfg.Influence))
	}
	if s.cfg.Workers > 0 {
		opts = append(opts, game.WithWorkers(s.cfg.Workers))
	}

	start := time.Now()
	e, err := game.NewEngine(size, opts...)
	if err != nil {
		return nil, err
	}
	s.log.Info("[ENGINE] built", "size", size, "elapsed", time.Since(start))
	s.engines[size] = e
	return e, nil
}

func (s *Server) create(size int) (*entry, error) {
	e, err := s.engine(size)
	if err != nil {
		return nil, err
	}
	ent := &entry{id: uuid.NewString(), session: game.NewSession(e)}

	s.mu.Lock()
	now := s.now()
	s.expireLocked(now)
	for len(s.sessions) >= s.cfg.MaxSessions {
		s.dropLocked(s.victimLocked(), "capacity")
	}
	ent.touched = now
	s.sessions[ent.id] = ent
	s.latest = ent.id
	s.mu.Unlock()

	s.log.Info("[SESSION] created", "session", ent.id, "size", size)
	return ent, nil
}

// lookup resolves id, where an empty id means the latest session.
func (s *Server) lookup(id string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = s.latest
	}
	ent, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	ent.touched = s.now()
	return ent, nil
}

// Sweep evicts sessions idle for longer than the configured timeout.
func (s *Server) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(s.now())
}

// Sessions reports how many sessions are held.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) expireLocked(now time.Time) {
	for id, ent := range s.sessions {
		if now.Sub(ent.touched) > s.cfg.IdleTimeout {
			s.dropLocked(id, "idle")
		}
	}
}

// victimLocked picks the least recently used session, preferring finished
// ones.
func (s *Server) victimLocked() string {
	var id string
	var best *entry
	for k, ent := range s.sessions {
		if best == nil ||
			ent.finished.Load() && !best.finished.Load() ||
			ent.finished.Load() == best.finished.Load() && ent.touched.Before(best.touched) {
			id, best = k, ent
		}
	}
	return id
}

func (s *Server) dropLocked(id, reason string) {
	delete(s.sessions, id)
	if s.latest == id {
		s.latest = ""
	}
	s.log.Info("[SESSION] evicted", "session", id, "reason", reason)
}

// persist saves a finished game once. The caller holds ent.mu.
func (s *Server) persist(ent *entry) {
	if s.store == nil || ent.saved || !ent.session.IsComplete() {
		return
	}
	snap := ent.session.GameState()
	meta := storage.RunMetadata{
		ID:        ent.id,
		Size:      snap.GameSize,
		Influence: ent.session.Engine().Model().Influence(),
		Gain:      s.cfg.Gain,
		Policy:    "http",
		Steps:     snap.Step,
	}
	if acc, err := ent.session.FinalAccuracy(); err == nil {
		meta.Accuracy = acc
		meta.Scored = true
	}
	if _, err := s.store.Save(meta, storage.MovesFromSnapshot(snap)); err != nil {
		s.log.Error("[SESSION] save failed", "session", ent.id, "error", err)
		return
	}
	ent.saved = true
	s.log.Info("[SESSION] complete", "session", ent.id, "accuracy", meta.Accuracy, "scored", meta.Scored)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("[HTTP] request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
