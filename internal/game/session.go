package game

import "slices"

// Session is one game in progress. It is not safe for concurrent use.
type Session struct {
	engine *Engine
	state  State
}

// New builds an engine for size and starts a session on it.
func New(size int, opts ...Option) (*Session, error) {
	e, err := NewEngine(size, opts...)
	if err != nil {
		return nil, err
	}
	return NewSession(e), nil
}

// NewSession starts a fresh game on an existing engine.
func NewSession(e *Engine) *Session {
	return &Session{engine: e, state: e.Initial()}
}

// Replay plays moves on a fresh session. The expert's choices depend only on
// the engine, so a stored game is reconstructed exactly.
func Replay(e *Engine, moves []int) (*Session, error) {
	s := NewSession(e)
	for _, idx := range moves {
		if _, err := s.MakeMove(idx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) Engine() *Engine { return s.engine }

// State returns a deep copy of the current run state.
func (s *Session) State() State { return s.state.Clone() }

// MakeMove scans island index. On rejection the session is unchanged, the
// result has Success=false and the error wraps ErrInvalidSelection or
// ErrGameComplete.
func (s *Session) MakeMove(index int) (MoveResult, error) {
	next, res, err := s.engine.Apply(s.state, index)
	if err != nil {
		return res, err
	}
	s.state = next
	return res, nil
}

// GameState returns a snapshot of the whole session.
func (s *Session) GameState() Snapshot {
	st := s.state
	p := s.engine.Params()
	return Snapshot{
		GameSize:    s.engine.Size(),
		N:           p.N,
		M:           p.M,
		T:           st.T.Clone(),
		T2:          st.T2.Clone(),
		Remaining:   slices.Clone(st.Remaining),
		RExpert:     st.RExpert.Values(),
		RPlayer:     st.RPlayer.Values(),
		Step:        st.Step,
		ExpertMoves: slices.Clone(st.ExpertMoves),
		PlayerMoves: slices.Clone(st.PlayerMoves),
	}
}

// UnscannedIslands returns the remaining 1-based islands in ascending order.
func (s *Session) UnscannedIslands() []int {
	return slices.Clone(s.state.Remaining)
}

// IsComplete reports whether every island has been scanned.
func (s *Session) IsComplete() bool { return s.state.Complete() }

// FinalAccuracy is 0 before the first move and otherwise the running
// accuracy. It returns ErrAccuracyUndefined when the player's mean deviation
// is zero.
func (s *Session) FinalAccuracy() (float64, error) {
	return s.engine.Accuracy(s.state)
}

// Suggest returns the island the expert would scan from the player's state.
func (s *Session) Suggest() (int, error) {
	return s.engine.Suggest(s.state)
}

// TemperatureMap returns the player's field as an (M·N)×N grid: the leading
// M·N·N entries of T2, cut into rows of N consecutive entries. FieldMap gives
// the whole lattice.
func (s *Session) TemperatureMap() [][]float64 {
	p := s.engine.Params()
	rows := make([][]float64, p.M*p.N)
	for r := range rows {
		rows[r] = slices.Clone(s.state.T2[r*p.N : (r+1)*p.N])
	}
	return rows
}

// FieldMap returns the player's field as the (N·M)×(N·M) lattice.
func (s *Session) FieldMap() [][]float64 {
	w := s.engine.Params().Width()
	rows := make([][]float64, w)
	for r := range rows {
		rows[r] = slices.Clone(s.state.T2[r*w : (r+1)*w])
	}
	return rows
}

// IslandMap averages the player's field over each island block, giving one
// value per island laid out as the M×M island grid.
func (s *Session) IslandMap() [][]float64 {
	p := s.engine.Params()
	w := p.Width()
	grid := make([][]float64, p.M)
	for i := range grid {
		grid[i] = make([]float64, p.M)
		for j := range grid[i] {
			sum := 0.0
			for r := i * p.N; r < (i+1)*p.N; r++ {
				for c := j * p.N; c < (j+1)*p.N; c++ {
					sum += s.state.T2[r*w+c]
				}
			}
			grid[i][j] = sum / float64(p.N*p.N)
		}
	}
	return grid
}
