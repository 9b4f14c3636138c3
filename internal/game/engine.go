package game

import (
	"errors"
	"fmt"

	"github.com/san-kum/thermoscan/internal/control"
	"github.com/san-kum/thermoscan/internal/linalg"
	"github.com/san-kum/thermoscan/internal/metrics"
	"github.com/san-kum/thermoscan/internal/model"
	"github.com/san-kum/thermoscan/internal/physics"
)

const (
	MinSize = 3
	MaxSize = 10
)

// Engine holds everything derived from the game size. It is immutable.
type Engine struct {
	size   int
	model  *model.Model
	law    *control.Law
	expert *control.Expert
}

type options struct {
	model []model.Option
}

type Option func(*options)

// WithInfluence selects the Bb strategy.
func WithInfluence(inf model.Influence) Option {
	return func(o *options) { o.model = append(o.model, model.WithInfluence(inf)) }
}

// WithWorkers bounds the goroutines used while building Bb.
func WithWorkers(n int) Option {
	return func(o *options) { o.model = append(o.model, model.WithWorkers(n)) }
}

// NewEngine builds the model and control law for a size×size island grid.
func NewEngine(size int, opts ...Option) (*Engine, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("size %d not in [%d,%d]: %w", size, MinSize, MaxSize, ErrInvalidSize)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	m, err := model.Build(physics.New(size), o.model...)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	law, err := control.Precompute(m)
	if err != nil {
		return nil, fmt.Errorf("precompute control law: %w", err)
	}

	return &Engine{
		size:   size,
		model:  m,
		law:    law,
		expert: control.NewExpert(law),
	}, nil
}

func (e *Engine) Size() int              { return e.size }
func (e *Engine) Model() *model.Model    { return e.model }
func (e *Engine) Law() *control.Law      { return e.law }
func (e *Engine) Params() physics.Params { return e.model.Params() }

// Islands is the number of islands, size².
func (e *Engine) Islands() int { return e.size * e.size }

// Initial returns the starting state: both trajectories at Tm0, every island
// remaining, empty histories.
func (e *Engine) Initial() State {
	remaining := make([]int, e.Islands())
	for i := range remaining {
		remaining[i] = i + 1
	}
	return State{
		T:         e.model.Tm0(),
		T2:        e.model.Tm0(),
		Remaining: remaining,
	}
}

// Suggest returns the island the expert rule would scan next from the
// player's own trajectory.
func (e *Engine) Suggest(s State) (int, error) {
	k, err := e.expert.Choose(s.T2, s.Remaining)
	if err != nil {
		return 0, err
	}
	return k + 1, nil
}

// Apply scans island index (1-based) for the player and lets the expert take
// its own greedy step. A rejected move returns s unchanged with an error
// wrapping ErrInvalidSelection or ErrGameComplete.
func (e *Engine) Apply(s State, index int) (State, MoveResult, error) {
	if s.Complete() {
		return s, MoveResult{Message: "game already complete"},
			&MoveError{Index: index, Step: s.Step, Wrapped: ErrGameComplete}
	}
	if !s.Has(index) {
		return s, MoveResult{Message: fmt.Sprintf("invalid selection: island %d is not available", index)},
			&MoveError{Index: index, Step: s.Step, Wrapped: ErrInvalidSelection}
	}

	k, err := e.expert.Choose(s.T, s.Remaining)
	if err != nil {
		return s, MoveResult{}, fmt.Errorf("expert: %w", err)
	}

	t, rExpert, err := e.advance(s.T, k)
	if err != nil {
		return s, MoveResult{}, fmt.Errorf("expert step: %w", err)
	}
	t2, rPlayer, err := e.advance(s.T2, index-1)
	if err != nil {
		return s, MoveResult{}, fmt.Errorf("player step: %w", err)
	}

	next := State{
		T:           t,
		T2:          t2,
		Remaining:   without(s.Remaining, index),
		RExpert:     s.RExpert.Append(rExpert),
		RPlayer:     s.RPlayer.Append(rPlayer),
		Step:        s.Step + 1,
		ExpertMoves: appendCopy(s.ExpertMoves, k+1),
		PlayerMoves: appendCopy(s.PlayerMoves, index),
	}

	res := MoveResult{
		Success:      true,
		Message:      fmt.Sprintf("island %d scanned", index),
		Step:         next.Step,
		PlayerIsland: index,
		ExpertIsland: k + 1,
	}
	acc, err := metrics.Accuracy(next.RExpert, next.RPlayer)
	switch {
	case err == nil:
		res.Accuracy = acc
		res.Scored = true
	case errors.Is(err, metrics.ErrUndefined):
		res.Message += " (accuracy undefined)"
	default:
		return s, MoveResult{}, err
	}
	return next, res, nil
}

// Accuracy is mean(RExpert)/mean(RPlayer)·100; 0 before the first move.
func (e *Engine) Accuracy(s State) (float64, error) {
	acc, err := metrics.Accuracy(s.RExpert, s.RPlayer)
	if errors.Is(err, metrics.ErrUndefined) {
		return 0, ErrAccuracyUndefined
	}
	return acc, err
}

func (e *Engine) advance(x linalg.Vector, k int) (linalg.Vector, float64, error) {
	next, err := e.model.Advance(x, k)
	if err != nil {
		return nil, 0, err
	}
	dev, err := e.model.Deviation(next)
	if err != nil {
		return nil, 0, err
	}
	return next, dev, nil
}
