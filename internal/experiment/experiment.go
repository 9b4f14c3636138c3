// Package experiment plays complete games with scripted player policies.
package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/linalg"
	"github.com/san-kum/thermoscan/internal/metrics"
)

type Config struct {
	Size      int
	Influence string
	Gain      float64
	Policy    string
	Seed      int64
	Workers   int
}

// Move is one step of a finished run.
type Move struct {
	Step     int
	Player   int
	Expert   int
	RExpert  float64
	RPlayer  float64
	Accuracy float64
	Scored   bool
}

type Result struct {
	Snapshot game.Snapshot
	Accuracy float64
	Scored   bool
	Metrics  map[string]float64
	Moves    []Move
}

// Observer is called after every accepted move of Run.
type Observer func(m Move, s *game.Session)

type Experiment struct {
	cfg      Config
	registry *Registry
	engine   *game.Engine
	policy   Policy
	observer Observer
}

func New(cfg Config, registry *Registry) *Experiment {
	return &Experiment{cfg: cfg, registry: registry}
}

// Setup builds the engine and resolves the policy. An engine built elsewhere
// can be reused with SetupWith.
func (e *Experiment) Setup() error {
	inf, err := e.registry.GetInfluence(e.cfg.Influence, e.cfg.Gain)
	if err != nil {
		return err
	}
	eng, err := game.NewEngine(e.cfg.Size, game.WithInfluence(inf), game.WithWorkers(e.cfg.Workers))
	if err != nil {
		return err
	}
	return e.SetupWith(eng)
}

func (e *Experiment) SetupWith(eng *game.Engine) error {
	policy, err := e.registry.GetPolicy(e.cfg.Policy, e.cfg.Seed)
	if err != nil {
		return err
	}
	e.engine = eng
	e.policy = policy
	return nil
}

func (e *Experiment) Engine() *game.Engine { return e.engine }

func (e *Experiment) SetObserver(o Observer) { e.observer = o }

// Run plays until every island is scanned or ctx is done.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.engine == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	session := game.NewSession(e.engine)
	p := e.engine.Params()
	observers := []metrics.Metric{
		metrics.NewSpread(p.Cells()),
		metrics.NewPeak(p.Cells()),
		metrics.NewMeltFraction(p.Cells(), p.TMelt),
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Moves:   make([]Move, 0, e.engine.Islands()),
	}

	for !session.IsComplete() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		st := session.State()
		idx, err := e.policy.Next(e.engine, st)
		if err != nil {
			return result, fmt.Errorf("policy %s: %w", e.policy.Name(), err)
		}
		res, err := session.MakeMove(idx)
		if err != nil {
			return result, err
		}

		st = session.State()
		for _, m := range observers {
			m.Observe(st.T2)
		}
		mv := Move{
			Step:     res.Step,
			Player:   res.PlayerIsland,
			Expert:   res.ExpertIsland,
			RExpert:  st.RExpert.Last(),
			RPlayer:  st.RPlayer.Last(),
			Accuracy: res.Accuracy,
			Scored:   res.Scored,
		}
		result.Moves = append(result.Moves, mv)
		if e.observer != nil {
			e.observer(mv, session)
		}
	}

	acc, err := session.FinalAccuracy()
	switch {
	case err == nil:
		result.Accuracy = acc
		result.Scored = true
	case !errors.Is(err, game.ErrAccuracyUndefined):
		return result, err
	}

	result.Snapshot = session.GameState()
	for _, m := range observers {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Metrics["deviation_expert"] = linalg.Vector(result.Snapshot.RExpert).Mean()
	result.Metrics["deviation_player"] = linalg.Vector(result.Snapshot.RPlayer).Mean()
	return result, nil
}
