// Package automation runs batches of autoplay games: scripted scenarios,
// sweeps over sizes and policies, and Monte Carlo runs of the random policy.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/thermoscan/internal/experiment"
	"github.com/san-kum/thermoscan/internal/game"
)

// Scenario is a scripted list of games.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Size      int     `yaml:"size"`
	Influence string  `yaml:"influence"`
	Gain      float64 `yaml:"gain"`
	Policy    string  `yaml:"policy"`
	Seed      int64   `yaml:"seed"`
	SaveAs    string  `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	for i := range scenario.Steps {
		scenario.Steps[i].applyDefaults()
	}
	return &scenario, nil
}

func (s *ScenarioStep) applyDefaults() {
	if s.Influence == "" {
		s.Influence = "diffused"
	}
	if s.Gain == 0 {
		s.Gain = 1
	}
	if s.Policy == "" {
		s.Policy = "sequential"
	}
}

// Runner plays batches of games, reusing one engine per size and influence.
type Runner struct {
	registry *experiment.Registry
	workers  int
	engines  map[engineKey]*game.Engine
}

type engineKey struct {
	size      int
	influence string
	gain      float64
}

func NewRunner(registry *experiment.Registry, workers int) *Runner {
	return &Runner{
		registry: registry,
		workers:  workers,
		engines:  make(map[engineKey]*game.Engine),
	}
}

func (r *Runner) engine(size int, influence string, gain float64) (*game.Engine, error) {
	key := engineKey{size, influence, gain}
	if e, ok := r.engines[key]; ok {
		return e, nil
	}
	inf, err := r.registry.GetInfluence(influence, gain)
	if err != nil {
		return nil, err
	}
	e, err := game.NewEngine(size, game.WithInfluence(inf), game.WithWorkers(r.workers))
	if err != nil {
		return nil, err
	}
	r.engines[key] = e
	return e, nil
}

// Play runs one game described by cfg.
func (r *Runner) Play(ctx context.Context, cfg experiment.Config) (*experiment.Result, error) {
	eng, err := r.engine(cfg.Size, cfg.Influence, cfg.Gain)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg, r.registry)
	if err := exp.SetupWith(eng); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

// RunScenario plays every step in order and stops at the first failure.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		slog.Info("[SCENARIO] step", "n", i+1, "of", len(scenario.Steps), "size", step.Size, "policy", step.Policy)

		result, err := r.Play(ctx, experiment.Config{
			Size:      step.Size,
			Influence: step.Influence,
			Gain:      step.Gain,
			Policy:    step.Policy,
			Seed:      step.Seed,
		})
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Sweep plays every policy on every size.
type Sweep struct {
	Sizes     []int
	Policies  []string
	Influence string
	Gain      float64
	Seed      int64
}

type SweepResult struct {
	Size     int
	Policy   string
	Accuracy float64
	Scored   bool
	Metrics  map[string]float64
}

func (r *Runner) RunSweep(ctx context.Context, sweep *Sweep) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(sweep.Sizes)*len(sweep.Policies))

	for _, size := range sweep.Sizes {
		for _, policy := range sweep.Policies {
			res, err := r.Play(ctx, experiment.Config{
				Size:      size,
				Influence: sweep.Influence,
				Gain:      sweep.Gain,
				Policy:    policy,
				Seed:      sweep.Seed,
			})
			if err != nil {
				return results, fmt.Errorf("size %d policy %s: %w", size, policy, err)
			}
			results = append(results, SweepResult{
				Size:     size,
				Policy:   policy,
				Accuracy: res.Accuracy,
				Scored:   res.Scored,
				Metrics:  res.Metrics,
			})
			slog.Debug("[SWEEP] done", "size", size, "policy", policy, "accuracy", res.Accuracy)
		}
	}
	return results, nil
}

// MonteCarloConfig plays the random policy with seeds Seed, Seed+1, ...
type MonteCarloConfig struct {
	Size      int
	Influence string
	Gain      float64
	Trials    int
	Seed      int64
}

type MonteCarloResult struct {
	Trial    int
	Seed     int64
	Accuracy float64
	Scored   bool
}

func (r *Runner) RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.Trials)

	for trial := 0; trial < cfg.Trials; trial++ {
		seed := cfg.Seed + int64(trial)
		res, err := r.Play(ctx, experiment.Config{
			Size:      cfg.Size,
			Influence: cfg.Influence,
			Gain:      cfg.Gain,
			Policy:    "random",
			Seed:      seed,
		})
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		results = append(results, MonteCarloResult{
			Trial:    trial,
			Seed:     seed,
			Accuracy: res.Accuracy,
			Scored:   res.Scored,
		})

		if (trial+1)%10 == 0 {
			slog.Info("[MONTECARLO] progress", "done", trial+1, "of", cfg.Trials)
		}
	}
	return results, nil
}

// Stats summarises the scored accuracies of a Monte Carlo run.
type Stats struct {
	Count    int
	Unscored int
	Mean     float64
	StdDev   float64
	Min      float64
	Median   float64
	Max      float64
}

func MonteCarloStats(results []MonteCarloResult) Stats {
	var st Stats
	acc := make([]float64, 0, len(results))
	for _, r := range results {
		if !r.Scored {
			st.Unscored++
			continue
		}
		acc = append(acc, r.Accuracy)
	}
	st.Count = len(acc)
	if st.Count == 0 {
		return st
	}

	sort.Float64s(acc)
	st.Min, st.Max = acc[0], acc[len(acc)-1]
	if n := len(acc); n%2 == 1 {
		st.Median = acc[n/2]
	} else {
		st.Median = (acc[n/2-1] + acc[n/2]) / 2
	}

	sum := 0.0
	for _, v := range acc {
		sum += v
	}
	st.Mean = sum / float64(st.Count)

	ss := 0.0
	for _, v := range acc {
		ss += (v - st.Mean) * (v - st.Mean)
	}
	st.StdDev = math.Sqrt(ss / float64(st.Count))
	return st
}
