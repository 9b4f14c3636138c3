package experiment

import (
	"fmt"
	"math/rand"
	"slices"
	"sort"

	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/model"
)

// Policy picks the player's next island.
type Policy interface {
	Name() string
	Next(e *game.Engine, s game.State) (int, error)
}

type Registry struct {
	influences map[string]func(gain float64) model.Influence
	policies   map[string]func(seed int64) Policy
}

func NewRegistry() *Registry {
	r := &Registry{
		influences: make(map[string]func(float64) model.Influence),
		policies:   make(map[string]func(int64) Policy),
	}

	r.influences["diffused"] = func(gain float64) model.Influence { return model.DiffusedPath{Gain: gain} }
	r.influences["block"] = func(gain float64) model.Influence { return model.UniformBlock{Gain: gain} }

	r.policies["sequential"] = func(int64) Policy { return Sequential{} }
	r.policies["reverse"] = func(int64) Policy { return Reverse{} }
	r.policies["serpentine"] = func(int64) Policy { return Serpentine{} }
	r.policies["random"] = func(seed int64) Policy { return NewRandom(seed) }
	r.policies["expert"] = func(int64) Policy { return Expert{} }

	return r
}

func (r *Registry) GetInfluence(name string, gain float64) (model.Influence, error) {
	fn, ok := r.influences[name]
	if !ok {
		return nil, fmt.Errorf("unknown influence: %s", name)
	}
	return fn(gain), nil
}

func (r *Registry) GetPolicy(name string, seed int64) (Policy, error) {
	fn, ok := r.policies[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy: %s", name)
	}
	return fn(seed), nil
}

func (r *Registry) ListInfluences() []string { return sortedKeys(r.influences) }
func (r *Registry) ListPolicies() []string   { return sortedKeys(r.policies) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sequential scans the lowest remaining island.
type Sequential struct{}

func (Sequential) Name() string { return "sequential" }

func (Sequential) Next(_ *game.Engine, s game.State) (int, error) {
	if s.Complete() {
		return 0, game.ErrGameComplete
	}
	return s.Remaining[0], nil
}

// Reverse scans the highest remaining island.
type Reverse struct{}

func (Reverse) Name() string { return "reverse" }

func (Reverse) Next(_ *game.Engine, s game.State) (int, error) {
	if s.Complete() {
		return 0, game.ErrGameComplete
	}
	return s.Remaining[len(s.Remaining)-1], nil
}

// Serpentine walks the island grid boustrophedon: even rows left to right,
// odd rows right to left.
type Serpentine struct{}

func (Serpentine) Name() string { return "serpentine" }

func (Serpentine) Next(e *game.Engine, s game.State) (int, error) {
	size := e.Size()
	for row := 0; row < size; row++ {
		for c := 0; c < size; c++ {
			col := c
			if row%2 == 1 {
				col = size - 1 - c
			}
			idx := row*size + col + 1
			if s.Has(idx) {
				return idx, nil
			}
		}
	}
	return 0, game.ErrGameComplete
}

// Random scans a uniformly random remaining island.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (*Random) Name() string { return "random" }

func (r *Random) Next(_ *game.Engine, s game.State) (int, error) {
	if s.Complete() {
		return 0, game.ErrGameComplete
	}
	return s.Remaining[r.rng.Intn(len(s.Remaining))], nil
}

// Expert applies the greedy expert rule to the player's own trajectory.
type Expert struct{}

func (Expert) Name() string { return "expert" }

func (Expert) Next(e *game.Engine, s game.State) (int, error) {
	idx, err := e.Suggest(s)
	if err != nil {
		return 0, err
	}
	if !slices.Contains(s.Remaining, idx) {
		return 0, fmt.Errorf("expert suggested scanned island %d", idx)
	}
	return idx, nil
}
