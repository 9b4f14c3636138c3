package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/thermoscan/internal/experiment"
)

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	doc := `name: smoke
steps:
  - size: 3
    policy: reverse
  - size: 4
    influence: block
    gain: 2
    policy: random
    seed: 5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, ScenarioStep{Size: 3, Influence: "diffused", Gain: 1, Policy: "reverse"}, sc.Steps[0])
	assert.Equal(t, "block", sc.Steps[1].Influence)
	assert.Equal(t, 2.0, sc.Steps[1].Gain)
	assert.Equal(t, int64(5), sc.Steps[1].Seed)
}

func TestRunScenarioStopsOnError(t *testing.T) {
	r := NewRunner(experiment.NewRegistry(), 2)
	sc := &Scenario{Steps: []ScenarioStep{
		{Size: 3, Influence: "diffused", Gain: 1, Policy: "sequential"},
		{Size: 3, Influence: "diffused", Gain: 1, Policy: "nope"},
		{Size: 3, Influence: "diffused", Gain: 1, Policy: "reverse"},
	}}

	results, err := r.RunScenario(context.Background(), sc)
	assert.Error(t, err)
	assert.Len(t, results, 1)
}

func TestRunnerReusesEngines(t *testing.T) {
	r := NewRunner(experiment.NewRegistry(), 1)
	a, err := r.engine(3, "diffused", 1)
	require.NoError(t, err)
	b, err := r.engine(3, "diffused", 1)
	require.NoError(t, err)
	c, err := r.engine(3, "block", 1)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestRunSweep(t *testing.T) {
	r := NewRunner(experiment.NewRegistry(), 2)
	results, err := r.RunSweep(context.Background(), &Sweep{
		Sizes:     []int{3},
		Policies:  []string{"expert", "sequential"},
		Influence: "diffused",
		Gain:      1,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "expert", results[0].Policy)
	assert.True(t, results[0].Scored)
	assert.InDelta(t, 100, results[0].Accuracy, 1e-9)
}

func TestMonteCarloIsSeeded(t *testing.T) {
	r := NewRunner(experiment.NewRegistry(), 2)
	cfg := &MonteCarloConfig{Size: 3, Influence: "diffused", Gain: 1, Trials: 3, Seed: 11}

	first, err := r.RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)
	second, err := r.RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(13), first[2].Seed)
}

func TestMonteCarloStats(t *testing.T) {
	st := MonteCarloStats([]MonteCarloResult{
		{Accuracy: 80, Scored: true},
		{Accuracy: 100, Scored: true},
		{Accuracy: 90, Scored: true},
		{Scored: false},
	})
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 1, st.Unscored)
	assert.InDelta(t, 90, st.Mean, 1e-12)
	assert.Equal(t, 80.0, st.Min)
	assert.Equal(t, 90.0, st.Median)
	assert.Equal(t, 100.0, st.Max)
	assert.InDelta(t, 8.16496580927726, st.StdDev, 1e-9)

	assert.Equal(t, Stats{}, MonteCarloStats(nil))
}
