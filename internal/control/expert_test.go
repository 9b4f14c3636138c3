package control

import (
	"testing"

	"github.com/san-kum/thermoscan/internal/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpert_ChoosesCheapestRemaining(t *testing.T) {
	law := &Law{
		Lambda0: linalg.Vector{5, 1, 3, 1},
	}
	var err error
	law.Lambda1, err = linalg.Zeros(4, 2)
	require.NoError(t, err)

	e := NewExpert(law)
	x := linalg.Vector{0, 0}

	tests := []struct {
		name      string
		remaining []int
		want      int
	}{
		{"all remaining, tie broken by index", []int{1, 2, 3, 4}, 1},
		{"cheapest scanned", []int{1, 3, 4}, 3},
		{"only expensive left", []int{1}, 0},
		{"middle", []int{1, 3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Choose(x, tt.remaining)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpert_UsesStateTerm(t *testing.T) {
	l1, err := linalg.NewDense(2, 2, []float64{
		10, 0,
		0, 0,
	})
	require.NoError(t, err)
	e := NewExpert(&Law{Lambda0: linalg.Vector{0, 1}, Lambda1: l1})

	got, err := e.Choose(linalg.Vector{0, 0}, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = e.Choose(linalg.Vector{1, 0}, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestExpert_NoCandidates(t *testing.T) {
	_, law := buildLaw(t, 3)
	e := NewExpert(law)

	_, err := e.Choose(linalg.Fill(83, 293), nil)
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = e.Choose(linalg.Fill(83, 293), []int{42})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestExpert_NeverPicksScanned(t *testing.T) {
	m, law := buildLaw(t, 3)
	e := NewExpert(law)

	x := m.Tm0()
	remaining := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	for len(remaining) > 0 {
		k, err := e.Choose(x, remaining)
		require.NoError(t, err)
		assert.Contains(t, remaining, k+1)

		x, err = m.Advance(x, k)
		require.NoError(t, err)
		for i, v := range remaining {
			if v == k+1 {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
}
