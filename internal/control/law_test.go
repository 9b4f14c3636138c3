package control

import (
	"testing"

	"github.com/san-kum/thermoscan/internal/linalg"
	"github.com/san-kum/thermoscan/internal/model"
	"github.com/san-kum/thermoscan/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLaw(t *testing.T, size int, opts ...model.Option) (*model.Model, *Law) {
	t.Helper()
	m, err := model.Build(physics.New(size), opts...)
	require.NoError(t, err)
	law, err := Precompute(m)
	require.NoError(t, err)
	return m, law
}

func TestPrecompute_Shapes(t *testing.T) {
	m, law := buildLaw(t, 3)
	n := m.Params().StateDim()

	assert.Len(t, law.Lambda0, 9)
	assert.Equal(t, 9, law.Lambda1.Rows())
	assert.Equal(t, n, law.Lambda1.Cols())
}

func TestPrecompute_MatchesDenseProducts(t *testing.T) {
	m, law := buildLaw(t, 3)

	bb := m.Bb()
	cb, err := m.Cb().Dense()
	require.NoError(t, err)
	ab, err := m.Ab().Dense()
	require.NoError(t, err)

	bbT, err := linalg.Transpose(bb)
	require.NoError(t, err)
	btcb, err := linalg.Multiply(bbT, cb)
	require.NoError(t, err)
	quad, err := linalg.Multiply(btcb, bb)
	require.NoError(t, err)
	lin, err := linalg.Multiply(btcb, ab)
	require.NoError(t, err)

	wantL0 := linalg.Diagonal(quad)
	for k := range wantL0 {
		assert.InEpsilon(t, wantL0[k], law.Lambda0[k], 1e-9)
	}

	for i := 0; i < lin.Rows(); i++ {
		for j := 0; j < lin.Cols(); j++ {
			want, _ := lin.At(i, j)
			got, _ := law.Lambda1.At(i, j)
			assert.InDelta(t, 2*want, got, 1e-6)
		}
	}
}

func TestLambda0_IsSquaredDeviationOfColumn(t *testing.T) {
	m, law := buildLaw(t, 4, model.WithInfluence(model.UniformBlock{Gain: 1}))
	for k := 0; k < m.Controls(); k++ {
		col, err := m.Column(k)
		require.NoError(t, err)
		dev, err := m.Cb().Apply(col)
		require.NoError(t, err)
		norm := dev.Norm()
		assert.InEpsilon(t, norm*norm, law.Lambda0[k], 1e-9)
	}
}

func TestCost_DimensionMismatch(t *testing.T) {
	_, law := buildLaw(t, 3)
	_, err := law.Cost(linalg.Vector{1, 2, 3})
	assert.ErrorIs(t, err, linalg.ErrDimensionMismatch)
}
