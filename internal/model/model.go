package model

import (
	"fmt"
	"runtime"

	"github.com/san-kum/thermoscan/internal/linalg"
	"github.com/san-kum/thermoscan/internal/physics"
	"github.com/san-kum/thermoscan/internal/scan"
)

// Model is the immutable state-space description of one grid.
type Model struct {
	params    physics.Params
	orders    scan.Orders
	influence string

	ab  linalg.Operator
	bb  *linalg.Dense
	cb  linalg.Operator
	tm0 linalg.Vector
}

type options struct {
	influence Influence
	workers   int
}

type Option func(*options)

// WithInfluence selects the strategy that fills Bb.
func WithInfluence(inf Influence) Option {
	return func(o *options) { o.influence = inf }
}

// WithWorkers bounds the goroutines used to fill Bb columns. Values below one
// build sequentially.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// Build constructs Ab, Bb, Cb and Tm0 for p.
func Build(p physics.Params, opts ...Option) (*Model, error) {
	o := options{
		influence: DiffusedPath{Gain: 1},
		workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if p.N <= 0 || p.M <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", p.N, p.M, ErrBadSize)
	}
	if p.N != p.M {
		return nil, fmt.Errorf("%dx%d: %w", p.N, p.M, ErrNonSquareGrid)
	}

	n := p.StateDim()
	controls := p.M * p.M

	g := &Geometry{
		Params:  p,
		Orders:  scan.Generate(p.N, p.M),
		Lattice: physics.NewLattice(p),
		pool:    linalg.NewVectorPool(n),
	}

	bb, err := linalg.Zeros(n, controls)
	if err != nil {
		return nil, err
	}

	cols := make([]linalg.Vector, controls)
	errs := make([]error, controls)
	linalg.ParallelFor(controls, o.workers, func(start, end int) {
		for k := start; k < end; k++ {
			col := make(linalg.Vector, n)
			errs[k] = o.influence.Fill(g, k, col)
			cols[k] = col
		}
	})
	for k, col := range cols {
		if errs[k] != nil {
			return nil, fmt.Errorf("fill column %d: %w", k, errs[k])
		}
		if err := bb.SetColumn(k, col); err != nil {
			return nil, err
		}
	}

	return &Model{
		params:    p,
		orders:    g.Orders,
		influence: o.influence.Name(),
		ab:        linalg.IdentityOp{N: n},
		bb:        bb,
		cb:        MeanDeviation{Cells: p.Cells(), N: n},
		tm0:       p.InitialState(),
	}, nil
}

func (m *Model) Params() physics.Params { return m.params }
func (m *Model) Orders() scan.Orders    { return m.orders }
func (m *Model) Influence() string      { return m.influence }
func (m *Model) Ab() linalg.Operator    { return m.ab }
func (m *Model) Cb() linalg.Operator    { return m.cb }

// Bb returns a copy of the control-influence matrix.
func (m *Model) Bb() *linalg.Dense { return m.bb.Clone() }

// Tm0 returns a copy of the initial state.
func (m *Model) Tm0() linalg.Vector { return m.tm0.Clone() }

// Controls is the number of Bb columns.
func (m *Model) Controls() int { return m.bb.Cols() }

// Column returns a copy of Bb[:, k].
func (m *Model) Column(k int) (linalg.Vector, error) {
	return linalg.Column(m.bb, k)
}

// Advance returns Ab·x + Bb[:, k].
func (m *Model) Advance(x linalg.Vector, k int) (linalg.Vector, error) {
	drift, err := m.ab.Apply(x)
	if err != nil {
		return nil, err
	}
	col, err := m.Column(k)
	if err != nil {
		return nil, err
	}
	return linalg.AddVectors(drift, col)
}

// Deviation returns ‖Cb·x‖ / TMelt / M / N.
func (m *Model) Deviation(x linalg.Vector) (float64, error) {
	y, err := m.cb.Apply(x)
	if err != nil {
		return 0, err
	}
	p := m.params
	return y.Norm() / p.TMelt / float64(p.M) / float64(p.N), nil
}
