package model

import (
	"github.com/san-kum/thermoscan/internal/linalg"
	"github.com/san-kum/thermoscan/internal/physics"
	"github.com/san-kum/thermoscan/internal/scan"
)

// Geometry is what an Influence strategy may read while filling a column.
type Geometry struct {
	Params  physics.Params
	Orders  scan.Orders
	Lattice *physics.Lattice

	pool *linalg.VectorPool
}

// Influence fills column k of Bb. dst has length StateDim and is zeroed.
// Implementations must be deterministic and safe to call concurrently for
// distinct columns.
type Influence interface {
	Name() string
	Fill(g *Geometry, k int, dst linalg.Vector) error
}

// DiffusedPath deposits Gain·G on every cell of island k's serpentine path,
// one cell per lattice step, and diffuses earlier deposits through the
// lattice:
//
//	Bb[:, k] = Gain·G · Σ_q A^(N²-1-q) · e(path_q)
//
// Even columns follow the row serpentine, odd columns the column serpentine.
type DiffusedPath struct {
	Gain float64
}

func (DiffusedPath) Name() string { return "diffused" }

func (d DiffusedPath) Fill(g *Geometry, k int, dst linalg.Vector) error {
	origin := g.Orders.Origin(k)
	cur, next := g.pool.Get(), g.pool.Get()
	defer func() {
		g.pool.Put(cur)
		g.pool.Put(next)
	}()

	// Horner's rule: cur = A·cur + e(cell), so the first cell visited has
	// diffused for N²-1 steps and the last not at all.
	for q, off := range g.Orders.Path(k) {
		if q > 0 {
			if err := g.Lattice.Step(next, cur); err != nil {
				return err
			}
			cur, next = next, cur
		}
		cur[origin+off]++
	}

	scale := d.Gain * g.Params.G
	for i, v := range cur {
		dst[i] = v * scale
	}
	return nil
}

// UniformBlock sets every cell of island k's N×N block to Gain·G.
type UniformBlock struct {
	Gain float64
}

func (UniformBlock) Name() string { return "block" }

func (u UniformBlock) Fill(g *Geometry, k int, dst linalg.Vector) error {
	w := g.Params.Width()
	origin := g.Orders.Origin(k)
	v := u.Gain * g.Params.G
	for r := 0; r < g.Params.N; r++ {
		for c := 0; c < g.Params.N; c++ {
			dst[origin+r*w+c] = v
		}
	}
	return nil
}
