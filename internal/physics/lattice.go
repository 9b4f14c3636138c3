package physics

import (
	"fmt"

	"github.com/san-kum/thermoscan/internal/linalg"
)

// Lattice applies one step of the explicit heat transition
//
//	x' = (1-H)·x + F·(Δx + Δy)·x + H·x_amb
//
// on the field cells, with zero-flux edges, and leaves the two ambient
// entries unchanged.
type Lattice struct {
	width int
	f, h  float64
}

func NewLattice(p Params) *Lattice {
	return &Lattice{width: p.Width(), f: p.F, h: p.H}
}

// Dim is the length of the state vectors the lattice acts on.
func (l *Lattice) Dim() int { return l.width*l.width + 2 }

// Step writes the transition of src into dst. dst and src must not overlap.
func (l *Lattice) Step(dst, src linalg.Vector) error {
	n := l.Dim()
	if len(dst) != n || len(src) != n {
		return fmt.Errorf("lattice step on %d/%d entries, want %d: %w", len(dst), len(src), n, linalg.ErrDimensionMismatch)
	}
	w := l.width
	cells := w * w
	amb := src[cells+1]

	for r := 0; r < w; r++ {
		for c := 0; c < w; c++ {
			i := r*w + c
			x := src[i]
			lap := 0.0
			if c > 0 {
				lap += src[i-1] - x
			}
			if c < w-1 {
				lap += src[i+1] - x
			}
			if r > 0 {
				lap += src[i-w] - x
			}
			if r < w-1 {
				lap += src[i+w] - x
			}
			dst[i] = (1-l.h)*x + l.f*lap + l.h*amb
		}
	}
	dst[cells] = src[cells]
	dst[cells+1] = amb
	return nil
}
