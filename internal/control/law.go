package control

import (
	"errors"
	"fmt"

	"github.com/san-kum/thermoscan/internal/linalg"
	"github.com/san-kum/thermoscan/internal/model"
)

// ErrNoCandidates indicates that every island has already been scanned.
var ErrNoCandidates = errors.New("control: no eligible control")

// Law holds the precomputed cost terms for one model.
type Law struct {
	Lambda0 linalg.Vector
	Lambda1 *linalg.Dense
}

// Precompute derives Lambda0 and Lambda1 from m.
func Precompute(m *model.Model) (*Law, error) {
	bb := m.Bb()

	cbBb, err := m.Cb().ApplyDense(bb)
	if err != nil {
		return nil, fmt.Errorf("cb·bb: %w", err)
	}
	bbT, err := linalg.Transpose(bb)
	if err != nil {
		return nil, err
	}
	quad, err := linalg.Multiply(bbT, cbBb)
	if err != nil {
		return nil, fmt.Errorf("bbᵗ·cb·bb: %w", err)
	}

	// Bbᵗ·Cb·Ab = (Abᵗ·Cbᵗ·Bb)ᵗ keeps every product at n×M² width.
	cbT, err := m.Cb().T()
	if err != nil {
		return nil, err
	}
	cbtBb, err := cbT.ApplyDense(bb)
	if err != nil {
		return nil, fmt.Errorf("cbᵗ·bb: %w", err)
	}
	abT, err := m.Ab().T()
	if err != nil {
		return nil, err
	}
	lin, err := abT.ApplyDense(cbtBb)
	if err != nil {
		return nil, fmt.Errorf("abᵗ·cbᵗ·bb: %w", err)
	}
	linT, err := linalg.Transpose(lin)
	if err != nil {
		return nil, err
	}
	l1, err := linalg.Scale(linT, 2)
	if err != nil {
		return nil, err
	}

	return &Law{
		Lambda0: linalg.Diagonal(quad),
		Lambda1: l1,
	}, nil
}

// Cost returns Lambda0 + Lambda1·x, one entry per control.
func (l *Law) Cost(x linalg.Vector) (linalg.Vector, error) {
	lin, err := linalg.MultiplyVector(l.Lambda1, x)
	if err != nil {
		return nil, err
	}
	return linalg.AddVectors(l.Lambda0, lin)
}
