package model

import (
	"fmt"

	"github.com/san-kum/thermoscan/internal/linalg"
)

// MeanDeviation is the observation operator Cb: identity minus the uniform
// average over the first Cells entries, identity on the trailing ambient
// entries. It is symmetric and idempotent.
type MeanDeviation struct {
	Cells int
	N     int
}

func (o MeanDeviation) Dims() (int, int) { return o.N, o.N }

func (o MeanDeviation) Apply(v linalg.Vector) (linalg.Vector, error) {
	if len(v) != o.N {
		return nil, fmt.Errorf("mean deviation %d applied to length %d: %w", o.N, len(v), linalg.ErrDimensionMismatch)
	}
	out := v.Clone()
	mean := linalg.Vector(v[:o.Cells]).Mean()
	for i := 0; i < o.Cells; i++ {
		out[i] -= mean
	}
	return out, nil
}

func (o MeanDeviation) ApplyDense(x *linalg.Dense) (*linalg.Dense, error) {
	if x.Rows() != o.N {
		return nil, fmt.Errorf("mean deviation %d applied to %dx%d: %w", o.N, x.Rows(), x.Cols(), linalg.ErrDimensionMismatch)
	}
	out := x.Clone()
	for j := 0; j < x.Cols(); j++ {
		col, err := linalg.Column(x, j)
		if err != nil {
			return nil, err
		}
		dev, err := o.Apply(col)
		if err != nil {
			return nil, err
		}
		if err := out.SetColumn(j, dev); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (o MeanDeviation) T() (linalg.Operator, error) { return o, nil }

func (o MeanDeviation) Dense() (*linalg.Dense, error) {
	d, err := linalg.Identity(o.N)
	if err != nil {
		return nil, err
	}
	avg := 1 / float64(o.Cells)
	for i := 0; i < o.Cells; i++ {
		for j := 0; j < o.Cells; j++ {
			v, _ := d.At(i, j)
			_ = d.Set(i, j, v-avg)
		}
	}
	return d, nil
}
