package linalg

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvlath/matrix"
)

// Dense is a row-major float64 matrix backed by lvlath's matrix.Dense.
type Dense struct {
	m *matrix.Dense
}

// kernelErr maps an lvlath error onto this package's sentinels. The original
// error stays in the chain.
func kernelErr(op string, err error) error {
	switch {
	case errors.Is(err, matrix.ErrDimensionMismatch):
		return fmt.Errorf("%s: %w: %w", op, ErrDimensionMismatch, err)
	case errors.Is(err, matrix.ErrInvalidDimensions), errors.Is(err, matrix.ErrBadShape):
		return fmt.Errorf("%s: %w: %w", op, ErrBadShape, err)
	case errors.Is(err, matrix.ErrOutOfRange):
		return fmt.Errorf("%s: %w: %w", op, ErrOutOfRange, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// wrap adopts a kernel result. Every lvlath operation used here allocates a
// *matrix.Dense.
func wrap(op string, m matrix.Matrix) (*Dense, error) {
	d, ok := m.(*matrix.Dense)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected result type %T", op, m)
	}
	return &Dense{m: d}, nil
}

// Zeros returns an r×c matrix of zeros.
func Zeros(r, c int) (*Dense, error) {
	m, err := matrix.NewZeros(r, c)
	if err != nil {
		return nil, kernelErr(fmt.Sprintf("zeros %dx%d", r, c), err)
	}
	return &Dense{m: m}, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) (*Dense, error) {
	m, err := matrix.NewIdentity(n)
	if err != nil {
		return nil, kernelErr(fmt.Sprintf("identity %d", n), err)
	}
	return &Dense{m: m}, nil
}

// NewDense builds an r×c matrix from row-major data. The slice is copied.
func NewDense(r, c int, data []float64) (*Dense, error) {
	d, err := Zeros(r, c)
	if err != nil {
		return nil, err
	}
	if len(data) != r*c {
		return nil, fmt.Errorf("new dense %dx%d from %d values: %w", r, c, len(data), ErrDimensionMismatch)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if err := d.m.Set(i, j, data[i*c+j]); err != nil {
				return nil, kernelErr("new dense", err)
			}
		}
	}
	return d, nil
}

func (d *Dense) Rows() int { return d.m.Rows() }
func (d *Dense) Cols() int { return d.m.Cols() }

// Dims returns (rows, cols).
func (d *Dense) Dims() (int, int) { return d.m.Shape() }

// At returns the entry at (i, j).
func (d *Dense) At(i, j int) (float64, error) {
	v, err := d.m.At(i, j)
	if err != nil {
		return 0, kernelErr("at", err)
	}
	return v, nil
}

// Set writes v at (i, j).
func (d *Dense) Set(i, j int, v float64) error {
	if err := d.m.Set(i, j, v); err != nil {
		return kernelErr("set", err)
	}
	return nil
}

// Row returns a copy of row i.
func (d *Dense) Row(i int) (Vector, error) {
	if i < 0 || i >= d.Rows() {
		return nil, fmt.Errorf("row %d of %dx%d: %w", i, d.Rows(), d.Cols(), ErrOutOfRange)
	}
	r := make(Vector, d.Cols())
	for j := range r {
		r[j], _ = d.m.At(i, j)
	}
	return r, nil
}

// SetColumn overwrites column j with v.
func (d *Dense) SetColumn(j int, v Vector) error {
	if j < 0 || j >= d.Cols() {
		return fmt.Errorf("set column %d of %dx%d: %w", j, d.Rows(), d.Cols(), ErrOutOfRange)
	}
	if len(v) != d.Rows() {
		return fmt.Errorf("set column of length %d into %d rows: %w", len(v), d.Rows(), ErrDimensionMismatch)
	}
	for i, x := range v {
		if err := d.m.Set(i, j, x); err != nil {
			return kernelErr("set column", err)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	return &Dense{m: d.m.Clone().(*matrix.Dense)}
}

// Multiply returns a·b.
func Multiply(a, b *Dense) (*Dense, error) {
	op := fmt.Sprintf("multiply %dx%d by %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	m, err := matrix.Mul(a.m, b.m)
	if err != nil {
		return nil, kernelErr(op, err)
	}
	return wrap(op, m)
}

// MultiplyVector returns a·v.
func MultiplyVector(a *Dense, v Vector) (Vector, error) {
	out, err := matrix.MatVec(a.m, v)
	if err != nil {
		return nil, kernelErr(fmt.Sprintf("multiply %dx%d by vector of length %d", a.Rows(), a.Cols(), len(v)), err)
	}
	return out, nil
}

// Add returns a+b.
func Add(a, b *Dense) (*Dense, error) {
	op := fmt.Sprintf("add %dx%d and %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	m, err := matrix.Add(a.m, b.m)
	if err != nil {
		return nil, kernelErr(op, err)
	}
	return wrap(op, m)
}

// Scale returns s·a.
func Scale(a *Dense, s float64) (*Dense, error) {
	m, err := matrix.Scale(a.m, s)
	if err != nil {
		return nil, kernelErr("scale", err)
	}
	return wrap("scale", m)
}

// Transpose returns aᵗ.
func Transpose(a *Dense) (*Dense, error) {
	m, err := matrix.Transpose(a.m)
	if err != nil {
		return nil, kernelErr("transpose", err)
	}
	return wrap("transpose", m)
}

// Column returns a copy of column j.
func Column(a *Dense, j int) (Vector, error) {
	if j < 0 || j >= a.Cols() {
		return nil, fmt.Errorf("column %d of %dx%d: %w", j, a.Rows(), a.Cols(), ErrOutOfRange)
	}
	out := make(Vector, a.Rows())
	for i := range out {
		out[i], _ = a.m.At(i, j)
	}
	return out, nil
}

// Diagonal returns the main diagonal, of length min(rows, cols).
func Diagonal(a *Dense) Vector {
	out := make(Vector, min(a.Rows(), a.Cols()))
	for i := range out {
		out[i], _ = a.m.At(i, i)
	}
	return out
}
