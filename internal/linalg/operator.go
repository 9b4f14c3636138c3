package linalg

import "fmt"

// Operator is a linear map that may or may not be stored densely.
//
// Structured operators (identity, mean subtraction) keep the state-space model
// usable at sizes where an explicit n×n matrix would not fit in memory.
type Operator interface {
	Dims() (r, c int)
	// Apply returns Op·v.
	Apply(v Vector) (Vector, error)
	// ApplyDense returns Op·x.
	ApplyDense(x *Dense) (*Dense, error)
	// T returns the transposed operator.
	T() (Operator, error)
	// Dense materialises the operator.
	Dense() (*Dense, error)
}

func (d *Dense) Apply(v Vector) (Vector, error)      { return MultiplyVector(d, v) }
func (d *Dense) ApplyDense(x *Dense) (*Dense, error) { return Multiply(d, x) }
func (d *Dense) Dense() (*Dense, error)              { return d.Clone(), nil }

func (d *Dense) T() (Operator, error) {
	t, err := Transpose(d)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// IdentityOp is the n×n identity without storage.
type IdentityOp struct {
	N int
}

func (o IdentityOp) Dims() (int, int) { return o.N, o.N }

func (o IdentityOp) Apply(v Vector) (Vector, error) {
	if len(v) != o.N {
		return nil, fmt.Errorf("identity %d applied to length %d: %w", o.N, len(v), ErrDimensionMismatch)
	}
	return v.Clone(), nil
}

func (o IdentityOp) ApplyDense(x *Dense) (*Dense, error) {
	if x.Rows() != o.N {
		return nil, fmt.Errorf("identity %d applied to %dx%d: %w", o.N, x.Rows(), x.Cols(), ErrDimensionMismatch)
	}
	return x.Clone(), nil
}

func (o IdentityOp) T() (Operator, error) { return o, nil }

func (o IdentityOp) Dense() (*Dense, error) { return Identity(o.N) }
