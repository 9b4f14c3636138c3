package linalg

import "errors"

// Sentinel errors for kernel operations. Callers match them with errors.Is.
var (
	// ErrDimensionMismatch indicates incompatible operand shapes, e.g. Multiply
	// where a.Cols() != b.Rows().
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrBadShape indicates a requested shape with a non-positive dimension.
	ErrBadShape = errors.New("linalg: invalid shape")

	// ErrOutOfRange indicates a row or column index outside the matrix.
	ErrOutOfRange = errors.New("linalg: index out of range")
)
