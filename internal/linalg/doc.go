// Package linalg provides the dense matrix and vector kernel used by the
// state-space model.
//
// The package is deliberately small:
//
//   - [Dense]: row-major float64 matrix over github.com/katalvlaran/lvlath/matrix,
//     with pure, allocating operations
//     ([Multiply], [MultiplyVector], [Add], [Scale], [Transpose], [Column],
//     [Diagonal])
//   - [Vector]: flat state vector with norm and arithmetic helpers
//   - [Operator]: anything that can act on vectors and dense matrices;
//     implemented by [*Dense] and [IdentityOp]
//   - [VectorPool] and [ParallelFor]: scratch buffers and chunked fan-out for
//     column-wise construction
//
// Every operation allocates its output and never aliases an input. Shape
// misuse is reported with [ErrDimensionMismatch], [ErrBadShape] or
// [ErrOutOfRange], wrapping the kernel's own error. Nothing in the package
// panics on caller input.
//
// # Example
//
//	a, _ := linalg.Identity(3)
//	v := linalg.Vector{1, 2, 3}
//	w, err := linalg.MultiplyVector(a, v)
package linalg
