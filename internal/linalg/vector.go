package linalg

import (
	"fmt"
	"math"
)

type Vector []float64

// Fill returns a vector of length n with every entry set to v.
func Fill(n int, v float64) Vector {
	out := make(Vector, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Mean returns the arithmetic mean, or 0 for an empty vector.
func (v Vector) Mean() float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func (v Vector) Scale(factor float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x * factor
	}
	return out
}

// AddVectors returns a+b.
func AddVectors(a, b Vector) (Vector, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("add vectors of length %d and %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out, nil
}

// SubVectors returns a-b.
func SubVectors(a, b Vector) (Vector, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("sub vectors of length %d and %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out, nil
}

// Dot returns the inner product of a and b.
func Dot(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dot of length %d and %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}
