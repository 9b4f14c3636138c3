package model

import "errors"

var (
	// ErrNonSquareGrid indicates N != M. Control columns are indexed by island
	// and only agree with the M² columns of Bb on square grids.
	ErrNonSquareGrid = errors.New("model: island grid must be square")

	// ErrBadSize indicates a non-positive grid dimension.
	ErrBadSize = errors.New("model: grid size must be positive")
)
