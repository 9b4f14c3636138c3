package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates a game size outside [MinSize, MaxSize].
	ErrInvalidSize = errors.New("game: size out of range")

	// ErrInvalidSelection indicates an island that is not in the remaining set.
	ErrInvalidSelection = errors.New("game: invalid selection")

	// ErrGameComplete indicates a move after every island has been scanned.
	ErrGameComplete = errors.New("game: game already complete")

	// ErrAccuracyUndefined indicates the player's mean deviation is zero.
	ErrAccuracyUndefined = errors.New("game: accuracy undefined")
)

// MoveError wraps a rejected move with its context.
type MoveError struct {
	Index   int
	Step    int
	Wrapped error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %d at step %d: %v", e.Index, e.Step, e.Wrapped)
}

func (e *MoveError) Unwrap() error {
	return e.Wrapped
}
