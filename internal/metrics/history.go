package metrics

import (
	"errors"
	"math"
)

// ErrUndefined indicates a ratio whose denominator is zero.
var ErrUndefined = errors.New("metrics: accuracy undefined (zero player deviation)")

// History is an append-only series of per-step scores.
type History struct {
	values []float64
}

// NewHistory copies values into a fresh history.
func NewHistory(values ...float64) History {
	return History{values: append([]float64(nil), values...)}
}

// Append returns a history with v added. The receiver is not modified.
func (h History) Append(v float64) History {
	out := make([]float64, len(h.values), len(h.values)+1)
	copy(out, h.values)
	return History{values: append(out, v)}
}

func (h History) Len() int { return len(h.values) }

// Values returns a copy of the series.
func (h History) Values() []float64 {
	return append([]float64(nil), h.values...)
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func (h History) Mean() float64 {
	if len(h.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range h.values {
		sum += v
	}
	return sum / float64(len(h.values))
}

// Last returns the latest value, or 0 for an empty series.
func (h History) Last() float64 {
	if len(h.values) == 0 {
		return 0
	}
	return h.values[len(h.values)-1]
}

// Accuracy is mean(expert) / mean(player) · 100. It returns 0 when the player
// series is empty and ErrUndefined when the player mean is zero.
func Accuracy(expert, player History) (float64, error) {
	if player.Len() == 0 {
		return 0, nil
	}
	pm := player.Mean()
	if pm == 0 {
		return 0, ErrUndefined
	}
	acc := expert.Mean() / pm * 100
	if math.IsNaN(acc) || math.IsInf(acc, 0) {
		return 0, ErrUndefined
	}
	return acc, nil
}
