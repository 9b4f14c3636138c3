package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/thermoscan/internal/linalg"
)

func TestHistoryAppendIsPersistent(t *testing.T) {
	h := NewHistory(1, 2)
	h2 := h.Append(3)

	if h.Len() != 2 {
		t.Errorf("original history changed: len %d", h.Len())
	}
	if h2.Len() != 3 || h2.Last() != 3 {
		t.Errorf("unexpected appended history: %v", h2.Values())
	}
	if math.Abs(h2.Mean()-2) > 1e-12 {
		t.Errorf("expected mean 2, got %f", h2.Mean())
	}

	vals := h2.Values()
	vals[0] = 99
	if h2.Values()[0] != 1 {
		t.Error("Values did not return a copy")
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		expert  History
		player  History
		want    float64
		wantErr error
	}{
		{"no moves", History{}, History{}, 0, nil},
		{"equal", NewHistory(1, 2), NewHistory(1, 2), 100, nil},
		{"player worse", NewHistory(1, 1), NewHistory(2, 2), 50, nil},
		{"player better", NewHistory(2), NewHistory(1), 200, nil},
		{"zero player", NewHistory(1), NewHistory(0), 0, ErrUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.expert, tt.player)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Accuracy() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSpreadAndPeak(t *testing.T) {
	s := NewSpread(3)
	p := NewPeak(3)

	for _, x := range []linalg.Vector{
		{1, 2, 3, 100},
		{5, 5, 4, 100},
	} {
		s.Observe(x)
		p.Observe(x)
	}

	if s.Value() != 2 {
		t.Errorf("expected spread 2, got %f", s.Value())
	}
	if p.Value() != 5 {
		t.Errorf("expected peak 5, got %f", p.Value())
	}

	s.Reset()
	p.Reset()
	if s.Value() != 0 || p.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeltFraction(t *testing.T) {
	m := NewMeltFraction(4, 10)
	m.Observe(linalg.Vector{0, 10, 20, 0, 99})
	m.Observe(linalg.Vector{0, 0, 0, 0, 99})

	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected 0.25, got %f", m.Value())
	}
}
