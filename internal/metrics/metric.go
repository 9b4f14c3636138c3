package metrics

import (
	"math"

	"github.com/san-kum/thermoscan/internal/linalg"
)

// Metric observes successive temperature states and summarises them.
type Metric interface {
	Name() string
	Observe(x linalg.Vector)
	Value() float64
	Reset()
}

// Spread tracks the largest max-min temperature range seen over the field
// cells, the first Cells entries of each state.
type Spread struct {
	cells int
	max   float64
}

func NewSpread(cells int) *Spread {
	return &Spread{cells: cells}
}

func (s *Spread) Name() string { return "spread" }

func (s *Spread) Observe(x linalg.Vector) {
	n := min(s.cells, len(x))
	if n == 0 {
		return
	}
	lo, hi := x[0], x[0]
	for _, v := range x[1:n] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	s.max = math.Max(s.max, hi-lo)
}

func (s *Spread) Value() float64 { return s.max }
func (s *Spread) Reset()         { s.max = 0 }

// Peak tracks the hottest field cell seen.
type Peak struct {
	cells int
	peak  float64
	seen  bool
}

func NewPeak(cells int) *Peak {
	return &Peak{cells: cells}
}

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(x linalg.Vector) {
	for _, v := range x[:min(p.cells, len(x))] {
		if !p.seen || v > p.peak {
			p.peak = v
			p.seen = true
		}
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() {
	p.peak = 0
	p.seen = false
}

// MeltFraction is the share of observed field cells at or above a melt
// temperature, averaged over observations.
type MeltFraction struct {
	cells   int
	melt    float64
	sum     float64
	samples int
}

func NewMeltFraction(cells int, melt float64) *MeltFraction {
	return &MeltFraction{cells: cells, melt: melt}
}

func (m *MeltFraction) Name() string { return "melt_fraction" }

func (m *MeltFraction) Observe(x linalg.Vector) {
	n := min(m.cells, len(x))
	if n == 0 {
		return
	}
	hot := 0
	for _, v := range x[:n] {
		if v >= m.melt {
			hot++
		}
	}
	m.sum += float64(hot) / float64(n)
	m.samples++
}

func (m *MeltFraction) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeltFraction) Reset() {
	m.sum = 0
	m.samples = 0
}
