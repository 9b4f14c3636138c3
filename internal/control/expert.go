package control

import (
	"fmt"
	"slices"
	"sort"

	"github.com/san-kum/thermoscan/internal/linalg"
)

// Expert is the greedy one-step policy over a precomputed Law.
type Expert struct {
	law *Law
}

func NewExpert(law *Law) *Expert {
	return &Expert{law: law}
}

// Rank returns all control indices ordered by ascending cost at x. Equal
// costs keep ascending index order.
func (e *Expert) Rank(x linalg.Vector) ([]int, linalg.Vector, error) {
	cost, err := e.law.Cost(x)
	if err != nil {
		return nil, nil, err
	}
	order := make([]int, len(cost))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cost[order[a]] < cost[order[b]]
	})
	return order, cost, nil
}

// Choose returns the 0-based control of the cheapest island in remaining.
// remaining holds 1-based island indices.
func (e *Expert) Choose(x linalg.Vector, remaining []int) (int, error) {
	if len(remaining) == 0 {
		return 0, ErrNoCandidates
	}
	order, _, err := e.Rank(x)
	if err != nil {
		return 0, fmt.Errorf("rank controls: %w", err)
	}
	for _, k := range order {
		if slices.Contains(remaining, k+1) {
			return k, nil
		}
	}
	return 0, ErrNoCandidates
}
