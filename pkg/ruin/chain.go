package ruin

import (
	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Chain runs several strategies in sequence against the same solution,
// letting a ruin round combine e.g. one AdjustedString pass with a
// smaller Random top-up (spec.md §4.G "composability (chaining)").
type Chain []Ruin

func (c Chain) Run(sol *solution.Solution, rng *rand.Rand) {
	for _, r := range c {
		r.Run(sol, rng)
	}
}

var _ Ruin = Chain(nil)
