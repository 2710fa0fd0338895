package solver

import (
	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/localsearch"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/recreate"
	"github.com/binyao-or/vrp-solver/pkg/ruin"
	"github.com/binyao-or/vrp-solver/pkg/selector"
)

// radius bounds every local-search/neighbourhood-based operator's scan;
// DefaultRadius is generous enough to cover small-to-medium instances
// without the unbounded O(n^2) scan a Radius of 0 (meaning "no window"
// isn't itself representable here, so operators special-case a
// non-positive radius as "no limit") would imply. Reuse problem's
// precomputed neighbour lists where an operator accepts a neighbourhood
// size instead.
const DefaultRadius = 20

func isKnownRuinOp(name string) bool {
	switch name {
	case "random", "random_route", "worst", "adjusted_string", "cluster", "neighbour":
		return true
	}
	return false
}

func isKnownRecreateOp(name string) bool {
	switch name {
	case "cheapest", "regret_2", "regret_3", "blinks", "farthest", "nearest", "gaps", "perturbation":
		return true
	}
	return false
}

func isKnownLocalSearchMove(name string) bool {
	switch name {
	case "relocate", "exchange", "two_opt", "or_opt":
		return true
	}
	return false
}

// buildRuin resolves one named ruin operator against p, using count/size
// parameters scaled from p's job count so the same config works across
// instance sizes.
func buildRuin(name string, p *problem.Problem) ruin.Ruin {
	count := jobCountFraction(p, 0.1)
	switch name {
	case "random":
		return &ruin.Random{Problem: p, Count: count}
	case "random_route":
		return &ruin.RandomRoute{Problem: p, RouteCount: 1}
	case "worst":
		return &ruin.Worst{Problem: p, Count: count}
	case "adjusted_string":
		return &ruin.AdjustedString{Problem: p, MaxStringSize: maxInt(count, 1)}
	case "cluster":
		return &ruin.Cluster{Problem: p, Neighbours: maxInt(count, 1)}
	case "neighbour":
		return &ruin.Neighbour{Problem: p, Radius: DefaultRadius}
	}
	return nil
}

// buildRecreate resolves one named recreate operator against p.
func buildRecreate(name string, p *problem.Problem) recreate.Recreate {
	switch name {
	case "cheapest":
		return recreate.NewCheapest(p)
	case "regret_2":
		return recreate.NewRegret(p, 2)
	case "regret_3":
		return recreate.NewRegret(p, 3)
	case "blinks":
		return recreate.NewBlinks(p, DefaultBlinkProb)
	case "farthest":
		return recreate.NewFarthest(p)
	case "nearest":
		return recreate.NewNearest(p)
	case "gaps":
		return recreate.NewGaps(p)
	case "perturbation":
		return recreate.NewPerturbation(p, DefaultPerturbationMag)
	}
	return nil
}

// buildLocalSearch resolves cfg's enabled move list into localsearch.Move
// instances, in the order they'll be tried each generation.
func buildLocalSearch(cfg LocalSearchConfig, p *problem.Problem) []localsearch.Move {
	if !cfg.On {
		return nil
	}
	moves := make([]localsearch.Move, 0, len(cfg.Moves))
	for _, name := range cfg.Moves {
		switch name {
		case "relocate":
			moves = append(moves, localsearch.NewRelocate(p, DefaultRadius))
		case "exchange":
			moves = append(moves, localsearch.NewExchange(p, DefaultRadius))
		case "two_opt":
			moves = append(moves, localsearch.NewTwoOpt(p, DefaultRadius))
		case "or_opt":
			moves = append(moves, localsearch.NewOrOpt(p, DefaultRadius, 3))
		}
	}
	return moves
}

// buildSelector builds the operator-selector Cartesian product over cfg's
// enabled ruin/recreate operator names.
func buildSelector(cfg SearchConfig, p *problem.Problem, rng *rand.Rand) *selector.Selector {
	ruins := make([]selector.NamedRuin, 0, len(cfg.RuinOps))
	for _, name := range cfg.RuinOps {
		if op := buildRuin(name, p); op != nil {
			ruins = append(ruins, selector.NamedRuin{Name: name, Ruin: op})
		}
	}
	recreates := make([]selector.NamedRecreate, 0, len(cfg.RecreateOps))
	for _, name := range cfg.RecreateOps {
		if op := buildRecreate(name, p); op != nil {
			recreates = append(recreates, selector.NamedRecreate{Name: name, Recreate: op})
		}
	}
	return selector.NewEpsilonGreedyQLearning(ruins, recreates, DefaultLearningAlpha, DefaultLearningGamma, DefaultEpsilon, rng)
}

func jobCountFraction(p *problem.Problem, fraction float64) int {
	n := int(float64(len(p.Jobs)) * fraction)
	if n < 1 {
		n = 1
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
