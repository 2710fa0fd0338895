package population

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/recreate"
	"github.com/binyao-or/vrp-solver/pkg/rng"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// GCSH builds a diverse initial population by running a portfolio of
// recreate strategies against independently-seeded empty solutions,
// generalizing the teacher's Greedy Constructive State Heuristic
// (_examples/mihai-snyk-descheduler/pkg/framework/plugins/multiobjective/warmstart/gsch.go),
// which swept a single weight vector
// from cost-focused to balance-focused across a scalar objective. VRP's
// objective features aren't naturally scalarizable into one weighted sum
// the way the teacher's two numeric objectives were, so here the "sweep"
// is across recreate strategies instead of weight vectors: Cheapest,
// Regret-2, Nearest and Farthest orderings each explore a different region
// of the assignment space from the same empty start, which plays the same
// diversity-seeding role GenerateWeightVectors did in the teacher.
type GCSH struct {
	Problem    *problem.Problem
	Strategies []recreate.Recreate
}

// NewGCSH builds a GCSH portfolio covering the standard recreate strategy
// spread: Cheapest, Regret-2, Nearest, Farthest.
func NewGCSH(p *problem.Problem) *GCSH {
	return &GCSH{
		Problem: p,
		Strategies: []recreate.Recreate{
			recreate.NewCheapest(p),
			recreate.NewRegret(p, 2),
			recreate.NewNearest(p),
			recreate.NewFarthest(p),
		},
	}
}

// GenerateInitialPopulation builds size solutions: one per strategy in
// round-robin order, each given a distinct per-worker RNG stream derived
// from Seed so repeated runs with the same master seed are reproducible
// (spec.md §8/§9 determinism property).
func (g *GCSH) GenerateInitialPopulation(pipeline *feature.Pipeline, masterSeed uint64, size int) []*solution.Solution {
	if len(g.Strategies) == 0 || size <= 0 {
		return nil
	}
	jobIDs := make([]string, len(g.Problem.Jobs))
	for i, j := range g.Problem.Jobs {
		jobIDs[i] = model.ID(j)
	}

	out := make([]*solution.Solution, 0, size)
	for i := 0; i < size; i++ {
		strategy := g.Strategies[i%len(g.Strategies)]
		src := rng.New64(rng.Seed(masterSeed, uint64(i)))

		sol := solution.New(g.Problem.Fleet, jobIDs)
		strategy.Run(sol, src)
		pipeline.AcceptSolutionState(solution.NewSolutionContext(sol))
		out = append(out, sol)
	}
	return out
}
