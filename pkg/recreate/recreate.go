// Package recreate implements component F, spec.md §4.F: strategies that
// take a solution with some jobs unassigned and insert as many as
// possible back in, each varying the job-selection order and/or the
// scoring noise layered on top of insertion.Context.
package recreate

import (
	"sort"

	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/insertion"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Recreate is the shared contract every strategy implements: run over
// sol, inserting unassigned jobs in whatever order and with whatever
// scoring the strategy prescribes, leaving any job that fails every route
// on Unassigned with the worst reason code observed.
type Recreate interface {
	Run(sol *solution.Solution, rng *rand.Rand)
}

// base bundles the inputs shared by every strategy below.
type base struct {
	Problem *problem.Problem
}

func (b base) insertionContext(rng *rand.Rand, noise func(rng *rand.Rand, raw float64) float64) insertion.Context {
	return insertion.Context{Problem: b.Problem, RNG: rng, Noise: noise}
}

func unassignedJobs(p *problem.Problem, sol *solution.Solution) []model.Job {
	jobs := make([]model.Job, 0, len(sol.Unassigned))
	ids := make([]string, 0, len(sol.Unassigned))
	for id := range sol.Unassigned {
		ids = append(ids, id)
	}
	sort.Strings(ids) // arbitrary-but-deterministic order, per spec.md §4.F "Cheapest"
	for _, id := range ids {
		if j, ok := p.JobByID(id); ok {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

func attempt(ic insertion.Context, sol *solution.Solution, job model.Job) {
	result := ic.Insert(sol, job)
	if !result.Success {
		for _, single := range job.AsSingles() {
			if existing, ok := sol.Unassigned[single.ID]; !ok || result.Reason > existing {
				sol.MarkUnassigned(single.ID, result.Reason)
			}
		}
	}
}

// Cheapest iterates unassigned jobs in deterministic order, inserting
// each at its globally cheapest feasible (route, position).
type Cheapest struct{ base }

// NewCheapest builds the Cheapest recreate strategy.
func NewCheapest(p *problem.Problem) *Cheapest { return &Cheapest{base{Problem: p}} }

func (c *Cheapest) Run(sol *solution.Solution, rng *rand.Rand) {
	ic := c.insertionContext(rng, nil)
	for _, job := range unassignedJobs(c.Problem, sol) {
		attempt(ic, sol, job)
	}
}

var _ Recreate = (*Cheapest)(nil)
