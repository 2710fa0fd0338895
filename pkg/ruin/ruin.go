// Package ruin implements component G, spec.md §4.G: strategies that
// remove a subset of jobs from a solution's routes back onto Unassigned,
// to be handed to a recreate strategy afterward. A Ruin never mutates
// Solution.Unassigned's reason codes (there is nothing to report: the job
// was feasibly placed a moment ago) and never deletes a Route; an emptied
// route is left in place for Solution.RemoveRoute to reclaim, or for
// recreate to refill.
package ruin

import (
	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Ruin is the shared contract every strategy implements.
type Ruin interface {
	Run(sol *solution.Solution, rng *rand.Rand)
}

// remove detaches job's activities from whichever route carries them and
// marks it unassigned, the common tail end of every strategy below.
func remove(sol *solution.Solution, job model.Job) {
	for _, single := range job.AsSingles() {
		for _, route := range sol.Routes {
			removed := route.Tour.RemoveSingle(single)
			if len(removed) > 0 {
				route.ClearState()
			}
		}
		sol.MarkUnassigned(single.ID, solution.NoReason)
	}
}

// allJobIDs lists every job currently assigned to some route, in
// solution-iteration order.
func allJobIDs(sol *solution.Solution) []string {
	var ids []string
	for _, route := range sol.Routes {
		for _, act := range route.Tour.Activities() {
			if !act.IsMarker() && act.Single != nil {
				ids = append(ids, act.Single.ID)
			}
		}
	}
	return ids
}

// Random removes a fixed count of uniformly-chosen assigned jobs.
type Random struct {
	Problem *problem.Problem
	Count   int
}

func (r *Random) Run(sol *solution.Solution, rng *rand.Rand) {
	ids := allJobIDs(sol)
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	n := r.Count
	if n > len(ids) {
		n = len(ids)
	}
	for _, id := range ids[:n] {
		if job, ok := r.Problem.JobByID(id); ok {
			remove(sol, job)
		}
	}
}

var _ Ruin = (*Random)(nil)

// RandomRoute removes every job on a fixed count of uniformly-chosen
// active routes (coarser-grained than Random, which picks individual
// jobs).
type RandomRoute struct {
	Problem    *problem.Problem
	RouteCount int
}

func (r *RandomRoute) Run(sol *solution.Solution, rng *rand.Rand) {
	active := make([]int, 0, len(sol.Routes))
	for i, route := range sol.Routes {
		if !route.IsEmpty() {
			active = append(active, i)
		}
	}
	rng.Shuffle(len(active), func(i, j int) { active[i], active[j] = active[j], active[i] })
	n := r.RouteCount
	if n > len(active) {
		n = len(active)
	}
	for _, idx := range active[:n] {
		route := sol.Routes[idx]
		ids := make([]string, 0)
		for _, act := range route.Tour.Activities() {
			if !act.IsMarker() && act.Single != nil {
				ids = append(ids, act.Single.ID)
			}
		}
		for _, id := range ids {
			if job, ok := r.Problem.JobByID(id); ok {
				remove(sol, job)
			}
		}
	}
}

var _ Ruin = (*RandomRoute)(nil)
