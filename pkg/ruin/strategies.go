package ruin

import (
	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Worst removes the Count currently-assigned jobs with the largest
// routing-cost contribution -- the saving from removing it, approximated
// as (prev->job + job->next - prev->next) travel, the same travel-delta
// arithmetic tourlimits/objective use for insertion, run in reverse.
type Worst struct {
	Problem *problem.Problem
	Count   int
}

type worstCandidate struct {
	job  model.Job
	cost float64
}

func (w *Worst) Run(sol *solution.Solution, rng *rand.Rand) {
	var candidates []worstCandidate
	for _, route := range sol.Routes {
		tour := route.Tour
		profile := route.Actor.Profile
		for i := 1; i < tour.Len(); i++ {
			act := tour.At(i)
			if act.IsMarker() || act.Single == nil {
				continue
			}
			prev := tour.At(i - 1)
			var next *solution.Activity
			if i+1 < tour.Len() {
				next = tour.At(i + 1)
			}
			saving := w.Problem.Transport.Distance(profile, prev.Location, act.Location, prev.Schedule.Departure)
			if next != nil {
				saving += w.Problem.Transport.Distance(profile, act.Location, next.Location, act.Schedule.Departure)
				saving -= w.Problem.Transport.Distance(profile, prev.Location, next.Location, prev.Schedule.Departure)
			}
			if job, ok := w.Problem.JobByID(act.Single.ID); ok {
				candidates = append(candidates, worstCandidate{job: job, cost: saving})
			}
		}
	}

	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].cost > candidates[j-1].cost; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	n := w.Count
	if n > len(candidates) {
		n = len(candidates)
	}
	seen := make(map[string]struct{})
	for _, c := range candidates[:n] {
		id := model.ID(c.job)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		remove(sol, c.job)
	}
}

var _ Ruin = (*Worst)(nil)

// AdjustedString removes one contiguous run of activities from a randomly
// chosen non-empty route, with run length drawn uniformly up to
// MaxStringSize (itself typically set from a configured mean ruin ratio
// times the average route length -- spec.md §4.G "size from distribution
// parameterized by mean ruin ratio").
type AdjustedString struct {
	Problem       *problem.Problem
	MaxStringSize int
}

func (a *AdjustedString) Run(sol *solution.Solution, rng *rand.Rand) {
	var nonEmpty []int
	for i, route := range sol.Routes {
		if !route.IsEmpty() {
			nonEmpty = append(nonEmpty, i)
		}
	}
	if len(nonEmpty) == 0 {
		return
	}
	routeIdx := nonEmpty[rng.Intn(len(nonEmpty))]
	route := sol.Routes[routeIdx]
	tour := route.Tour

	var jobIdx []int
	for i := 0; i < tour.Len(); i++ {
		if act := tour.At(i); !act.IsMarker() && act.Single != nil {
			jobIdx = append(jobIdx, i)
		}
	}
	if len(jobIdx) == 0 {
		return
	}

	size := 1 + rng.Intn(a.MaxStringSize)
	if size > len(jobIdx) {
		size = len(jobIdx)
	}
	start := rng.Intn(len(jobIdx) - size + 1)

	for _, idx := range jobIdx[start : start+size] {
		act := tour.At(idx)
		if job, ok := a.Problem.JobByID(act.Single.ID); ok {
			remove(sol, job)
		}
	}
}

var _ Ruin = (*AdjustedString)(nil)

// Cluster removes a randomly chosen assigned job plus its Neighbours
// nearest currently-assigned neighbours (per the job's precomputed
// transit-distance neighbour list, spec.md §4.B), pulling out a whole
// geographic cluster at once.
type Cluster struct {
	Problem    *problem.Problem
	Neighbours int
}

func (c *Cluster) Run(sol *solution.Solution, rng *rand.Rand) {
	ids := allJobIDs(sol)
	if len(ids) == 0 {
		return
	}
	assigned := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		assigned[id] = struct{}{}
	}

	seedID := ids[rng.Intn(len(ids))]
	seedJob, ok := c.Problem.JobByID(seedID)
	if !ok {
		return
	}
	remove(sol, seedJob)

	profile := firstProfile(c.Problem)
	neighbours := c.Problem.Neighbours(profile, seedID)
	taken := 0
	for _, id := range neighbours {
		if taken >= c.Neighbours {
			break
		}
		if _, ok := assigned[id]; !ok {
			continue
		}
		if job, ok := c.Problem.JobByID(id); ok {
			remove(sol, job)
			taken++
		}
	}
}

var _ Ruin = (*Cluster)(nil)

// Neighbour removes every currently-assigned job within Radius positions
// of a randomly chosen seed job's neighbour list -- a softer variant of
// Cluster bounded by rank rather than a fixed take-count, so dense
// clusters yield more removals than sparse ones.
type Neighbour struct {
	Problem *problem.Problem
	Radius  int
}

func (n *Neighbour) Run(sol *solution.Solution, rng *rand.Rand) {
	ids := allJobIDs(sol)
	if len(ids) == 0 {
		return
	}
	assigned := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		assigned[id] = struct{}{}
	}

	seedID := ids[rng.Intn(len(ids))]
	seedJob, ok := n.Problem.JobByID(seedID)
	if !ok {
		return
	}
	remove(sol, seedJob)

	profile := firstProfile(n.Problem)
	neighbours := n.Problem.Neighbours(profile, seedID)
	limit := n.Radius
	if limit > len(neighbours) {
		limit = len(neighbours)
	}
	for _, id := range neighbours[:limit] {
		if _, ok := assigned[id]; !ok {
			continue
		}
		if job, ok := n.Problem.JobByID(id); ok {
			remove(sol, job)
		}
	}
}

var _ Ruin = (*Neighbour)(nil)

func firstProfile(p *problem.Problem) string {
	if len(p.Fleet.Actors) == 0 {
		return ""
	}
	return p.Fleet.Actors[0].Profile
}
