package insertion

import (
	"sort"

	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// RouteRank is one route's best feasible insertion cost for a job,
// without committing anything -- the read-only evaluation Regret-k (and
// similar strategies) need to compare a job's best route against its
// runner-up.
type RouteRank struct {
	RouteIdx int
	Cost     float64
}

// RankRoutes evaluates every route's cheapest feasible position for job
// and returns the feasible ones sorted ascending by cost, without
// mutating sol. Used by recreate.Regret to compute (cost_2 - cost_1)
// across the top-k routes per job (spec.md §4.F).
func (ic Context) RankRoutes(sol *solution.Solution, job model.Job) []RouteRank {
	singles := job.AsSingles()
	var ranks []RouteRank

	for routeIdx, route := range sol.Routes {
		routeCtx := solution.NewRouteContext(route)
		if v := ic.Problem.Pipeline.Evaluate(feature.RouteMove(routeCtx, job)); v != nil {
			continue
		}

		var cost float64
		var ok bool
		if len(singles) == 1 {
			cost, ok = ic.bestPositionCost(routeCtx, singles[0])
		} else {
			_, cost, ok = ic.searchMulti(routeCtx, singles)
		}
		if ok {
			ranks = append(ranks, RouteRank{RouteIdx: routeIdx, Cost: cost})
		}
	}

	sort.Slice(ranks, func(i, j int) bool { return ranks[i].Cost < ranks[j].Cost })
	return ranks
}

func (ic Context) bestPositionCost(routeCtx solution.RouteContext, single *model.Single) (float64, bool) {
	tour := routeCtx.Route().Tour
	profile := routeCtx.Route().Actor.Profile
	var best float64
	found := false

	for p := 0; p < tour.InsertionPositions(); p++ {
		prev := tour.At(p)
		var next *solution.Activity
		if p+1 < tour.Len() {
			next = tour.At(p + 1)
		}
		for placeIdx, place := range single.Places {
			target := &solution.Activity{Single: single, PlaceIdx: placeIdx, Location: place.Location}
			ic.schedule(target, prev, profile)

			actCtx := solution.ActivityContext{Prev: prev, Target: target, Next: next}
			v := ic.Problem.Pipeline.Evaluate(feature.ActivityMove(routeCtx, actCtx))
			if v != nil {
				continue
			}
			raw := ic.Problem.Pipeline.Estimate(feature.ActivityMove(routeCtx, actCtx))
			cost := ic.noise(raw)
			if !found || cost < best {
				best, found = cost, true
			}
		}
	}
	return best, found
}
