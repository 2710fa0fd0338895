// Package insertion implements component E, spec.md §4.E: given a
// (solution, job), find the cheapest feasible (route, position) and
// commit it atomically, or report why every route failed.
package insertion

import (
	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Result is the outcome of attempting to insert one job.
type Result struct {
	Success bool
	// Populated when Success is true.
	RouteIdx int
	Cost     float64
	// Populated when Success is false: the code of the last Stopped
	// violation observed across every route tried, or of the first
	// violation observed if none was Stopped. Codes are not compared with
	// each other.
	Reason feature.ViolationCode
}

// Context bundles the shared, read-only inputs every insertion attempt
// needs: the problem, the RNG for noise/blink draws (spec.md §4.E:
// "whenever a pseudo-random choice enters ... it is drawn from the
// search's injected RNG"), and an optional noise function layered on top
// of the raw objective estimate (used by recreate strategies like Blinks
// that need to perturb scoring without duplicating this package's
// position-enumeration logic).
type Context struct {
	Problem *problem.Problem
	RNG     *rand.Rand
	// Noise, if non-nil, is added to the raw Pipeline.Estimate cost for
	// each candidate position before ranking. Returning 0 reproduces
	// plain cheapest-insertion behaviour.
	Noise func(rng *rand.Rand, raw float64) float64
}

// candidate is one feasible (route, position) found during enumeration.
type candidate struct {
	routeIdx int
	position int
	place    int // index into single.Places
	cost     float64
}

// Insert attempts to place job into sol, returning the outcome. On
// success the job's activities are already spliced into the chosen
// route and accept_route_state/accept_solution_state have been invoked;
// the caller is responsible for removing the job from sol.Unassigned
// (mirroring spec.md §4.E step 5, which insertion does not itself own
// since recreate strategies decide whether a partial Multi failure should
// still mark constituent singles unassigned).
func (ic Context) Insert(sol *solution.Solution, job model.Job) Result {
	singles := job.AsSingles()
	if len(singles) == 1 {
		return ic.insertSingle(sol, job, singles[0])
	}
	return ic.insertMulti(sol, job, singles)
}

func (ic Context) noise(raw float64) float64 {
	if ic.Noise == nil {
		return raw
	}
	return ic.Noise(ic.RNG, raw)
}

// insertSingle finds the cheapest feasible position across every route
// for a single-job insertion (spec.md §4.E steps 1-3).
func (ic Context) insertSingle(sol *solution.Solution, job model.Job, single *model.Single) Result {
	var (
		best     candidate
		found    bool
		worst    feature.ViolationCode
		worstSet bool
	)

	for routeIdx, route := range sol.Routes {
		routeCtx := solution.NewRouteContext(route)
		if v := ic.Problem.Pipeline.Evaluate(feature.RouteMove(routeCtx, job)); v != nil {
			if !worstSet || v.Stopped {
				worst, worstSet = v.Code, true
			}
			continue
		}

		tour := route.Tour
		stopped := false
		for p := 0; p < tour.InsertionPositions() && !stopped; p++ {
			prev := tour.At(p)
			var next *solution.Activity
			if p+1 < tour.Len() {
				next = tour.At(p + 1)
			}

			for placeIdx, place := range single.Places {
				target := &solution.Activity{
					Single:   single,
					PlaceIdx: placeIdx,
					Location: place.Location,
				}
				ic.schedule(target, prev, route.Actor.Profile)

				actCtx := solution.ActivityContext{Prev: prev, Target: target, Next: next}
				v := ic.Problem.Pipeline.Evaluate(feature.ActivityMove(routeCtx, actCtx))
				if v != nil {
					if v.Stopped {
						stopped = true
					}
					if !worstSet || v.Stopped {
						worst, worstSet = v.Code, true
					}
					continue
				}

				raw := ic.Problem.Pipeline.Estimate(feature.ActivityMove(routeCtx, actCtx))
				c := candidate{routeIdx: routeIdx, position: p, place: placeIdx, cost: ic.noise(raw)}
				if !found || c.cost < best.cost {
					best, found = c, true
				}
			}
		}
	}

	if !found {
		return Result{Success: false, Reason: worst}
	}

	route := sol.Routes[best.routeIdx]
	prev := route.Tour.At(best.position)
	target := solution.Activity{Single: single, PlaceIdx: best.place, Location: single.Places[best.place].Location}
	ic.schedule(&target, prev, route.Actor.Profile)
	route.Tour.InsertAt(best.position, &target)

	ic.commit(sol, best.routeIdx, job)
	return Result{Success: true, RouteIdx: best.routeIdx, Cost: best.cost}
}

// insertMulti enumerates weakly-increasing position sequences for the
// Multi's Singles via depth-first search pruned by activity-level
// constraints (spec.md §4.E step 4), committing all-or-nothing.
func (ic Context) insertMulti(sol *solution.Solution, job model.Job, singles []*model.Single) Result {
	var (
		bestRouteIdx int
		bestPlaces   []placement
		bestCost     float64
		found        bool
		worst        feature.ViolationCode
		worstSet     bool
	)

	for routeIdx, route := range sol.Routes {
		routeCtx := solution.NewRouteContext(route)
		if v := ic.Problem.Pipeline.Evaluate(feature.RouteMove(routeCtx, job)); v != nil {
			if !worstSet || v.Stopped {
				worst, worstSet = v.Code, true
			}
			continue
		}

		placements, cost, ok := ic.searchMulti(routeCtx, singles)
		if !ok {
			continue
		}
		if !found || cost < bestCost {
			bestRouteIdx, bestPlaces, bestCost, found = routeIdx, placements, cost, true
		}
	}

	if !found {
		return Result{Success: false, Reason: worst}
	}

	route := sol.Routes[bestRouteIdx]
	// Insert in descending position order so earlier indices remain valid
	// as later insertions splice new activities in.
	for i := len(bestPlaces) - 1; i >= 0; i-- {
		pl := bestPlaces[i]
		act := &solution.Activity{Single: pl.single, PlaceIdx: pl.placeIdx, Location: pl.single.Places[pl.placeIdx].Location}
		prev := route.Tour.At(pl.position)
		ic.schedule(act, prev, route.Actor.Profile)
		route.Tour.InsertAt(pl.position, act)
	}

	ic.commit(sol, bestRouteIdx, job)
	return Result{Success: true, RouteIdx: bestRouteIdx, Cost: bestCost}
}

type placement struct {
	single   *model.Single
	placeIdx int
	position int
}

// searchMulti performs the weakly-increasing-position DFS for one route:
// the k-th single must land at a position >= the (k-1)-th's, preserving
// the Multi's declared order.
func (ic Context) searchMulti(routeCtx solution.RouteContext, singles []*model.Single) ([]placement, float64, bool) {
	tour := routeCtx.Route().Tour
	profile := routeCtx.Route().Actor.Profile

	var best []placement
	var bestCost float64
	found := false

	var dfs func(idx int, minPos int, acc []placement, accCost float64)
	dfs = func(idx int, minPos int, acc []placement, accCost float64) {
		if idx == len(singles) {
			if !found || accCost < bestCost {
				best = append([]placement(nil), acc...)
				bestCost, found = accCost, true
			}
			return
		}
		single := singles[idx]
		for p := minPos; p < tour.InsertionPositions(); p++ {
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
					if v.Stopped {
						break
					}
					continue
				}
				raw := ic.Problem.Pipeline.Estimate(feature.ActivityMove(routeCtx, actCtx))
				dfs(idx+1, p, append(acc, placement{single: single, placeIdx: placeIdx, position: p}), accCost+ic.noise(raw))
			}
		}
	}
	dfs(0, 0, nil, 0)
	return best, bestCost, found
}

// schedule fills in target's Schedule given it would follow prev on
// profile, using the problem's activity-cost calculator.
func (ic Context) schedule(target *solution.Activity, prev *solution.Activity, profile string) {
	arrival := ic.Problem.Activity.ArrivalTime(ic.Problem.Transport, profile, prev.Location, target.Location, prev.Schedule.Departure)
	var window model.TimeWindow
	if target.Single != nil {
		windows := target.Single.Places[target.PlaceIdx].TimeWindows
		if len(windows) > 0 {
			window = windows[0]
		}
		target.Duration = target.Single.Places[target.PlaceIdx].Duration
	}
	departure := ic.Problem.Activity.DepartureTime(arrival, window, target.Duration)
	target.Schedule = model.Schedule{Arrival: arrival, Departure: departure}
}

// commit performs spec.md §4.E step 5: splice already done by the caller,
// here we re-derive route and solution state and drop job from
// Unassigned.
func (ic Context) commit(sol *solution.Solution, routeIdx int, job model.Job) {
	route := sol.Routes[routeIdx]
	route.ClearState()
	routeCtx := solution.NewRouteContext(route)
	ic.Problem.Pipeline.AcceptRouteState(routeCtx)
	ic.Problem.Pipeline.AcceptInsertion(sol, routeIdx, job)
	ic.Problem.Pipeline.AcceptSolutionState(solution.NewSolutionContext(sol))
	sol.MarkAssigned(model.ID(job))
}
