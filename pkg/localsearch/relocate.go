package localsearch

import (
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Relocate moves one job activity from its current position to the best
// feasible position among the first Radius insertion positions of any
// route (all positions when Radius is 0), including onto a different
// route, if doing so reduces the pipeline's estimated cost.
type Relocate struct{ base }

// NewRelocate builds the relocate move.
func NewRelocate(p *problem.Problem, radius int) *Relocate {
	return &Relocate{base{Problem: p, Radius: radius}}
}

func (m *Relocate) Apply(sol *solution.Solution) bool {
	improved := false
	for srcIdx, srcRoute := range sol.Routes {
		tour := srcRoute.Tour
		for i := 0; i < tour.Len(); i++ {
			act := tour.At(i)
			if act.IsMarker() || act.Single == nil {
				continue
			}
			if m.tryRelocate(sol, srcIdx, i) {
				improved = true
			}
		}
	}
	return improved
}

// tryRelocate attempts to move the activity at index i of route srcIdx to
// its best alternative position (any route, scanning only the first
// Radius insertion positions of each), committing the move if it both remains
// feasible and reduces estimated cost.
func (m *Relocate) tryRelocate(sol *solution.Solution, srcIdx, i int) bool {
	srcRoute := sol.Routes[srcIdx]
	srcTour := srcRoute.Tour
	act := srcTour.At(i)
	single := act.Single

	srcRouteCtx := solution.NewRouteContext(srcRoute)
	srcPrev, srcNext := neighboursOf(srcTour, i)
	removalGain := m.estimate(srcRouteCtx, solution.ActivityContext{Prev: srcPrev, Target: act, Next: srcNext})

	bestGain := 0.0
	bestRouteIdx := -1
	bestPos := -1
	found := false

	for dstIdx, dstRoute := range sol.Routes {
		dstTour := dstRoute.Tour
		dstRouteCtx := solution.NewRouteContext(dstRoute)
		limit := dstTour.InsertionPositions()
		if m.Radius > 0 && limit > m.Radius {
			limit = m.Radius
		}
		for p := 0; p < limit; p++ {
			if dstIdx == srcIdx && (p == i-1 || p == i) {
				continue // reinserting at (near) its own position is not an improvement
			}
			prev := dstTour.At(p)
			var next *solution.Activity
			if p+1 < dstTour.Len() {
				next = dstTour.At(p + 1)
			}
			candidate := &solution.Activity{Single: single, PlaceIdx: act.PlaceIdx, Location: act.Location}
			actCtx := solution.ActivityContext{Prev: prev, Target: candidate, Next: next}
			if !m.feasible(dstRouteCtx, actCtx) {
				continue
			}
			insertionCost := m.estimate(dstRouteCtx, actCtx)
			netGain := removalGain - insertionCost
			if netGain > bestGain {
				bestGain, bestRouteIdx, bestPos, found = netGain, dstIdx, p, true
			}
		}
	}

	if !found {
		return false
	}

	removed := srcTour.RemoveSingle(single)
	if len(removed) == 0 {
		return false
	}
	dstRoute := sol.Routes[bestRouteIdx]
	moved := removed[0]
	dstRoute.Tour.InsertAt(bestPos, moved)

	srcRoute.ClearState()
	m.acceptRoute(solution.NewRouteContext(srcRoute))
	if bestRouteIdx != srcIdx {
		dstRoute.ClearState()
		m.acceptRoute(solution.NewRouteContext(dstRoute))
	}
	m.acceptSolution(sol)
	return true
}

func neighboursOf(tour *solution.Tour, idx int) (*solution.Activity, *solution.Activity) {
	var prev, next *solution.Activity
	if idx > 0 {
		prev = tour.At(idx - 1)
	}
	if idx+1 < tour.Len() {
		next = tour.At(idx + 1)
	}
	return prev, next
}

var _ Move = (*Relocate)(nil)
