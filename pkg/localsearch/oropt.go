package localsearch

import (
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// OrOpt relocates a short chain of consecutive job activities (length 2 to
// ChainSize) as a unit to the best feasible position on another route,
// preserving the chain's internal order. On each destination route only
// the first Radius insertion positions are tried (all of them when Radius
// is 0). Chains are never moved within their own route, and single
// activities are left to Relocate, so a ChainSize of 1 moves nothing.
type OrOpt struct {
	base
	ChainSize int
}

// NewOrOpt builds the or-opt move with chains of up to chainSize activities.
func NewOrOpt(p *problem.Problem, radius, chainSize int) *OrOpt {
	if chainSize < 1 {
		chainSize = 1
	}
	return &OrOpt{base: base{Problem: p, Radius: radius}, ChainSize: chainSize}
}

func (m *OrOpt) Apply(sol *solution.Solution) bool {
	improved := false
	for srcIdx, route := range sol.Routes {
		tour := route.Tour
		for size := 2; size <= m.ChainSize; size++ {
			for i := 0; i+size <= tour.Len(); i++ {
				if !m.isJobChain(tour, i, size) {
					continue
				}
				if m.tryMoveChain(sol, srcIdx, i, size) {
					improved = true
				}
			}
		}
	}
	return improved
}

func (m *OrOpt) isJobChain(tour *solution.Tour, start, size int) bool {
	for k := start; k < start+size; k++ {
		act := tour.At(k)
		if act.IsMarker() || act.Single == nil {
			return false
		}
	}
	return true
}

// tryMoveChain attempts to relocate the chain [start, start+size) of route
// srcIdx as a contiguous unit onto the best feasible position elsewhere,
// scoring it by the travel delta of removing the whole chain versus
// inserting it, and checking feasibility of every activity in the chain at
// its new neighbours.
func (m *OrOpt) tryMoveChain(sol *solution.Solution, srcIdx, start, size int) bool {
	srcRoute := sol.Routes[srcIdx]
	srcTour := srcRoute.Tour
	srcRouteCtx := solution.NewRouteContext(srcRoute)

	chainFirst := srcTour.At(start)
	chainLast := srcTour.At(start + size - 1)
	before, _ := neighboursOf(srcTour, start)
	var after *solution.Activity
	if start+size < srcTour.Len() {
		after = srcTour.At(start + size)
	}

	removalGain := m.estimate(srcRouteCtx, solution.ActivityContext{Prev: before, Target: chainFirst}) +
		m.estimate(srcRouteCtx, solution.ActivityContext{Prev: chainLast, Target: after})

	bestGain := 0.0
	bestRouteIdx := -1
	bestPos := -1
	found := false

	for dstIdx, dstRoute := range sol.Routes {
		if dstIdx == srcIdx {
			continue // same-route chain relocation collapses to repeated Relocate/TwoOpt work
		}
		dstTour := dstRoute.Tour
		dstRouteCtx := solution.NewRouteContext(dstRoute)
		limit := dstTour.InsertionPositions()
		if m.Radius > 0 && limit > m.Radius {
			limit = m.Radius
		}
		for p := 0; p < limit; p++ {
			prev := dstTour.At(p)
			var next *solution.Activity
			if p+1 < dstTour.Len() {
				next = dstTour.At(p + 1)
			}
			if !m.chainFeasible(dstRouteCtx, prev, next, srcTour, start, size) {
				continue
			}
			insertionCost := m.chainInsertionCost(dstRouteCtx, prev, next, srcTour, start, size)
			netGain := removalGain - insertionCost
			if netGain > bestGain {
				bestGain, bestRouteIdx, bestPos, found = netGain, dstIdx, p, true
			}
		}
	}

	if !found {
		return false
	}

	chain := make([]*solution.Activity, size)
	for k := 0; k < size; k++ {
		chain[k] = srcTour.RemoveAt(start)
	}
	dstRoute := sol.Routes[bestRouteIdx]
	insertAt := bestPos
	for _, act := range chain {
		dstRoute.Tour.InsertAt(insertAt, act)
		insertAt++
	}

	srcRoute.ClearState()
	m.acceptRoute(solution.NewRouteContext(srcRoute))
	dstRoute.ClearState()
	m.acceptRoute(solution.NewRouteContext(dstRoute))
	m.acceptSolution(sol)
	return true
}

// chainFeasible checks that inserting the chain [start,start+size) between
// prev and next keeps every activity-level constraint satisfied at the
// chain's boundaries; it does not re-derive constraints between activities
// already internal to the chain, since their relative order and
// adjacencies are unchanged by the move.
func (m *OrOpt) chainFeasible(routeCtx solution.RouteContext, prev, next *solution.Activity, srcTour *solution.Tour, start, size int) bool {
	first := srcTour.At(start)
	last := srcTour.At(start + size - 1)
	if !m.feasible(routeCtx, solution.ActivityContext{Prev: prev, Target: first}) {
		return false
	}
	if !m.feasible(routeCtx, solution.ActivityContext{Prev: last, Target: next}) {
		return false
	}
	return true
}

func (m *OrOpt) chainInsertionCost(routeCtx solution.RouteContext, prev, next *solution.Activity, srcTour *solution.Tour, start, size int) float64 {
	first := srcTour.At(start)
	last := srcTour.At(start + size - 1)
	return m.estimate(routeCtx, solution.ActivityContext{Prev: prev, Target: first}) +
		m.estimate(routeCtx, solution.ActivityContext{Prev: last, Target: next})
}

var _ Move = (*OrOpt)(nil)
