package localsearch

import (
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// TwoOpt reverses a contiguous segment of a single route's tour when doing
// so remains feasible and reduces estimated cost, the classic fix for
// crossing edges. Segment length is bounded by Radius positions from the
// segment start to keep the scan local.
type TwoOpt struct{ base }

// NewTwoOpt builds the 2-opt move.
func NewTwoOpt(p *problem.Problem, radius int) *TwoOpt {
	return &TwoOpt{base{Problem: p, Radius: radius}}
}

func (m *TwoOpt) Apply(sol *solution.Solution) bool {
	improved := false
	for _, route := range sol.Routes {
		if m.tryRoute(sol, route) {
			improved = true
		}
	}
	return improved
}

func (m *TwoOpt) tryRoute(sol *solution.Solution, route *solution.Route) bool {
	tour := route.Tour
	n := tour.Len()
	if n < 4 {
		return false
	}
	for i := 1; i < n-2; i++ {
		jLimit := n - 1
		if m.Radius > 0 && i+m.Radius < jLimit {
			jLimit = i + m.Radius
		}
		for j := i + 1; j < jLimit; j++ {
			if m.tryReverse(sol, route, i, j) {
				return true
			}
		}
	}
	return false
}

// tryReverse considers reversing the segment [i, j] of the route's tour
// (both endpoints are non-marker activities), which reconnects the edges
// (i-1,i) and (j,j+1) as (i-1,j) and (i,j+1) while leaving everything
// inside the segment in reverse order.
func (m *TwoOpt) tryReverse(sol *solution.Solution, route *solution.Route, i, j int) bool {
	tour := route.Tour
	routeCtx := solution.NewRouteContext(route)

	before := tour.At(i - 1)
	segStart := tour.At(i)
	segEnd := tour.At(j)
	var after *solution.Activity
	if j+1 < tour.Len() {
		after = tour.At(j + 1)
	}

	currentCost := m.estimate(routeCtx, solution.ActivityContext{Prev: before, Target: segStart}) +
		m.estimate(routeCtx, solution.ActivityContext{Prev: segEnd, Target: after})
	newCost := m.estimate(routeCtx, solution.ActivityContext{Prev: before, Target: segEnd}) +
		m.estimate(routeCtx, solution.ActivityContext{Prev: segStart, Target: after})
	if newCost >= currentCost {
		return false
	}

	reversed := make([]*solution.Activity, j-i+1)
	for k := i; k <= j; k++ {
		reversed[j-k] = tour.At(k)
	}
	for k := i; k <= j; k++ {
		tour.Activities()[k] = reversed[k-i]
	}

	if !m.routeFeasible(route) {
		for k := i; k <= j; k++ {
			tour.Activities()[k] = reversed[j-k]
		}
		return false
	}

	route.ClearState()
	m.acceptRoute(solution.NewRouteContext(route))
	m.acceptSolution(sol)
	return true
}

// routeFeasible re-checks every activity-level constraint along the whole
// tour after an in-place reversal, since a segment swap can affect more
// than the two reconnected edges (e.g. cumulative capacity, time-window
// slack).
func (m *TwoOpt) routeFeasible(route *solution.Route) bool {
	tour := route.Tour
	routeCtx := solution.NewRouteContext(route)
	for k := 1; k < tour.Len(); k++ {
		prev := tour.At(k - 1)
		target := tour.At(k)
		var next *solution.Activity
		if k+1 < tour.Len() {
			next = tour.At(k + 1)
		}
		if !m.feasible(routeCtx, solution.ActivityContext{Prev: prev, Target: target, Next: next}) {
			return false
		}
	}
	return true
}

var _ Move = (*TwoOpt)(nil)
