package localsearch

import (
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Exchange swaps two job activities (possibly on different routes) if
// doing so remains feasible on both routes and reduces total estimated
// cost, bounded to pairs within Radius tour positions of each other on
// the same route (cross-route pairs are always considered, since no
// position-distance notion spans routes).
type Exchange struct{ base }

// NewExchange builds the exchange move.
func NewExchange(p *problem.Problem, radius int) *Exchange {
	return &Exchange{base{Problem: p, Radius: radius}}
}

func (m *Exchange) Apply(sol *solution.Solution) bool {
	improved := false
	for i := 0; i < len(sol.Routes); i++ {
		for j := i; j < len(sol.Routes); j++ {
			if m.tryExchangeRoutes(sol, i, j) {
				improved = true
			}
		}
	}
	return improved
}

func (m *Exchange) tryExchangeRoutes(sol *solution.Solution, i, j int) bool {
	routeA, routeB := sol.Routes[i], sol.Routes[j]
	tourA, tourB := routeA.Tour, routeB.Tour

	for ai := 0; ai < tourA.Len(); ai++ {
		actA := tourA.At(ai)
		if actA.IsMarker() || actA.Single == nil {
			continue
		}
		startB := 0
		if i == j {
			startB = ai + 1
		}
		for bi := startB; bi < tourB.Len(); bi++ {
			actB := tourB.At(bi)
			if actB.IsMarker() || actB.Single == nil || (i == j && bi == ai) {
				continue
			}
			if m.Radius > 0 && i == j && abs(bi-ai) > m.Radius {
				continue
			}
			if m.trySwap(sol, i, j, ai, bi) {
				return true
			}
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (m *Exchange) trySwap(sol *solution.Solution, routeIdxA, routeIdxB, ai, bi int) bool {
	routeA, routeB := sol.Routes[routeIdxA], sol.Routes[routeIdxB]
	tourA, tourB := routeA.Tour, routeB.Tour
	actA, actB := tourA.At(ai), tourB.At(bi)

	routeCtxA := solution.NewRouteContext(routeA)
	routeCtxB := solution.NewRouteContext(routeB)

	prevA, nextA := neighboursOf(tourA, ai)
	prevB, nextB := neighboursOf(tourB, bi)

	currentCost := m.estimate(routeCtxA, solution.ActivityContext{Prev: prevA, Target: actA, Next: nextA}) +
		m.estimate(routeCtxB, solution.ActivityContext{Prev: prevB, Target: actB, Next: nextB})

	swappedA := &solution.Activity{Single: actB.Single, PlaceIdx: actB.PlaceIdx, Location: actB.Location}
	swappedB := &solution.Activity{Single: actA.Single, PlaceIdx: actA.PlaceIdx, Location: actA.Location}

	actCtxA := solution.ActivityContext{Prev: prevA, Target: swappedA, Next: nextA}
	actCtxB := solution.ActivityContext{Prev: prevB, Target: swappedB, Next: nextB}

	if !m.feasible(routeCtxA, actCtxA) || !m.feasible(routeCtxB, actCtxB) {
		return false
	}
	newCost := m.estimate(routeCtxA, actCtxA) + m.estimate(routeCtxB, actCtxB)
	if newCost >= currentCost {
		return false
	}

	tourA.RemoveAt(ai)
	tourA.InsertAt(ai-1, swappedA)
	tourB.RemoveAt(bi)
	tourB.InsertAt(bi-1, swappedB)

	routeA.ClearState()
	m.acceptRoute(solution.NewRouteContext(routeA))
	if routeIdxA != routeIdxB {
		routeB.ClearState()
		m.acceptRoute(solution.NewRouteContext(routeB))
	}
	m.acceptSolution(sol)
	return true
}

var _ Move = (*Exchange)(nil)
