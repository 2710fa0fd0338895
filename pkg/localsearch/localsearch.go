// Package localsearch implements component H, spec.md §4.H: moves that
// perturb an already-feasible solution in place, each guarded by the same
// constraint pipeline insertion uses, accepted only if they improve (or
// at least do not worsen) the objective and remain feasible.
package localsearch

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Move is the shared contract every local-search operator implements: try
// to improve sol in place within a bounded neighbourhood, returning
// whether any improving move was applied.
type Move interface {
	Apply(sol *solution.Solution) bool
}

// base bundles the problem every move needs for constraint/objective
// evaluation and the search radius bounding how many positions away from
// each activity a candidate move is tried (spec.md §4.H "best-improvement
// within bounded neighbourhood radius").
type base struct {
	Problem *problem.Problem
	Radius  int
}

// feasible and estimate treat a nil Target (the open tail of a tour, past
// its last activity) as having nothing to check and no cost.
func (b base) feasible(routeCtx solution.RouteContext, actCtx solution.ActivityContext) bool {
	if actCtx.Target == nil {
		return true
	}
	return b.Problem.Pipeline.Evaluate(feature.ActivityMove(routeCtx, actCtx)) == nil
}

func (b base) estimate(routeCtx solution.RouteContext, actCtx solution.ActivityContext) float64 {
	if actCtx.Target == nil {
		return 0
	}
	return b.Problem.Pipeline.Estimate(feature.ActivityMove(routeCtx, actCtx))
}

func (b base) acceptRoute(routeCtx solution.RouteContext) {
	routeCtx.Route().ClearState()
	b.Problem.Pipeline.AcceptRouteState(routeCtx)
}

func (b base) acceptSolution(sol *solution.Solution) {
	b.Problem.Pipeline.AcceptSolutionState(solution.NewSolutionContext(sol))
}
