// Package capacity implements the multi-dimensional load constraint of
// spec.md §4.D: a job may not be inserted if doing so would push the
// carried load, now or at any later point in the route, past the actor's
// Capacity on any dimension.
//
// The running-load bookkeeping is grounded on the teacher's tour_limits.go
// RouteState caching pattern (a dense StateKey holding a precomputed
// per-activity value, re-derived wholesale by AcceptRouteState rather than
// patched incrementally).
package capacity

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

var (
	loadAfterKey    = solution.RegisterStateKey() // []model.Demand, cumulative load after each activity
	maxLoadFromKey  = solution.RegisterStateKey() // []model.Demand, component-wise max of loadAfter[i:]
)

// Code is the violation code reported on capacity overrun.
const Code feature.ViolationCode = 1

// New builds the capacity feature. name distinguishes it in logs and
// pipeline dependency declarations when a problem registers more than one
// (unusual, but not forbidden).
func New(name string) (feature.Feature, error) {
	c := &constraint{}
	s := &state{}
	return feature.NewBuilder(name).WithConstraint(c).WithState(s).Build()
}

func demandOf(job model.Job) model.Demand {
	var total model.Demand
	for _, single := range job.AsSingles() {
		total = total.Add(single.Demand)
	}
	return total
}

func componentMax(a, b model.Demand) model.Demand {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(model.Demand, n)
	for i := 0; i < n; i++ {
		var av, bv float64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av > bv {
			out[i] = av
		} else {
			out[i] = bv
		}
	}
	return out
}

func shift(d model.Demand, by model.Demand) model.Demand {
	return d.Add(by)
}

type constraint struct{}

func (constraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.ActivityLevel {
		return nil
	}
	route := ctx.RouteCtx.Route()
	state := ctx.RouteCtx.State()

	jobDemand := model.Demand(nil)
	if ctx.ActivityCtx.Target != nil && ctx.ActivityCtx.Target.Single != nil {
		jobDemand = ctx.ActivityCtx.Target.Single.Demand
	}

	prevIdx := indexOf(route.Tour, ctx.ActivityCtx.Prev)
	loadAtPrev := loadAt(state, prevIdx)
	loadAfterInsert := shift(loadAtPrev, jobDemand)
	if route.Actor.Capacity.Exceeds(loadAfterInsert) {
		return feature.Fail(Code)
	}

	maxSuffix := maxSuffixFrom(state, prevIdx+1)
	projectedSuffix := shift(maxSuffix, jobDemand)
	if route.Actor.Capacity.Exceeds(componentMax(loadAfterInsert, projectedSuffix)) {
		return feature.Fail(Code)
	}
	return nil
}

func (constraint) Merge(a, b model.Job) (model.Job, error) { return a, nil }

func indexOf(t *solution.Tour, target *solution.Activity) int {
	for i := 0; i < t.Len(); i++ {
		if t.At(i) == target {
			return i
		}
	}
	return 0
}

func loadAt(state *solution.RouteState, idx int) model.Demand {
	v, ok := state.Get(loadAfterKey)
	if !ok {
		return nil
	}
	loads := v.([]model.Demand)
	if idx < 0 || idx >= len(loads) {
		return nil
	}
	return loads[idx]
}

func maxSuffixFrom(state *solution.RouteState, idx int) model.Demand {
	v, ok := state.Get(maxLoadFromKey)
	if !ok {
		return nil
	}
	maxes := v.([]model.Demand)
	if idx < 0 || idx >= len(maxes) {
		return nil
	}
	return maxes[idx]
}

type state struct{}

func (state) AcceptInsertion(sol *solution.Solution, routeIdx int, job model.Job) {}

func (state) AcceptRouteState(routeCtx solution.RouteContext) {
	tour := routeCtx.Route().Tour
	n := tour.Len()
	loadAfter := make([]model.Demand, n)
	var running model.Demand
	for i := 0; i < n; i++ {
		act := tour.At(i)
		if !act.IsMarker() && act.Single != nil {
			running = running.Add(act.Single.Demand)
		}
		loadAfter[i] = running
	}
	maxFrom := make([]model.Demand, n)
	var runningMax model.Demand
	for i := n - 1; i >= 0; i-- {
		runningMax = componentMax(runningMax, loadAfter[i])
		maxFrom[i] = runningMax
	}
	routeCtx.State().Put(loadAfterKey, loadAfter)
	routeCtx.State().Put(maxLoadFromKey, maxFrom)
}

func (state) AcceptSolutionState(solCtx solution.SolutionContext) {}

func (state) StateKeys() []solution.StateKey {
	return []solution.StateKey{loadAfterKey, maxLoadFromKey}
}

var (
	_ feature.Constraint = constraint{}
	_ feature.State      = state{}
)
