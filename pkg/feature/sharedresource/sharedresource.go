// Package sharedresource implements the solution-wide hard constraint of
// spec.md §4.D: a job may declare, via Single.Dimens, that it consumes
// units of a named pooled resource (a loading dock, a charging bay) whose
// total capacity is shared across every route in the solution, not just
// the route the job lands on.
package sharedresource

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// DimensKey is the Single.Dimens entry holding the resource name a job
// consumes ("" or absent means the job consumes no shared resource).
const DimensKey = "shared_resource"

// UnitsKey is the Dimens entry holding how many units the job consumes
// (defaults to 1 when absent).
const UnitsKey = "shared_resource_units"

var usageKey = solution.RegisterStateKey() // map[string]float64, resource name -> units committed

// Code is the violation reported when a pooled resource is exhausted.
const Code feature.ViolationCode = 23

// New builds the shared-resource feature over a fixed pool of named
// capacities.
func New(name string, pool map[string]float64) (feature.Feature, error) {
	c := &constraint{pool: pool}
	s := &state{}
	return feature.NewBuilder(name).WithConstraint(c).WithState(s).Build()
}

func resourceOf(single *model.Single) (string, float64) {
	res, _ := single.Dimens[DimensKey].(string)
	if res == "" {
		return "", 0
	}
	units, ok := single.Dimens[UnitsKey].(float64)
	if !ok {
		units = 1
	}
	return res, units
}

type constraint struct{ pool map[string]float64 }

func (c *constraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.RouteLevel {
		return nil
	}
	used, _ := ctx.RouteCtx.State().Get(usageKey)
	usage, _ := used.(map[string]float64)

	for _, single := range ctx.Job.AsSingles() {
		res, units := resourceOf(single)
		if res == "" {
			continue
		}
		capacity, ok := c.pool[res]
		if !ok {
			continue
		}
		if usage[res]+units > capacity {
			return feature.Fail(Code)
		}
	}
	return nil
}

func (c *constraint) Merge(a, b model.Job) (model.Job, error) { return a, nil }

type state struct{}

func (state) AcceptInsertion(sol *solution.Solution, routeIdx int, job model.Job) {
	used, _ := sol.State().Get(usageKey)
	usage, _ := used.(map[string]float64)
	if usage == nil {
		usage = make(map[string]float64)
	}
	for _, single := range job.AsSingles() {
		res, units := resourceOf(single)
		if res == "" {
			continue
		}
		usage[res] += units
	}
	sol.State().Put(usageKey, usage)
}

func (state) AcceptRouteState(routeCtx solution.RouteContext) {
	// Nothing to re-derive from a single route in isolation: usage is
	// solution-wide and is mirrored into every route's own state cache by
	// AcceptSolutionState, below, since RouteContext carries no back-link
	// to its enclosing Solution.
}

func (state) AcceptSolutionState(solCtx solution.SolutionContext) {
	usage := make(map[string]float64)
	for _, r := range solCtx.Solution().Routes {
		for _, a := range r.Tour.Activities() {
			if a.IsMarker() || a.Single == nil {
				continue
			}
			res, units := resourceOf(a.Single)
			if res == "" {
				continue
			}
			usage[res] += units
		}
	}
	solCtx.Solution().State().Put(usageKey, usage)
	for _, r := range solCtx.Solution().Routes {
		r.State().Put(usageKey, usage)
	}
}

func (state) StateKeys() []solution.StateKey { return []solution.StateKey{usageKey} }

var (
	_ feature.Constraint = (*constraint)(nil)
	_ feature.State      = (*state)(nil)
)
