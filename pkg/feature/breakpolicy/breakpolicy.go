// Package breakpolicy implements the hard constraint of spec.md §4.D:
// an actor may not be scheduled for more than MaxContinuousWork duration
// without a break activity (a synthetic Single whose Dimens marks it as a
// break) interrupting the stretch.
package breakpolicy

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// DimensKey marks a Single as a break activity (bool true) rather than a
// regular job.
const DimensKey = "is_break"

var workSinceBreakKey = solution.RegisterStateKey() // float64, duration since the route's last break (or start)

// Code is the violation reported when inserting a job would stretch
// continuous work past the actor's limit.
const Code feature.ViolationCode = 25

// Limit resolves the maximum continuous-work duration allowed for actor,
// or false if the actor has no break policy.
type Limit func(actor *model.Actor) (model.Duration, bool)

// New builds the break-policy feature.
func New(name string, limit Limit) (feature.Feature, error) {
	c := &constraint{limit: limit}
	s := &state{}
	return feature.NewBuilder(name).WithConstraint(c).WithState(s).Build()
}

func isBreak(single *model.Single) bool {
	b, _ := single.Dimens[DimensKey].(bool)
	return b
}

type constraint struct{ limit Limit }

func (c *constraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.ActivityLevel {
		return nil
	}
	target := ctx.ActivityCtx.Target
	if target == nil || target.Single == nil || isBreak(target.Single) {
		return nil
	}
	limit, ok := c.limit(ctx.RouteCtx.Route().Actor)
	if !ok {
		return nil
	}
	workSince := ctx.RouteCtx.State().GetFloat(workSinceBreakKey, 0)
	prev := ctx.ActivityCtx.Prev
	projected := workSince + (target.Schedule.Departure - prev.Schedule.Departure)
	if projected > limit {
		return feature.Fail(Code)
	}
	return nil
}

func (c *constraint) Merge(a, b model.Job) (model.Job, error) { return a, nil }

type state struct{}

func (state) AcceptInsertion(sol *solution.Solution, routeIdx int, job model.Job) {}

func (state) AcceptRouteState(routeCtx solution.RouteContext) {
	tour := routeCtx.Route().Tour
	var sinceBreak model.Duration
	for i := 1; i < tour.Len(); i++ {
		prev, cur := tour.At(i-1), tour.At(i)
		if !cur.IsMarker() && cur.Single != nil && isBreak(cur.Single) {
			sinceBreak = 0
			continue
		}
		sinceBreak += cur.Schedule.Departure - prev.Schedule.Departure
	}
	routeCtx.State().Put(workSinceBreakKey, sinceBreak)
}

func (state) AcceptSolutionState(solCtx solution.SolutionContext) {}

func (state) StateKeys() []solution.StateKey { return []solution.StateKey{workSinceBreakKey} }

var (
	_ feature.Constraint = (*constraint)(nil)
	_ feature.State      = (*state)(nil)
)
