// Package timewindow implements the time-window hard constraint of
// spec.md §4.D: an activity may only start service inside one of its
// job's declared windows, and inserting it must not push any later
// activity past its own window.
//
// Feasibility is checked in O(1) per candidate position using a
// backward-propagated "latest allowed arrival" slack per activity, the
// standard VRPTW technique also used by vrp-core (the Rust project this
// module's spec was distilled from); AcceptRouteState recomputes the
// slack array the same way the teacher's tour_limits state recomputes its
// running totals.
package timewindow

import (
	"math"

	"github.com/binyao-or/vrp-solver/pkg/cost"
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

var latestArrivalKey = solution.RegisterStateKey() // []model.Timestamp, per activity index

// Code is the violation reported when no window admits the candidate
// activity, or the insertion would push a later activity past its own
// window.
const Code feature.ViolationCode = 2

// New builds the time-window feature over the given transport and
// activity-cost calculator.
func New(name string, transport cost.Transport, activity cost.Activity) (feature.Feature, error) {
	c := &constraint{transport: transport, activity: activity}
	s := &state{transport: transport, activity: activity}
	return feature.NewBuilder(name).WithConstraint(c).WithState(s).Build()
}

type constraint struct {
	transport cost.Transport
	activity  cost.Activity
}

func (c *constraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.ActivityLevel {
		return nil
	}
	target := ctx.ActivityCtx.Target
	if target == nil || target.Single == nil {
		return nil
	}
	profile := ctx.RouteCtx.Route().Actor.Profile
	prev := ctx.ActivityCtx.Prev

	arrival := c.activity.ArrivalTime(c.transport, profile, prev.Location, target.Location, prev.Schedule.Departure)

	place := target.Single.Places[target.PlaceIdx]
	window, ok := bestWindow(place.TimeWindows, arrival)
	if !ok {
		return feature.Fail(Code)
	}
	departure := c.activity.DepartureTime(arrival, window, place.Duration)

	if next := ctx.ActivityCtx.Next; next != nil {
		travel := c.transport.Duration(profile, target.Location, next.Location, departure)
		bound := latestArrivalAt(ctx.RouteCtx.State(), indexOfNext(ctx.RouteCtx.Route().Tour, next))
		if departure+travel > bound {
			return feature.Fail(Code)
		}
	}
	return nil
}

func (c *constraint) Merge(a, b model.Job) (model.Job, error) { return a, nil }

// bestWindow picks the earliest window that admits arrival, waiting if
// necessary; returns false if arrival is already past every window's end.
func bestWindow(windows []model.TimeWindow, arrival model.Timestamp) (model.TimeWindow, bool) {
	var best model.TimeWindow
	found := false
	for _, w := range windows {
		if arrival >= w.End {
			continue
		}
		if !found || w.Start < best.Start {
			best, found = w, true
		}
	}
	return best, found
}

func indexOfNext(t *solution.Tour, next *solution.Activity) int {
	for i := 0; i < t.Len(); i++ {
		if t.At(i) == next {
			return i
		}
	}
	return t.Len() - 1
}

func latestArrivalAt(state *solution.RouteState, idx int) model.Timestamp {
	v, ok := state.Get(latestArrivalKey)
	if !ok {
		return math.Inf(1)
	}
	bounds := v.([]model.Timestamp)
	if idx < 0 || idx >= len(bounds) {
		return math.Inf(1)
	}
	return bounds[idx]
}

type state struct {
	transport cost.Transport
	activity  cost.Activity
}

func (state) AcceptInsertion(sol *solution.Solution, routeIdx int, job model.Job) {}

func (s *state) AcceptRouteState(routeCtx solution.RouteContext) {
	tour := routeCtx.Route().Tour
	n := tour.Len()
	bounds := make([]model.Timestamp, n)
	profile := routeCtx.Route().Actor.Profile

	last := tour.At(n - 1)
	bounds[n-1] = ownWindowEnd(last)

	for i := n - 2; i >= 0; i-- {
		act := tour.At(i)
		next := tour.At(i + 1)
		travel := s.transport.Duration(profile, act.Location, next.Location, act.Schedule.Departure)
		bound := bounds[i+1] - travel - act.Duration
		if own := ownWindowEnd(act); own < bound {
			bound = own
		}
		bounds[i] = bound
	}
	routeCtx.State().Put(latestArrivalKey, bounds)
}

func ownWindowEnd(act *solution.Activity) model.Timestamp {
	if act.IsMarker() || act.Single == nil {
		return math.Inf(1)
	}
	place := act.Single.Places[act.PlaceIdx]
	end := math.Inf(1)
	for _, w := range place.TimeWindows {
		if w.End < end {
			end = w.End
		}
	}
	return end
}

func (state) AcceptSolutionState(solCtx solution.SolutionContext) {}

func (state) StateKeys() []solution.StateKey { return []solution.StateKey{latestArrivalKey} }

var (
	_ feature.Constraint = (*constraint)(nil)
	_ feature.State      = (*state)(nil)
)
