// Package objective implements the remaining core objective features of
// spec.md §4.D: MinimiseUnassigned, MinimiseTours and MinimiseCost. All
// three have no hard constraint; they only contribute to the fitness
// vector aggregated by the multi-objective machinery (§4.I).
package objective

import (
	"github.com/binyao-or/vrp-solver/pkg/cost"
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// NewMinimiseUnassigned penalises each job left in Solution.Unassigned.
func NewMinimiseUnassigned(name string, penaltyPerJob float64) (feature.Feature, error) {
	return feature.NewBuilder(name).WithObjective(&minimiseUnassigned{penalty: penaltyPerJob}).Build()
}

type minimiseUnassigned struct{ penalty float64 }

func (m *minimiseUnassigned) Fitness(sol *solution.Solution) float64 {
	return float64(len(sol.Unassigned)) * m.penalty
}

func (m *minimiseUnassigned) Estimate(ctx feature.MoveContext) float64 {
	if ctx.Kind != feature.RouteLevel {
		return 0
	}
	return -m.penalty // successfully routing a job removes it from Unassigned
}

// NewMinimiseTours penalises each active (non-empty) route, nudging the
// search toward consolidating jobs onto fewer actors beyond what
// FleetUsage's flat per-route fixed cost already captures.
func NewMinimiseTours(name string, penaltyPerTour float64) (feature.Feature, error) {
	return feature.NewBuilder(name).WithObjective(&minimiseTours{penalty: penaltyPerTour}).Build()
}

type minimiseTours struct{ penalty float64 }

func (m *minimiseTours) Fitness(sol *solution.Solution) float64 {
	var n float64
	for _, r := range sol.Routes {
		if !r.IsEmpty() {
			n++
		}
	}
	return n * m.penalty
}

func (m *minimiseTours) Estimate(ctx feature.MoveContext) float64 {
	if ctx.Kind != feature.RouteLevel {
		return 0
	}
	if ctx.RouteCtx.Route().IsEmpty() {
		return m.penalty
	}
	return 0
}

// NewMinimiseCost sums every route's travel distance/time cost, weighted
// by the actor's DistCost/TimeCost coefficients.
func NewMinimiseCost(name string, transport cost.Transport) (feature.Feature, error) {
	return feature.NewBuilder(name).WithObjective(&minimiseCost{transport: transport}).Build()
}

type minimiseCost struct{ transport cost.Transport }

func (m *minimiseCost) Fitness(sol *solution.Solution) float64 {
	var total float64
	for _, r := range sol.Routes {
		tour := r.Tour
		profile := r.Actor.Profile
		for i := 1; i < tour.Len(); i++ {
			prev, cur := tour.At(i-1), tour.At(i)
			dist := m.transport.Distance(profile, prev.Location, cur.Location, prev.Schedule.Departure)
			dur := cur.Schedule.Arrival - prev.Schedule.Departure
			total += dist*r.Actor.DistCost + dur*r.Actor.TimeCost
		}
	}
	return total
}

func (m *minimiseCost) Estimate(ctx feature.MoveContext) float64 {
	if ctx.Kind != feature.ActivityLevel {
		return 0
	}
	actor := ctx.RouteCtx.Route().Actor
	profile := actor.Profile
	prev, target, next := ctx.ActivityCtx.Prev, ctx.ActivityCtx.Target, ctx.ActivityCtx.Next

	prevToTarget := m.transport.Distance(profile, prev.Location, target.Location, prev.Schedule.Departure)
	if next == nil {
		return prevToTarget * actor.DistCost
	}
	targetToNext := m.transport.Distance(profile, target.Location, next.Location, target.Schedule.Departure)
	prevToNext := m.transport.Distance(profile, prev.Location, next.Location, prev.Schedule.Departure)
	return (prevToTarget + targetToNext - prevToNext) * actor.DistCost
}

var (
	_ feature.Objective = (*minimiseUnassigned)(nil)
	_ feature.Objective = (*minimiseTours)(nil)
	_ feature.Objective = (*minimiseCost)(nil)
)
