// Package fleetusage contributes the per-route fixed-cost objective term
// of spec.md §4.D: every active route costs its actor's FixedCost once,
// regardless of how many jobs it carries, so the objective favours fewer
// routes over more routes of otherwise equal travel cost. It has no hard
// constraint -- any actor in the Registry may always open a new route.
package fleetusage

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// New builds the fleet-usage objective feature.
func New(name string) (feature.Feature, error) {
	return feature.NewBuilder(name).WithObjective(&objective{}).Build()
}

type objective struct{}

func (objective) Fitness(sol *solution.Solution) float64 {
	var total float64
	for _, r := range sol.Routes {
		if !r.IsEmpty() {
			total += r.Actor.FixedCost
		}
	}
	return total
}

func (objective) Estimate(ctx feature.MoveContext) float64 {
	if ctx.Kind != feature.RouteLevel {
		return 0
	}
	route := ctx.RouteCtx.Route()
	if route.IsEmpty() {
		return route.Actor.FixedCost
	}
	return 0
}

var _ feature.Objective = (*objective)(nil)
