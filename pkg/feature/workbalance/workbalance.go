// Package workbalance contributes the objective term of spec.md §4.D: the
// variance of route durations across active routes, so the search is
// nudged toward evenly-loaded actors rather than a few long routes and
// many short ones. It has no hard constraint.
package workbalance

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// New builds the work-balance objective feature.
func New(name string) (feature.Feature, error) {
	return feature.NewBuilder(name).WithObjective(&objective{}).Build()
}

type objective struct{}

func (objective) Fitness(sol *solution.Solution) float64 {
	var durations []float64
	for _, r := range sol.Routes {
		if r.IsEmpty() {
			continue
		}
		tour := r.Tour
		durations = append(durations, tour.At(tour.Len()-1).Schedule.Departure-tour.Start().Schedule.Departure)
	}
	if len(durations) < 2 {
		return 0
	}
	var mean float64
	for _, d := range durations {
		mean += d
	}
	mean /= float64(len(durations))

	var variance float64
	for _, d := range durations {
		delta := d - mean
		variance += delta * delta
	}
	return variance / float64(len(durations))
}

// Estimate returns 0: route-duration variance has no cheap incremental
// form, since a single move can shift every route's relative share of the
// mean, so this term only shows up through Fitness.
func (o objective) Estimate(ctx feature.MoveContext) float64 {
	return 0
}

var _ feature.Objective = (*objective)(nil)
