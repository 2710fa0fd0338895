// Package reachablejobs implements the pruning hard constraint of spec.md
// §4.D: a job may only be attempted on an actor whose current tour
// location has the job within its precomputed transit neighbourhood
// (spec.md §4.B, "jobs with precomputed neighbourhood: per profile, each
// job's jobs sorted by transit distance, memoised"). It exists purely to
// cut the insertion heuristic's search space; a job outside every actor's
// neighbourhood is never truly assignable and is reported unassigned
// early rather than after a full position scan.
package reachablejobs

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
)

// Code is the violation reported when a job is outside every actor
// location's neighbourhood radius.
const Code feature.ViolationCode = 22

// Neighborhood answers whether job lies within the transit neighbourhood
// of location under profile, per the Problem's precomputed sorted
// distance lists. Implementations typically wrap a fixed top-K or a
// maximum-distance cutoff.
type Neighborhood interface {
	Reachable(profile string, from model.Location, job model.Job) bool
}

// New builds the reachable-jobs feature over a precomputed neighbourhood.
func New(name string, neighborhood Neighborhood) (feature.Feature, error) {
	return feature.NewBuilder(name).WithConstraint(&constraint{neighborhood: neighborhood}).Build()
}

type constraint struct{ neighborhood Neighborhood }

func (c *constraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.RouteLevel {
		return nil
	}
	actor := ctx.RouteCtx.Route().Actor
	from := actor.Detail.StartLocation
	if last := ctx.RouteCtx.Route().Tour.End(); last != nil {
		from = last.Location
	} else if n := ctx.RouteCtx.Route().Tour.Len(); n > 0 {
		from = ctx.RouteCtx.Route().Tour.At(n - 1).Location
	}
	if !c.neighborhood.Reachable(actor.Profile, from, ctx.Job) {
		return feature.Fail(Code)
	}
	return nil
}

func (c *constraint) Merge(a, b model.Job) (model.Job, error) { return a, nil }

var _ feature.Constraint = (*constraint)(nil)
