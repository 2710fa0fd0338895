// Package locks implements the hard constraint wrapping model.Locks
// (spec.md §4.D): a job may only land on an actor that the problem's lock
// set allows.
package locks

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
)

// Code is the violation reported when a lock forbids the (actor, job)
// pairing, or requires a different actor.
const Code feature.ViolationCode = 21

// New builds the locks feature over the problem's lock set.
func New(name string, locks *model.Locks) (feature.Feature, error) {
	return feature.NewBuilder(name).WithConstraint(&constraint{locks: locks}).Build()
}

type constraint struct{ locks *model.Locks }

func (c *constraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.RouteLevel {
		return nil
	}
	actorID := ctx.RouteCtx.Route().Actor.ID
	for _, single := range ctx.Job.AsSingles() {
		if !c.locks.Allows(single.ID, actorID) {
			return feature.FailStop(Code)
		}
	}
	return nil
}

func (c *constraint) Merge(a, b model.Job) (model.Job, error) { return a, nil }

var _ feature.Constraint = (*constraint)(nil)
