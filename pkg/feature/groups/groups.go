// Package groups implements the hard constraint of spec.md §4.D: jobs
// sharing a Single.Dimens group tag must all be served by the same actor,
// though (unlike a Multi) not necessarily in a fixed relative order.
package groups

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// DimensKey is the Single.Dimens entry holding a job's group tag (string);
// absent or empty means the job belongs to no group.
const DimensKey = "group"

var assignedActorKey = solution.RegisterStateKey() // map[string]string, group -> actor ID already committed

// Code is the violation reported when a job's group is already bound to a
// different actor.
const Code feature.ViolationCode = 24

// New builds the groups feature.
func New(name string) (feature.Feature, error) {
	c := &constraint{}
	s := &state{}
	return feature.NewBuilder(name).WithConstraint(c).WithState(s).Build()
}

func groupOf(single *model.Single) string {
	g, _ := single.Dimens[DimensKey].(string)
	return g
}

type constraint struct{}

func (constraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.RouteLevel {
		return nil
	}
	bound, _ := ctx.RouteCtx.State().Get(assignedActorKey)
	boundMap, _ := bound.(map[string]string)
	actorID := ctx.RouteCtx.Route().Actor.ID

	for _, single := range ctx.Job.AsSingles() {
		group := groupOf(single)
		if group == "" {
			continue
		}
		if existing, ok := boundMap[group]; ok && existing != actorID {
			return feature.FailStop(Code)
		}
	}
	return nil
}

func (constraint) Merge(a, b model.Job) (model.Job, error) { return a, nil }

type state struct{}

func (state) AcceptInsertion(sol *solution.Solution, routeIdx int, job model.Job) {}

func (state) AcceptRouteState(routeCtx solution.RouteContext) {
	// Group bindings are solution-wide (same rationale as sharedresource);
	// mirrored per-route by AcceptSolutionState below.
}

func (state) AcceptSolutionState(solCtx solution.SolutionContext) {
	bound := make(map[string]string)
	for _, r := range solCtx.Solution().Routes {
		for _, a := range r.Tour.Activities() {
			if a.IsMarker() || a.Single == nil {
				continue
			}
			if group := groupOf(a.Single); group != "" {
				bound[group] = r.Actor.ID
			}
		}
	}
	for _, r := range solCtx.Solution().Routes {
		r.State().Put(assignedActorKey, bound)
	}
}

func (state) StateKeys() []solution.StateKey { return []solution.StateKey{assignedActorKey} }

var (
	_ feature.Constraint = (*constraint)(nil)
	_ feature.State      = (*state)(nil)
)
