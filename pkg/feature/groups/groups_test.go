package groups

import (
	"testing"

	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

func actorRoute(id string) *solution.Route {
	actor := &model.Actor{ID: id, Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	return solution.NewRoute(actor)
}

func TestGroupsAllowsFirstAssignmentOfAGroup(t *testing.T) {
	f, err := New("groups")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	route := actorRoute("v1")
	job := &model.Single{ID: "j1", Dimens: map[string]any{DimensKey: "g1"}}

	if v := f.Constraint.Evaluate(feature.RouteMove(solution.NewRouteContext(route), job)); v != nil {
		t.Fatalf("a group's first job should always be allowed, got %v", v)
	}
}

func TestGroupsRejectsSecondActorForSameGroup(t *testing.T) {
	f, _ := New("groups")
	routeA := actorRoute("v1")
	routeB := actorRoute("v2")
	sol := &solution.Solution{Routes: []*solution.Route{routeA, routeB}}

	jobA := &model.Single{ID: "a", Dimens: map[string]any{DimensKey: "g1"}}
	act := &solution.Activity{Single: jobA, Location: 1}
	routeA.Tour.InsertAt(routeA.Tour.InsertionPositions()-1, act)

	f.State.AcceptSolutionState(solution.NewSolutionContext(sol))

	jobB := &model.Single{ID: "b", Dimens: map[string]any{DimensKey: "g1"}}
	v := f.Constraint.Evaluate(feature.RouteMove(solution.NewRouteContext(routeB), jobB))
	if v == nil {
		t.Fatal("a second actor for the same group should be rejected")
	}
	if !v.Stopped {
		t.Error("a groups violation should stop the rest of the route scan")
	}

	if v := f.Constraint.Evaluate(feature.RouteMove(solution.NewRouteContext(routeA), jobB)); v != nil {
		t.Fatalf("the group's already-bound actor should still be allowed, got %v", v)
	}
}

func TestGroupsIgnoresUngroupedJobs(t *testing.T) {
	f, _ := New("groups")
	route := actorRoute("v1")
	job := &model.Single{ID: "j1"}
	if v := f.Constraint.Evaluate(feature.RouteMove(solution.NewRouteContext(route), job)); v != nil {
		t.Fatalf("an ungrouped job should never be vetoed, got %v", v)
	}
}
