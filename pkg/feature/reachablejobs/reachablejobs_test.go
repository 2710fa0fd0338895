package reachablejobs

import (
	"testing"

	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

type fixedNeighborhood struct{ reachable map[string]bool }

func (n fixedNeighborhood) Reachable(profile string, from model.Location, job model.Job) bool {
	return n.reachable[model.ID(job)]
}

func TestReachableJobAllowed(t *testing.T) {
	f, err := New("reachablejobs", fixedNeighborhood{reachable: map[string]bool{"j1": true}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	actor := &model.Actor{ID: "v1", Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	routeCtx := solution.NewRouteContext(solution.NewRoute(actor))
	job := &model.Single{ID: "j1"}

	if v := f.Constraint.Evaluate(feature.RouteMove(routeCtx, job)); v != nil {
		t.Fatalf("a job inside the neighbourhood should be allowed, got %v", v)
	}
}

func TestUnreachableJobRejected(t *testing.T) {
	f, _ := New("reachablejobs", fixedNeighborhood{reachable: map[string]bool{}})
	actor := &model.Actor{ID: "v1", Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	routeCtx := solution.NewRouteContext(solution.NewRoute(actor))
	job := &model.Single{ID: "j1"}

	v := f.Constraint.Evaluate(feature.RouteMove(routeCtx, job))
	if v == nil {
		t.Fatal("a job outside every neighbourhood should be rejected")
	}
	if v.Stopped {
		t.Error("reachablejobs is a skip-only pruning veto, not a route-aborting one")
	}
	if v.Code != Code {
		t.Errorf("violation code = %v, want %v", v.Code, Code)
	}
}

func TestFromUsesLastVisitedLocationNotStart(t *testing.T) {
	var seenFrom model.Location
	probe := fixedNeighborhoodFunc(func(profile string, from model.Location, job model.Job) bool {
		seenFrom = from
		return true
	})
	f, _ := New("reachablejobs", probe)
	actor := &model.Actor{ID: "v1", Detail: model.ActorDetail{StartLocation: 0, Shift: model.TimeWindow{Start: 0, End: 1000}}}
	route := solution.NewRoute(actor)
	route.Tour.InsertAt(route.Tour.InsertionPositions()-1, &solution.Activity{Single: &model.Single{ID: "existing"}, Location: 7})

	f.Constraint.Evaluate(feature.RouteMove(solution.NewRouteContext(route), &model.Single{ID: "new"}))
	if seenFrom != 7 {
		t.Fatalf("Reachable() was called with from=%v, want 7 (the last activity on the open-ended route)", seenFrom)
	}
}

type fixedNeighborhoodFunc func(profile string, from model.Location, job model.Job) bool

func (f fixedNeighborhoodFunc) Reachable(profile string, from model.Location, job model.Job) bool {
	return f(profile, from, job)
}
