package solution

import (
	"testing"

	"github.com/binyao-or/vrp-solver/pkg/model"
)

func testActor(id string) *model.Actor {
	return &model.Actor{ID: id, Detail: model.ActorDetail{StartLocation: 0, Shift: model.TimeWindow{Start: 0, End: 1000}}}
}

func TestNewSolutionStartsFullyUnassigned(t *testing.T) {
	fleet := &model.Fleet{Actors: []*model.Actor{testActor("v1")}}
	sol := New(fleet, []string{"j1", "j2"})

	if len(sol.Unassigned) != 2 {
		t.Fatalf("Unassigned = %v, want 2 entries", sol.Unassigned)
	}
	if sol.Unassigned["j1"] != NoReason {
		t.Errorf("j1 reason = %v, want NoReason", sol.Unassigned["j1"])
	}
	if len(sol.Routes) != 0 {
		t.Errorf("Routes = %v, want none until AddRoute is called", sol.Routes)
	}
}

func TestAddRouteClaimsActorOnce(t *testing.T) {
	actor := testActor("v1")
	fleet := &model.Fleet{Actors: []*model.Actor{actor}}
	sol := New(fleet, nil)

	r1 := NewRoute(actor)
	if !sol.AddRoute(r1) {
		t.Fatal("first AddRoute should succeed")
	}
	r2 := NewRoute(actor)
	if sol.AddRoute(r2) {
		t.Fatal("second AddRoute for the same actor should fail")
	}
	if sol.RouteFor("v1") != r1 {
		t.Error("RouteFor(v1) should return the first route")
	}
}

func TestRemoveRoutePanicsIfNotEmpty(t *testing.T) {
	actor := testActor("v1")
	fleet := &model.Fleet{Actors: []*model.Actor{actor}}
	sol := New(fleet, nil)
	r := NewRoute(actor)
	sol.AddRoute(r)
	r.Tour.InsertAt(0, jobActivity("j1", 1))

	defer func() {
		if recover() == nil {
			t.Fatal("RemoveRoute on a non-empty route should panic")
		}
	}()
	sol.RemoveRoute(r)
}

func TestRemoveRouteReleasesActor(t *testing.T) {
	actor := testActor("v1")
	fleet := &model.Fleet{Actors: []*model.Actor{actor}}
	sol := New(fleet, nil)
	r := NewRoute(actor)
	sol.AddRoute(r)
	sol.RemoveRoute(r)

	if len(sol.Routes) != 0 {
		t.Fatal("Routes should be empty after RemoveRoute")
	}
	r2 := NewRoute(actor)
	if !sol.AddRoute(r2) {
		t.Fatal("actor should be re-usable once released")
	}
}

func TestMarkAssignedAndUnassigned(t *testing.T) {
	fleet := &model.Fleet{Actors: []*model.Actor{testActor("v1")}}
	sol := New(fleet, []string{"j1"})

	sol.MarkAssigned("j1")
	if _, ok := sol.Unassigned["j1"]; ok {
		t.Fatal("MarkAssigned should remove the job from Unassigned")
	}

	sol.MarkUnassigned("j1", ReasonCode(3))
	if sol.Unassigned["j1"] != ReasonCode(3) {
		t.Fatalf("MarkUnassigned reason = %v, want 3", sol.Unassigned["j1"])
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	actor := testActor("v1")
	fleet := &model.Fleet{Actors: []*model.Actor{actor}}
	sol := New(fleet, []string{"j1"})
	r := NewRoute(actor)
	sol.AddRoute(r)
	r.Tour.InsertAt(0, jobActivity("j1", 1))
	sol.MarkAssigned("j1")

	clone := sol.Clone()
	clone.Routes[0].Tour.RemoveAt(1)
	clone.MarkUnassigned("j1", ReasonCode(1))

	if sol.Routes[0].Tour.JobActivityCount() != 1 {
		t.Error("mutating the clone's route must not affect the original")
	}
	if _, ok := sol.Unassigned["j1"]; ok {
		t.Error("mutating the clone's Unassigned map must not affect the original")
	}
}

func TestRouteIsEmpty(t *testing.T) {
	actor := testActor("v1")
	r := NewRoute(actor)
	if !r.IsEmpty() {
		t.Fatal("a freshly built route should be empty")
	}
	r.Tour.InsertAt(0, jobActivity("j1", 1))
	if r.IsEmpty() {
		t.Fatal("a route with a job activity should not be empty")
	}
}

func TestRouteClonePreservesActorIdentity(t *testing.T) {
	actor := testActor("v1")
	r := NewRoute(actor)
	clone := r.Clone()
	if clone.Actor != actor {
		t.Error("Clone must share the Actor pointer")
	}
	if clone.Tour == r.Tour {
		t.Error("Clone must deep-copy the Tour")
	}
}
