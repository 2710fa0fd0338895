package fleetusage

import (
	"testing"

	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

func TestFitnessSumsOnlyActiveRoutes(t *testing.T) {
	f, err := New("fleetusage")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	actorA := &model.Actor{ID: "a", FixedCost: 100, Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	actorB := &model.Actor{ID: "b", FixedCost: 50, Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	sol := solution.New(&model.Fleet{Actors: []*model.Actor{actorA, actorB}}, nil)
	sol.AddRoute(solution.NewRoute(actorA))
	sol.AddRoute(solution.NewRoute(actorB)) // left empty

	routeA := sol.Routes[0]
	routeA.Tour.InsertAt(routeA.Tour.InsertionPositions()-1, &solution.Activity{
		Single: &model.Single{ID: "j1"}, Location: 1,
	})

	if got := f.Objective.Fitness(sol); got != 100 {
		t.Fatalf("Fitness() = %v, want 100 (only the active route's fixed cost)", got)
	}
}

func TestEstimateChargesFixedCostOnlyForEmptyRoute(t *testing.T) {
	f, _ := New("fleetusage")
	actor := &model.Actor{ID: "a", FixedCost: 75, Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	route := solution.NewRoute(actor)
	routeCtx := solution.NewRouteContext(route)

	if got := f.Objective.Estimate(feature.RouteMove(routeCtx, &model.Single{ID: "j1"})); got != 75 {
		t.Fatalf("Estimate() on an empty route = %v, want 75 (opening it costs the fixed cost once)", got)
	}

	route.Tour.InsertAt(route.Tour.InsertionPositions()-1, &solution.Activity{Single: &model.Single{ID: "existing"}, Location: 1})
	if got := f.Objective.Estimate(feature.RouteMove(routeCtx, &model.Single{ID: "j2"})); got != 0 {
		t.Fatalf("Estimate() on an already-active route = %v, want 0", got)
	}
}

func TestEstimateIgnoresActivityLevelMoves(t *testing.T) {
	f, _ := New("fleetusage")
	actor := &model.Actor{ID: "a", FixedCost: 75, Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	routeCtx := solution.NewRouteContext(solution.NewRoute(actor))
	if got := f.Objective.Estimate(feature.ActivityMove(routeCtx, solution.ActivityContext{})); got != 0 {
		t.Fatalf("Estimate() at activity level = %v, want 0 (fleetusage only prices route-level moves)", got)
	}
}
