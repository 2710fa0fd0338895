package objective

import (
	"testing"

	"github.com/binyao-or/vrp-solver/pkg/cost"
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

func TestMinimiseUnassignedScalesByPenalty(t *testing.T) {
	f, err := NewMinimiseUnassigned("unassigned", 10)
	if err != nil {
		t.Fatalf("NewMinimiseUnassigned() error: %v", err)
	}
	sol := &solution.Solution{Unassigned: map[string]solution.ReasonCode{"a": 1, "b": 2}}
	if got := f.Objective.Fitness(sol); got != 20 {
		t.Fatalf("Fitness() = %v, want 20 (2 unassigned * penalty 10)", got)
	}
}

func TestMinimiseUnassignedEstimateIsNegativePenaltyAtRouteLevel(t *testing.T) {
	f, _ := NewMinimiseUnassigned("unassigned", 10)
	actor := &model.Actor{ID: "a", Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	routeCtx := solution.NewRouteContext(solution.NewRoute(actor))
	got := f.Objective.Estimate(feature.RouteMove(routeCtx, &model.Single{ID: "j1"}))
	if got != -10 {
		t.Fatalf("Estimate() = %v, want -10 (routing a job removes it from Unassigned)", got)
	}
	if got := f.Objective.Estimate(feature.ActivityMove(routeCtx, solution.ActivityContext{})); got != 0 {
		t.Fatalf("Estimate() at activity level = %v, want 0", got)
	}
}

func TestMinimiseToursCountsOnlyActiveRoutes(t *testing.T) {
	f, err := NewMinimiseTours("tours", 5)
	if err != nil {
		t.Fatalf("NewMinimiseTours() error: %v", err)
	}
	actorA := &model.Actor{ID: "a", Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	actorB := &model.Actor{ID: "b", Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	routeA := solution.NewRoute(actorA)
	routeA.Tour.InsertAt(routeA.Tour.InsertionPositions()-1, &solution.Activity{Single: &model.Single{ID: "j1"}, Location: 1})
	routeB := solution.NewRoute(actorB)
	sol := &solution.Solution{Routes: []*solution.Route{routeA, routeB}}

	if got := f.Objective.Fitness(sol); got != 5 {
		t.Fatalf("Fitness() = %v, want 5 (one active route * penalty 5)", got)
	}
}

func TestMinimiseCostWeightsByActorCoefficients(t *testing.T) {
	const size = 5
	distances := make([]model.Distance, size*size)
	for from := 0; from < size; from++ {
		for to := 0; to < size; to++ {
			d := from - to
			if d < 0 {
				d = -d
			}
			distances[from*size+to] = model.Distance(d)
		}
	}
	matrix := cost.NewMatrix(size)
	matrix.AddProfile("car", []cost.TimeBucket{{Start: 0, Distances: distances, Durations: distances}})

	f, err := NewMinimiseCost("cost", matrix)
	if err != nil {
		t.Fatalf("NewMinimiseCost() error: %v", err)
	}
	actor := &model.Actor{ID: "a", Profile: "car", DistCost: 2, TimeCost: 0, Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	route := solution.NewRoute(actor)
	route.Tour.InsertAt(route.Tour.InsertionPositions()-1, &solution.Activity{Single: &model.Single{ID: "j1"}, Location: 4})
	sol := &solution.Solution{Routes: []*solution.Route{route}}

	// depot(0) -> j1(4): distance 4, weighted by DistCost=2 -> 8.
	if got := f.Objective.Fitness(sol); got != 8 {
		t.Fatalf("Fitness() = %v, want 8", got)
	}
}
