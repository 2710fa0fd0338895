package timewindow

import (
	"testing"

	"github.com/binyao-or/vrp-solver/pkg/cost"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

func lineMatrix(size int) *cost.Matrix {
	distances := make([]model.Distance, size*size)
	durations := make([]model.Duration, size*size)
	for from := 0; from < size; from++ {
		for to := 0; to < size; to++ {
			d := from - to
			if d < 0 {
				d = -d
			}
			distances[from*size+to] = model.Distance(d)
			durations[from*size+to] = model.Duration(d)
		}
	}
	m := cost.NewMatrix(size)
	m.AddProfile("car", []cost.TimeBucket{{Start: 0, Distances: distances, Durations: durations}})
	return m
}

func fixtureRoute() (*solution.Route, cost.Transport) {
	matrix := lineMatrix(20)
	actor := &model.Actor{ID: "v1", Profile: "car", Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	return solution.NewRoute(actor), matrix
}

func TestEvaluateAllowsArrivalWithinWindow(t *testing.T) {
	route, transport := fixtureRoute()
	f, err := New("timewindow", transport, cost.DefaultActivity{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	routeCtx := solution.NewRouteContext(route)

	prev := route.Tour.At(0) // start marker at location 0, departure 0
	job := &model.Single{ID: "j1", Places: []model.Place{{Location: 5, Duration: 10, TimeWindows: []model.TimeWindow{{Start: 0, End: 100}}}}}
	target := &solution.Activity{Single: job, Location: 5}

	ctx := feature.ActivityMove(routeCtx, solution.ActivityContext{Prev: prev, Target: target})
	if v := f.Constraint.Evaluate(ctx); v != nil {
		t.Fatalf("arrival at 5 inside window [0,100) should be allowed, got %v", v)
	}
}

func TestEvaluateRejectsArrivalPastEveryWindow(t *testing.T) {
	route, transport := fixtureRoute()
	f, _ := New("timewindow", transport, cost.DefaultActivity{})
	routeCtx := solution.NewRouteContext(route)

	prev := route.Tour.At(0)
	job := &model.Single{ID: "j1", Places: []model.Place{{Location: 5, Duration: 10, TimeWindows: []model.TimeWindow{{Start: 0, End: 3}}}}}
	target := &solution.Activity{Single: job, Location: 5}

	ctx := feature.ActivityMove(routeCtx, solution.ActivityContext{Prev: prev, Target: target})
	v := f.Constraint.Evaluate(ctx)
	if v == nil {
		t.Fatal("arrival at 5 after a window ending at 3 should be rejected")
	}
	if v.Code != Code {
		t.Errorf("violation code = %v, want %v", v.Code, Code)
	}
}

func TestEvaluateRejectsWhenInsertionPushesNextPastItsBound(t *testing.T) {
	route, transport := fixtureRoute()
	f, _ := New("timewindow", transport, cost.DefaultActivity{})

	nextJob := &model.Single{ID: "next", Places: []model.Place{{Location: 10, TimeWindows: []model.TimeWindow{{Start: 0, End: 12}}}}}
	next := &solution.Activity{Single: nextJob, Location: 10}
	route.Tour.InsertAt(route.Tour.InsertionPositions()-1, next)

	routeCtx := solution.NewRouteContext(route)
	f.State.AcceptRouteState(routeCtx) // bounds[next] = 12 (next's own window end)

	prev := route.Tour.At(0)
	// arrival at 5 = 5, departure = 5 + service(5) = 10, then travel(5,10) = 5: 10+5=15 > bound 12.
	job := &model.Single{ID: "j1", Places: []model.Place{{Location: 5, Duration: 5, TimeWindows: []model.TimeWindow{{Start: 0, End: 100}}}}}
	target := &solution.Activity{Single: job, Location: 5}

	ctx := feature.ActivityMove(routeCtx, solution.ActivityContext{Prev: prev, Target: target, Next: next})
	v := f.Constraint.Evaluate(ctx)
	if v == nil {
		t.Fatal("departing the new job at 10 then needing to reach next by bound 12 (10+5=15) should be rejected")
	}
}

func TestEvaluateAllowsInsertionWithinNextsBound(t *testing.T) {
	route, transport := fixtureRoute()
	f, _ := New("timewindow", transport, cost.DefaultActivity{})

	nextJob := &model.Single{ID: "next", Places: []model.Place{{Location: 10, TimeWindows: []model.TimeWindow{{Start: 0, End: 100}}}}}
	next := &solution.Activity{Single: nextJob, Location: 10}
	route.Tour.InsertAt(route.Tour.InsertionPositions()-1, next)

	routeCtx := solution.NewRouteContext(route)
	f.State.AcceptRouteState(routeCtx)

	prev := route.Tour.At(0)
	job := &model.Single{ID: "j1", Places: []model.Place{{Location: 5, Duration: 0, TimeWindows: []model.TimeWindow{{Start: 0, End: 100}}}}}
	target := &solution.Activity{Single: job, Location: 5}

	ctx := feature.ActivityMove(routeCtx, solution.ActivityContext{Prev: prev, Target: target, Next: next})
	if v := f.Constraint.Evaluate(ctx); v != nil {
		t.Fatalf("arrival 5, departure 5, travel 5 to next (10) at 10, well within bound 100, got %v", v)
	}
}

func TestAcceptRouteStatePropagatesBoundsBackward(t *testing.T) {
	route, transport := fixtureRoute()
	f, _ := New("timewindow", transport, cost.DefaultActivity{})

	job := &model.Single{ID: "j1", Places: []model.Place{{Location: 5, TimeWindows: []model.TimeWindow{{Start: 0, End: 100}}}}}
	act := &solution.Activity{Single: job, Location: 5}
	route.Tour.InsertAt(route.Tour.InsertionPositions()-1, act)

	routeCtx := solution.NewRouteContext(route)
	f.State.AcceptRouteState(routeCtx)

	v, ok := routeCtx.State().Get(latestArrivalKey)
	if !ok {
		t.Fatal("AcceptRouteState should populate latestArrivalKey")
	}
	bounds := v.([]model.Timestamp)
	if len(bounds) != 2 {
		t.Fatalf("len(bounds) = %d, want 2 (start + job)", len(bounds))
	}
	if bounds[1] != 100 {
		t.Errorf("bounds[last] = %v, want 100 (the job's own window end)", bounds[1])
	}
	if bounds[0] != 95 {
		t.Errorf("bounds[start] = %v, want 95 (100 - travel(0,5)=5)", bounds[0])
	}
}
