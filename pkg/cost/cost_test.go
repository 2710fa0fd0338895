package cost

import (
	"testing"

	"github.com/binyao-or/vrp-solver/pkg/model"
)

func threeByThree() *Matrix {
	m := NewMatrix(3)
	m.AddProfile("car", []TimeBucket{
		{
			Start:     0,
			Distances: []model.Distance{0, 1, 2, 1, 0, 1, 2, 1, 0},
			Durations: []model.Duration{0, 10, 20, 10, 0, 10, 20, 10, 0},
		},
		{
			Start:     100,
			Distances: []model.Distance{0, 5, 5, 5, 0, 5, 5, 5, 0},
			Durations: []model.Duration{0, 50, 50, 50, 0, 50, 50, 50, 0},
		},
	})
	return m
}

func TestMatrixDistanceAndDuration(t *testing.T) {
	m := threeByThree()
	if got := m.Distance("car", 0, 1, 0); got != 1 {
		t.Errorf("Distance(0,1,t=0) = %v, want 1", got)
	}
	if got := m.Duration("car", 0, 1, 0); got != 10 {
		t.Errorf("Duration(0,1,t=0) = %v, want 10", got)
	}
}

func TestMatrixBucketSelectsLatestStartNotAfterDeparture(t *testing.T) {
	m := threeByThree()
	if got := m.Distance("car", 0, 1, 99); got != 1 {
		t.Errorf("Distance at t=99 should still use bucket 0, got %v", got)
	}
	if got := m.Distance("car", 0, 1, 100); got != 5 {
		t.Errorf("Distance at t=100 should use bucket starting at 100, got %v", got)
	}
	if got := m.Distance("car", 0, 1, 1000); got != 5 {
		t.Errorf("Distance at t=1000 should still use the last bucket, got %v", got)
	}
}

func TestMatrixUnknownProfileReturnsZero(t *testing.T) {
	m := threeByThree()
	if got := m.Distance("truck", 0, 1, 0); got != 0 {
		t.Errorf("Distance for unregistered profile = %v, want 0", got)
	}
	if m.HasProfile("truck") {
		t.Error("HasProfile(truck) = true, want false")
	}
	if !m.HasProfile("car") {
		t.Error("HasProfile(car) = false, want true")
	}
}

func TestDefaultActivityArrivalAndDeparture(t *testing.T) {
	m := threeByThree()
	var act DefaultActivity

	arrival := act.ArrivalTime(m, "car", 0, 1, 0)
	if arrival != 10 {
		t.Fatalf("ArrivalTime = %v, want 10", arrival)
	}

	// Window opens after arrival: departure waits for the window.
	departure := act.DepartureTime(arrival, model.TimeWindow{Start: 15, End: 100}, 5)
	if departure != 20 {
		t.Errorf("DepartureTime (waits for window) = %v, want 20", departure)
	}

	// Window already open at arrival: departure is arrival + service only.
	departure = act.DepartureTime(arrival, model.TimeWindow{Start: 0, End: 100}, 5)
	if departure != 15 {
		t.Errorf("DepartureTime (no wait) = %v, want 15", departure)
	}
}

func TestErrUnknownProfileMessage(t *testing.T) {
	err := &ErrUnknownProfile{Profile: "air"}
	if err.Error() == "" {
		t.Error("Error() must not be empty")
	}
}
