package solution

import (
	"testing"

	"github.com/binyao-or/vrp-solver/pkg/model"
)

func jobActivity(id string, loc model.Location) *Activity {
	return &Activity{
		Single:   &model.Single{ID: id},
		Location: loc,
		Schedule: model.Schedule{Arrival: 0, Departure: 0},
	}
}

func TestNewTourMarkersOnly(t *testing.T) {
	start := NewStartActivity(0, 0)
	end := NewEndActivity(0, 0)
	tour := NewTour(start, end)

	if tour.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tour.Len())
	}
	if tour.JobActivityCount() != 0 {
		t.Fatalf("JobActivityCount() = %d, want 0", tour.JobActivityCount())
	}
	if tour.InsertionPositions() != 1 {
		t.Fatalf("InsertionPositions() = %d, want 1 (only between start and end)", tour.InsertionPositions())
	}
	if tour.End() == nil {
		t.Fatal("End() = nil, want the end marker")
	}
}

func TestNewTourOpenEnded(t *testing.T) {
	start := NewStartActivity(0, 0)
	tour := NewTour(start, nil)
	if tour.End() != nil {
		t.Fatal("End() should be nil for an open-ended tour")
	}
	if tour.InsertionPositions() != 1 {
		t.Fatalf("InsertionPositions() = %d, want 1", tour.InsertionPositions())
	}
}

func TestInsertAtAndJobActivityCount(t *testing.T) {
	tour := NewTour(NewStartActivity(0, 0), NewEndActivity(0, 0))
	tour.InsertAt(0, jobActivity("a", 1))
	tour.InsertAt(1, jobActivity("b", 2))

	if tour.JobActivityCount() != 2 {
		t.Fatalf("JobActivityCount() = %d, want 2", tour.JobActivityCount())
	}
	if tour.At(1).Single.ID != "a" {
		t.Errorf("activity at index 1 = %q, want a", tour.At(1).Single.ID)
	}
	if tour.At(2).Single.ID != "b" {
		t.Errorf("activity at index 2 = %q, want b", tour.At(2).Single.ID)
	}
	if !tour.At(3).IsMarker() {
		t.Error("activity at index 3 should still be the end marker")
	}
}

func TestRemoveAt(t *testing.T) {
	tour := NewTour(NewStartActivity(0, 0), NewEndActivity(0, 0))
	tour.InsertAt(0, jobActivity("a", 1))
	removed := tour.RemoveAt(1)
	if removed.Single.ID != "a" {
		t.Fatalf("RemoveAt returned %v, want activity a", removed)
	}
	if tour.JobActivityCount() != 0 {
		t.Fatalf("JobActivityCount() after removal = %d, want 0", tour.JobActivityCount())
	}
}

func TestRemoveSingleRemovesAllMatchingActivities(t *testing.T) {
	tour := NewTour(NewStartActivity(0, 0), NewEndActivity(0, 0))
	multiJob := &model.Single{ID: "m"}
	a1 := &Activity{Single: multiJob, Location: 1}
	a2 := &Activity{Single: multiJob, Location: 2}
	tour.InsertAt(0, a1)
	tour.InsertAt(1, a2)

	removed := tour.RemoveSingle(multiJob)
	if len(removed) != 2 {
		t.Fatalf("RemoveSingle() removed %d activities, want 2", len(removed))
	}
	if tour.JobActivityCount() != 0 {
		t.Fatalf("JobActivityCount() after RemoveSingle = %d, want 0", tour.JobActivityCount())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tour := NewTour(NewStartActivity(0, 0), NewEndActivity(0, 0))
	tour.InsertAt(0, jobActivity("a", 1))

	clone := tour.Clone()
	clone.At(1).Location = 99

	if tour.At(1).Location == 99 {
		t.Fatal("mutating a clone's activity must not affect the original tour")
	}
	if clone.At(1).Single != tour.At(1).Single {
		t.Error("Clone should share Single pointers (jobs are immutable)")
	}
}

func TestLocationsExcludesMarkers(t *testing.T) {
	tour := NewTour(NewStartActivity(0, 0), NewEndActivity(0, 0))
	tour.InsertAt(0, jobActivity("a", 1))
	tour.InsertAt(1, jobActivity("b", 2))

	locs := tour.Locations()
	if len(locs) != 2 {
		t.Fatalf("Locations() = %v, want 2 distinct job locations", locs)
	}
	if _, ok := locs[0]; ok {
		t.Error("Locations() must not include the marker location")
	}
}
