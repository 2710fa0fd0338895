package solution

import "github.com/binyao-or/vrp-solver/pkg/model"

// Tour is the ordered sequence of Activities on a Route, starting with a
// start marker and optionally ending with an end marker (spec.md §3).
// Invariant: start.Schedule.Departure <= activities[0].Schedule.Arrival
// <= ... <= end.Schedule.Arrival, maintained by every mutator below; callers
// that bypass them (there should be none outside this package and the
// insertion heuristic) must re-establish it themselves.
type Tour struct {
	activities []*Activity
}

// NewTour creates an empty tour bounded by the given start and end markers.
// end may be nil for an open-ended tour.
func NewTour(start, end *Activity) *Tour {
	t := &Tour{}
	t.activities = append(t.activities, start)
	if end != nil {
		t.activities = append(t.activities, end)
	}
	return t
}

// Activities returns the full activity list, start/end markers included.
func (t *Tour) Activities() []*Activity { return t.activities }

// Start returns the tour's start marker.
func (t *Tour) Start() *Activity { return t.activities[0] }

// End returns the tour's end marker, or nil if the tour is open-ended.
func (t *Tour) End() *Activity {
	if len(t.activities) == 0 {
		return nil
	}
	last := t.activities[len(t.activities)-1]
	if last.IsMarker() && last != t.activities[0] {
		return last
	}
	return nil
}

// JobActivityCount returns the number of non-marker activities, i.e. the
// number of Single executions currently on the tour.
func (t *Tour) JobActivityCount() int {
	n := 0
	for _, a := range t.activities {
		if !a.IsMarker() {
			n++
		}
	}
	return n
}

// Len returns the total activity count, markers included.
func (t *Tour) Len() int { return len(t.activities) }

// At returns the activity at position p (0-indexed, includes the start
// marker at position 0).
func (t *Tour) At(p int) *Activity { return t.activities[p] }

// InsertionPositions returns the number of legal insertion points: between
// every pair of adjacent activities, including before the end marker.
// Position p means "insert immediately after the activity currently at
// index p", for p in [0, Len()-1) when an end marker is present, or
// [0, Len()) otherwise.
func (t *Tour) InsertionPositions() int {
	if t.End() != nil {
		return len(t.activities) - 1
	}
	return len(t.activities)
}

// InsertAt splices act into the tour immediately after position p (see
// InsertionPositions for the meaning of p).
func (t *Tour) InsertAt(p int, act *Activity) {
	idx := p + 1
	t.activities = append(t.activities, nil)
	copy(t.activities[idx+1:], t.activities[idx:])
	t.activities[idx] = act
}

// RemoveAt removes the non-marker activity at absolute index idx and
// returns it.
func (t *Tour) RemoveAt(idx int) *Activity {
	removed := t.activities[idx]
	t.activities = append(t.activities[:idx], t.activities[idx+1:]...)
	return removed
}

// RemoveSingle removes every activity whose Single matches single and
// returns the removed activities in tour order.
func (t *Tour) RemoveSingle(single *model.Single) []*Activity {
	var removed []*Activity
	kept := t.activities[:0:0]
	for _, a := range t.activities {
		if a.Single == single {
			removed = append(removed, a)
			continue
		}
		kept = append(kept, a)
	}
	t.activities = kept
	return removed
}

// Clone returns a deep-enough copy: a new activity slice with copies of
// each Activity struct (Single pointers are shared, since jobs are
// immutable once built).
func (t *Tour) Clone() *Tour {
	clone := &Tour{activities: make([]*Activity, len(t.activities))}
	for i, a := range t.activities {
		cp := *a
		clone.activities[i] = &cp
	}
	return clone
}

// Locations returns the set of distinct locations visited by job
// activities (markers excluded), used by the tour-limits location-
// uniqueness constraint.
func (t *Tour) Locations() map[model.Location]struct{} {
	set := make(map[model.Location]struct{})
	for _, a := range t.activities {
		if !a.IsMarker() {
			set[a.Location] = struct{}{}
		}
	}
	return set
}
