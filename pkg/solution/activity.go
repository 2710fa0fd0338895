// Package solution holds the mutable per-route and per-solution state that
// the insertion heuristic, ruin/recreate strategies and local search
// operate on: Activity, Tour, Route, the keyed RouteState cache, and the
// Solution aggregate itself (spec.md §3 "Route & solution contexts").
package solution

import "github.com/binyao-or/vrp-solver/pkg/model"

// Activity is a concrete execution of one job Place: a definite location
// and schedule. Start/end markers have a nil Single.
type Activity struct {
	Single   *model.Single // nil for start/end markers
	PlaceIdx int           // index into Single.Places, meaningless for markers
	Location model.Location
	Schedule model.Schedule
	Duration model.Duration
}

// IsMarker reports whether this activity is a synthetic start/end marker
// rather than a job execution.
func (a *Activity) IsMarker() bool { return a.Single == nil }

// NewStartActivity builds the synthetic first activity of a tour.
func NewStartActivity(loc model.Location, departure model.Timestamp) *Activity {
	return &Activity{
		Location: loc,
		Schedule: model.Schedule{Arrival: departure, Departure: departure},
	}
}

// NewEndActivity builds the synthetic last activity of a tour.
func NewEndActivity(loc model.Location, arrival model.Timestamp) *Activity {
	return &Activity{
		Location: loc,
		Schedule: model.Schedule{Arrival: arrival, Departure: arrival},
	}
}
