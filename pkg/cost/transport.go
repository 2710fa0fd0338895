// Package cost implements the transport/activity cost oracle (spec.md
// §4.A): the only component allowed to resolve a model.Location into a
// distance, duration, arrival or departure. It is grounded on the
// teacher plugin's resource-accounting style (plain functions over
// pre-computed tables, verbosity-gated klog for misses) generalised from
// a flat cost matrix to the spec's time-dependent oracle.
package cost

import (
	"fmt"

	"github.com/binyao-or/vrp-solver/pkg/model"
)

// Transport answers the routing questions a feature or the insertion
// heuristic may ask about moving between two locations at a given
// departure time. Implementations are time-dependent; a time-invariant
// matrix is the degenerate case (see Matrix below).
type Transport interface {
	// Distance returns the travel distance from one location to another,
	// departing no earlier than departure.
	Distance(profile string, from, to model.Location, departure model.Timestamp) model.Distance
	// Duration returns the travel time for the same trip.
	Duration(profile string, from, to model.Location, departure model.Timestamp) model.Duration
}

// Activity answers questions about executing a single activity: when it
// can begin and when it is done, given the previous activity's departure.
type Activity interface {
	// ArrivalTime returns the earliest instant the actor can begin the
	// activity, given it departed its previous stop at prevDeparture.
	ArrivalTime(transport Transport, profile string, from, to model.Location, prevDeparture model.Timestamp) model.Timestamp
	// DepartureTime returns the instant the actor leaves the activity,
	// given it arrived at arrival and must serve for duration once the
	// time window opens.
	DepartureTime(arrival model.Timestamp, window model.TimeWindow, duration model.Duration) model.Timestamp
}

// ErrUnknownProfile describes a lookup for a profile that has no
// registered matrix. Matrix.Distance and Matrix.Duration do not return it:
// they log it at verbosity 2 and return 0.
type ErrUnknownProfile struct {
	Profile string
}

func (e *ErrUnknownProfile) Error() string {
	return fmt.Sprintf("cost: no transport data registered for profile %q", e.Profile)
}

// DefaultActivity is the straightforward activity-cost calculator: arrival
// is previous departure plus travel time, departure is the later of
// arrival and the window's start, plus service duration.
type DefaultActivity struct{}

func (DefaultActivity) ArrivalTime(transport Transport, profile string, from, to model.Location, prevDeparture model.Timestamp) model.Timestamp {
	return prevDeparture + transport.Duration(profile, from, to, prevDeparture)
}

func (DefaultActivity) DepartureTime(arrival model.Timestamp, window model.TimeWindow, duration model.Duration) model.Timestamp {
	start := arrival
	if window.Start > start {
		start = window.Start
	}
	return start + duration
}

var _ Activity = DefaultActivity{}
