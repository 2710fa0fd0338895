package solution

import "github.com/binyao-or/vrp-solver/pkg/model"

// Route pairs an Actor with its Tour (spec.md §3). Only one Route per actor
// may be active inside a Solution at a time; Registry enforces this.
type Route struct {
	Actor *model.Actor
	Tour  *Tour
	state *RouteState
}

// NewRoute creates a fresh route for actor, starting and (if the actor has
// a pinned end location) ending at its detail locations, with an empty
// state cache.
func NewRoute(actor *model.Actor) *Route {
	start := NewStartActivity(actor.Detail.StartLocation, actor.Detail.Shift.Start)
	var end *Activity
	if actor.Detail.EndLocation != nil {
		end = NewEndActivity(*actor.Detail.EndLocation, actor.Detail.Shift.End)
	}
	return &Route{
		Actor: actor,
		Tour:  NewTour(start, end),
		state: newRouteState(),
	}
}

// State returns the route's state cache.
func (r *Route) State() *RouteState { return r.state }

// ClearState empties the cache; called whenever the tour is mutated, ahead
// of feature state-updaters re-populating the entries they own.
func (r *Route) ClearState() { r.state.Clear() }

// Clone returns a deep-enough copy of the route: a new Tour (deep-cloned
// activities) and a fresh, empty state cache -- state is never copied,
// since the spec requires it be re-derived by AcceptRouteState after any
// mutation, and cloning a route is itself treated as a mutation.
func (r *Route) Clone() *Route {
	return &Route{
		Actor: r.Actor,
		Tour:  r.Tour.Clone(),
		state: newRouteState(),
	}
}

// IsEmpty reports whether the route carries no job activities.
func (r *Route) IsEmpty() bool { return r.Tour.JobActivityCount() == 0 }
