package solution

// RouteContext is the view a Feature's constraint/state methods get of one
// route being considered for a move. It is a thin, renamed wrapper around
// *Route so that feature code reads naturally against spec.md §4.D's
// vocabulary ("route_ctx.route()") without introducing a second mutable
// copy.
type RouteContext struct {
	route *Route
}

// NewRouteContext wraps a route for constraint/state evaluation.
func NewRouteContext(r *Route) RouteContext { return RouteContext{route: r} }

// Route returns the underlying route.
func (c RouteContext) Route() *Route { return c.route }

// State returns the route's state cache, the common case callers want.
func (c RouteContext) State() *RouteState { return c.route.State() }

// ActivityContext describes one candidate insertion point within a route:
// the activity immediately before it, the candidate activity itself (not
// yet spliced into the tour), and the activity immediately after.
type ActivityContext struct {
	Prev   *Activity
	Target *Activity
	Next   *Activity // nil when inserting at the tour's tail
}

// SolutionContext is the whole-solution view passed to FeatureState's
// AcceptSolutionState and to route-level constraints that need visibility
// beyond a single route (e.g. SharedResource).
type SolutionContext struct {
	solution *Solution
}

// NewSolutionContext wraps a solution for constraint/state evaluation.
func NewSolutionContext(s *Solution) SolutionContext { return SolutionContext{solution: s} }

// Solution returns the underlying solution.
func (c SolutionContext) Solution() *Solution { return c.solution }
