package solution

import "github.com/binyao-or/vrp-solver/pkg/model"

// ReasonCode is a small integer diagnosing why a job could not be placed;
// see spec.md glossary "Violation code". Concrete codes are owned by the
// feature package (each Feature's Constraint carries its own code), this
// package only stores the last one observed per unassigned job.
type ReasonCode int

// NoReason is the zero value, used for jobs that were never attempted
// (should not occur once recreate has run to completion).
const NoReason ReasonCode = 0

// Solution is the mutable aggregate spec.md §3 describes: a set of routes,
// the unassigned-job map, a registry of spare actors, and opaque extras
// for feature-private solution-wide bookkeeping.
type Solution struct {
	Routes     []*Route
	Unassigned map[string]ReasonCode // job ID -> last reason code
	Registry   *Registry
	Extras     map[string]any
	state      *SolutionState
}

// New builds an empty solution over problem's fleet with every job
// unassigned, ready for a recreate-from-empty pass.
func New(fleet *model.Fleet, jobIDs []string) *Solution {
	s := &Solution{
		Unassigned: make(map[string]ReasonCode, len(jobIDs)),
		Registry:   NewRegistry(fleet),
		Extras:     make(map[string]any),
		state:      newSolutionState(),
	}
	for _, id := range jobIDs {
		s.Unassigned[id] = NoReason
	}
	return s
}

// State returns the solution-wide state cache, creating it on first use
// for a Solution that was not built by New.
func (s *Solution) State() *SolutionState {
	if s.state == nil {
		s.state = newSolutionState()
	}
	return s.state
}

// RouteFor returns the route whose actor matches actorID, or nil.
func (s *Solution) RouteFor(actorID string) *Route {
	for _, r := range s.Routes {
		if r.Actor.ID == actorID {
			return r
		}
	}
	return nil
}

// AddRoute appends a new active route, claiming its actor from the
// registry. Returns false, without adding the route, if the registry does
// not hold the actor as unused (it is already in use, or it is not part of
// the fleet the registry was seeded with).
func (s *Solution) AddRoute(r *Route) bool {
	if !s.Registry.TryUse(r.Actor) {
		return false
	}
	s.Routes = append(s.Routes, r)
	return true
}

// RemoveRoute tears down an empty route, releasing its actor back to the
// registry. Panics if the route still carries job activities -- callers
// must ruin it first.
func (s *Solution) RemoveRoute(r *Route) {
	if !r.IsEmpty() {
		panic("solution: RemoveRoute called on a non-empty route")
	}
	for i, candidate := range s.Routes {
		if candidate == r {
			s.Routes = append(s.Routes[:i], s.Routes[i+1:]...)
			break
		}
	}
	s.Registry.Release(r.Actor)
}

// MarkUnassigned records job as unassigned with the given reason,
// overwriting any previous reason (spec.md §4.F: "leaves it Unassigned
// with the worst-severity reason code observed" -- callers compare
// severity before calling this).
func (s *Solution) MarkUnassigned(jobID string, reason ReasonCode) {
	s.Unassigned[jobID] = reason
}

// MarkAssigned removes job from the unassigned set once it has been
// committed to a route.
func (s *Solution) MarkAssigned(jobID string) {
	delete(s.Unassigned, jobID)
}

// Clone returns a solution with independently-mutable routes and registry
// but no shared mutable state with the original -- "cheap-to-clone via
// structural sharing of routes not touched" (spec.md §3) is approximated
// here by cloning every route; callers that want the sharing optimisation
// for routes they know are untouched can reuse a Route pointer directly
// instead of going through Clone.
func (s *Solution) Clone() *Solution {
	clone := &Solution{
		Routes:     make([]*Route, len(s.Routes)),
		Unassigned: make(map[string]ReasonCode, len(s.Unassigned)),
		Registry:   s.Registry.Clone(),
		Extras:     make(map[string]any, len(s.Extras)),
		state:      newSolutionState(),
	}
	for i, r := range s.Routes {
		clone.Routes[i] = r.Clone()
	}
	for k, v := range s.Unassigned {
		clone.Unassigned[k] = v
	}
	for k, v := range s.Extras {
		clone.Extras[k] = v
	}
	return clone
}
