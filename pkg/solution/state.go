package solution

// StateKey identifies one entry of a RouteState or solution-level state
// cache. Per spec.md §9 ("reimplement as an array of Option<Value> keyed
// by a dense enum ... avoids hashing on hot paths"), keys are small
// sequential integers handed out by Register at pipeline-build time, not
// strings hashed on every lookup.
type StateKey int

// keyRegistry hands out StateKeys in a process-wide dense sequence. A
// single registry is shared by every feature pipeline built in a process;
// features register their keys once, in their constructor, and reuse the
// returned key afterwards.
var nextStateKey StateKey

// RegisterStateKey allocates and returns the next free StateKey. Call it
// once per distinct piece of state a feature wants to cache, typically
// from a package-level var block in the feature's own package.
func RegisterStateKey() StateKey {
	k := nextStateKey
	nextStateKey++
	return k
}

// RouteState is the keyed cache attached to a Route (spec.md §3). It is
// cleared whenever the tour is mutated and re-populated by feature
// state-updaters (FeatureState.AcceptRouteState) before the route is
// reused for constraint evaluation.
type RouteState struct {
	values []any
}

func newRouteState() *RouteState {
	return &RouteState{values: make([]any, nextStateKey)}
}

// Get returns the cached value for key, and whether one was set.
func (s *RouteState) Get(key StateKey) (any, bool) {
	if int(key) >= len(s.values) {
		return nil, false
	}
	v := s.values[key]
	return v, v != nil
}

// GetFloat is a convenience accessor for the common case of a float64
// state value (running distance/duration/load totals), defaulting to def
// when unset.
func (s *RouteState) GetFloat(key StateKey, def float64) float64 {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	f, _ := v.(float64)
	return f
}

// Put stores a value under key, growing the backing array if a key was
// registered after this state was allocated.
func (s *RouteState) Put(key StateKey, value any) {
	if int(key) >= len(s.values) {
		grown := make([]any, key+1)
		copy(grown, s.values)
		s.values = grown
	}
	s.values[key] = value
}

// Clear drops every cached value without shrinking the backing array,
// so that it can be cheaply reused.
func (s *RouteState) Clear() {
	for i := range s.values {
		s.values[i] = nil
	}
}

// SolutionState is the same keyed cache, scoped to a whole Solution rather
// than one Route (used by features whose objective/constraint needs
// solution-wide bookkeeping, e.g. FleetUsage's active-route count).
type SolutionState struct {
	values []any
}

func newSolutionState() *SolutionState {
	return &SolutionState{values: make([]any, nextStateKey)}
}

func (s *SolutionState) Get(key StateKey) (any, bool) {
	if int(key) >= len(s.values) {
		return nil, false
	}
	v := s.values[key]
	return v, v != nil
}

func (s *SolutionState) Put(key StateKey, value any) {
	if int(key) >= len(s.values) {
		grown := make([]any, key+1)
		copy(grown, s.values)
		s.values = grown
	}
	s.values[key] = value
}
