// Package feature implements the constraint/state/objective pipeline that
// spec.md §4.D calls "the linchpin": a Feature bundles an optional
// constraint, an optional state updater and an optional objective
// contribution, and features compose into a Pipeline that the insertion
// heuristic consults on every trial move.
//
// The shape is grounded on the teacher plugin's constraint/objective split
// (constraints.ResourceConstraint, objectives/*.ObjectiveFunc) generalised
// from a single func-type-per-concern into the three-capability interface
// spec.md asks for, and on original_source/vrp-core's tour_limits.rs for
// the Constraint/State method names and MoveContext shape.
package feature

import (
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// ViolationCode is solution.ReasonCode under the name spec.md uses in
// §4.D; the two are the same integer space so that Solution.Unassigned can
// store whichever code a Constraint produced without conversion.
type ViolationCode = solution.ReasonCode

// MoveContext discriminates the two granularities at which a Constraint is
// asked to rule on a candidate move (spec.md §4.D).
type MoveContext struct {
	// Kind reports which variant is populated.
	Kind MoveKind
	// Route-level fields, populated when Kind == RouteLevel.
	RouteCtx solution.RouteContext
	Job      model.Job
	// Activity-level fields, populated when Kind == ActivityLevel.
	ActivityCtx solution.ActivityContext
}

// MoveKind enumerates MoveContext variants.
type MoveKind int

const (
	// RouteLevel asks "can job go on this route at all", evaluated once
	// per candidate route before any position is walked.
	RouteLevel MoveKind = iota
	// ActivityLevel asks "can this activity be inserted at this specific
	// position", evaluated once per candidate position.
	ActivityLevel
)

// RouteMove builds a route-level MoveContext.
func RouteMove(routeCtx solution.RouteContext, job model.Job) MoveContext {
	return MoveContext{Kind: RouteLevel, RouteCtx: routeCtx, Job: job}
}

// ActivityMove builds an activity-level MoveContext.
func ActivityMove(routeCtx solution.RouteContext, activityCtx solution.ActivityContext) MoveContext {
	return MoveContext{Kind: ActivityLevel, RouteCtx: routeCtx, ActivityCtx: activityCtx}
}

// Violation is returned by a Constraint to veto a move. Stopped, when
// true, tells the insertion heuristic not to try any later position in
// this route (spec.md §4.E step 2: a "stopped" failure aborts the route,
// a plain "skip" failure just advances to the next position).
type Violation struct {
	Code    ViolationCode
	Stopped bool
}

// Fail builds a skip-only violation (enumeration continues at the next
// position).
func Fail(code ViolationCode) *Violation { return &Violation{Code: code} }

// FailStop builds a violation that aborts the rest of the route.
func FailStop(code ViolationCode) *Violation { return &Violation{Code: code, Stopped: true} }

// Constraint is the pure, side-effect-free half of a Feature. Returning
// nil means "feasible". Constraint.Evaluate must be callable twice with
// the same context and return the same verdict (spec.md §8 "feature
// purity").
type Constraint interface {
	Evaluate(ctx MoveContext) *Violation
	// Merge folds feature-specific job data when two jobs are coalesced
	// (e.g. by a Multi built from two Singles at problem-build time). Most
	// features simply return a unchanged.
	Merge(a, b model.Job) (model.Job, error)
}

// State re-establishes the cache entries a Feature's Constraint depends
// on, after every successful mutation (spec.md §4.D.2).
type State interface {
	AcceptInsertion(sol *solution.Solution, routeIdx int, job model.Job)
	AcceptRouteState(routeCtx solution.RouteContext)
	AcceptSolutionState(solCtx solution.SolutionContext)
	// StateKeys lists the keys this feature writes, used to build the
	// pipeline's topological acceptance order.
	StateKeys() []solution.StateKey
}

// Objective is the optional fitness contribution of a Feature (spec.md
// §4.D.3); aggregated by the multi-objective machinery in package
// population.
type Objective interface {
	Fitness(sol *solution.Solution) float64
	// Estimate incrementally scores a candidate move without committing
	// it; used by the insertion heuristic's cost ranking. Features that
	// cannot estimate cheaply may fall back to a full Fitness recompute.
	Estimate(ctx MoveContext) float64
}

// Feature bundles the (up to three) optional capabilities described above.
// At least one must be non-nil; a Feature with none is a build-time error.
type Feature struct {
	Name       string
	Constraint Constraint
	State      State
	Objective  Objective
}

// Builder assembles a Feature fluently, mirroring the teacher pack's
// FeatureBuilder-style constructors referenced throughout
// original_source/vrp-core's tour_limits.rs.
type Builder struct {
	f Feature
}

// NewBuilder starts building a feature with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{f: Feature{Name: name}}
}

// WithConstraint attaches a constraint and returns the builder.
func (b *Builder) WithConstraint(c Constraint) *Builder {
	b.f.Constraint = c
	return b
}

// WithState attaches a state updater and returns the builder.
func (b *Builder) WithState(s State) *Builder {
	b.f.State = s
	return b
}

// WithObjective attaches an objective contribution and returns the
// builder.
func (b *Builder) WithObjective(o Objective) *Builder {
	b.f.Objective = o
	return b
}

// Build finalises the feature, erroring if no capability was attached.
func (b *Builder) Build() (Feature, error) {
	if b.f.Constraint == nil && b.f.State == nil && b.f.Objective == nil {
		return Feature{}, &emptyFeatureError{name: b.f.Name}
	}
	return b.f, nil
}

type emptyFeatureError struct{ name string }

func (e *emptyFeatureError) Error() string {
	return "feature: " + e.name + " has no constraint, state or objective capability"
}
