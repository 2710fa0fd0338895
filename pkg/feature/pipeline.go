package feature

import (
	"fmt"

	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Dependency declares that a feature's state update must run after another
// feature's, because it reads a state key the other owns (spec.md §4.D:
// "features form a DAG by declared state-key dependencies; a topological
// order is fixed at pipeline-build time"). Dependencies are declared by
// name since a feature may legitimately be rebuilt (different weight,
// different profile) under the same logical position in several problem
// variants.
type Dependency struct {
	Before string // this feature's name
	After  string // must run after this feature's name
}

// Pipeline is the ordered composition of every Feature active for a
// Problem. Constraint evaluation stops at the first violation of any kind,
// Stopped or not; state acceptance always runs every feature, in the fixed
// topological order.
type Pipeline struct {
	features []Feature
	// order is the index permutation of features used for state
	// acceptance, resolved once at Build time.
	order []int
}

// Build resolves a topological order over deps and returns a Pipeline.
// Two features with no declared relationship keep the relative order they
// were passed in, so pipelines stay deterministic run to run.
func Build(features []Feature, deps []Dependency) (*Pipeline, error) {
	index := make(map[string]int, len(features))
	for i, f := range features {
		if _, dup := index[f.Name]; dup {
			return nil, fmt.Errorf("feature: duplicate feature name %q", f.Name)
		}
		index[f.Name] = i
	}

	after := make([][]int, len(features)) // after[i] = features that must come before i
	for _, d := range deps {
		bi, ok := index[d.Before]
		if !ok {
			return nil, fmt.Errorf("feature: dependency references unknown feature %q", d.Before)
		}
		ai, ok := index[d.After]
		if !ok {
			return nil, fmt.Errorf("feature: dependency references unknown feature %q", d.After)
		}
		after[bi] = append(after[bi], ai)
	}

	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make([]int, len(features))
	order := make([]int, 0, len(features))

	var visit func(i int) error
	visit = func(i int) error {
		switch color[i] {
		case black:
			return nil
		case grey:
			return fmt.Errorf("feature: state-key dependency cycle through %q", features[i].Name)
		}
		color[i] = grey
		for _, dep := range after[i] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[i] = black
		order = append(order, i)
		return nil
	}
	for i := range features {
		if err := visit(i); err != nil {
			return nil, err
		}
	}

	return &Pipeline{features: features, order: order}, nil
}

// Features returns the pipeline's features in build order (not the
// resolved acceptance order).
func (p *Pipeline) Features() []Feature { return p.features }

// Evaluate runs every feature's Constraint against ctx in build order,
// returning the first violation encountered. A Stopped violation and a
// plain one are both returned as-is; callers distinguish by inspecting
// Violation.Stopped.
func (p *Pipeline) Evaluate(ctx MoveContext) *Violation {
	for _, f := range p.features {
		if f.Constraint == nil {
			continue
		}
		if v := f.Constraint.Evaluate(ctx); v != nil {
			return v
		}
	}
	return nil
}

// Merge runs every feature's Constraint.Merge in sequence, threading the
// (possibly feature-annotated) job through each. Used when a Multi folds
// two Singles into one combined demand/time-window job at problem-build
// time.
func (p *Pipeline) Merge(a, b model.Job) (model.Job, error) {
	result := a
	for _, f := range p.features {
		if f.Constraint == nil {
			continue
		}
		merged, err := f.Constraint.Merge(result, b)
		if err != nil {
			return nil, fmt.Errorf("feature %s: merge: %w", f.Name, err)
		}
		result = merged
	}
	return result, nil
}

// AcceptInsertion notifies every stateful feature, in topological order,
// that job was committed to route routeIdx of sol.
func (p *Pipeline) AcceptInsertion(sol *solution.Solution, routeIdx int, job model.Job) {
	for _, i := range p.order {
		if f := p.features[i]; f.State != nil {
			f.State.AcceptInsertion(sol, routeIdx, job)
		}
	}
}

// AcceptRouteState re-derives every stateful feature's route-scoped cache
// entries, in topological order. Callers must have cleared the route's
// state (Route.ClearState) before calling this, or re-derivation would
// read stale values through the features that come first in order.
func (p *Pipeline) AcceptRouteState(routeCtx solution.RouteContext) {
	for _, i := range p.order {
		if f := p.features[i]; f.State != nil {
			f.State.AcceptRouteState(routeCtx)
		}
	}
}

// AcceptSolutionState re-derives every stateful feature's solution-scoped
// cache entries, in topological order.
func (p *Pipeline) AcceptSolutionState(solCtx solution.SolutionContext) {
	for _, i := range p.order {
		if f := p.features[i]; f.State != nil {
			f.State.AcceptSolutionState(solCtx)
		}
	}
}

// Fitness sums every feature's objective contribution for sol. Spec.md
// §4.I treats each contributing feature as one component of a vector
// objective; callers that need the per-feature breakdown (population's
// non-dominated sort) should call FitnessVector instead.
func (p *Pipeline) Fitness(sol *solution.Solution) float64 {
	var total float64
	for _, f := range p.features {
		if f.Objective != nil {
			total += f.Objective.Fitness(sol)
		}
	}
	return total
}

// FitnessVector returns one fitness value per objective-bearing feature,
// in pipeline order, for use as an NSGA-II chromosome-fitness vector.
func (p *Pipeline) FitnessVector(sol *solution.Solution) []float64 {
	vec := make([]float64, 0, len(p.features))
	for _, f := range p.features {
		if f.Objective != nil {
			vec = append(vec, f.Objective.Fitness(sol))
		}
	}
	return vec
}

// Estimate sums every feature's incremental cost estimate for ctx, used by
// the insertion heuristic to rank candidate positions without committing
// them.
func (p *Pipeline) Estimate(ctx MoveContext) float64 {
	var total float64
	for _, f := range p.features {
		if f.Objective != nil {
			total += f.Objective.Estimate(ctx)
		}
	}
	return total
}
