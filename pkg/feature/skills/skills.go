// Package skills implements the hard constraint of spec.md §4.D: a job may
// only land on an actor that carries every skill the job's Dimens declares
// under the "skills" key.
package skills

import (
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
)

// DimensKey is the Single.Dimens entry holding a job's required skills
// ([]string). A Single with no such entry, or an empty slice, requires no
// skills.
const DimensKey = "skills"

// Code is the violation reported when an actor is missing a required
// skill.
const Code feature.ViolationCode = 20

// New builds the skills feature.
func New(name string) (feature.Feature, error) {
	return feature.NewBuilder(name).WithConstraint(&constraint{}).Build()
}

type constraint struct{}

func (constraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.RouteLevel {
		return nil
	}
	actor := ctx.RouteCtx.Route().Actor
	for _, single := range ctx.Job.AsSingles() {
		required, _ := single.Dimens[DimensKey].([]string)
		if !actor.HasSkills(required) {
			return feature.FailStop(Code)
		}
	}
	return nil
}

func (constraint) Merge(a, b model.Job) (model.Job, error) {
	as, aok := as1(a)
	bs, bok := as1(b)
	if !aok || !bok {
		return a, nil
	}
	ra, _ := as.Dimens[DimensKey].([]string)
	rb, _ := bs.Dimens[DimensKey].([]string)
	merged := mergeSkills(ra, rb)
	if as.Dimens == nil {
		as.Dimens = make(map[string]any)
	}
	as.Dimens[DimensKey] = merged
	return a, nil
}

func as1(j model.Job) (*model.Single, bool) {
	singles := j.AsSingles()
	if len(singles) != 1 {
		return nil, false
	}
	return singles[0], true
}

func mergeSkills(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

var _ feature.Constraint = (*constraint)(nil)
