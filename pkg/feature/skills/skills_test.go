package skills

import (
	"testing"

	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

func routeForActor(skills ...string) solution.RouteContext {
	actor := &model.Actor{ID: "v1", Skills: skills, Detail: model.ActorDetail{Shift: model.TimeWindow{Start: 0, End: 1000}}}
	return solution.NewRouteContext(solution.NewRoute(actor))
}

func TestSkillsAllowsActorWithEverySkill(t *testing.T) {
	f, err := New("skills")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	job := &model.Single{ID: "j1", Dimens: map[string]any{DimensKey: []string{"crane"}}}
	ctx := feature.RouteMove(routeForActor("crane", "forklift"), job)
	if v := f.Constraint.Evaluate(ctx); v != nil {
		t.Fatalf("actor with required skill should be allowed, got %v", v)
	}
}

func TestSkillsRejectsMissingSkill(t *testing.T) {
	f, _ := New("skills")
	job := &model.Single{ID: "j1", Dimens: map[string]any{DimensKey: []string{"crane"}}}
	ctx := feature.RouteMove(routeForActor("forklift"), job)
	v := f.Constraint.Evaluate(ctx)
	if v == nil {
		t.Fatal("actor missing the required skill should be rejected")
	}
	if !v.Stopped {
		t.Error("a skills violation should stop the rest of the route scan")
	}
	if v.Code != Code {
		t.Errorf("violation code = %v, want %v", v.Code, Code)
	}
}

func TestSkillsNoRequirementAllowsAnyActor(t *testing.T) {
	f, _ := New("skills")
	job := &model.Single{ID: "j1"}
	ctx := feature.RouteMove(routeForActor(), job)
	if v := f.Constraint.Evaluate(ctx); v != nil {
		t.Fatalf("a job with no skills requirement should always be allowed, got %v", v)
	}
}

func TestSkillsMergeUnionsBothSingles(t *testing.T) {
	f, _ := New("skills")
	a := &model.Single{ID: "a", Dimens: map[string]any{DimensKey: []string{"crane"}}}
	b := &model.Single{ID: "b", Dimens: map[string]any{DimensKey: []string{"forklift", "crane"}}}

	merged, err := f.Constraint.Merge(a, b)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	single, ok := merged.(*model.Single)
	if !ok {
		t.Fatalf("Merge() returned %T, want *model.Single", merged)
	}
	skills := single.Dimens[DimensKey].([]string)
	if len(skills) != 2 {
		t.Fatalf("merged skills = %v, want 2 distinct entries (crane, forklift)", skills)
	}
}
