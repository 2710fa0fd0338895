package evolution

import (
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/population"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/selector"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// noopRuin/noopRecreate let tests drive the controller loop without a real
// route/job fixture: a generation's child is identical to its parent, so
// fitness never improves and the archive settles after the first offer.
type noopRuin struct{}

func (noopRuin) Run(sol *solution.Solution, rng *rand.Rand) {}

type noopRecreate struct{}

func (noopRecreate) Run(sol *solution.Solution, rng *rand.Rand) {}

// constantObjective always reports the same fitness, so the pipeline built
// from it never rewards exploration -- exactly the case MinCVVariation is
// meant to catch.
type constantObjective struct{ v float64 }

func (o constantObjective) Fitness(sol *solution.Solution) float64   { return o.v }
func (o constantObjective) Estimate(ctx feature.MoveContext) float64 { return o.v }

func fixtureProblem(t *testing.T) *problem.Problem {
	t.Helper()
	f, err := feature.NewBuilder("cost").WithObjective(constantObjective{10}).Build()
	if err != nil {
		t.Fatalf("building fixture feature: %v", err)
	}
	pipeline, err := feature.Build([]feature.Feature{f}, nil)
	if err != nil {
		t.Fatalf("building fixture pipeline: %v", err)
	}
	return &problem.Problem{Pipeline: pipeline}
}

func fixtureSelector() *selector.Selector {
	ruins := []selector.NamedRuin{{Name: "noop", Ruin: noopRuin{}}}
	recreates := []selector.NamedRecreate{{Name: "noop", Recreate: noopRecreate{}}}
	return selector.NewEpsilonGreedyQLearning(ruins, recreates, 0.2, 0.9, 0, rand.New(rand.NewSource(1)))
}

func fixtureArchive(p *problem.Problem) *population.Archive {
	archive := population.NewArchive(10)
	archive.Offer(p.Pipeline, &solution.Solution{})
	return archive
}

func TestControllerStepAdvancesGeneration(t *testing.T) {
	p := fixtureProblem(t)
	c := New(p, Config{Archive: fixtureArchive(p), Selector: fixtureSelector(), MasterSeed: 1})

	c.Step()
	if c.Generation != 1 {
		t.Fatalf("Generation after one Step() = %d, want 1", c.Generation)
	}
	if len(c.bestFitnessHistory) != 1 {
		t.Fatalf("bestFitnessHistory length = %d, want 1", len(c.bestFitnessHistory))
	}
}

func TestControllerStepParallelOffspringAllRejectedAsDuplicates(t *testing.T) {
	p := fixtureProblem(t)
	c := New(p, Config{Archive: fixtureArchive(p), Selector: fixtureSelector(), MasterSeed: 7, Parallelism: 4})

	c.Step()
	if c.Generation != 1 {
		t.Fatalf("Generation after one Step() with Parallelism=4 = %d, want 1 (one Step is one generation)", c.Generation)
	}
	// Every worker's child is fitness-identical to the seeded member (noop
	// ruin/recreate), so the archive should still hold exactly one member.
	if c.Config.Archive.Len() != 1 {
		t.Fatalf("Archive.Len() = %d, want 1 (all offspring are duplicates of the seed)", c.Config.Archive.Len())
	}
}

func TestRunStopsAtMaxGenerations(t *testing.T) {
	p := fixtureProblem(t)
	c := New(p, Config{
		Archive:      fixtureArchive(p),
		Selector:     fixtureSelector(),
		MasterSeed:   3,
		Terminations: []Termination{MaxGenerations{Limit: 5}},
	})

	best := c.Run()
	if c.Generation != 5 {
		t.Fatalf("Generation after Run() = %d, want 5", c.Generation)
	}
	if best == nil {
		t.Fatal("Run() should return a non-nil best member")
	}
	if c.Phase != Terminated {
		t.Fatalf("Phase after Run() = %v, want Terminated", c.Phase)
	}
}

func TestMaxTimeTermination(t *testing.T) {
	m := MaxTime{Limit: 0}
	c := &Controller{}
	c.startedAt = time.Now().Add(-time.Millisecond)
	if !m.ShouldStop(c) {
		t.Fatal("MaxTime{0} should stop immediately once any time has elapsed")
	}
}

func TestMinCVVariationRequiresFullWindow(t *testing.T) {
	m := MinCVVariation{WindowSize: 3, Threshold: 0.5}
	c := &Controller{bestFitnessHistory: []float64{10, 10}}
	if m.ShouldStop(c) {
		t.Fatal("MinCVVariation should not fire before the window fills")
	}
	c.bestFitnessHistory = []float64{10, 10, 10}
	if !m.ShouldStop(c) {
		t.Fatal("MinCVVariation should fire once the window is constant (cv=0)")
	}
}

func TestHostSignalTermination(t *testing.T) {
	stopped := false
	h := HostSignal{Stop: func() bool { return stopped }}
	c := &Controller{}
	if h.ShouldStop(c) {
		t.Fatal("HostSignal should not fire before Stop reports true")
	}
	stopped = true
	if !h.ShouldStop(c) {
		t.Fatal("HostSignal should fire once Stop reports true")
	}
}

func TestShouldTerminateShortCircuitsOverTerminations(t *testing.T) {
	p := fixtureProblem(t)
	c := New(p, Config{
		Archive:  fixtureArchive(p),
		Selector: fixtureSelector(),
		Terminations: []Termination{
			MaxGenerations{Limit: 1000},
			MaxGenerations{Limit: 2},
		},
	})
	c.Generation = 2
	if !c.shouldTerminate() {
		t.Fatal("shouldTerminate() should fire once any configured Termination fires")
	}
}
