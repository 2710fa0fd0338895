package solver

import (
	"context"
	"testing"
	"time"
)

func TestSolveRejectsInvalidConfig(t *testing.T) {
	p := fixtureProblem(t, 5)
	cfg := Config{Search: SearchConfig{RuinOps: []string{"bogus"}}}
	_, err := Solve(context.Background(), p, cfg)
	if err == nil {
		t.Fatal("Solve() with an unknown ruin operator should error")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("Solve() error = %T, want *ConfigError", err)
	}
}

func TestSolveEndToEndProducesABestSolution(t *testing.T) {
	p := fixtureProblem(t, 6)
	cfg := Config{
		Termination: TerminationConfig{MaxGenerations: 3, MaxTime: 5 * time.Second},
		Population:  PopulationConfig{Size: 4},
		Environment: EnvironmentConfig{Seed: 1, Parallelism: 1},
		Search: SearchConfig{
			RuinOps:     []string{"random"},
			RecreateOps: []string{"cheapest"},
		},
	}
	result, err := Solve(context.Background(), p, cfg)
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if result.Solution == nil {
		t.Fatal("Solve() returned a nil best solution")
	}
	if result.Cancelled {
		t.Error("Solve() should not report cancellation for a context that was never cancelled")
	}
	if result.Generations <= 0 {
		t.Errorf("Generations = %d, want at least 1", result.Generations)
	}
}

func TestSolveHonoursContextCancellation(t *testing.T) {
	p := fixtureProblem(t, 6)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{
		Termination: TerminationConfig{MaxGenerations: 1000, MaxTime: 5 * time.Second},
		Population:  PopulationConfig{Size: 4},
		Environment: EnvironmentConfig{Seed: 1, Parallelism: 1},
		Search: SearchConfig{
			RuinOps:     []string{"random"},
			RecreateOps: []string{"cheapest"},
		},
	}
	result, err := Solve(ctx, p, cfg)
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if !result.Cancelled {
		t.Error("Solve() should report cancellation when ctx was already cancelled before the run")
	}
}
