// Package solver implements the top-level entry point spec.md §6 names:
// `solve(problem, config) -> solution`. It wires pkg/problem,
// pkg/population, pkg/selector, pkg/evolution and pkg/telemetry together
// using the operator names and termination/population/search knobs Config
// exposes, styled after the teacher's split of its plugin's tunables into
// defaults.go/validation.go.
package solver

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/binyao-or/vrp-solver/pkg/evolution"
	"github.com/binyao-or/vrp-solver/pkg/population"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/rng"
	"github.com/binyao-or/vrp-solver/pkg/solution"
	"github.com/binyao-or/vrp-solver/pkg/telemetry"
)

// Result is what Solve returns: the best solution found, whether the
// search was cancelled before a termination condition fired on its own
// (spec.md §7 "Cancelled ... returns best-known solution and a
// cancellation flag"), and the number of generations actually run.
type Result struct {
	Solution    *solution.Solution
	Cancelled   bool
	Generations int
}

// Solve runs the full search described by config against p, returning the
// best solution in the final archive. p is never mutated; config is
// defaulted in place if any field is left zero before validation --
// callers that want to observe the effective config should call
// config.SetDefaults() themselves first.
func Solve(ctx context.Context, p *problem.Problem, config Config) (*Result, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	archive := population.NewArchive(config.Population.Size)
	worker := rng.New64(config.Environment.Seed)

	sel := buildSelector(config.Search, p, worker)
	moves := buildLocalSearch(config.Search.LocalSearch, p)

	for _, name := range config.Population.InitialMethods {
		if name != "gcsh" {
			continue
		}
		gcsh := population.NewGCSH(p)
		for _, sol := range gcsh.GenerateInitialPopulation(p.Pipeline, config.Environment.Seed, config.Population.Size) {
			archive.Offer(p.Pipeline, sol)
		}
	}
	if archive.Len() == 0 {
		return nil, &InternalError{Reason: "no initial solution could be constructed"}
	}

	var recorder *telemetry.Recorder
	if hasTelemetryMode(config.Telemetry, TelemetryMetric) {
		recorder = telemetry.NewRecorder(ctx, prometheus.DefaultRegisterer)
	}

	controller := evolution.New(p, evolution.Config{
		Archive:  archive,
		Selector: sel,
		LocalSearch: moves,
		Terminations: []evolution.Termination{
			evolution.MaxGenerations{Limit: config.Termination.MaxGenerations},
			evolution.MaxTime{Limit: config.Termination.MaxTime},
			evolution.MinCVVariation{WindowSize: config.Termination.MinCVSample, Threshold: config.Termination.MinCVRatio},
			evolution.HostSignal{Stop: func() bool { return ctx.Err() != nil }},
		},
		MasterSeed:  config.Environment.Seed,
		Parallelism: config.Environment.Parallelism,
	})

	best := controller.Run()
	if best == nil {
		return nil, &InternalError{Reason: "archive produced no best member after a completed run"}
	}

	if recorder != nil {
		recorder.Record(ctx, telemetry.Snapshot{
			Generation:  controller.Generation,
			BestFitness: best.Value,
		})
	}

	return &Result{
		Solution:    best.Solution,
		Cancelled:   ctx.Err() != nil,
		Generations: controller.Generation,
	}, nil
}

func hasTelemetryMode(modes []TelemetryMode, target TelemetryMode) bool {
	for _, m := range modes {
		if m == target {
			return true
		}
	}
	return false
}
