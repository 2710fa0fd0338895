// Package evolution implements component J, spec.md §4.J: the state
// machine driving generations of ruin-and-recreate search over a
// population.Archive.
package evolution

import (
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/localsearch"
	"github.com/binyao-or/vrp-solver/pkg/population"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/rng"
	"github.com/binyao-or/vrp-solver/pkg/selector"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Phase is the controller's own lifecycle state, distinct from
// selector.Phase (the MDP's exploration/exploitation state): spec.md
// §4.J's "INIT -> RUN -> (TERMINATED)".
type Phase int

const (
	Init Phase = iota
	Running
	Terminated
)

// Termination is one independent stopping condition; the first of the
// configured conditions to fire ends the run (spec.md §4.J "each condition
// is independent; first to fire wins").
type Termination interface {
	ShouldStop(c *Controller) bool
}

// MaxGenerations stops once Generation reaches Limit.
type MaxGenerations struct{ Limit int }

func (m MaxGenerations) ShouldStop(c *Controller) bool { return c.Generation >= m.Limit }

// MaxTime stops once Limit has elapsed since the controller started.
type MaxTime struct{ Limit time.Duration }

func (m MaxTime) ShouldStop(c *Controller) bool { return time.Since(c.startedAt) >= m.Limit }

// MinCVVariation stops once the coefficient of variation of the best
// fitness seen over the last WindowSize generations falls below
// Threshold -- spec.md §4.J "min_cv_variation (coefficient of variation of
// best fitness over a sliding window falls below threshold)".
type MinCVVariation struct {
	WindowSize int
	Threshold  float64
}

func (m MinCVVariation) ShouldStop(c *Controller) bool {
	window := c.bestFitnessHistory
	if len(window) < m.WindowSize {
		return false
	}
	window = window[len(window)-m.WindowSize:]
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))
	if mean == 0 {
		return true
	}
	variance := 0.0
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(window))
	cv := math.Sqrt(variance) / mean
	return cv < m.Threshold
}

// HostSignal stops once Stop reports true, letting an embedding caller
// cancel a run cooperatively between generations (spec.md §4.J "a signal
// from the host").
type HostSignal struct{ Stop func() bool }

func (h HostSignal) ShouldStop(c *Controller) bool { return h.Stop != nil && h.Stop() }

// Config bundles everything a Controller needs beyond the Problem itself.
type Config struct {
	Archive      *population.Archive
	Selector     *selector.Selector
	LocalSearch  []localsearch.Move // tried in order after recreate; spec.md §4.J step 6 "optional local search"
	Terminations []Termination
	MasterSeed   uint64

	// Parallelism is the number of offspring generated concurrently per
	// generation, spec.md §5 "multiple offspring may be generated per
	// generation and evaluated in parallel, then batched into one
	// population update". 0 or 1 runs the generation sequentially on the
	// controller goroutine.
	Parallelism int
}

func (cfg Config) parallelism() int {
	if cfg.Parallelism < 1 {
		return 1
	}
	return cfg.Parallelism
}

// Controller drives the RUN loop. Zero value is not usable; build via New.
type Controller struct {
	Problem    *problem.Problem
	Config     Config
	Phase      Phase
	Generation int

	startedAt          time.Time
	bestFitnessHistory []float64
	searchPhase        selector.Phase
}

// New builds a controller in the INIT phase.
func New(p *problem.Problem, cfg Config) *Controller {
	return &Controller{Problem: p, Config: cfg, Phase: Init, searchPhase: selector.Exploration}
}

// Run advances the controller from INIT through RUN until a termination
// condition fires, returning the best archive member found.
func (c *Controller) Run() *population.Member {
	c.startedAt = time.Now()
	c.Phase = Running
	for c.Phase == Running {
		c.Step()
		if c.shouldTerminate() {
			c.Phase = Terminated
		}
	}
	return c.Config.Archive.Best()
}

func (c *Controller) shouldTerminate() bool {
	for _, t := range c.Config.Terminations {
		if t.ShouldStop(c) {
			return true
		}
	}
	return false
}

// offspring is one worker's generated child, carried back to the
// controller goroutine for serialised acceptance (spec.md §5 "Acceptance
// into the population is serialised ... offered in a deterministic order
// (by worker index)").
type offspring struct {
	op     selector.Operator
	parent *solution.Solution
	child  *solution.Solution
	rng    *rand.Rand
}

// Step runs exactly one RUN iteration (spec.md §4.J's ten numbered
// substeps), useful for callers driving generations one at a time (e.g.
// under an external cancellation check between insertions). It generates
// Config.Parallelism offspring concurrently -- each worker owns a private
// clone of its parent and a thread-local RNG seeded from the master seed,
// the generation, and its own worker index (spec.md §5's
// seed(master, worker) scheme) -- then accepts them into the archive one
// at a time, in worker-index order, on the controller goroutine.
func (c *Controller) Step() {
	workers := c.Config.parallelism()

	// Operator choice and parent selection touch shared, mutable state
	// (the selector's MDP table, the archive's crowding ranks), so they
	// run serially on the controller goroutine before any worker starts;
	// only the ruin/recreate/local-search work below is parallel.
	jobs := make([]offspring, workers)
	for w := 0; w < workers; w++ {
		workerRNG := rng.New64(rng.Seed(c.Config.MasterSeed, uint64(c.Generation)*uint64(workers)+uint64(w)))
		op := c.Config.Selector.Choose(c.searchPhase)
		parent := c.pickParent(workerRNG)
		jobs[w] = offspring{op: op, parent: parent, child: parent.Clone(), rng: workerRNG}
	}

	var wg sync.WaitGroup
	for w := range jobs {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			job := &jobs[w]
			job.op.Ruin.Run(job.child, job.rng)
			job.op.Recreate.Run(job.child, job.rng)
			for _, move := range c.Config.LocalSearch {
				for move.Apply(job.child) {
				}
			}
		}(w)
	}
	wg.Wait()

	for _, job := range jobs {
		c.Config.Archive.Offer(c.Problem.Pipeline, job.child)

		reward := c.normalisedImprovement(job.parent, job.child)
		nextPhase := selector.ClassifyPhase(reward)
		c.Config.Selector.Feed(c.searchPhase, job.op, reward, nextPhase)
		c.searchPhase = nextPhase
	}

	if best := c.Config.Archive.Best(); best != nil {
		c.bestFitnessHistory = append(c.bestFitnessHistory, c.Problem.Pipeline.Fitness(best.Solution))
	}

	c.Generation++
}

// pickParent selects a parent from the archive via tournament selection,
// or falls back to a uniformly random member if the archive has only one.
func (c *Controller) pickParent(worker *rand.Rand) *solution.Solution {
	members := c.Config.Archive.Members()
	if len(members) == 1 {
		return members[0].Solution
	}
	c.Config.Archive.Rescore()
	return population.TournamentSelect(members, 2, worker).Solution
}

// normalisedImprovement reports (parentFitness - childFitness) /
// parentFitness, spec.md §4.J step 8's "reward = normalised improvement
// vs parent" (positive when child is better, since both pipelines
// minimise).
func (c *Controller) normalisedImprovement(parent, child *solution.Solution) float64 {
	parentFitness := c.Problem.Pipeline.Fitness(parent)
	childFitness := c.Problem.Pipeline.Fitness(child)
	if parentFitness == 0 {
		return 0
	}
	return (parentFitness - childFitness) / parentFitness
}
