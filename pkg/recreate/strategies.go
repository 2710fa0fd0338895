package recreate

import (
	"sort"

	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/problem"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Regret picks, at each step, the unassigned job with the largest regret
// -- the gap between its best and k-th best route cost -- and inserts it
// there, rather than always taking whichever job happens first (spec.md
// §4.F "Regret-k (k ∈ {2,3})"). This front-loads jobs that have few good
// homes, which tend to become infeasible if left for last.
type Regret struct {
	base
	K int
}

// NewRegret builds a Regret-k recreate strategy; k must be 2 or 3 per
// spec.md.
func NewRegret(p *problem.Problem, k int) *Regret { return &Regret{base{Problem: p}, k} }

func (r *Regret) Run(sol *solution.Solution, rng *rand.Rand) {
	ic := r.insertionContext(rng, nil)
	pending := unassignedJobs(r.Problem, sol)

	for len(pending) > 0 {
		bestIdx := -1
		bestRegret := -1.0

		for i, job := range pending {
			ranks := ic.RankRoutes(sol, job)
			if len(ranks) == 0 {
				continue
			}
			regret := 0.0
			if len(ranks) >= r.K {
				regret = ranks[r.K-1].Cost - ranks[0].Cost
			} else if len(ranks) > 1 {
				regret = ranks[len(ranks)-1].Cost - ranks[0].Cost
			}
			if regret > bestRegret {
				bestRegret, bestIdx = regret, i
			}
		}

		if bestIdx < 0 {
			// Every remaining job is infeasible everywhere; mark and stop.
			for _, job := range pending {
				attempt(ic, sol, job)
			}
			return
		}

		job := pending[bestIdx]
		attempt(ic, sol, job)
		pending = append(pending[:bestIdx], pending[bestIdx+1:]...)
	}
}

var _ Recreate = (*Regret)(nil)

// Blinks wraps any base strategy's scoring with exploration noise: with
// probability BlinkProbability, a candidate position has blinkPenalty
// added to its cost during ranking. A blinked position is not removed
// from the candidate set: it loses to any position that did not blink,
// and is still chosen when every position blinked.
type Blinks struct {
	base
	BlinkProbability float64
}

// NewBlinks builds the Blinks recreate strategy.
func NewBlinks(p *problem.Problem, blinkProbability float64) *Blinks {
	return &Blinks{base{Problem: p}, blinkProbability}
}

func (b *Blinks) Run(sol *solution.Solution, rng *rand.Rand) {
	noise := func(rng *rand.Rand, raw float64) float64 {
		if rng.Float64() < b.BlinkProbability {
			return raw + blinkPenalty
		}
		return raw
	}
	ic := b.insertionContext(rng, noise)
	for _, job := range unassignedJobs(b.Problem, sol) {
		attempt(ic, sol, job)
	}
}

// blinkPenalty is added (not infinite) so a blinked-away candidate can
// still win if every other candidate was blinked too; a true skip would
// risk leaving a job unassigned purely from unlucky draws.
const blinkPenalty = 1e12

var _ Recreate = (*Blinks)(nil)

// distanceOrder orders jobs by their first place's distance from an
// arbitrary fixed anchor (the first actor's start location), used by
// Farthest/Nearest to vary job-selection priority per spec.md §4.F.
func distanceOrder(p *problem.Problem, sol *solution.Solution, descending bool) []model.Job {
	jobs := unassignedJobs(p, sol)
	if len(p.Fleet.Actors) == 0 {
		return jobs
	}
	anchor := p.Fleet.Actors[0].Detail.StartLocation
	profile := p.Fleet.Actors[0].Profile

	type scored struct {
		job  model.Job
		dist float64
	}
	scoredJobs := make([]scored, 0, len(jobs))
	for _, j := range jobs {
		singles := j.AsSingles()
		if len(singles) == 0 || len(singles[0].Places) == 0 {
			scoredJobs = append(scoredJobs, scored{job: j, dist: 0})
			continue
		}
		loc := singles[0].Places[0].Location
		scoredJobs = append(scoredJobs, scored{job: j, dist: p.Transport.Distance(profile, anchor, loc, 0)})
	}
	sort.SliceStable(scoredJobs, func(i, j int) bool {
		if descending {
			return scoredJobs[i].dist > scoredJobs[j].dist
		}
		return scoredJobs[i].dist < scoredJobs[j].dist
	})
	out := make([]model.Job, len(scoredJobs))
	for i, s := range scoredJobs {
		out[i] = s.job
	}
	return out
}

// Farthest inserts jobs in descending distance-from-depot order.
type Farthest struct{ base }

// NewFarthest builds the Farthest recreate strategy.
func NewFarthest(p *problem.Problem) *Farthest { return &Farthest{base{Problem: p}} }

func (f *Farthest) Run(sol *solution.Solution, rng *rand.Rand) {
	ic := f.insertionContext(rng, nil)
	for _, job := range distanceOrder(f.Problem, sol, true) {
		attempt(ic, sol, job)
	}
}

var _ Recreate = (*Farthest)(nil)

// Nearest inserts jobs in ascending distance-from-depot order.
type Nearest struct{ base }

// NewNearest builds the Nearest recreate strategy.
func NewNearest(p *problem.Problem) *Nearest { return &Nearest{base{Problem: p}} }

func (n *Nearest) Run(sol *solution.Solution, rng *rand.Rand) {
	ic := n.insertionContext(rng, nil)
	for _, job := range distanceOrder(n.Problem, sol, false) {
		attempt(ic, sol, job)
	}
}

var _ Recreate = (*Nearest)(nil)

// Gaps prioritizes jobs with the fewest feasible routes (the smallest
// "gap" between the job and infeasibility), recomputing the feasible
// route count after every insertion since earlier commitments can close
// gaps for later jobs.
type Gaps struct{ base }

// NewGaps builds the Gaps recreate strategy.
func NewGaps(p *problem.Problem) *Gaps { return &Gaps{base{Problem: p}} }

func (g *Gaps) Run(sol *solution.Solution, rng *rand.Rand) {
	ic := g.insertionContext(rng, nil)
	pending := unassignedJobs(g.Problem, sol)

	for len(pending) > 0 {
		bestIdx, bestGap := -1, -1
		for i, job := range pending {
			ranks := ic.RankRoutes(sol, job)
			gap := len(ranks)
			if bestIdx < 0 || gap < bestGap {
				bestIdx, bestGap = i, gap
			}
		}
		job := pending[bestIdx]
		attempt(ic, sol, job)
		pending = append(pending[:bestIdx], pending[bestIdx+1:]...)
	}
}

var _ Recreate = (*Gaps)(nil)

// Perturbation is Cheapest with scoring noise scaled by Magnitude added
// to every candidate's raw cost, varying the selection priority run to
// run without changing the insertion algorithm itself (spec.md §4.F
// "vary ... the scoring noise").
type Perturbation struct {
	base
	Magnitude float64
}

// NewPerturbation builds the Perturbation recreate strategy.
func NewPerturbation(p *problem.Problem, magnitude float64) *Perturbation {
	return &Perturbation{base{Problem: p}, magnitude}
}

func (pt *Perturbation) Run(sol *solution.Solution, rng *rand.Rand) {
	noise := func(rng *rand.Rand, raw float64) float64 {
		return raw + (rng.Float64()*2-1)*pt.Magnitude*raw
	}
	ic := pt.insertionContext(rng, noise)
	for _, job := range unassignedJobs(pt.Problem, sol) {
		attempt(ic, sol, job)
	}
}

var _ Recreate = (*Perturbation)(nil)
