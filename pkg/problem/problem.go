// Package problem implements component B, the immutable aggregate spec.md
// §4.B describes: a fleet, a job set with precomputed per-profile
// neighbourhoods, locks, the constraint/objective feature pipeline, and
// the transport/activity cost oracle. A Problem is built once and shared
// read-only across every worker and generation (spec.md §3).
package problem

import (
	"fmt"

	"github.com/binyao-or/vrp-solver/pkg/cost"
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
)

// Problem is the read-only aggregate every solver component consults.
type Problem struct {
	Fleet     *model.Fleet
	Jobs      []model.Job
	Locks     *model.Locks
	Pipeline  *feature.Pipeline
	Transport cost.Transport
	Activity  cost.Activity

	// neighbours[profile][jobID] is jobIDs sorted by ascending transit
	// distance from that job's first place, computed once at Build time
	// (spec.md §4.B: "precomputed neighbourhood: per profile, each job's
	// jobs sorted by transit distance, memoised").
	neighbours map[string]map[string][]string
	byID       map[string]model.Job
}

// ConfigError reports a malformed build input (spec.md §7): a fleet with
// no actors, a pipeline that failed to build, and similar caller mistakes
// rather than a property of the jobs/locks data itself.
type ConfigError struct{ Reason string }

func (e *ConfigError) Error() string { return fmt.Sprintf("problem: config error: %s", e.Reason) }

// ValidationError reports an invariant violated by the supplied jobs/locks
// (spec.md §4.B: "every job reachable from at least one actor under
// locks; no conflicting locks").
type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return fmt.Sprintf("problem: validation error: %s", e.Reason) }

// Builder assembles a Problem, mirroring the teacher pack's fluent
// builder convention (feature.Builder, and the Rust original's
// FeatureBuilder/ProblemBuilder pattern it was itself modelled on).
type Builder struct {
	fleet     *model.Fleet
	jobs      []model.Job
	locks     *model.Locks
	pipeline  *feature.Pipeline
	transport cost.Transport
	activity  cost.Activity
}

// NewBuilder starts building a Problem.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) WithFleet(f *model.Fleet) *Builder         { b.fleet = f; return b }
func (b *Builder) WithJobs(jobs []model.Job) *Builder        { b.jobs = jobs; return b }
func (b *Builder) WithLocks(l *model.Locks) *Builder         { b.locks = l; return b }
func (b *Builder) WithPipeline(p *feature.Pipeline) *Builder { b.pipeline = p; return b }
func (b *Builder) WithTransport(t cost.Transport) *Builder   { b.transport = t; return b }
func (b *Builder) WithActivity(a cost.Activity) *Builder     { b.activity = a; return b }

// Build validates and finalizes the Problem.
func (b *Builder) Build() (*Problem, error) {
	if b.fleet == nil || len(b.fleet.Actors) == 0 {
		return nil, &ConfigError{Reason: "fleet has no actors"}
	}
	if b.transport == nil {
		return nil, &ConfigError{Reason: "no transport oracle supplied"}
	}
	if b.activity == nil {
		b.activity = cost.DefaultActivity{}
	}
	if b.pipeline == nil {
		return nil, &ConfigError{Reason: "no feature pipeline supplied"}
	}
	locks := b.locks
	if locks == nil {
		locks = model.NewLocks(nil)
	}

	p := &Problem{
		Fleet:     b.fleet,
		Jobs:      b.jobs,
		Locks:     locks,
		Pipeline:  b.pipeline,
		Transport: b.transport,
		Activity:  b.activity,
		byID:      make(map[string]model.Job, len(b.jobs)),
	}
	for _, j := range b.jobs {
		p.byID[model.ID(j)] = j
	}

	if bad := locks.Conflicts(); len(bad) > 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("jobs with conflicting locks: %v", bad)}
	}
	if err := p.validateReachability(); err != nil {
		return nil, err
	}

	p.computeNeighbours()
	return p, nil
}

func (p *Problem) validateReachability() error {
	var unreachable []string
	for _, job := range p.Jobs {
		jobID := model.ID(job)
		reachable := false
		for _, actor := range p.Fleet.Actors {
			if p.Locks.Allows(jobID, actor.ID) {
				reachable = true
				break
			}
		}
		if !reachable {
			unreachable = append(unreachable, jobID)
		}
	}
	if len(unreachable) > 0 {
		return &ValidationError{Reason: fmt.Sprintf("jobs reachable from no actor under locks: %v", unreachable)}
	}
	return nil
}

// JobByID looks a job up by its stable identifier.
func (p *Problem) JobByID(id string) (model.Job, bool) {
	j, ok := p.byID[id]
	return j, ok
}

func (p *Problem) computeNeighbours() {
	p.neighbours = make(map[string]map[string][]string)
	profiles := make(map[string]struct{})
	for _, a := range p.Fleet.Actors {
		profiles[a.Profile] = struct{}{}
	}

	type scored struct {
		id   string
		dist model.Distance
	}

	for profile := range profiles {
		perJob := make(map[string][]string, len(p.Jobs))
		locOf := make(map[string]model.Location, len(p.Jobs))
		for _, j := range p.Jobs {
			singles := j.AsSingles()
			if len(singles) == 0 || len(singles[0].Places) == 0 {
				continue
			}
			locOf[model.ID(j)] = singles[0].Places[0].Location
		}
		for _, j := range p.Jobs {
			jobID := model.ID(j)
			from, ok := locOf[jobID]
			if !ok {
				continue
			}
			candidates := make([]scored, 0, len(p.Jobs))
			for _, other := range p.Jobs {
				otherID := model.ID(other)
				if otherID == jobID {
					continue
				}
				to, ok := locOf[otherID]
				if !ok {
					continue
				}
				candidates = append(candidates, scored{id: otherID, dist: p.Transport.Distance(profile, from, to, 0)})
			}
			sortByDistance(candidates)
			ids := make([]string, len(candidates))
			for i, c := range candidates {
				ids[i] = c.id
			}
			perJob[jobID] = ids
		}
		p.neighbours[profile] = perJob
	}
}

func sortByDistance(s []struct {
	id   string
	dist model.Distance
}) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].dist < s[j-1].dist; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// Neighbours returns jobID's neighbour list under profile, sorted by
// ascending transit distance, or nil if either is unknown.
func (p *Problem) Neighbours(profile, jobID string) []string {
	perJob, ok := p.neighbours[profile]
	if !ok {
		return nil
	}
	return perJob[jobID]
}
