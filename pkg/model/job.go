package model

// Place is one candidate execution site for a Single job: a location, the
// service duration spent there, and the time windows during which service
// may start.
type Place struct {
	Location      Location
	Duration      Duration
	TimeWindows   []TimeWindow
	LocationAlias string // optional human-readable alias, logging only
}

// Single is a job with one or more alternative Places (exactly one of which
// is chosen at insertion time) and a Demand applied once, regardless of
// which place is chosen.
type Single struct {
	ID     string
	Places []Place
	Demand Demand
	// Dimens carries feature-owned, merge-able job data (skills required,
	// group membership, and so on); see feature.Pipeline.Merge.
	Dimens map[string]any
}

// Job is either a *Single or a *Multi. The interface exists purely so that
// collections (Problem.Jobs, Solution.Unassigned) can hold either without a
// type switch at every call site; see AsSingles for the common unwrap.
type Job interface {
	jobID() string
	// AsSingles returns the ordered list of Singles this job decomposes
	// into. A *Single returns itself; a *Multi returns its declared order.
	AsSingles() []*Single
}

// ID returns the stable identifier of a Job, whichever concrete type it is.
func ID(j Job) string { return j.jobID() }

func (s *Single) jobID() string       { return s.ID }
func (s *Single) AsSingles() []*Single { return []*Single{s} }

// Multi is an ordered bag of Singles that must all land on the same route,
// in declared order, or none of them land at all (spec.md §3 "Multi
// atomicity").
type Multi struct {
	ID   string
	Jobs []*Single
}

func (m *Multi) jobID() string { return m.ID }
func (m *Multi) AsSingles() []*Single { return m.Jobs }

// IsMulti reports whether j is a multi-job, and returns it cast if so.
func IsMulti(j Job) (*Multi, bool) {
	m, ok := j.(*Multi)
	return m, ok
}
