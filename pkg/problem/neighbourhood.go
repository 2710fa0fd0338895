package problem

import "github.com/binyao-or/vrp-solver/pkg/model"

// NeighbourhoodView adapts Problem's precomputed per-profile neighbour
// lists to feature/reachablejobs.Neighborhood, bounding how many of a
// job's nearest neighbours count as "reachable" from a given location.
// Problem does not import the feature subpackages directly (it only
// imports the feature.Pipeline built from them), so this adapter lives
// here rather than forcing reachablejobs to import problem.
type NeighbourhoodView struct {
	problem *Problem
	topK    int
}

// NewNeighbourhoodView wraps problem, considering a job reachable from a
// location if some job co-located there appears among the origin job's
// topK nearest neighbours (0 means unbounded: every precomputed
// neighbour counts).
func NewNeighbourhoodView(p *Problem, topK int) *NeighbourhoodView {
	return &NeighbourhoodView{problem: p, topK: topK}
}

// Reachable implements feature/reachablejobs.Neighborhood.
func (v *NeighbourhoodView) Reachable(profile string, from model.Location, job model.Job) bool {
	originID := v.originAt(profile, from)
	if originID == "" {
		return true // no known anchor job at this location, don't prune
	}
	list := v.problem.Neighbours(profile, originID)
	if v.topK > 0 && v.topK < len(list) {
		list = list[:v.topK]
	}
	target := model.ID(job)
	for _, id := range list {
		if id == target {
			return true
		}
	}
	return false
}

func (v *NeighbourhoodView) originAt(profile string, loc model.Location) string {
	for _, j := range v.problem.Jobs {
		singles := j.AsSingles()
		if len(singles) == 0 || len(singles[0].Places) == 0 {
			continue
		}
		if singles[0].Places[0].Location == loc {
			return model.ID(j)
		}
	}
	return ""
}
