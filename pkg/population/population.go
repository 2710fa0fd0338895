// Package population implements component I, spec.md §4.I: a bounded
// Pareto archive over solutions, with non-dominated ranking and crowding
// distance generalized from the teacher's integer-chromosome NSGA-II
// (_examples/mihai-snyk-descheduler/pkg/framework/plugins/multiobjective/algorithms/nsga2.go)
// to VRP solutions scored by feature.Pipeline.FitnessVector.
package population

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

// Member wraps one archived solution with its objective-space point and
// the bookkeeping NSGA-II needs: dominance rank (0 = front 1) and crowding
// distance within its front.
type Member struct {
	Solution *solution.Solution
	Value    []float64

	Rank     int
	Distance float64
}

// Epsilon bounds the niching comparison in isDuplicate: two members whose
// hard-feature counts match and whose cost differs by less than Epsilon
// are the same solution for archive purposes (spec.md §4.I "niching").
const Epsilon = 1e-6

// Archive is a bounded-capacity Pareto archive. Capacity <= 0 means
// unbounded.
type Archive struct {
	Capacity int
	members  []*Member
}

// NewArchive builds an empty archive with the given capacity.
func NewArchive(capacity int) *Archive {
	return &Archive{Capacity: capacity}
}

// Members returns the current archive contents in no particular order.
func (a *Archive) Members() []*Member { return a.members }

// Len reports how many solutions the archive currently holds.
func (a *Archive) Len() int { return len(a.members) }

// Best returns the archive member with rank 0 and largest crowding
// distance, i.e. the most representative current best, or nil if empty.
// Callers should have called Rescore first so Rank/Distance are current.
func (a *Archive) Best() *Member {
	var best *Member
	for _, m := range a.members {
		if m.Rank != 0 {
			continue
		}
		if best == nil || m.Distance > best.Distance {
			best = m
		}
	}
	return best
}

// Offer evaluates sol against the pipeline and attempts to admit it into
// the archive (spec.md §4.I "admission rule"): admitted iff not dominated
// by any existing member, with niching dedup against near-identical
// members and smallest-crowding-distance eviction when the archive is
// full. Returns whether sol was admitted.
func (a *Archive) Offer(pipeline *feature.Pipeline, sol *solution.Solution) bool {
	value := pipeline.FitnessVector(sol)
	candidate := &Member{Solution: sol, Value: value}

	for _, m := range a.members {
		if Dominates(m, candidate) {
			return false
		}
		if isDuplicate(m, candidate) {
			return false
		}
	}

	kept := a.members[:0:0]
	for _, m := range a.members {
		if !Dominates(candidate, m) {
			kept = append(kept, m)
		}
	}
	a.members = append(kept, candidate)

	a.Rescore()
	if a.Capacity > 0 && len(a.members) > a.Capacity {
		a.evictSmallestCrowding()
	}
	return true
}

// Rescore recomputes every member's Rank and Distance from scratch.
func (a *Archive) Rescore() {
	fronts := NonDominatedSort(a.members)
	for _, front := range fronts {
		CrowdingDistance(front)
	}
}

func (a *Archive) evictSmallestCrowding() {
	worst := 0
	for i, m := range a.members {
		if m.Distance < a.members[worst].Distance {
			worst = i
		}
	}
	a.members = append(a.members[:worst], a.members[worst+1:]...)
}

// isDuplicate implements spec.md §4.I's niching rule: identical hard
// feature counts (every value but the last, which is cost by convention of
// feature.Pipeline.FitnessVector's ordering) and cost within Epsilon.
func isDuplicate(a, b *Member) bool {
	if len(a.Value) != len(b.Value) || len(a.Value) == 0 {
		return false
	}
	for i := 0; i < len(a.Value)-1; i++ {
		if a.Value[i] != b.Value[i] {
			return false
		}
	}
	last := len(a.Value) - 1
	return math.Abs(a.Value[last]-b.Value[last]) < Epsilon
}

// Dominates reports whether a dominates b: no worse in every objective and
// strictly better in at least one, minimising every objective.
func Dominates(a, b *Member) bool {
	better := false
	for i := range a.Value {
		if a.Value[i] > b.Value[i] {
			return false
		}
		if a.Value[i] < b.Value[i] {
			better = true
		}
	}
	return better
}

// NonDominatedSort partitions members into dominance fronts, front 0 being
// non-dominated by anything else in the set, and assigns each member's
// Rank to its front index.
func NonDominatedSort(members []*Member) [][]*Member {
	var fronts [][]*Member
	dominated := make(map[int][]int, len(members))
	domCount := make([]int, len(members))

	for i := range members {
		for j := range members {
			if i == j {
				continue
			}
			if Dominates(members[i], members[j]) {
				dominated[i] = append(dominated[i], j)
			} else if Dominates(members[j], members[i]) {
				domCount[i]++
			}
		}
	}

	var current []int
	for i := range members {
		if domCount[i] == 0 {
			members[i].Rank = 0
			current = append(current, i)
		}
	}
	if len(current) > 0 {
		fronts = append(fronts, indexTo(members, current))
	}

	rank := 0
	for len(current) > 0 {
		var next []int
		for _, idx := range current {
			for _, di := range dominated[idx] {
				domCount[di]--
				if domCount[di] == 0 {
					members[di].Rank = rank + 1
					next = append(next, di)
				}
			}
		}
		rank++
		if len(next) > 0 {
			fronts = append(fronts, indexTo(members, next))
		}
		current = next
	}
	return fronts
}

func indexTo(members []*Member, idx []int) []*Member {
	out := make([]*Member, len(idx))
	for i, j := range idx {
		out[i] = members[j]
	}
	return out
}

// CrowdingDistance assigns each member of front its crowding distance,
// boundary points getting +Inf so they are never preferentially evicted.
func CrowdingDistance(front []*Member) {
	if len(front) <= 2 {
		for _, m := range front {
			m.Distance = math.Inf(1)
		}
		return
	}
	for _, m := range front {
		m.Distance = 0
	}
	numObjectives := len(front[0].Value)
	for obj := 0; obj < numObjectives; obj++ {
		sort.Slice(front, func(i, j int) bool { return front[i].Value[obj] < front[j].Value[obj] })
		front[0].Distance = math.Inf(1)
		front[len(front)-1].Distance = math.Inf(1)
		spread := front[len(front)-1].Value[obj] - front[0].Value[obj]
		if spread == 0 {
			continue
		}
		for i := 1; i < len(front)-1; i++ {
			front[i].Distance += (front[i+1].Value[obj] - front[i-1].Value[obj]) / spread
		}
	}
}

// TournamentSelect picks one parent via k-way tournament, preferring lower
// Rank and, among equal ranks, larger Distance. Callers must call Rescore
// first so Rank/Distance reflect the current archive.
func TournamentSelect(members []*Member, size int, rng *rand.Rand) *Member {
	if size < 2 {
		size = 2
	}
	best := members[rng.Intn(len(members))]
	for i := 1; i < size; i++ {
		contestant := members[rng.Intn(len(members))]
		if contestant.Rank < best.Rank || (contestant.Rank == best.Rank && contestant.Distance > best.Distance) {
			best = contestant
		}
	}
	return best
}
