// Package tourlimits implements the three tour-shape hard constraints
// spec.md §4.D groups under "TourLimits": a cap on activity count, a cap
// on distinct locations visited, and optional per-actor distance/duration
// travel budgets.
//
// Directly grounded on
// original_source/vrp-core/src/construction/features/tour_limits.rs
// (ActivityLimitConstraint, LocationLimitConstraint, TravelLimitConstraint
// plus its TravelLimitState). The location-uniqueness check there chains
// job_place_set_option.iter() with itself before the union with the tour's
// place set -- a harmless but clearly unintentional duplication, since it
// flows into a HashSet. This port does the single correct union instead
// (spec.md §9 open question, resolved in DESIGN.md).
package tourlimits

import (
	"github.com/binyao-or/vrp-solver/pkg/cost"
	"github.com/binyao-or/vrp-solver/pkg/feature"
	"github.com/binyao-or/vrp-solver/pkg/model"
	"github.com/binyao-or/vrp-solver/pkg/solution"
)

var (
	totalDistanceKey = solution.RegisterStateKey() // float64, running route distance
	totalDurationKey = solution.RegisterStateKey() // float64, running route duration
	distanceLimitKey = solution.RegisterStateKey() // float64, actor's resolved distance budget
	durationLimitKey = solution.RegisterStateKey() // float64, actor's resolved duration budget
)

const (
	// ActivityCode is reported when inserting the job would exceed the
	// actor's activity-count limit.
	ActivityCode feature.ViolationCode = 10
	// LocationCode is reported when inserting the job would exceed the
	// actor's distinct-location limit.
	LocationCode feature.ViolationCode = 11
	// DistanceCode is reported when inserting the job would exceed the
	// actor's travel-distance budget.
	DistanceCode feature.ViolationCode = 12
	// DurationCode is reported when inserting the job would exceed the
	// actor's travel-duration budget.
	DurationCode feature.ViolationCode = 13
)

// ActivityLimit resolves the maximum activity count allowed for actor, or
// false if actor has no such limit.
type ActivityLimit func(actor *model.Actor) (int, bool)

// LocationLimit resolves the maximum distinct-location count allowed for
// actor, or false if unlimited.
type LocationLimit func(actor *model.Actor) (int, bool)

// TravelLimit resolves a distance or duration budget for actor, or false
// if unlimited.
type TravelLimit func(actor *model.Actor) (float64, bool)

// NewActivityLimit builds the activity-count feature.
func NewActivityLimit(name string, limit ActivityLimit) (feature.Feature, error) {
	return feature.NewBuilder(name).WithConstraint(&activityConstraint{limit: limit}).Build()
}

// NewLocationLimit builds the distinct-location feature.
func NewLocationLimit(name string, limit LocationLimit) (feature.Feature, error) {
	return feature.NewBuilder(name).WithConstraint(&locationConstraint{limit: limit}).Build()
}

// NewTravelLimit builds the distance/duration budget feature.
func NewTravelLimit(name string, transport cost.Transport, distance, duration TravelLimit) (feature.Feature, error) {
	c := &travelConstraint{transport: transport, distance: distance, duration: duration}
	s := &travelState{transport: transport, distance: distance, duration: duration}
	return feature.NewBuilder(name).WithConstraint(c).WithState(s).Build()
}

type activityConstraint struct{ limit ActivityLimit }

func (a *activityConstraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.RouteLevel {
		return nil
	}
	limit, ok := a.limit(ctx.RouteCtx.Route().Actor)
	if !ok {
		return nil
	}
	existing := ctx.RouteCtx.Route().Tour.JobActivityCount()
	if existing+len(ctx.Job.AsSingles()) > limit {
		return feature.Fail(ActivityCode)
	}
	return nil
}

func (a *activityConstraint) Merge(x, y model.Job) (model.Job, error) { return x, nil }

type locationConstraint struct{ limit LocationLimit }

func (l *locationConstraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.RouteLevel {
		return nil
	}
	limit, ok := l.limit(ctx.RouteCtx.Route().Actor)
	if !ok {
		return nil
	}
	tourPlaces := ctx.RouteCtx.Route().Tour.Locations()

	jobPlaces := make(map[model.Location]struct{})
	for _, single := range ctx.Job.AsSingles() {
		for _, place := range single.Places {
			jobPlaces[place.Location] = struct{}{}
		}
	}

	total := make(map[model.Location]struct{}, len(tourPlaces)+len(jobPlaces))
	for loc := range tourPlaces {
		total[loc] = struct{}{}
	}
	for loc := range jobPlaces {
		total[loc] = struct{}{}
	}

	if len(total) > limit {
		return feature.Fail(LocationCode)
	}
	return nil
}

func (l *locationConstraint) Merge(x, y model.Job) (model.Job, error) { return x, nil }

type travelConstraint struct {
	transport cost.Transport
	distance  TravelLimit
	duration  TravelLimit
}

func (t *travelConstraint) Evaluate(ctx feature.MoveContext) *feature.Violation {
	if ctx.Kind != feature.ActivityLevel {
		return nil
	}
	distLimit, hasDist := t.distance(ctx.RouteCtx.Route().Actor)
	durLimit, hasDur := t.duration(ctx.RouteCtx.Route().Actor)
	if !hasDist && !hasDur {
		return nil
	}

	changeDistance, changeDuration := travelDelta(t.transport, ctx.RouteCtx.Route().Actor.Profile, ctx.ActivityCtx)

	state := ctx.RouteCtx.State()
	if hasDist {
		current := state.GetFloat(totalDistanceKey, 0)
		if current+changeDistance > distLimit {
			return feature.Fail(DistanceCode)
		}
	}
	if hasDur {
		current := state.GetFloat(totalDurationKey, 0)
		if current+changeDuration > durLimit {
			return feature.Fail(DurationCode)
		}
	}
	return nil
}

func (t *travelConstraint) Merge(x, y model.Job) (model.Job, error) { return x, nil }

// travelDelta computes the extra distance/duration incurred by inserting
// Target between Prev and Next, relative to the direct Prev->Next leg it
// replaces.
func travelDelta(transport cost.Transport, profile string, actCtx solution.ActivityContext) (float64, float64) {
	prev, target := actCtx.Prev, actCtx.Target
	prevToTargetDist := transport.Distance(profile, prev.Location, target.Location, prev.Schedule.Departure)
	prevToTargetDur := transport.Duration(profile, prev.Location, target.Location, prev.Schedule.Departure)

	if actCtx.Next == nil {
		return prevToTargetDist, prevToTargetDur
	}
	next := actCtx.Next
	targetToNextDist := transport.Distance(profile, target.Location, next.Location, target.Schedule.Departure)
	targetToNextDur := transport.Duration(profile, target.Location, next.Location, target.Schedule.Departure)
	prevToNextDist := transport.Distance(profile, prev.Location, next.Location, prev.Schedule.Departure)
	prevToNextDur := transport.Duration(profile, prev.Location, next.Location, prev.Schedule.Departure)

	return prevToTargetDist + targetToNextDist - prevToNextDist, prevToTargetDur + targetToNextDur - prevToNextDur
}

type travelState struct {
	transport cost.Transport
	distance  TravelLimit
	duration  TravelLimit
}

func (travelState) AcceptInsertion(sol *solution.Solution, routeIdx int, job model.Job) {}

func (t *travelState) AcceptRouteState(routeCtx solution.RouteContext) {
	tour := routeCtx.Route().Tour
	var totalDist, totalDur float64
	profile := routeCtx.Route().Actor.Profile
	for i := 1; i < tour.Len(); i++ {
		prev, cur := tour.At(i-1), tour.At(i)
		totalDist += t.transport.Distance(profile, prev.Location, cur.Location, prev.Schedule.Departure)
		totalDur += cur.Schedule.Arrival - prev.Schedule.Departure
	}
	routeCtx.State().Put(totalDistanceKey, totalDist)
	routeCtx.State().Put(totalDurationKey, totalDur)

	if limit, ok := t.distance(routeCtx.Route().Actor); ok {
		routeCtx.State().Put(distanceLimitKey, limit)
	}
	if limit, ok := t.duration(routeCtx.Route().Actor); ok {
		routeCtx.State().Put(durationLimitKey, limit)
	}
}

func (travelState) AcceptSolutionState(solCtx solution.SolutionContext) {}

func (travelState) StateKeys() []solution.StateKey {
	return []solution.StateKey{totalDistanceKey, totalDurationKey, distanceLimitKey, durationLimitKey}
}

var (
	_ feature.Constraint = (*activityConstraint)(nil)
	_ feature.Constraint = (*locationConstraint)(nil)
	_ feature.Constraint = (*travelConstraint)(nil)
	_ feature.State      = (*travelState)(nil)
)
