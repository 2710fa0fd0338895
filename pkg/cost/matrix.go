package cost

import (
	"k8s.io/klog/v2"

	"github.com/binyao-or/vrp-solver/pkg/model"
)

// TimeBucket is one slice of a time-dependent matrix profile: a matrix of
// distances/durations valid from Start up to (but not including) the next
// bucket's Start.
type TimeBucket struct {
	Start     model.Timestamp
	Distances []model.Distance // row-major, size x size
	Durations []model.Duration
}

// Matrix is a Transport implementation backed by one or more
// square distance/duration matrices per routing profile, optionally
// bucketed by time of day. A profile with a single bucket behaves as a
// plain time-invariant matrix.
type Matrix struct {
	size     int
	profiles map[string][]TimeBucket
}

// NewMatrix builds an empty, profile-less Matrix; use AddProfile to
// register each profile's buckets before first use.
func NewMatrix(size int) *Matrix {
	return &Matrix{size: size, profiles: make(map[string][]TimeBucket)}
}

// AddProfile registers the time buckets for a routing profile. Buckets
// must be supplied in ascending Start order; a single bucket starting at
// zero is the time-invariant case.
func (m *Matrix) AddProfile(profile string, buckets []TimeBucket) {
	m.profiles[profile] = buckets
}

func (m *Matrix) bucketFor(profile string, at model.Timestamp) (TimeBucket, bool) {
	buckets, ok := m.profiles[profile]
	if !ok || len(buckets) == 0 {
		return TimeBucket{}, false
	}
	chosen := buckets[0]
	for _, b := range buckets {
		if b.Start > at {
			break
		}
		chosen = b
	}
	return chosen, true
}

func (m *Matrix) index(from, to model.Location) int {
	return int(from)*m.size + int(to)
}

// Distance implements Transport.
func (m *Matrix) Distance(profile string, from, to model.Location, departure model.Timestamp) model.Distance {
	bucket, ok := m.bucketFor(profile, departure)
	if !ok {
		klog.V(2).ErrorS(&ErrUnknownProfile{Profile: profile}, "transport matrix miss", "profile", profile)
		return 0
	}
	idx := m.index(from, to)
	if idx < 0 || idx >= len(bucket.Distances) {
		return 0
	}
	return bucket.Distances[idx]
}

// Duration implements Transport.
func (m *Matrix) Duration(profile string, from, to model.Location, departure model.Timestamp) model.Duration {
	bucket, ok := m.bucketFor(profile, departure)
	if !ok {
		klog.V(2).ErrorS(&ErrUnknownProfile{Profile: profile}, "transport matrix miss", "profile", profile)
		return 0
	}
	idx := m.index(from, to)
	if idx < 0 || idx >= len(bucket.Durations) {
		return 0
	}
	return bucket.Durations[idx]
}

var _ Transport = (*Matrix)(nil)

// HasProfile reports whether a profile was registered, letting callers
// fail fast (per spec.md §4.A, "request for an out-of-range profile is a
// fatal configuration bug") instead of silently returning zero costs.
func (m *Matrix) HasProfile(profile string) bool {
	_, ok := m.profiles[profile]
	return ok
}
