package rng

import "golang.org/x/exp/rand"

// New64 builds a *rand.Rand backed by a worker-local xoshiro256** source,
// the form every downstream package (insertion noise, recreate blinks,
// ruin sizing, NSGA-II tournament selection) actually consumes -- mirrors
// the teacher's algorithms/nsga2.go call sites, which all reach for
// package-level rand.Intn/rand.Float64 against the default global source;
// here each worker gets its own instance instead of sharing one.
func New64(seed uint64) *rand.Rand {
	return rand.New(New(seed))
}
