package solution

import (
	"sync"

	"github.com/binyao-or/vrp-solver/pkg/model"
)

// Registry is the pool of actors not currently bound to an active route in
// a Solution (spec.md §3). Registry entries transition unused<->used
// atomically with route creation/destruction; this is the in-memory
// analogue of the teacher's client.SchedulingHintReservation atomic
// slot-reservation pattern, without the persistence layer that pattern
// used (spec.md lists "persistence of intermediate state" as a Non-goal).
type Registry struct {
	mu     sync.Mutex
	unused map[*model.Actor]struct{}
}

// NewRegistry seeds a registry with every actor in the fleet marked unused.
func NewRegistry(fleet *model.Fleet) *Registry {
	r := &Registry{unused: make(map[*model.Actor]struct{}, len(fleet.Actors))}
	for _, a := range fleet.Actors {
		r.unused[a] = struct{}{}
	}
	return r
}

// TryUse attempts to atomically claim actor for a new route. Returns false
// without effect if the actor is already in use or is not part of the
// fleet the registry was seeded with.
func (r *Registry) TryUse(actor *model.Actor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.unused[actor]; !ok {
		return false
	}
	delete(r.unused, actor)
	return true
}

// Release returns actor to the unused pool, e.g. when its route becomes
// empty and is torn down.
func (r *Registry) Release(actor *model.Actor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unused[actor] = struct{}{}
}

// Unused returns a snapshot slice of the currently-unused actors, stable
// for the duration of one route-filtering pass.
func (r *Registry) Unused() []*model.Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Actor, 0, len(r.unused))
	for a := range r.unused {
		out = append(out, a)
	}
	return out
}

// Clone returns an independent registry with the same unused set, used
// when a Solution is cloned for a new worker or generation.
func (r *Registry) Clone() *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := &Registry{unused: make(map[*model.Actor]struct{}, len(r.unused))}
	for a := range r.unused {
		clone.unused[a] = struct{}{}
	}
	return clone
}
