package ecs

import "math"

// Entity identifies a game object. It carries no data of its own.
type Entity uint64

// Invalid is the reserved sentinel id. The Allocator never issues it and
// stores reject it.
const Invalid Entity = math.MaxUint64

// Allocator issues strictly increasing entity ids starting at 0. Ids are
// never recycled; a 64-bit counter cannot wrap within any game lifetime.
// Not safe for concurrent use: it belongs to the goroutine that owns the
// Registry.
type Allocator struct {
	next Entity
}

// Generate returns the next unused id
func (a *Allocator) Generate() Entity {
	id := a.next
	if id == Invalid {
		panic("ecs: entity id space exhausted")
	}
	a.next++
	return id
}

// Issued returns how many ids have been handed out
func (a *Allocator) Issued() uint64 {
	return uint64(a.next)
}
