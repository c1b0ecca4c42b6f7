package world

import "pongsync/ecs"

// Registry holds one store per component type plus the entity allocator.
// It is owned by a single goroutine; pass it explicitly to every system.
type Registry struct {
	ecs.Allocator

	Players          *ecs.Store[Player]
	Opponents        *ecs.Store[Opponent]
	Motions          *ecs.Store[Motion]
	RenderRequests   *ecs.Store[RenderRequest]
	Collisions       *ecs.Store[Collision]
	NonCollidables   *ecs.Store[NonCollidable]
	Walls            *ecs.Store[Wall]
	Balls            *ecs.Store[Ball]
	EndGameWalls     *ecs.Store[EndGameWall]
	AIs              *ecs.Store[AI]
	FieldEffects     *ecs.Store[FieldEffect]
	GameStates       *ecs.Store[GameState]
	DelayedCallbacks *ecs.Store[DelayedCallback]

	// fixed visiting order for the cross-store operations
	containers []ecs.Container
}

// NewRegistry creates a registry with empty stores
func NewRegistry() *Registry {
	r := &Registry{
		Players:          ecs.NewStore[Player](),
		Opponents:        ecs.NewStore[Opponent](),
		Motions:          ecs.NewStore[Motion](),
		RenderRequests:   ecs.NewStore[RenderRequest](),
		Collisions:       ecs.NewStore[Collision](),
		NonCollidables:   ecs.NewStore[NonCollidable](),
		Walls:            ecs.NewStore[Wall](),
		Balls:            ecs.NewStore[Ball](),
		EndGameWalls:     ecs.NewStore[EndGameWall](),
		AIs:              ecs.NewStore[AI](),
		FieldEffects:     ecs.NewStore[FieldEffect](),
		GameStates:       ecs.NewStore[GameState](),
		DelayedCallbacks: ecs.NewStore[DelayedCallback](),
	}
	r.containers = []ecs.Container{
		r.Players,
		r.Opponents,
		r.Motions,
		r.RenderRequests,
		r.Collisions,
		r.NonCollidables,
		r.Walls,
		r.Balls,
		r.EndGameWalls,
		r.AIs,
		r.FieldEffects,
		r.GameStates,
		r.DelayedCallbacks,
	}
	return r
}

// NewEntity issues a fresh entity id
func (r *Registry) NewEntity() ecs.Entity {
	return r.Generate()
}

// RemoveAllComponentsOf detaches e from every store that holds it
func (r *Registry) RemoveAllComponentsOf(e ecs.Entity) {
	for _, c := range r.containers {
		if c.Has(e) {
			// cannot fail after Has
			_ = c.Remove(e)
		}
	}
}

// ClearAllComponents empties every store. Issued ids stay issued.
func (r *Registry) ClearAllComponents() {
	for _, c := range r.containers {
		c.Clear()
	}
}

// Counts returns the size of every non-empty store, keyed by store name
func (r *Registry) Counts() map[string]int {
	out := make(map[string]int)
	for _, c := range r.containers {
		if n := c.Len(); n > 0 {
			out[c.String()] = n
		}
	}
	return out
}
