package world

import "pongsync/ecs"

// IsWorldSlippery reports whether the low friction field effect is active
func IsWorldSlippery(r *Registry) bool {
	_, fx, ok := r.FieldEffects.First()
	return ok && fx.Kind == EffectLowFriction
}

// IsPaddle reports whether e is the player's or the opponent's paddle
func IsPaddle(r *Registry, e ecs.Entity) bool {
	return r.Players.Has(e) || r.Opponents.Has(e)
}

// IsPowerPaddle reports whether e carries the power paddle effect
func IsPowerPaddle(r *Registry, e ecs.Entity) bool {
	if !r.FieldEffects.Has(e) {
		return false
	}
	return r.FieldEffects.MustGet(e).Kind == EffectPowerPaddle
}

// ShapeOf returns the collision shape of e. Entities without a render
// descriptor collide as rectangles.
func ShapeOf(r *Registry, e ecs.Entity) Shape {
	if !r.RenderRequests.Has(e) {
		return ShapeRectangle
	}
	return r.RenderRequests.MustGet(e).Shape
}

// CurrentGameState returns the first GameState, or nil
func CurrentGameState(r *Registry) *GameState {
	_, gs, ok := r.GameStates.First()
	if !ok {
		return nil
	}
	return gs
}

// SortRenderRequests orders render requests by layer, lowest first
func SortRenderRequests(r *Registry, force bool) {
	r.RenderRequests.Sort(func(a, b ecs.Entity) int {
		return int(r.RenderRequests.MustGet(a).Layer) - int(r.RenderRequests.MustGet(b).Layer)
	}, force)
}
