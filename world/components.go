package world

import (
	"math"

	"pongsync/ecs"
	"pongsync/vmath"
)

// Motion is the kinematic state of an entity. Scale doubles as the
// collision extents.
type Motion struct {
	Position        vmath.Vec2
	PrevPosition    vmath.Vec2
	Rotation        float64 // radians
	Scale           vmath.Vec2
	Velocity        vmath.Vec2
	Acceleration    vmath.Vec2
	AngularVelocity float64
	MaxVelMag       float64 // 0 means no limit
}

// NewMotion returns an unbounded motion at pos with the given extents
func NewMotion(pos, scale vmath.Vec2) *Motion {
	return &Motion{
		Position:     pos,
		PrevPosition: pos,
		Scale:        scale,
		MaxVelMag:    math.Inf(1),
	}
}

// SpeedLimit returns MaxVelMag, mapping the zero value to +Inf
func (m *Motion) SpeedLimit() float64 {
	if m.MaxVelMag <= 0 {
		return math.Inf(1)
	}
	return m.MaxVelMag
}

// Box returns the entity's axis-aligned bounding box
func (m *Motion) Box() vmath.BoundingBox {
	return vmath.BoxOf(m.Position, m.Scale)
}

// Shape selects the pairwise collision test
type Shape uint8

const (
	ShapeRectangle Shape = iota
	ShapeCircle
	ShapeText
	ShapeScreen
	ShapeNone
)

func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeCircle:
		return "circle"
	case ShapeText:
		return "text"
	case ShapeScreen:
		return "screen"
	default:
		return "none"
	}
}

// RenderLayer is the paint order bucket; lower layers paint first
type RenderLayer uint8

const (
	LayerL0 RenderLayer = iota
	LayerL1
	LayerL2
	LayerL3
	LayerL4
	LayerU0
	LayerU1
	LayerU2
	LayerU3
	LayerU4
)

// RenderRequest is the render-facing descriptor. Collision code only reads Shape.
type RenderRequest struct {
	Shape Shape
	Layer RenderLayer
	Color [4]float32
}

// Collision is a transient directed pair, recorded twice per contact
type Collision struct {
	Entity ecs.Entity
	Other  ecs.Entity
}

// Tag components
type (
	Player        struct{}
	Opponent      struct{}
	Ball          struct{}
	Wall          struct{}
	NonCollidable struct{}
)

// EndGameWall marks a goal line
type EndGameWall struct {
	IsLeft bool
}

// AIKind selects the behaviour run by the AI system
type AIKind uint8

const (
	AIOpponent AIKind = iota
)

// AI marks an entity driven by the AI system
type AI struct {
	Kind AIKind
}

// FieldEffectKind enumerates the single-player field effects
type FieldEffectKind uint8

const (
	EffectShotInTheDark FieldEffectKind = iota
	EffectShrinkingPaddle
	EffectLowFriction
	EffectPowerPaddle
	FieldEffectCount
)

func (k FieldEffectKind) String() string {
	switch k {
	case EffectShotInTheDark:
		return "Shot in the Dark"
	case EffectShrinkingPaddle:
		return "Shrinking Paddle"
	case EffectLowFriction:
		return "Low Friction"
	case EffectPowerPaddle:
		return "Power Paddle"
	default:
		return "none"
	}
}

// FieldEffect is an active effect. Target is the inflicted paddle for
// paddle effects; Overlay is a decoration entity owned by the effect.
type FieldEffect struct {
	Kind    FieldEffectKind
	Target  ecs.Entity
	Overlay ecs.Entity
}

// GameState is the single per-screen game flag record
type GameState struct {
	IsPaused          bool
	IsMultiplayer     bool
	IsGamePlaying     bool
	CurrentBallVelMag float64
}

// CallbackKind selects what a DelayedCallback does when it fires
type CallbackKind uint8

const (
	CallbackCountdownTick CallbackKind = iota
	CallbackSpawnBall
	CallbackRemoveEntity
	CallbackClearEffects
)

func (k CallbackKind) String() string {
	switch k {
	case CallbackCountdownTick:
		return "countdown_tick"
	case CallbackSpawnBall:
		return "spawn_ball"
	case CallbackRemoveEntity:
		return "remove_entity"
	case CallbackClearEffects:
		return "clear_effects"
	default:
		return "unknown"
	}
}

// DelayedCallback fires once TimeMs has elapsed
type DelayedCallback struct {
	TimeMs float64
	Kind   CallbackKind
	Target ecs.Entity
	Arg    int
}
