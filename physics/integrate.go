package physics

import (
	"pongsync/vmath"
	"pongsync/world"
)

// Integrate advances every Motion by dt seconds. The slippery regime
// integrates acceleration and decays velocity by friction when there is
// none; the default regime moves entities at their (capped) velocity.
func Integrate(reg *world.Registry, dt float64, slippery bool, friction float64) {
	if slippery {
		for _, m := range reg.Motions.Components() {
			stepSlippery(m, dt, friction)
		}
		return
	}
	for _, m := range reg.Motions.Components() {
		stepKinematic(m, dt)
	}
}

func stepKinematic(m *world.Motion, dt float64) {
	m.Rotation += m.AngularVelocity * dt
	m.PrevPosition = m.Position

	// the stored velocity keeps its magnitude
	disp := m.Velocity.ClampLen(m.SpeedLimit()).Scale(dt).Rotate(m.Rotation)
	m.Position = m.Position.Add(disp)
}

func stepSlippery(m *world.Motion, dt, friction float64) {
	m.Rotation += m.AngularVelocity * dt

	if !m.Acceleration.IsZero() {
		m.Velocity = m.Velocity.Add(m.Acceleration.Scale(dt)).ClampLen(m.SpeedLimit())
	} else {
		m.Velocity = m.Velocity.Scale(friction)
	}

	// Dead zone
	if m.Velocity.LenSq() < 1 {
		m.Velocity = vmath.Vec2{}
	}

	m.PrevPosition = m.Position
	m.Position = m.Position.Add(m.Velocity.Scale(dt).Rotate(m.Rotation))
}
