package game

import (
	"pongsync/ecs"
	"pongsync/world"
)

type aiHandler func(e ecs.Entity) error

// AI runs the handler registered for each AI kind every AIIntervalMs
type AI struct {
	w        *World
	timerMs  float64
	handlers map[world.AIKind]aiHandler
}

func newAI(w *World) *AI {
	a := &AI{w: w, timerMs: w.tuning.AIIntervalMs}
	a.handlers = map[world.AIKind]aiHandler{
		world.AIOpponent: a.trackBall,
	}
	return a
}

// Step counts the activation timer down and runs every AI when it expires
func (a *AI) Step(dtMs float64) error {
	a.timerMs -= dtMs
	if a.timerMs > 0 {
		return nil
	}
	a.timerMs = a.w.tuning.AIIntervalMs

	reg := a.w.reg
	for i := 0; i < reg.AIs.Len(); i++ {
		e, ai := reg.AIs.At(i)
		h, ok := a.handlers[ai.Kind]
		if !ok {
			continue
		}
		if err := h(e); err != nil {
			return err
		}
	}
	return nil
}

// trackBall steers a paddle toward the first ball's height
func (a *AI) trackBall(e ecs.Entity) error {
	reg := a.w.reg
	ball, _, ok := reg.Balls.First()
	if !ok {
		return nil
	}
	bm, err := reg.Motions.Get(ball)
	if err != nil {
		return err
	}
	m, err := reg.Motions.Get(e)
	if err != nil {
		return err
	}

	switch speed := a.w.tuning.PaddleSpeed; {
	case bm.Position.Y < m.Position.Y:
		m.Velocity.Y = -speed
	case bm.Position.Y > m.Position.Y:
		m.Velocity.Y = speed
	default:
		m.Velocity.Y = 0
	}
	return nil
}
