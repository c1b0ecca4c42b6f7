package game

import (
	"github.com/rotisserie/eris"

	"pongsync/physics"
	"pongsync/protocol"
	"pongsync/world"
)

// Resolver applies the consequences of the collisions found this tick.
// In single player it reflects the ball and scores goals locally. In
// multiplayer it reports the first ball contact to the relay and stays
// quiet until the relay answers.
type Resolver struct {
	w        *World
	awaiting bool
}

// Reset reopens the report gate
func (r *Resolver) Reset() {
	r.awaiting = false
}

// Awaiting reports whether a collision report is in flight
func (r *Resolver) Awaiting() bool {
	return r.awaiting
}

// Resolve walks the Collision store once and then empties it
func (r *Resolver) Resolve() error {
	reg := r.w.reg
	defer reg.Collisions.Clear()

	for _, c := range reg.Collisions.Components() {
		switch {
		case reg.Balls.Has(c.Entity):
			done, err := r.ball(c)
			if err != nil || done {
				return err
			}
		case world.IsPaddle(reg, c.Entity) && reg.Walls.Has(c.Other) && !world.IsPaddle(reg, c.Other):
			if err := r.paddle(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// ball handles a ball contact. It returns true when the rest of the pass
// must be skipped, either because the world was rebuilt or because a
// report went out.
func (r *Resolver) ball(c *world.Collision) (bool, error) {
	reg := r.w.reg

	if reg.EndGameWalls.Has(c.Other) {
		goal := reg.EndGameWalls.MustGet(c.Other)
		if r.w.multiplayer {
			tag := protocol.TagRightGoal
			if goal.IsLeft {
				tag = protocol.TagLeftGoal
			}
			return true, r.report(c, tag)
		}
		r.w.goal(goal.IsLeft)
		return true, nil
	}

	if !reg.Walls.Has(c.Other) {
		return false, nil
	}
	if r.w.multiplayer {
		return true, r.report(c, protocol.TagWall)
	}

	ball, err := reg.Motions.Get(c.Entity)
	if err != nil {
		return false, err
	}
	wall, err := reg.Motions.Get(c.Other)
	if err != nil {
		return false, err
	}
	physics.Reflect(ball, wall)

	if world.IsPowerPaddle(reg, c.Other) {
		ball.Velocity = ball.Velocity.Normalize().Scale(r.w.tuning.PowerPaddleBallVel)
	}
	return false, nil
}

// paddle keeps a paddle from sliding through a wall
func (r *Resolver) paddle(c *world.Collision) error {
	reg := r.w.reg
	p, err := reg.Motions.Get(c.Entity)
	if err != nil {
		return err
	}
	wall, err := reg.Motions.Get(c.Other)
	if err != nil {
		return err
	}

	bb := wall.Box()
	if p.Velocity.Y > 0 {
		p.Position.Y = bb.Top - p.Scale.Y/2
	} else if p.Velocity.Y < 0 {
		p.Position.Y = bb.Bottom + p.Scale.Y/2
	}
	return nil
}

func (r *Resolver) report(c *world.Collision, tag int) error {
	if r.awaiting {
		return nil
	}
	reg := r.w.reg
	ball, err := reg.Motions.Get(c.Entity)
	if err != nil {
		return err
	}
	wall, err := reg.Motions.Get(c.Other)
	if err != nil {
		return err
	}

	msg, err := protocol.Collision{
		BallPos:   ball.Position,
		BallVel:   ball.Velocity,
		WallPos:   wall.Position,
		WallScale: wall.Scale,
		Tag:       tag,
	}.Encode()
	if err != nil {
		return eris.Wrap(err, "encode collision")
	}
	r.awaiting = true
	r.w.log.Debug().Int("tag", tag).Msg("collision reported")
	r.w.send(msg)
	return nil
}
