package game

import (
	"pongsync/ecs"
	"pongsync/vmath"
	"pongsync/world"
)

var (
	colorWhite  = [4]float32{1, 1, 1, 1}
	colorDim    = [4]float32{0.2, 0.2, 0.2, 1}
	colorText   = [4]float32{0.65, 0.65, 0.65, 1}
	colorYellow = [4]float32{0.96, 1, 0.188, 1}
	colorRed    = [4]float32{1, 0, 0, 1}
)

// The factories below only fail on contract violations with fresh
// entities, which cannot happen, so insert errors are dropped.

func (w *World) createRectangle(pos, scale vmath.Vec2, color [4]float32, layer world.RenderLayer) ecs.Entity {
	e := w.reg.NewEntity()
	_, _ = w.reg.Motions.Insert(e, world.NewMotion(pos, scale), false)
	_, _ = w.reg.RenderRequests.Insert(e, &world.RenderRequest{
		Shape: world.ShapeRectangle,
		Layer: layer,
		Color: color,
	}, false)
	return e
}

func (w *World) createWall(pos, scale vmath.Vec2) ecs.Entity {
	e := w.reg.NewEntity()
	_, _ = w.reg.Motions.Insert(e, world.NewMotion(pos, scale), false)
	_, _ = w.reg.Walls.Emplace(e)
	return e
}

// createText makes a non-colliding label. Text content lives outside
// the core; only its placement is tracked.
func (w *World) createText(pos vmath.Vec2) ecs.Entity {
	e := w.reg.NewEntity()
	_, _ = w.reg.Motions.Insert(e, world.NewMotion(pos, vmath.V2(1, 1)), false)
	_, _ = w.reg.RenderRequests.Insert(e, &world.RenderRequest{
		Shape: world.ShapeText,
		Layer: world.LayerU4,
		Color: colorText,
	}, false)
	_, _ = w.reg.NonCollidables.Emplace(e)
	return e
}

func (w *World) createBall(pos, vel vmath.Vec2) ecs.Entity {
	e := w.reg.NewEntity()
	m := world.NewMotion(pos, vmath.V2(w.tuning.BallSize, w.tuning.BallSize))
	m.Velocity = vel
	_, _ = w.reg.Motions.Insert(e, m, false)
	_, _ = w.reg.RenderRequests.Insert(e, &world.RenderRequest{
		Shape: world.ShapeCircle,
		Layer: world.LayerL0,
		Color: colorWhite,
	}, false)
	_, _ = w.reg.Balls.Emplace(e)
	return e
}

func (w *World) createPaddle(x float64) ecs.Entity {
	t := w.tuning
	e := w.createRectangle(vmath.V2(x, t.Height/2), vmath.V2(t.PaddleWidth, t.PaddleHeight), colorWhite, world.LayerL1)
	w.reg.Motions.MustGet(e).MaxVelMag = t.MaxPaddleVel
	_, _ = w.reg.Walls.Emplace(e)
	return e
}

// createBoundary builds the four field edges. The left and right edges are
// goal lines.
func (w *World) createBoundary() {
	width, height := w.tuning.Width, w.tuning.Height

	left := w.createWall(vmath.V2(-0.5, height/2), vmath.V2(1, height))
	right := w.createWall(vmath.V2(width+0.5, height/2), vmath.V2(1, height))
	_, _ = w.reg.EndGameWalls.Insert(left, &world.EndGameWall{IsLeft: true}, false)
	_, _ = w.reg.EndGameWalls.Insert(right, &world.EndGameWall{IsLeft: false}, false)

	w.createWall(vmath.V2(width/2, -1), vmath.V2(width, 2))
	w.createWall(vmath.V2(width/2, height+1), vmath.V2(width, 2))
}

// createCentreLine lays out the dashed middle line
func (w *World) createCentreLine() {
	const (
		segments = 8
		gap      = 10.0
		top      = 95.0
	)
	width, height := w.tuning.Width, w.tuning.Height
	segHeight := (height - gap*(segments-1) - top) / segments
	for i := 0; i < segments; i++ {
		y := top + segHeight/2 + float64(i)*(gap+segHeight)
		e := w.createRectangle(vmath.V2(width/2, y), vmath.V2(10, segHeight), colorDim, world.LayerL1)
		_, _ = w.reg.NonCollidables.Emplace(e)
	}
}

func (w *World) createGameState() *world.GameState {
	gs, _ := w.reg.GameStates.Insert(w.reg.NewEntity(), &world.GameState{
		IsMultiplayer: w.multiplayer,
	}, false)
	return gs
}

func (w *World) createDelayedCallback(kind world.CallbackKind, timeMs float64, target ecs.Entity, arg int) ecs.Entity {
	e := w.reg.NewEntity()
	_, _ = w.reg.DelayedCallbacks.Insert(e, &world.DelayedCallback{
		TimeMs: timeMs,
		Kind:   kind,
		Target: target,
		Arg:    arg,
	}, false)
	return e
}
