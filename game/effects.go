package game

import (
	"pongsync/ecs"
	"pongsync/vmath"
	"pongsync/world"
)

const (
	shrinkFactor = 0.5
	// ball acceleration per unit of its former velocity on a slippery field
	lowFrictionBallAccel = 1000
)

// FieldEffects periodically applies a random effect to a single player
// match, alternating the inflicted paddle. An effect ends through a
// ClearEffects delayed callback.
type FieldEffects struct {
	w         *World
	nextMs    float64
	inflicted ecs.Entity
	current   world.FieldEffectKind
}

func newFieldEffects(w *World) *FieldEffects {
	f := &FieldEffects{
		w:         w,
		inflicted: ecs.Invalid,
		current:   world.FieldEffectCount,
	}
	f.resetCountdown()
	return f
}

func (f *FieldEffects) shouldRun() bool {
	reg := f.w.reg
	gs := world.CurrentGameState(reg)
	return gs != nil &&
		!gs.IsPaused &&
		!gs.IsMultiplayer &&
		gs.IsGamePlaying &&
		reg.Players.Len() > 0 &&
		reg.Opponents.Len() > 0
}

// Step counts down to the next effect
func (f *FieldEffects) Step(dtMs float64) error {
	if world.CurrentGameState(f.w.reg) == nil {
		f.resetCountdown()
	}
	if !f.shouldRun() {
		return nil
	}

	f.nextMs -= dtMs
	if f.nextMs > 0 {
		return nil
	}

	f.current = f.selectKind()
	player, _, _ := f.w.reg.Players.First()
	opponent, _, _ := f.w.reg.Opponents.First()
	if f.inflicted == player {
		f.inflicted = opponent
	} else {
		f.inflicted = player
	}

	durationMs := f.resetCountdown()
	if err := f.apply(f.current); err != nil {
		return err
	}
	f.w.createDelayedCallback(world.CallbackClearEffects, durationMs, ecs.Invalid, 0)
	f.w.log.Info().Stringer("effect", f.current).Uint64("paddle", uint64(f.inflicted)).Msg("field effect")
	return nil
}

// resetCountdown draws the next effect's duration and the delay until the
// one after it
func (f *FieldEffects) resetCountdown() float64 {
	t := f.w.tuning
	durationMs := t.MinEffectMs + f.w.rng.Float64()*(t.MaxEffectMs-t.MinEffectMs)
	f.nextMs = durationMs + t.MinEffectIntervalMs + f.w.rng.Float64()*(t.MaxEffectIntervalMs-t.MinEffectIntervalMs)
	return durationMs
}

// selectKind picks a random effect different from the current one
func (f *FieldEffects) selectKind() world.FieldEffectKind {
	k := world.FieldEffectKind(f.w.rng.IntN(int(world.FieldEffectCount)))
	if k != f.current {
		return k
	}
	return (k + 1) % world.FieldEffectCount
}

func (f *FieldEffects) apply(kind world.FieldEffectKind) error {
	w := f.w
	reg := w.reg
	t := w.tuning

	alert := w.createText(vmath.V2(t.Width/2, t.Height/2))
	w.createDelayedCallback(world.CallbackRemoveEntity, t.EffectAlertMs, alert, 0)

	switch kind {
	case world.EffectLowFriction:
		overlay := w.createRectangle(vmath.V2(t.Width/2, t.Height/2), vmath.V2(t.Width, t.Height), [4]float32{0, 0, 0.75, 0.1}, world.LayerL0)
		_, _ = reg.NonCollidables.Emplace(overlay)
		if _, err := reg.FieldEffects.Insert(reg.NewEntity(), &world.FieldEffect{Kind: kind, Target: ecs.Invalid, Overlay: overlay}, false); err != nil {
			return err
		}
		for _, p := range []ecs.Entity{w.player, w.opponent} {
			if reg.Motions.Has(p) {
				reg.Motions.MustGet(p).MaxVelMag = t.LowFrictionPaddleVel
			}
		}
		if reg.Motions.Has(w.ball) {
			bm := reg.Motions.MustGet(w.ball)
			bm.MaxVelMag = bm.Velocity.Len()
			bm.Acceleration = bm.Velocity.Scale(lowFrictionBallAccel)
			bm.Velocity = vmath.Vec2{}
		}

	case world.EffectShrinkingPaddle:
		m, err := reg.Motions.Get(f.inflicted)
		if err != nil {
			return err
		}
		if _, err := reg.FieldEffects.Insert(f.inflicted, &world.FieldEffect{Kind: kind, Target: f.inflicted, Overlay: ecs.Invalid}, true); err != nil {
			return err
		}
		m.Scale.Y *= shrinkFactor
		setColor(reg, f.inflicted, colorYellow)

	case world.EffectShotInTheDark:
		overlay := w.createRectangle(vmath.V2(t.Width/2, t.Height/2), vmath.V2(t.Width, t.Height), [4]float32{0, 0, 0, 0.925}, world.LayerL2)
		_, _ = reg.NonCollidables.Emplace(overlay)
		if _, err := reg.FieldEffects.Insert(reg.NewEntity(), &world.FieldEffect{Kind: kind, Target: ecs.Invalid, Overlay: overlay}, false); err != nil {
			return err
		}

	case world.EffectPowerPaddle:
		if _, err := reg.FieldEffects.Insert(f.inflicted, &world.FieldEffect{Kind: kind, Target: f.inflicted, Overlay: ecs.Invalid}, true); err != nil {
			return err
		}
		setColor(reg, f.inflicted, colorRed)
		if reg.Motions.Has(w.ball) {
			reg.Motions.MustGet(w.ball).MaxVelMag = t.PowerPaddleBallVel
		}
	}
	return nil
}

// Clear undoes every active effect
func (f *FieldEffects) Clear() error {
	reg := f.w.reg
	entities := append([]ecs.Entity(nil), reg.FieldEffects.Entities()...)
	for _, e := range entities {
		fx := *reg.FieldEffects.MustGet(e)
		f.cleanUp(fx)
		if fx.Target == ecs.Invalid {
			// effect owns its entity
			reg.RemoveAllComponentsOf(e)
			continue
		}
		if err := reg.FieldEffects.Remove(e); err != nil {
			return err
		}
	}
	return nil
}

func (f *FieldEffects) cleanUp(fx world.FieldEffect) {
	w := f.w
	reg := w.reg
	t := w.tuning

	if fx.Overlay != ecs.Invalid {
		reg.RemoveAllComponentsOf(fx.Overlay)
	}

	switch fx.Kind {
	case world.EffectLowFriction:
		for _, p := range []ecs.Entity{w.player, w.opponent} {
			if reg.Motions.Has(p) {
				m := reg.Motions.MustGet(p)
				m.MaxVelMag = t.MaxPaddleVel
				m.Acceleration = vmath.Vec2{}
			}
		}
		if reg.Motions.Has(w.ball) {
			bm := reg.Motions.MustGet(w.ball)
			bm.Acceleration = vmath.Vec2{}
			bm.MaxVelMag = 0
		}

	case world.EffectShrinkingPaddle:
		if reg.Motions.Has(fx.Target) {
			reg.Motions.MustGet(fx.Target).Scale.Y /= shrinkFactor
		}
		setColor(reg, fx.Target, colorWhite)

	case world.EffectPowerPaddle:
		setColor(reg, fx.Target, colorWhite)
		gs := world.CurrentGameState(reg)
		if gs != nil && reg.Motions.Has(w.ball) {
			reg.Motions.MustGet(w.ball).MaxVelMag = gs.CurrentBallVelMag
		}
	}
}

func setColor(reg *world.Registry, e ecs.Entity, c [4]float32) {
	if reg.RenderRequests.Has(e) {
		reg.RenderRequests.MustGet(e).Color = c
	}
}
