package game

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pongsync/ecs"
	"pongsync/physics"
	"pongsync/protocol"
	"pongsync/vmath"
	"pongsync/world"
)

// Sender delivers encoded messages to the relay
type Sender interface {
	Send(msg []byte) error
}

// World drives one game screen: it owns the Registry and runs the systems
// in tick order. It is not safe for concurrent use; the tick goroutine is
// the only caller.
type World struct {
	reg    *world.Registry
	tuning Tuning
	log    zerolog.Logger
	rng    *rand.Rand

	resolver *Resolver
	ai       *AI
	effects  *FieldEffects

	sender      Sender
	multiplayer bool
	side        protocol.Side
	bot         bool
	rematch     bool

	player    ecs.Entity
	opponent  ecs.Entity
	ball      ecs.Entity
	timerText ecs.Entity

	playerScore   int
	opponentScore int
	countdown     int
	finished      bool
	connected     bool

	lastMotion    protocol.Motion
	sinceMotionMs float64
}

// Option configures a World
type Option func(*World)

// WithSender routes outbound messages, required for multiplayer
func WithSender(s Sender) Option {
	return func(w *World) { w.sender = s }
}

// WithRand replaces the random source
func WithRand(r *rand.Rand) Option {
	return func(w *World) { w.rng = r }
}

// WithBot lets the AI drive the player's paddle
func WithBot() Option {
	return func(w *World) { w.bot = true }
}

// WithRematch answers every RESULT with PLAY_AGAIN
func WithRematch() Option {
	return func(w *World) { w.rematch = true }
}

// NewWorld creates an empty world. Call Play to build the field.
func NewWorld(t Tuning, log zerolog.Logger, opts ...Option) *World {
	seed := uint64(time.Now().UnixNano())
	w := &World{
		reg:       world.NewRegistry(),
		tuning:    t,
		log:       log,
		rng:       rand.New(rand.NewPCG(seed, seed>>1)),
		player:    ecs.Invalid,
		opponent:  ecs.Invalid,
		ball:      ecs.Invalid,
		timerText: ecs.Invalid,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.resolver = &Resolver{w: w}
	w.ai = newAI(w)
	w.effects = newFieldEffects(w)
	return w
}

// Registry exposes the component stores
func (w *World) Registry() *world.Registry { return w.reg }

// Tuning returns the active tuning
func (w *World) Tuning() Tuning { return w.tuning }

// SetTuning swaps the tuning. Entities built afterwards use it.
func (w *World) SetTuning(t Tuning) {
	w.tuning = t
	w.log.Info().Int("winning_score", t.WinningScore).Float64("ball_speed", t.BallSpeed).Msg("tuning reloaded")
}

func (w *World) Player() ecs.Entity { return w.player }
func (w *World) Opponent() ecs.Entity { return w.opponent }
func (w *World) Ball() ecs.Entity { return w.ball }
func (w *World) Side() protocol.Side { return w.side }
func (w *World) Countdown() int { return w.countdown }
func (w *World) Finished() bool { return w.finished }
func (w *World) Multiplayer() bool { return w.multiplayer }
func (w *World) Scores() (player, opponent int) {
	return w.playerScore, w.opponentScore
}

// Play starts a new match
func (w *World) Play(multiplayer bool) {
	w.multiplayer = multiplayer
	w.side = protocol.SideLeft
	w.ResetScore()
	w.ReinitializeWorld()
}

// ResetScore zeroes both scores
func (w *World) ResetScore() {
	w.playerScore = 0
	w.opponentScore = 0
	w.finished = false
}

// ReinitializeWorld tears every entity down and rebuilds the field. In
// single player the countdown starts right away; in multiplayer the relay
// drives it.
func (w *World) ReinitializeWorld() {
	w.reg.ClearAllComponents()
	w.ball = ecs.Invalid
	w.timerText = ecs.Invalid
	w.resolver.Reset()
	w.lastMotion = protocol.Motion{}

	w.createGameState()
	w.createBoundary()
	w.createCentreLine()

	playerX, opponentX := w.tuning.PaddleInset, w.tuning.Width-w.tuning.PaddleInset
	if w.side == protocol.SideRight {
		playerX, opponentX = opponentX, playerX
	}
	w.player = w.createPaddle(playerX)
	_, _ = w.reg.Players.Emplace(w.player)
	w.opponent = w.createPaddle(opponentX)
	_, _ = w.reg.Opponents.Emplace(w.opponent)

	if w.bot {
		_, _ = w.reg.AIs.Insert(w.player, &world.AI{Kind: world.AIOpponent}, false)
	}
	if !w.multiplayer {
		_, _ = w.reg.AIs.Insert(w.opponent, &world.AI{Kind: world.AIOpponent}, false)
	}

	// scoreboard
	w.createText(vmath.V2(w.tuning.Width/2, 20))

	if !w.multiplayer {
		w.commenceCountdown(true)
	}
	w.log.Debug().Interface("stores", w.reg.Counts()).Uint64("issued", w.reg.Issued()).Msg("world rebuilt")
}

// SetPaused freezes physics and delayed callbacks
func (w *World) SetPaused(paused bool) {
	if gs := world.CurrentGameState(w.reg); gs != nil {
		gs.IsPaused = paused
	}
}

func (w *World) paused() bool {
	gs := world.CurrentGameState(w.reg)
	return gs != nil && gs.IsPaused
}

// commenceCountdown shows the countdown and, with spawn, serves the ball
// when it runs out.
func (w *World) commenceCountdown(spawn bool) {
	if w.timerText != ecs.Invalid {
		w.reg.RemoveAllComponentsOf(w.timerText)
	}
	w.timerText = w.createText(vmath.V2(w.tuning.Width/2, w.tuning.Height/2))

	seconds := int(math.Ceil(w.tuning.CountdownMs / 1000))
	w.countdown = seconds
	for k := 1; k < seconds; k++ {
		w.createDelayedCallback(world.CallbackCountdownTick, float64(k)*1000, ecs.Invalid, seconds-k)
	}
	if spawn {
		w.createDelayedCallback(world.CallbackSpawnBall, w.tuning.CountdownMs, ecs.Invalid, 0)
	}
}

// cancelCountdown drops the countdown label and any ticks still pending
func (w *World) cancelCountdown() {
	w.countdown = 0
	if w.timerText != ecs.Invalid {
		w.reg.RemoveAllComponentsOf(w.timerText)
		w.timerText = ecs.Invalid
	}
	var ticks []ecs.Entity
	for i := 0; i < w.reg.DelayedCallbacks.Len(); i++ {
		e, cb := w.reg.DelayedCallbacks.At(i)
		if cb.Kind == world.CallbackCountdownTick {
			ticks = append(ticks, e)
		}
	}
	for _, e := range ticks {
		w.reg.RemoveAllComponentsOf(e)
	}
}

// Step runs one tick: delayed callbacks, AI, field effects, integration,
// detection, resolution and the outbound paddle update.
func (w *World) Step(dtMs float64) error {
	if err := w.runCallbacks(dtMs); err != nil {
		return err
	}
	if w.paused() {
		return nil
	}
	if err := w.ai.Step(dtMs); err != nil {
		return err
	}
	if err := w.effects.Step(dtMs); err != nil {
		return err
	}

	physics.Integrate(w.reg, dtMs/1000, world.IsWorldSlippery(w.reg), w.tuning.Friction)
	physics.Detect(w.reg)
	if err := w.resolver.Resolve(); err != nil {
		return err
	}
	return w.syncMotion(dtMs)
}

// runCallbacks counts every delayed callback down and fires the due ones
// once all of them have been advanced.
func (w *World) runCallbacks(dtMs float64) error {
	paused := w.paused()
	var due []ecs.Entity
	store := w.reg.DelayedCallbacks
	for i := 0; i < store.Len(); i++ {
		e, cb := store.At(i)
		if !paused {
			cb.TimeMs -= dtMs
		}
		if cb.TimeMs <= 0 {
			due = append(due, e)
		}
	}

	for _, e := range due {
		if !store.Has(e) {
			continue
		}
		cb := *store.MustGet(e)
		w.reg.RemoveAllComponentsOf(e)
		if err := w.fire(cb); err != nil {
			return eris.Wrapf(err, "callback %s", cb.Kind)
		}
	}
	return nil
}

func (w *World) fire(cb world.DelayedCallback) error {
	switch cb.Kind {
	case world.CallbackCountdownTick:
		w.countdown = cb.Arg
		w.log.Debug().Int("countdown", cb.Arg).Msg("countdown")
	case world.CallbackSpawnBall:
		w.countdown = 0
		w.spawnRandomBall()
		if w.timerText != ecs.Invalid {
			w.createDelayedCallback(world.CallbackRemoveEntity, 1000, w.timerText, 0)
			w.timerText = ecs.Invalid
		}
	case world.CallbackRemoveEntity:
		w.reg.RemoveAllComponentsOf(cb.Target)
	case world.CallbackClearEffects:
		return w.effects.Clear()
	default:
		return eris.Errorf("unknown callback kind %d", cb.Kind)
	}
	return nil
}

// spawnRandomBall serves from the middle quarter of the field in one of
// the four diagonal directions.
func (w *World) spawnRandomBall() {
	t := w.tuning
	xMin, xMax := 3*t.Width/8, 5*t.Width/8
	yMin, yMax := 100.0, t.Height-100

	pos := vmath.V2(xMin+w.rng.Float64()*(xMax-xMin), yMin+w.rng.Float64()*(yMax-yMin))
	vel := vmath.V2(t.BallSpeed*w.randomSign(), t.BallSpeed*w.randomSign())
	w.placeBall(pos, vel)
}

func (w *World) randomSign() float64 {
	if w.rng.IntN(2) == 0 {
		return -1
	}
	return 1
}

// placeBall replaces any ball on the field and marks the round live
func (w *World) placeBall(pos, vel vmath.Vec2) {
	w.removeBall()
	w.ball = w.createBall(pos, vel)
	if gs := world.CurrentGameState(w.reg); gs != nil {
		gs.IsGamePlaying = true
		gs.CurrentBallVelMag = vel.Len()
	}
}

func (w *World) removeBall() {
	if w.ball != ecs.Invalid {
		w.reg.RemoveAllComponentsOf(w.ball)
		w.ball = ecs.Invalid
	}
	if gs := world.CurrentGameState(w.reg); gs != nil {
		gs.IsGamePlaying = false
	}
}

// goal scores a single player point. The side whose goal line was
// crossed concedes.
func (w *World) goal(leftGoal bool) {
	scorer := protocol.SideLeft
	if leftGoal {
		scorer = protocol.SideRight
	}
	if scorer == w.side {
		w.playerScore++
	} else {
		w.opponentScore++
	}
	w.log.Info().Int("player", w.playerScore).Int("opponent", w.opponentScore).Msg("goal")

	if w.playerScore >= w.tuning.WinningScore || w.opponentScore >= w.tuning.WinningScore {
		w.finished = true
		w.removeBall()
		w.log.Info().Bool("won", w.playerScore > w.opponentScore).Msg("match over")
		return
	}
	w.ReinitializeWorld()
}

// MovePaddle pushes the player's paddle up (dir < 0) or down (dir > 0).
// On a slippery field the paddle accelerates instead.
func (w *World) MovePaddle(dir int) {
	if !w.reg.Motions.Has(w.player) || w.paused() {
		return
	}
	m := w.reg.Motions.MustGet(w.player)
	sign := float64(dir)
	if sign != 0 {
		sign = math.Copysign(1, sign)
	}
	if world.IsWorldSlippery(w.reg) {
		m.Acceleration.Y = sign * w.tuning.PaddleAccel
		return
	}
	m.Velocity.Y = sign * w.tuning.PaddleSpeed
}

// StopPaddle releases the player's paddle
func (w *World) StopPaddle() {
	if !w.reg.Motions.Has(w.player) || w.paused() {
		return
	}
	m := w.reg.Motions.MustGet(w.player)
	if world.IsWorldSlippery(w.reg) {
		m.Acceleration.Y = 0
		return
	}
	m.Velocity.Y = 0
}

// DrawList returns the entities to paint, lowest layer first
func (w *World) DrawList() []ecs.Entity {
	world.SortRenderRequests(w.reg, false)
	return append([]ecs.Entity(nil), w.reg.RenderRequests.Entities()...)
}

// syncMotion reports the player's paddle to the relay when its velocity
// changes, and at most every MotionIntervalMs while it moves.
func (w *World) syncMotion(dtMs float64) error {
	if !w.multiplayer || !w.connected || w.sender == nil || !w.reg.Motions.Has(w.player) {
		return nil
	}
	w.sinceMotionMs += dtMs

	m := w.reg.Motions.MustGet(w.player)
	msg := protocol.Motion{Velocity: m.Velocity, Position: m.Position, HasPosition: true}
	changed := !truncEqual(msg.Velocity, w.lastMotion.Velocity)
	moved := !truncEqual(msg.Position, w.lastMotion.Position)
	if !changed && (!moved || w.sinceMotionMs < w.tuning.MotionIntervalMs) {
		return nil
	}

	raw, err := msg.Encode()
	if err != nil {
		return eris.Wrap(err, "encode motion")
	}
	w.lastMotion = msg
	w.sinceMotionMs = 0
	w.send(raw)
	return nil
}

// send hands msg to the relay. A full or closed connection drops it.
func (w *World) send(msg []byte) {
	if w.sender == nil {
		return
	}
	if err := w.sender.Send(msg); err != nil {
		w.log.Warn().Err(err).Str("msg", protocol.ClientCodeName(msg[0])).Msg("send dropped")
	}
}

// truncEqual compares two vectors the way the wire sees them
func truncEqual(a, b vmath.Vec2) bool {
	return math.Trunc(a.X) == math.Trunc(b.X) && math.Trunc(a.Y) == math.Trunc(b.Y)
}
