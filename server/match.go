package main

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"pongsync/game"
	"pongsync/physics"
	"pongsync/protocol"
	"pongsync/vmath"
	"pongsync/world"
)

// MatchPhase represents the lifecycle of a room
type MatchPhase int

const (
	PhaseLobby     MatchPhase = 0
	PhaseCountdown MatchPhase = 1
	PhasePlaying   MatchPhase = 2
	PhaseRoundOver MatchPhase = 3
	PhaseResult    MatchPhase = 4
)

func (p MatchPhase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseRoundOver:
		return "round_over"
	case PhaseResult:
		return "result"
	}
	return "unknown"
}

// Room pairs two peers. The slot index is the peer's side. Every method
// runs on the hub goroutine.
type Room struct {
	ID      string
	Created time.Time

	players [2]*Client
	scores  [2]int
	phase   MatchPhase
	reports [2]*protocol.Collision
	rematch [2]bool
	lastPos [2]vmath.Vec2

	// bumped whenever pending timers must be ignored
	gen int

	hub *Hub
	log zerolog.Logger
}

func newRoom(id string, hub *Hub) *Room {
	return &Room{
		ID:      id,
		Created: time.Now(),
		hub:     hub,
		log:     hub.log.With().Str("room", id).Logger(),
	}
}

// Count returns how many seats are taken
func (r *Room) Count() int {
	n := 0
	for _, p := range r.players {
		if p != nil {
			n++
		}
	}
	return n
}

func (r *Room) Empty() bool { return r.Count() == 0 }
func (r *Room) Full() bool  { return r.Count() == len(r.players) }

// Info summarises the room for the listing
func (r *Room) Info() RoomInfo {
	info := RoomInfo{
		ID:      r.ID,
		Players: r.Count(),
		Phase:   r.phase.String(),
		Score:   r.scores,
		Created: r.Created,
	}
	for side, p := range r.players {
		if p != nil {
			info.Names[side] = p.subject
		}
	}
	return info
}

// add seats c in the first free slot
func (r *Room) add(c *Client) protocol.Side {
	side := protocol.SideLeft
	if r.players[side] != nil {
		side = protocol.SideRight
	}
	r.players[side] = c
	c.room = r
	c.side = side
	return side
}

// remove frees c's slot. A leaving host hands the left side to the
// remaining peer, which is returned with promoted set.
func (r *Room) remove(c *Client) (other *Client, promoted bool) {
	r.players[c.side] = nil
	c.room = nil
	other = r.players[c.side.Opposite()]
	if other != nil && c.side == protocol.SideLeft {
		r.players[protocol.SideLeft] = other
		r.players[protocol.SideRight] = nil
		other.side = protocol.SideLeft
		promoted = true
	}
	return other, promoted
}

// reset returns the room to the lobby and drops pending timers
func (r *Room) reset() {
	r.gen++
	r.phase = PhaseLobby
	r.scores = [2]int{}
	r.reports = [2]*protocol.Collision{}
	r.rematch = [2]bool{}
	r.lastPos = [2]vmath.Vec2{}
}

func (r *Room) tuning() game.Tuning { return r.hub.tuning }

func (r *Room) broadcast(msg []byte) {
	for _, p := range r.players {
		if p != nil {
			p.Send(msg)
		}
	}
}

func (r *Room) schedule(ms float64, kind timerKind) {
	gen := r.gen
	time.AfterFunc(time.Duration(ms*float64(time.Millisecond)), func() {
		r.hub.post(hubEvent{kind: evTimer, room: r, timer: kind, gen: gen})
	})
}

// onTimer runs a scheduled step unless the room moved on since
func (r *Room) onTimer(kind timerKind, gen int) {
	if gen != r.gen {
		return
	}
	switch kind {
	case timerRoundStart:
		if r.phase == PhaseCountdown && r.Full() {
			r.startRound()
		}
	case timerCountdown:
		if r.phase == PhaseRoundOver && r.Full() {
			r.beginCountdown()
		}
	case timerCollision:
		if r.phase == PhasePlaying {
			r.resolve()
		}
	}
}

// start begins a fresh match once both seats are taken
func (r *Room) start() {
	r.reset()
	r.hub.stats.Incr(keyMatches)
	r.log.Info().Msg("match starting")
	r.beginCountdown()
}

func (r *Room) beginCountdown() {
	r.phase = PhaseCountdown
	r.broadcast(protocol.Signal(protocol.CodeCountdownStart))
	r.schedule(r.tuning().CountdownMs, timerRoundStart)
}

// startRound serves from the centre in a random diagonal
func (r *Room) startRound() {
	t := r.tuning()
	r.phase = PhasePlaying
	r.reports = [2]*protocol.Collision{}

	b := protocol.BallState{
		Position: vmath.V2(t.Width/2, t.Height/2),
		Velocity: vmath.V2(t.BallSpeed*randomSign(), t.BallSpeed*randomSign()),
	}
	msg, err := b.Encode(protocol.CodeRoundStart)
	if err != nil {
		r.log.Error().Err(err).Msg("encode round start")
		return
	}
	r.hub.stats.Incr(keyRounds)
	r.broadcast(msg)
}

func randomSign() float64 {
	if rand.IntN(2) == 0 {
		return -1
	}
	return 1
}

// onMotion relays a paddle update to the other peer, filling in the
// last known position when the update carries none.
func (r *Room) onMotion(c *Client, m protocol.Motion) {
	if m.HasPosition {
		r.lastPos[c.side] = m.Position
	}
	other := r.players[c.side.Opposite()]
	if other == nil {
		return
	}
	msg, err := protocol.OpMotion{
		Position:    r.lastPos[c.side],
		Velocity:    m.Velocity,
		HasVelocity: true,
	}.Encode()
	if err != nil {
		r.log.Warn().Err(err).Msg("encode op motion")
		return
	}
	other.Send(msg)
}

// onCollision stores a peer's report. The contact resolves once both
// peers reported or CollisionWaitMs after the first one.
func (r *Room) onCollision(c *Client, col protocol.Collision) {
	if r.phase != PhasePlaying {
		r.log.Debug().Stringer("side", c.side).Msg("collision outside of a round")
		return
	}
	first := r.reports[0] == nil && r.reports[1] == nil
	r.reports[c.side] = &col
	if r.reports[0] != nil && r.reports[1] != nil {
		r.resolve()
		return
	}
	if first {
		r.schedule(r.tuning().CollisionWaitMs, timerCollision)
	}
}

// resolve settles the pending reports. The host's report is the truth;
// a guest report the host never confirmed is dropped, so a lagging guest
// cannot score or rewind the ball after the host has moved on.
func (r *Room) resolve() {
	host, guest := r.reports[protocol.SideLeft], r.reports[protocol.SideRight]
	r.reports = [2]*protocol.Collision{}
	r.gen++

	if host == nil {
		if guest != nil {
			r.hub.stats.Incr(keyDropped)
			r.log.Debug().Int("tag", guest.Tag).Msg("dropping unconfirmed guest report")
		}
		return
	}
	if guest != nil && host.Tag != guest.Tag {
		r.hub.stats.Incr(keyConflicts)
		r.log.Warn().Int("host", host.Tag).Int("guest", guest.Tag).Msg("conflicting collision reports")
	}

	if host.IsGoal() {
		r.goal(host.Tag)
		return
	}
	r.bounce(*host)
}

// bounce reflects the reported ball off the reported wall
func (r *Room) bounce(col protocol.Collision) {
	size := r.tuning().BallSize
	ball := world.Motion{
		Position: col.BallPos,
		Velocity: col.BallVel,
		Scale:    vmath.V2(size, size),
	}
	wall := world.Motion{Position: col.WallPos, Scale: col.WallScale}
	physics.Reflect(&ball, &wall)

	msg, err := protocol.BallState{Position: ball.Position, Velocity: ball.Velocity}.Encode(protocol.CodeCollisionMotion)
	if err != nil {
		r.log.Warn().Err(err).Msg("encode collision motion")
		return
	}
	r.broadcast(msg)
}

// goal scores for the side opposite the crossed goal line
func (r *Room) goal(tag int) {
	scorer := protocol.SideLeft
	if tag == protocol.TagLeftGoal {
		scorer = protocol.SideRight
	}
	r.scores[scorer]++
	r.phase = PhaseRoundOver
	r.log.Info().Ints("score", r.scores[:]).Msg("goal")

	for side, p := range r.players {
		if p == nil {
			continue
		}
		s := protocol.Side(side)
		msg, err := protocol.RoundEnd{PlayerScore: r.scores[s], OpponentScore: r.scores[s.Opposite()]}.Encode()
		if err != nil {
			r.log.Warn().Err(err).Msg("encode round end")
			continue
		}
		p.Send(msg)
	}

	if r.scores[scorer] >= r.tuning().WinningScore {
		r.finish(scorer)
		return
	}
	r.schedule(r.tuning().RoundPauseMs, timerCountdown)
}

func (r *Room) finish(winner protocol.Side) {
	r.phase = PhaseResult
	r.rematch = [2]bool{}
	r.log.Info().Stringer("winner", winner).Msg("match over")

	for side, p := range r.players {
		if p == nil {
			continue
		}
		s := protocol.Side(side)
		msg, err := protocol.Result{
			Winner:        winner,
			PlayerScore:   r.scores[s],
			OpponentScore: r.scores[s.Opposite()],
		}.Encode()
		if err != nil {
			r.log.Warn().Err(err).Msg("encode result")
			continue
		}
		p.Send(msg)
	}
}

// onPlayAgain restarts the match once both peers asked for it
func (r *Room) onPlayAgain(c *Client) {
	if r.phase != PhaseResult {
		return
	}
	r.rematch[c.side] = true
	if r.rematch[0] && r.rematch[1] && r.Full() {
		r.start()
	}
}
