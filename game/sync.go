package game

import (
	"github.com/rotisserie/eris"

	"pongsync/ecs"
	"pongsync/protocol"
)

// Bind registers the world's handlers for every relay message on d
func (w *World) Bind(d *protocol.Dispatcher) {
	d.Handle(protocol.CodeConnected, func(msg []byte) error {
		c, err := protocol.DecodeConnected(msg)
		if err != nil {
			return err
		}
		w.OnConnected(c.Side)
		return nil
	})
	d.Handle(protocol.CodeOpDisconnect, func([]byte) error {
		w.OnOpDisconnect()
		return nil
	})
	d.Handle(protocol.CodeCountdownStart, func([]byte) error {
		w.OnCountdownStart()
		return nil
	})
	d.Handle(protocol.CodeRoundStart, func(msg []byte) error {
		b, err := protocol.DecodeBallState(msg)
		if err != nil {
			return err
		}
		w.OnRoundStart(b)
		return nil
	})
	d.Handle(protocol.CodeCollisionMotion, func(msg []byte) error {
		b, err := protocol.DecodeBallState(msg)
		if err != nil {
			return err
		}
		return w.OnCollisionMotion(b)
	})
	d.Handle(protocol.CodeOpMotion, func(msg []byte) error {
		o, err := protocol.DecodeOpMotion(msg)
		if err != nil {
			return err
		}
		return w.OnOpMotion(o)
	})
	d.Handle(protocol.CodeRoundEnd, func(msg []byte) error {
		e, err := protocol.DecodeRoundEnd(msg)
		if err != nil {
			return err
		}
		w.OnRoundEnd(e)
		return nil
	})
	d.Handle(protocol.CodeResult, func(msg []byte) error {
		r, err := protocol.DecodeResult(msg)
		if err != nil {
			return err
		}
		w.OnResult(r)
		return nil
	})
}

// OnConnected places the paddles for the assigned side and waits for the
// relay to start the countdown.
func (w *World) OnConnected(side protocol.Side) {
	w.connected = true
	w.side = side
	w.ResetScore()
	w.ReinitializeWorld()
	w.log.Info().Stringer("side", side).Msg("joined room")
}

// OnOpDisconnect drops the round in progress; the room waits for a new
// opponent.
func (w *World) OnOpDisconnect() {
	w.log.Info().Msg("opponent left")
	w.ResetScore()
	w.ReinitializeWorld()
}

// OnCountdownStart shows the countdown. The relay serves the ball.
func (w *World) OnCountdownStart() {
	w.removeBall()
	w.resolver.Reset()
	w.commenceCountdown(false)
}

// OnRoundStart serves the ball the relay picked
func (w *World) OnRoundStart(b protocol.BallState) {
	w.cancelCountdown()
	w.resolver.Reset()
	w.placeBall(b.Position, b.Velocity)
	w.log.Debug().Interface("ball", b).Msg("round start")
}

// OnCollisionMotion applies the relay's verdict on the last reported
// collision.
func (w *World) OnCollisionMotion(b protocol.BallState) error {
	w.resolver.Reset()
	if w.ball == ecs.Invalid {
		return nil
	}
	m, err := w.reg.Motions.Get(w.ball)
	if err != nil {
		return eris.Wrap(err, "collision motion")
	}
	m.Position = b.Position
	m.Velocity = b.Velocity
	return nil
}

// OnOpMotion moves the opponent's paddle. Both peers share one frame, so
// the position is used as is.
func (w *World) OnOpMotion(o protocol.OpMotion) error {
	m, err := w.reg.Motions.Get(w.opponent)
	if err != nil {
		return eris.Wrap(err, "opponent motion")
	}
	m.Position = o.Position
	if o.HasVelocity {
		m.Velocity = o.Velocity
	}
	return nil
}

// OnRoundEnd records the scores and clears the ball
func (w *World) OnRoundEnd(e protocol.RoundEnd) {
	w.playerScore = e.PlayerScore
	w.opponentScore = e.OpponentScore
	w.resolver.Reset()
	w.removeBall()
	w.log.Info().Int("player", w.playerScore).Int("opponent", w.opponentScore).Msg("round end")
}

// OnResult ends the match, asking for a rematch when configured to
func (w *World) OnResult(r protocol.Result) {
	w.playerScore = r.PlayerScore
	w.opponentScore = r.OpponentScore
	w.finished = true
	w.removeBall()
	w.log.Info().
		Bool("won", r.Winner == w.side).
		Int("player", r.PlayerScore).
		Int("opponent", r.OpponentScore).
		Msg("match over")

	if w.rematch {
		w.PlayAgain()
	}
}

// PlayAgain asks the relay for a rematch
func (w *World) PlayAgain() {
	w.ResetScore()
	w.send(protocol.Signal(protocol.CodePlayAgain))
}
