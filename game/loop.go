package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Loop ticks a World at the tuning's tick rate. Everything that touches
// the Registry happens on the Run goroutine.
type Loop struct {
	world  *World
	peer   *Peer
	reload <-chan Tuning
	log    zerolog.Logger
}

// NewLoop binds w to peer's dispatcher. peer and reload may be nil.
func NewLoop(w *World, peer *Peer, reload <-chan Tuning, log zerolog.Logger) *Loop {
	if peer != nil {
		w.Bind(peer.Dispatcher())
	}
	return &Loop{world: w, peer: peer, reload: reload, log: log}
}

// Run ticks until ctx ends or the peer goes away. A world error stops
// the loop and is returned.
func (l *Loop) Run(ctx context.Context) error {
	rate := l.world.Tuning().TickRate
	if rate <= 0 {
		rate = DefaultTuning().TickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	var done <-chan struct{}
	if l.peer != nil {
		done = l.peer.Done()
	}

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			l.peer.Flush()
			l.log.Info().Msg("connection closed, stopping loop")
			return nil
		case t := <-l.reload:
			l.world.SetTuning(t)
		case now := <-ticker.C:
			dt := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now
			if err := l.Tick(dt); err != nil {
				return err
			}
		}
	}
}

// Tick applies queued network messages and then advances the world
func (l *Loop) Tick(dtMs float64) error {
	if l.peer != nil {
		if err := l.peer.Drain(); err != nil {
			// the peer closed itself; Run sees Done next
			return nil
		}
	}
	return l.world.Step(dtMs)
}
