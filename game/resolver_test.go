package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pongsync/ecs"
	"pongsync/protocol"
	"pongsync/vmath"
	"pongsync/world"
)

func TestSinglePlayerBallBouncesOffTopWall(t *testing.T) {
	w := newTestWorld(DefaultTuning())
	w.Play(false)
	w.placeBall(vmath.V2(480, 10), vmath.V2(0, -420))

	require.NoError(t, w.Step(16))
	m := motionOf(t, w, w.Ball())
	assert.Equal(t, 420.0, m.Velocity.Y)
	// pushed below the wall's bottom face
	assert.Equal(t, 25.0, m.Position.Y)
	assert.Zero(t, w.Registry().Collisions.Len())
}

func TestPowerPaddleSpeedsBallUp(t *testing.T) {
	w := newTestWorld(DefaultTuning())
	w.Play(false)
	reg := w.Registry()
	_, err := reg.FieldEffects.Insert(w.Player(), &world.FieldEffect{Kind: world.EffectPowerPaddle, Target: w.Player(), Overlay: ecs.Invalid}, false)
	require.NoError(t, err)

	// ball just right of the player's paddle, heading into it
	w.placeBall(vmath.V2(105, 425), vmath.V2(-420, 0))
	require.NoError(t, w.Step(16))

	m := motionOf(t, w, w.Ball())
	assert.InDelta(t, 900.0, m.Velocity.X, 1e-9)
	assert.InDelta(t, 0.0, m.Velocity.Y, 1e-9)
}

func TestPaddleStopsAtWall(t *testing.T) {
	w := newTestWorld(DefaultTuning())
	w.Play(false)

	p := motionOf(t, w, w.Player())
	p.Position.Y = 70
	p.Velocity.Y = -450
	require.NoError(t, w.Step(16))
	assert.Equal(t, 75.0, p.Position.Y)

	p.Position.Y = 780
	p.Velocity.Y = 450
	require.NoError(t, w.Step(16))
	assert.Equal(t, 775.0, p.Position.Y)
}

func TestMultiplayerReportsFirstContactOnce(t *testing.T) {
	s := &recordingSender{}
	w := newTestWorld(DefaultTuning(), WithSender(s))
	w.Play(true)
	w.OnConnected(protocol.SideLeft)
	w.OnRoundStart(protocol.BallState{Position: vmath.V2(480, 10), Velocity: vmath.V2(0, -420)})

	require.NoError(t, w.Step(16))
	reports := s.withCode(protocol.CodeCollision)
	require.Len(t, reports, 1)
	assert.True(t, w.resolver.Awaiting())

	c, err := protocol.DecodeCollision(reports[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.TagWall, c.Tag)
	assert.Equal(t, vmath.V2(480, -1), c.WallPos)
	assert.Equal(t, vmath.V2(960, 2), c.WallScale)

	// not reflected locally
	assert.Equal(t, -420.0, motionOf(t, w, w.Ball()).Velocity.Y)

	require.NoError(t, w.Step(16))
	assert.Len(t, s.withCode(protocol.CodeCollision), 1)

	require.NoError(t, w.OnCollisionMotion(protocol.BallState{Position: vmath.V2(480, 25), Velocity: vmath.V2(0, 420)}))
	assert.False(t, w.resolver.Awaiting())
	m := motionOf(t, w, w.Ball())
	assert.Equal(t, vmath.V2(480, 25), m.Position)
	assert.Equal(t, vmath.V2(0, 420), m.Velocity)
}

func TestMultiplayerGoalIsReportedNotScored(t *testing.T) {
	s := &recordingSender{}
	w := newTestWorld(DefaultTuning(), WithSender(s))
	w.Play(true)
	w.OnConnected(protocol.SideRight)
	w.OnRoundStart(protocol.BallState{Position: vmath.V2(10, 100), Velocity: vmath.V2(-420, 0)})

	require.NoError(t, w.Step(16))
	reports := s.withCode(protocol.CodeCollision)
	require.Len(t, reports, 1)
	c, err := protocol.DecodeCollision(reports[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.TagLeftGoal, c.Tag)
	assert.True(t, c.IsGoal())

	player, opponent := w.Scores()
	assert.Zero(t, player)
	assert.Zero(t, opponent)
}
