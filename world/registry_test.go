package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pongsync/vmath"
)

func TestRemoveAllComponentsOf(t *testing.T) {
	r := NewRegistry()
	e := r.NewEntity()
	other := r.NewEntity()

	_, err := r.Motions.Insert(e, NewMotion(vmath.V2(1, 2), vmath.V2(3, 4)), false)
	require.NoError(t, err)
	_, err = r.Players.Emplace(e)
	require.NoError(t, err)
	_, err = r.Walls.Emplace(e)
	require.NoError(t, err)
	_, err = r.Walls.Emplace(other)
	require.NoError(t, err)

	r.RemoveAllComponentsOf(e)
	assert.False(t, r.Motions.Has(e))
	assert.False(t, r.Players.Has(e))
	assert.False(t, r.Walls.Has(e))
	assert.True(t, r.Walls.Has(other))

	// idempotent
	r.RemoveAllComponentsOf(e)
	assert.Equal(t, 1, r.Walls.Len())
}

func TestClearAllComponents(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		e := r.NewEntity()
		_, _ = r.Balls.Emplace(e)
		_, _ = r.RenderRequests.Emplace(e)
	}
	assert.Equal(t, map[string]int{"Store<Ball>": 5, "Store<RenderRequest>": 5}, r.Counts())

	r.ClearAllComponents()
	assert.Empty(t, r.Counts())

	// ids keep increasing after a clear
	assert.Equal(t, uint64(5), uint64(r.NewEntity()))
}

func TestMotionSpeedLimit(t *testing.T) {
	m := NewMotion(vmath.V2(0, 0), vmath.V2(1, 1))
	assert.True(t, math.IsInf(m.SpeedLimit(), 1))

	var zero Motion
	assert.True(t, math.IsInf(zero.SpeedLimit(), 1))

	m.MaxVelMag = 5
	assert.Equal(t, 5.0, m.SpeedLimit())
}

func TestHelpers(t *testing.T) {
	r := NewRegistry()
	p := r.NewEntity()
	_, _ = r.Players.Emplace(p)
	ball := r.NewEntity()
	_, _ = r.RenderRequests.Insert(ball, &RenderRequest{Shape: ShapeCircle}, false)

	assert.True(t, IsPaddle(r, p))
	assert.False(t, IsPaddle(r, ball))
	assert.Equal(t, ShapeCircle, ShapeOf(r, ball))
	assert.Equal(t, ShapeRectangle, ShapeOf(r, p), "missing descriptor collides as a rectangle")

	assert.False(t, IsWorldSlippery(r))
	_, _ = r.FieldEffects.Insert(r.NewEntity(), &FieldEffect{Kind: EffectLowFriction}, false)
	assert.True(t, IsWorldSlippery(r))

	assert.False(t, IsPowerPaddle(r, p))
	_, _ = r.FieldEffects.Insert(p, &FieldEffect{Kind: EffectPowerPaddle, Target: p}, false)
	assert.True(t, IsPowerPaddle(r, p))

	assert.Nil(t, CurrentGameState(r))
	_, _ = r.GameStates.Emplace(r.NewEntity())
	assert.NotNil(t, CurrentGameState(r))
}

func TestSortRenderRequests(t *testing.T) {
	r := NewRegistry()
	layers := []RenderLayer{LayerU4, LayerL0, LayerL2, LayerL1, LayerU0}
	for _, l := range layers {
		_, _ = r.RenderRequests.Insert(r.NewEntity(), &RenderRequest{Layer: l}, false)
	}

	SortRenderRequests(r, false)
	prev := LayerL0
	for _, rr := range r.RenderRequests.Components() {
		assert.GreaterOrEqual(t, int(rr.Layer), int(prev))
		prev = rr.Layer
	}
}
