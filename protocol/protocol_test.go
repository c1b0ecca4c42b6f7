package protocol

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pongsync/vmath"
)

func TestShortToBytes(t *testing.T) {
	b, err := ShortToBytes(-5)
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0xFB, 0xFF}, b)

	b, err = ShortToBytes(0x1234)
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0x34, 0x12}, b)

	_, err = ShortToBytes(32768)
	assert.ErrorIs(t, err, ErrEncodeRange)
	_, err = ShortToBytes(-32769)
	assert.ErrorIs(t, err, ErrEncodeRange)
}

func TestBytesToShort(t *testing.T) {
	v, err := BytesToShort([]byte{0x04, 0x00, 0x00, 0xFB, 0xFF}, 3)
	require.NoError(t, err)
	assert.Equal(t, int16(-5), v)

	_, err = BytesToShort([]byte{0x04, 0x00}, 1)
	assert.ErrorIs(t, err, ErrShortBuffer)
	_, err = BytesToShort([]byte{0x04, 0x00}, -1)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestShortRoundTrip(t *testing.T) {
	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		b, err := ShortToBytes(v)
		if err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		got, err := BytesToShort(b[:], 0)
		if err != nil || int(got) != v {
			t.Fatalf("round trip %d: got %d, %v", v, got, err)
		}
	}
}

func TestMotion(t *testing.T) {
	msg, err := Motion{Velocity: vmath.V2(0, -5.9)}.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{CodeMotion, 0, 0, 0xFB, 0xFF}, msg, "floats truncate toward zero")

	msg, err = Motion{Velocity: vmath.V2(1, 2), Position: vmath.V2(75, 425), HasPosition: true}.Encode()
	require.NoError(t, err)
	require.Len(t, msg, SizeMotionWithPos)

	m, err := DecodeMotion(msg)
	require.NoError(t, err)
	assert.True(t, m.HasPosition)
	assert.Equal(t, vmath.V2(75, 425), m.Position)

	_, err = DecodeMotion(msg[:4])
	assert.ErrorIs(t, err, ErrBadLength)

	_, err = Motion{Velocity: vmath.V2(40000, 0)}.Encode()
	assert.ErrorIs(t, err, ErrEncodeRange)
}

func TestCollision(t *testing.T) {
	c := Collision{
		BallPos:   vmath.V2(480, 20),
		BallVel:   vmath.V2(-5, -5),
		WallPos:   vmath.V2(480, -1),
		WallScale: vmath.V2(960, 2),
		Tag:       TagWall,
	}
	msg, err := c.Encode()
	require.NoError(t, err)
	require.Len(t, msg, 19)
	assert.Equal(t, CodeCollision, msg[0])

	got, err := DecodeCollision(msg)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.False(t, got.IsGoal())

	// 18 bytes: one byte tag
	short := append(append([]byte{}, msg[:17]...), TagRightGoal)
	got, err = DecodeCollision(short)
	require.NoError(t, err)
	assert.Equal(t, TagRightGoal, got.Tag)
	assert.True(t, got.IsGoal())

	// 17 bytes: no tag
	got, err = DecodeCollision(msg[:17])
	require.NoError(t, err)
	assert.Equal(t, TagWall, got.Tag)

	_, err = DecodeCollision(msg[:12])
	assert.ErrorIs(t, err, ErrBadLength)
}

func TestServerMessages(t *testing.T) {
	c, err := DecodeConnected(Connected{Side: SideRight}.Encode())
	require.NoError(t, err)
	assert.Equal(t, SideRight, c.Side)
	_, err = DecodeConnected([]byte{CodeConnected, 7})
	assert.Error(t, err)

	bs := BallState{Position: vmath.V2(479, 425), Velocity: vmath.V2(-5, 5)}
	msg, err := bs.Encode(CodeRoundStart)
	require.NoError(t, err)
	assert.Equal(t, CodeRoundStart, msg[0])
	got, err := DecodeBallState(msg)
	require.NoError(t, err)
	assert.Equal(t, bs, got)

	msg, err = OpMotion{Position: vmath.V2(885, -5), Velocity: vmath.V2(0, 5)}.Encode()
	require.NoError(t, err)
	y, err := BytesToShort(msg, 3)
	require.NoError(t, err)
	assert.Equal(t, int16(-5), y)

	op, err := DecodeOpMotion(msg[:5])
	require.NoError(t, err)
	assert.False(t, op.HasVelocity)
	assert.Equal(t, vmath.V2(885, -5), op.Position)

	msg, err = RoundEnd{PlayerScore: 2, OpponentScore: 4}.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{CodeRoundEnd, 2, 4}, msg)
	_, err = RoundEnd{PlayerScore: 300}.Encode()
	assert.ErrorIs(t, err, ErrEncodeRange)

	msg, err = Result{Winner: SideLeft, PlayerScore: 1, OpponentScore: 5}.Encode()
	require.NoError(t, err)
	res, err := DecodeResult(msg)
	require.NoError(t, err)
	assert.Equal(t, Result{Winner: SideLeft, PlayerScore: 1, OpponentScore: 5}, res)
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher(ClientCodeName)

	var got []byte
	d.Handle(CodeMotion, func(msg []byte) error {
		got = msg
		return nil
	})
	boom := errors.New("boom")
	d.Handle(CodeCollision, func([]byte) error { return boom })

	require.NoError(t, d.Dispatch([]byte{CodeMotion, 1, 0, 2, 0}))
	assert.Equal(t, []byte{CodeMotion, 1, 0, 2, 0}, got)

	assert.ErrorIs(t, d.Dispatch([]byte{CodeCollision}), boom)
	assert.ErrorIs(t, d.Dispatch([]byte{42}), ErrUnknownCode)
	assert.ErrorIs(t, d.Dispatch(nil), ErrShortBuffer)

	d.Close()
	d.Close()
	assert.ErrorIs(t, d.Dispatch([]byte{CodeMotion, 1, 0, 2, 0}), ErrUnknownCode)
}

func TestSide(t *testing.T) {
	assert.Equal(t, SideRight, SideLeft.Opposite())
	assert.Equal(t, SideLeft, SideRight.Opposite())
	assert.Equal(t, "left", SideLeft.String())
}
