package protocol

import (
	"github.com/rotisserie/eris"

	"pongsync/vmath"
)

// Signal builds a message that carries only its code
func Signal(code byte) []byte {
	return []byte{code}
}

// Motion is a peer's paddle update. Position is optional on the wire.
type Motion struct {
	Velocity    vmath.Vec2
	Position    vmath.Vec2
	HasPosition bool
}

// Encode writes 5 bytes, or 9 when the position is included
func (m Motion) Encode() ([]byte, error) {
	w := newWriter(CodeMotion, SizeMotionWithPos)
	w.vec(m.Velocity)
	if m.HasPosition {
		w.vec(m.Position)
	}
	return w.bytes()
}

// DecodeMotion accepts the 5 and 9 byte forms
func DecodeMotion(msg []byte) (Motion, error) {
	if len(msg) != SizeMotion && len(msg) != SizeMotionWithPos {
		return Motion{}, eris.Wrapf(ErrBadLength, "motion: %d bytes", len(msg))
	}
	r := newReader(msg)
	m := Motion{Velocity: r.vec()}
	if len(msg) == SizeMotionWithPos {
		m.Position = r.vec()
		m.HasPosition = true
	}
	return m, r.err
}

// Collision is a peer's report of the ball touching a wall or goal line
type Collision struct {
	BallPos   vmath.Vec2
	BallVel   vmath.Vec2
	WallPos   vmath.Vec2
	WallScale vmath.Vec2
	Tag       int
}

// IsGoal reports whether the tag names a goal line
func (c Collision) IsGoal() bool {
	return c.Tag == TagLeftGoal || c.Tag == TagRightGoal
}

// Encode always writes the tag as a short
func (c Collision) Encode() ([]byte, error) {
	w := newWriter(CodeCollision, SizeCollision+2)
	w.vec(c.BallPos)
	w.vec(c.BallVel)
	w.vec(c.WallPos)
	w.vec(c.WallScale)
	w.short(c.Tag)
	return w.bytes()
}

// DecodeCollision accepts 17 bytes (no tag, read as a wall hit), 18 bytes
// (1-byte tag) or 19 bytes (short tag).
func DecodeCollision(msg []byte) (Collision, error) {
	r := newReader(msg)
	c := Collision{
		BallPos:   r.vec(),
		BallVel:   r.vec(),
		WallPos:   r.vec(),
		WallScale: r.vec(),
		Tag:       TagWall,
	}
	switch len(msg) {
	case SizeCollision:
	case SizeCollision + 1:
		c.Tag = int(r.byte())
	case SizeCollision + 2:
		c.Tag = int(r.short())
	default:
		return Collision{}, eris.Wrapf(ErrBadLength, "collision: %d bytes", len(msg))
	}
	return c, r.err
}

// Connected tells a peer which side it plays
type Connected struct {
	Side Side
}

// Encode writes the code and the side byte
func (c Connected) Encode() []byte {
	return []byte{CodeConnected, byte(c.Side)}
}

// DecodeConnected rejects a side other than left or right
func DecodeConnected(msg []byte) (Connected, error) {
	if len(msg) < SizeConnected {
		return Connected{}, eris.Wrapf(ErrShortBuffer, "connected: %d bytes", len(msg))
	}
	if msg[1] > byte(SideRight) {
		return Connected{}, eris.Errorf("connected: invalid side %d", msg[1])
	}
	return Connected{Side: Side(msg[1])}, nil
}

// BallState is the payload of ROUND_START and COLLISION_MOTION
type BallState struct {
	Position vmath.Vec2
	Velocity vmath.Vec2
}

// Encode writes the ball state under code, which is CodeRoundStart or
// CodeCollisionMotion
func (b BallState) Encode(code byte) ([]byte, error) {
	w := newWriter(code, SizeBallState)
	w.vec(b.Position)
	w.vec(b.Velocity)
	return w.bytes()
}

// DecodeBallState reads ROUND_START and COLLISION_MOTION alike
func DecodeBallState(msg []byte) (BallState, error) {
	if len(msg) < SizeBallState {
		return BallState{}, eris.Wrapf(ErrShortBuffer, "ball state: %d bytes", len(msg))
	}
	r := newReader(msg)
	b := BallState{Position: r.vec(), Velocity: r.vec()}
	return b, r.err
}

// OpMotion relays the opponent's paddle. Only the position is required;
// position.y sits at offset 3.
type OpMotion struct {
	Position    vmath.Vec2
	Velocity    vmath.Vec2
	HasVelocity bool
}

// Encode always writes both vectors
func (o OpMotion) Encode() ([]byte, error) {
	w := newWriter(CodeOpMotion, SizeOpMotion)
	w.vec(o.Position)
	w.vec(o.Velocity)
	return w.bytes()
}

// DecodeOpMotion needs at least the position; the velocity is optional
func DecodeOpMotion(msg []byte) (OpMotion, error) {
	if len(msg) < SizeMotion {
		return OpMotion{}, eris.Wrapf(ErrShortBuffer, "op motion: %d bytes", len(msg))
	}
	r := newReader(msg)
	o := OpMotion{Position: r.vec()}
	if len(msg) >= SizeOpMotion {
		o.Velocity = r.vec()
		o.HasVelocity = true
	}
	return o, r.err
}

// RoundEnd carries the scores from the recipient's point of view
type RoundEnd struct {
	PlayerScore   int
	OpponentScore int
}

// Encode fails with ErrEncodeRange for a score above 255
func (e RoundEnd) Encode() ([]byte, error) {
	p, err := scoreByte(e.PlayerScore)
	if err != nil {
		return nil, err
	}
	o, err := scoreByte(e.OpponentScore)
	if err != nil {
		return nil, err
	}
	return []byte{CodeRoundEnd, p, o}, nil
}

// DecodeRoundEnd reads the two score bytes
func DecodeRoundEnd(msg []byte) (RoundEnd, error) {
	if len(msg) < SizeRoundEnd {
		return RoundEnd{}, eris.Wrapf(ErrShortBuffer, "round end: %d bytes", len(msg))
	}
	return RoundEnd{PlayerScore: int(msg[1]), OpponentScore: int(msg[2])}, nil
}

// Result ends the match. Scores are from the recipient's point of view.
type Result struct {
	Winner        Side
	PlayerScore   int
	OpponentScore int
}

// Encode fails with ErrEncodeRange for a score above 255
func (r Result) Encode() ([]byte, error) {
	p, err := scoreByte(r.PlayerScore)
	if err != nil {
		return nil, err
	}
	o, err := scoreByte(r.OpponentScore)
	if err != nil {
		return nil, err
	}
	return []byte{CodeResult, byte(r.Winner), p, o}, nil
}

// DecodeResult reads the winner and the two score bytes
func DecodeResult(msg []byte) (Result, error) {
	if len(msg) < SizeResult {
		return Result{}, eris.Wrapf(ErrShortBuffer, "result: %d bytes", len(msg))
	}
	return Result{
		Winner:        Side(msg[1]),
		PlayerScore:   int(msg[2]),
		OpponentScore: int(msg[3]),
	}, nil
}

func scoreByte(v int) (byte, error) {
	if v < 0 || v > 255 {
		return 0, eris.Wrapf(ErrEncodeRange, "score %d", v)
	}
	return byte(v), nil
}
