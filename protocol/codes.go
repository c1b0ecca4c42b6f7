package protocol

// Client -> Server event codes
const (
	CodeConnect byte = iota
	CodeMotion
	CodeCollision
	CodeDisconnect
	CodePlayAgain
)

// Server -> Client event codes
const (
	CodeConnected byte = iota
	CodeOpDisconnect
	CodeCountdownStart
	CodeRoundStart
	CodeCollisionMotion
	CodeOpMotion
	CodeRoundEnd
	CodeResult
)

// Side is a player's half of the field
type Side byte

const (
	SideLeft  Side = 0 // player 1, the host
	SideRight Side = 1 // player 2
)

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Collision tags
const (
	TagLeftGoal  = 0
	TagRightGoal = 1
	TagWall      = 1000
)

// Message sizes
const (
	SizeCode          = 1
	SizeMotion        = 5
	SizeMotionWithPos = 9
	SizeCollision     = 17
	SizeConnected     = 2
	SizeBallState     = 9
	SizeOpMotion      = 9
	SizeRoundEnd      = 3
	SizeResult        = 4
)

// ClientCodeName returns a readable name for a client code
func ClientCodeName(code byte) string {
	switch code {
	case CodeConnect:
		return "connect"
	case CodeMotion:
		return "motion"
	case CodeCollision:
		return "collision"
	case CodeDisconnect:
		return "disconnect"
	case CodePlayAgain:
		return "play_again"
	default:
		return "unknown"
	}
}

// ServerCodeName returns a readable name for a server code
func ServerCodeName(code byte) string {
	switch code {
	case CodeConnected:
		return "connected"
	case CodeOpDisconnect:
		return "op_disconnect"
	case CodeCountdownStart:
		return "countdown_start"
	case CodeRoundStart:
		return "round_start"
	case CodeCollisionMotion:
		return "collision_motion"
	case CodeOpMotion:
		return "op_motion"
	case CodeRoundEnd:
		return "round_end"
	case CodeResult:
		return "result"
	default:
		return "unknown"
	}
}
