package protocol

import "github.com/rotisserie/eris"

var (
	ErrEncodeRange = eris.New("value outside signed 16-bit range")
	ErrShortBuffer = eris.New("message too short")
	ErrUnknownCode = eris.New("unknown event code")
	ErrBadLength   = eris.New("unexpected message length")
)
