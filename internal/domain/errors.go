package domain

import "errors"

var (
	ErrPermission = errors.New("capture permission denied")
	ErrDecode     = errors.New("malformed audio payload")
	ErrDelivery   = errors.New("transmission delivery failed")
	ErrSynthesis  = errors.New("speech synthesis failed")

	ErrInvalidCallsign = errors.New("invalid callsign")
	ErrInvalidRoomCode = errors.New("invalid room code")
	ErrInvalidPersona  = errors.New("invalid voice persona")
	ErrUnknownTheme    = errors.New("unknown theme")
	ErrUnknownKind     = errors.New("unknown message kind")
	ErrNotInRoom       = errors.New("not in a room")
)
