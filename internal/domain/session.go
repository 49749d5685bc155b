package domain

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	MinCallsignLength = 2
	RoomCodeLength    = 6

	channelPrefix = "talkie_room_"
)

type Callsign string
type RoomCode string
type VoicePersona string

const (
	PersonaMale   VoicePersona = "male"
	PersonaFemale VoicePersona = "female"
)

func ParsePersona(raw string) (VoicePersona, error) {
	switch VoicePersona(strings.ToLower(strings.TrimSpace(raw))) {
	case PersonaMale:
		return PersonaMale, nil
	case PersonaFemale:
		return PersonaFemale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPersona, raw)
	}
}

func NormalizeCallsign(raw string) (Callsign, error) {
	callsign := strings.ToUpper(strings.TrimSpace(raw))
	if len([]rune(callsign)) < MinCallsignLength {
		return "", fmt.Errorf("%w: %q must have at least %d characters", ErrInvalidCallsign, raw, MinCallsignLength)
	}
	if strings.IndexFunc(callsign, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q must be a single token", ErrInvalidCallsign, raw)
	}

	return Callsign(callsign), nil
}

func NormalizeRoomCode(raw string) (RoomCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != RoomCodeLength {
		return "", fmt.Errorf("%w: %q must have exactly %d characters", ErrInvalidRoomCode, raw, RoomCodeLength)
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: %q must be alphanumeric", ErrInvalidRoomCode, raw)
		}
	}

	return RoomCode(code), nil
}

// ChannelName maps a room code to its bus channel. The fixed prefix keeps the
// mapping injective.
func ChannelName(code RoomCode) string {
	return channelPrefix + string(code)
}

type Session struct {
	Callsign  Callsign
	RoomCode  RoomCode
	Persona   VoicePersona
	Status    TransmitStatus
	HandsFree bool
}

func (s Session) Validate() error {
	if _, err := NormalizeCallsign(string(s.Callsign)); err != nil {
		return err
	}
	if _, err := NormalizeRoomCode(string(s.RoomCode)); err != nil {
		return err
	}
	if _, err := ParsePersona(string(s.Persona)); err != nil {
		return err
	}

	return nil
}
