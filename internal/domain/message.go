package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type MessageOrigin string

const (
	OriginUser   MessageOrigin = "user"
	OriginSystem MessageOrigin = "system"
)

type ChatMessage struct {
	ID            string        `json:"id"`
	Origin        MessageOrigin `json:"origin"`
	Text          string        `json:"text"`
	CallsignLabel string        `json:"callsign"`
	CreatedAt     time.Time     `json:"created_at"`
}

type TransmissionFrame struct {
	EncodedAudio   string   `json:"encoded_audio"`
	OriginCallsign Callsign `json:"origin_callsign"`
}

type MessageKind string

const (
	KindChat  MessageKind = "CHAT"
	KindAudio MessageKind = "AUDIO"
)

// Envelope is the structured message carried by the room bus.
type Envelope struct {
	Type    MessageKind     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewChatEnvelope(msg ChatMessage) (Envelope, error) {
	return newEnvelope(KindChat, msg)
}

func NewAudioEnvelope(frame TransmissionFrame) (Envelope, error) {
	return newEnvelope(KindAudio, frame)
}

func newEnvelope(kind MessageKind, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}

	return Envelope{Type: kind, Payload: raw}, nil
}

func (e Envelope) Chat() (ChatMessage, error) {
	var msg ChatMessage
	if err := e.decode(KindChat, &msg); err != nil {
		return ChatMessage{}, err
	}
	return msg, nil
}

func (e Envelope) Audio() (TransmissionFrame, error) {
	var frame TransmissionFrame
	if err := e.decode(KindAudio, &frame); err != nil {
		return TransmissionFrame{}, err
	}
	return frame, nil
}

func (e Envelope) decode(kind MessageKind, target any) error {
	if e.Type != kind {
		return fmt.Errorf("%w: want %s, got %q", ErrUnknownKind, kind, e.Type)
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", kind, err)
	}

	return nil
}
