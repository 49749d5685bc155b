package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/bnema/talkie/internal/domain"
)

const bytesPerSample = 2

// DecodeError describes an inbound payload that cannot be turned into audio.
type DecodeError struct {
	Reason string
	Length int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode audio payload (%d bytes): %s", e.Length, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return domain.ErrDecode
}

// PCMCodec carries frames as base64 of little-endian PCM16.
type PCMCodec struct{}

func (PCMCodec) Encode(samples []float32) (string, error) {
	return Encode(samples), nil
}

func (PCMCodec) Decode(encoded string, sampleRate, channels int) (Buffer, error) {
	return Decode(encoded, sampleRate, channels)
}

func Encode(samples []float32) string {
	raw := make([]byte, len(samples)*bytesPerSample)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(raw[i*bytesPerSample:], uint16(ToPCM16(sample)))
	}

	return base64.StdEncoding.EncodeToString(raw)
}

func Decode(encoded string, sampleRate, channels int) (Buffer, error) {
	if sampleRate <= 0 {
		return Buffer{}, &DecodeError{Reason: fmt.Sprintf("sample rate must be positive, got %d", sampleRate)}
	}
	if channels <= 0 {
		return Buffer{}, &DecodeError{Reason: fmt.Sprintf("channel count must be positive, got %d", channels)}
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Buffer{}, &DecodeError{Reason: "malformed base64: " + err.Error(), Length: len(encoded)}
	}
	if len(raw)%(bytesPerSample*channels) != 0 {
		return Buffer{}, &DecodeError{
			Reason: fmt.Sprintf("length is not a multiple of %d", bytesPerSample*channels),
			Length: len(raw),
		}
	}

	samples := make([]float32, len(raw)/bytesPerSample)
	for i := range samples {
		samples[i] = FromPCM16(int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:])))
	}

	return Buffer{SampleRate: sampleRate, Channels: channels, Samples: samples}, nil
}
