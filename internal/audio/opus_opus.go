//go:build opus

package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/hraban/opus"
)

const (
	opusFrameMillis = 20
	opusMaxPacket   = 4000
)

// OpusCodec packs 20ms opus packets, each prefixed with a big-endian length,
// into one base64 payload per captured block.
type OpusCodec struct {
	sampleRate int
	channels   int
	frameSize  int

	mu  sync.Mutex
	enc *opus.Encoder
}

func NewOpusCodec(sampleRate, channels int) (*OpusCodec, error) {
	enc, err := opus.NewEncoder(sampleRate, channels, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("new opus encoder: %w", err)
	}

	return &OpusCodec{
		sampleRate: sampleRate,
		channels:   channels,
		frameSize:  sampleRate * opusFrameMillis / 1000 * channels,
		enc:        enc,
	}, nil
}

func (c *OpusCodec) Encode(samples []float32) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := make([]byte, opusMaxPacket)
	out := make([]byte, 0, len(samples))
	for i := 0; i < len(samples); i += c.frameSize {
		frame := make([]float32, c.frameSize)
		copy(frame, samples[i:min(i+c.frameSize, len(samples))])

		n, err := c.enc.EncodeFloat32(frame, buf)
		if err != nil {
			return "", fmt.Errorf("opus encode frame: %w", err)
		}
		out = binary.BigEndian.AppendUint16(out, uint16(n))
		out = append(out, buf[:n]...)
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *OpusCodec) Decode(encoded string, sampleRate, channels int) (Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return Buffer{}, &DecodeError{Reason: fmt.Sprintf("invalid format %d Hz x %d", sampleRate, channels)}
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Buffer{}, &DecodeError{Reason: "malformed base64: " + err.Error(), Length: len(encoded)}
	}

	dec, err := opus.NewDecoder(sampleRate, channels)
	if err != nil {
		return Buffer{}, &DecodeError{Reason: "new opus decoder: " + err.Error(), Length: len(raw)}
	}

	pcm := make([]float32, sampleRate*opusFrameMillis/1000*channels)
	var samples []float32
	for offset := 0; offset < len(raw); {
		if offset+2 > len(raw) {
			return Buffer{}, &DecodeError{Reason: "truncated packet length", Length: len(raw)}
		}
		size := int(binary.BigEndian.Uint16(raw[offset:]))
		offset += 2
		if offset+size > len(raw) {
			return Buffer{}, &DecodeError{Reason: "truncated packet", Length: len(raw)}
		}

		n, err := dec.DecodeFloat32(raw[offset:offset+size], pcm)
		if err != nil {
			return Buffer{}, &DecodeError{Reason: "opus decode: " + err.Error(), Length: len(raw)}
		}
		samples = append(samples, pcm[:n*channels]...)
		offset += size
	}

	return Buffer{SampleRate: sampleRate, Channels: channels, Samples: samples}, nil
}
