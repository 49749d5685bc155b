package ports

import (
	"context"

	"github.com/bnema/talkie/internal/audio"
)

type CaptureDevice interface {
	Open(ctx context.Context, sampleRate, frameSize int) (CaptureStream, error)
}

// CaptureStream delivers mono frames until closed. Frames is closed when the
// source ends on its own.
type CaptureStream interface {
	Frames() <-chan []float32
	Close() error
}

type Player interface {
	Play(ctx context.Context, buffer audio.Buffer) (Playback, error)
}

type Playback interface {
	Done() <-chan struct{}
}

type FrameCodec interface {
	Encode(samples []float32) (string, error)
	Decode(encoded string, sampleRate, channels int) (audio.Buffer, error)
}
