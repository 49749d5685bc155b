package tone

import (
	"context"
	"math"

	"github.com/bnema/talkie/internal/adapters/device"
	"github.com/bnema/talkie/internal/ports"
)

// Capture synthesizes a sine tone in place of a microphone.
type Capture struct {
	Frequency float64
	Amplitude float32
	// MaxFrames ends the stream after that many frames; zero means never.
	MaxFrames int
	// Realtime paces frames at the rate a microphone would deliver them.
	Realtime bool
}

var _ ports.CaptureDevice = (*Capture)(nil)

func NewCapture(realtime bool) *Capture {
	return &Capture{Frequency: 440, Amplitude: 0.3, Realtime: realtime}
}

func (c *Capture) Open(ctx context.Context, sampleRate, frameSize int) (ports.CaptureStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		phase   float64
		emitted int
	)
	step := 2 * math.Pi * c.Frequency / float64(sampleRate)
	next := func() ([]float32, bool) {
		if c.MaxFrames > 0 && emitted >= c.MaxFrames {
			return nil, false
		}
		emitted++

		frame := make([]float32, frameSize)
		for i := range frame {
			frame[i] = c.Amplitude * float32(math.Sin(phase))
			phase = math.Mod(phase+step, 2*math.Pi)
		}
		return frame, true
	}

	interval := device.FrameInterval(sampleRate, frameSize)
	if !c.Realtime {
		interval = 0
	}

	return device.NewStream(interval, next), nil
}
