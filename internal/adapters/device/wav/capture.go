package wav

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/bnema/talkie/internal/adapters/device"
	"github.com/bnema/talkie/internal/audio"
	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
)

// Capture replays a WAV file as microphone input. The file is converted to
// mono at the requested rate and the stream ends with the file.
type Capture struct {
	path     string
	realtime bool
}

var _ ports.CaptureDevice = (*Capture)(nil)

func NewCapture(path string, realtime bool) *Capture {
	return &Capture{path: path, realtime: realtime}
}

func (c *Capture) Open(ctx context.Context, sampleRate, frameSize int) (ports.CaptureStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if frameSize <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %d", frameSize)
	}

	file, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %w", domain.ErrPermission, err)
		}
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	defer file.Close()

	buffer, err := audio.ReadWAV(file)
	if err != nil {
		return nil, fmt.Errorf("read capture file %s: %w", c.path, err)
	}
	samples := buffer.Mono().Resample(sampleRate).Samples

	offset := 0
	next := func() ([]float32, bool) {
		if offset >= len(samples) {
			return nil, false
		}
		end := min(offset+frameSize, len(samples))
		frame := samples[offset:end]
		offset = end
		return frame, true
	}

	var interval time.Duration
	if c.realtime {
		interval = device.FrameInterval(sampleRate, frameSize)
	}

	return device.NewStream(interval, next), nil
}
