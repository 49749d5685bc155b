package null

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/talkie/internal/adapters/device"
	"github.com/bnema/talkie/internal/audio"
	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
)

var errNoCaptureDevice = errors.New("no capture device configured")

// Capture stands in when no input is configured; every open is refused the
// way a denied microphone would be.
type Capture struct{}

var _ ports.CaptureDevice = Capture{}

func (Capture) Open(context.Context, int, int) (ports.CaptureStream, error) {
	return nil, fmt.Errorf("%w: %w", domain.ErrPermission, errNoCaptureDevice)
}

// Player discards audio. With Realtime set a playback still lasts as long
// as its buffer.
type Player struct {
	Realtime bool
}

var _ ports.Player = Player{}

func (p Player) Play(ctx context.Context, buffer audio.Buffer) (ports.Playback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !p.Realtime {
		return device.NewTimedPlayback(ctx, 0), nil
	}
	return device.NewTimedPlayback(ctx, buffer.Duration()), nil
}
