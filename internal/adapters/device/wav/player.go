package wav

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bnema/talkie/internal/adapters/device"
	"github.com/bnema/talkie/internal/audio"
	"github.com/bnema/talkie/internal/ports"
)

const playbackFileMode = 0o600

// Player writes every received buffer to its own WAV file in dir. With
// realtime set, a playback lasts as long as its audio.
type Player struct {
	dir      string
	realtime bool
	seq      atomic.Uint64
}

var _ ports.Player = (*Player)(nil)

func NewPlayer(dir string, realtime bool) *Player {
	return &Player{dir: dir, realtime: realtime}
}

func (p *Player) Play(ctx context.Context, buffer audio.Buffer) (ports.Playback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := audio.EncodeWAV(buffer)
	if err != nil {
		return nil, fmt.Errorf("encode playback: %w", err)
	}
	if err := os.MkdirAll(p.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create playback directory: %w", err)
	}

	name := filepath.Join(p.dir, fmt.Sprintf("playback-%06d.wav", p.seq.Add(1)))
	if err := os.WriteFile(name, data, playbackFileMode); err != nil {
		return nil, fmt.Errorf("write playback file: %w", err)
	}

	var length time.Duration
	if p.realtime {
		length = buffer.Duration()
	}
	return device.NewTimedPlayback(ctx, length), nil
}
