package device

import (
	"context"
	"time"
)

// TimedPlayback finishes after a fixed length or when its context ends.
type TimedPlayback struct {
	done chan struct{}
}

// NewTimedPlayback returns a playback that is already done when length is
// not positive.
func NewTimedPlayback(ctx context.Context, length time.Duration) *TimedPlayback {
	pb := &TimedPlayback{done: make(chan struct{})}
	if length <= 0 {
		close(pb.done)
		return pb
	}

	go func() {
		defer close(pb.done)
		timer := time.NewTimer(length)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}()

	return pb
}

func (p *TimedPlayback) Done() <-chan struct{} {
	return p.done
}
