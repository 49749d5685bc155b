package application

import (
	"context"
	"sync"

	"github.com/bnema/talkie/internal/ports"
)

// captureHandle owns one open capture stream and the pump draining it.
// release is safe to call from any path, any number of times.
type captureHandle struct {
	stream ports.CaptureStream
	cancel context.CancelFunc
	done   chan struct{}

	once sync.Once
	err  error
}

func newCaptureHandle(stream ports.CaptureStream, cancel context.CancelFunc) *captureHandle {
	return &captureHandle{
		stream: stream,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (h *captureHandle) release() error {
	h.once.Do(func() {
		h.cancel()
		h.err = h.stream.Close()
		<-h.done
	})
	return h.err
}
