// Package device holds the capture stream and timed playback shared by the
// file, synthetic and null audio devices.
package device

import (
	"sync"
	"time"
)

// NextFunc yields the next captured frame, or false once the source is
// exhausted.
type NextFunc func() ([]float32, bool)

// Stream delivers frames from next until the source runs out or Close is
// called. Frames is closed only when the source runs out.
type Stream struct {
	frames chan []float32
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewStream starts producing frames. A positive interval paces delivery to
// one frame per interval, as a live microphone would.
func NewStream(interval time.Duration, next NextFunc) *Stream {
	s := &Stream{
		frames: make(chan []float32, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run(interval, next)

	return s
}

func (s *Stream) Frames() <-chan []float32 {
	return s.frames
}

func (s *Stream) Close() error {
	s.once.Do(func() {
		close(s.quit)
	})
	<-s.done
	return nil
}

func (s *Stream) run(interval time.Duration, next NextFunc) {
	defer close(s.done)

	var pace <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		pace = ticker.C
	}

	for {
		frame, ok := next()
		if !ok {
			close(s.frames)
			return
		}

		select {
		case s.frames <- frame:
		case <-s.quit:
			return
		}

		if pace == nil {
			continue
		}
		select {
		case <-pace:
		case <-s.quit:
			return
		}
	}
}

// FrameInterval is the wall-clock length of one frame.
func FrameInterval(sampleRate, frameSize int) time.Duration {
	if sampleRate <= 0 || frameSize <= 0 {
		return 0
	}
	return time.Duration(frameSize) * time.Second / time.Duration(sampleRate)
}
