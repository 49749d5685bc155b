package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	memorybus "github.com/bnema/talkie/internal/adapters/bus/memory"
	"github.com/bnema/talkie/internal/audio"
	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	frames chan []float32
	closes atomic.Int32
}

func newFakeStream() *fakeStream {
	return &fakeStream{frames: make(chan []float32, 16)}
}

func (f *fakeStream) Frames() <-chan []float32 { return f.frames }

func (f *fakeStream) Close() error {
	f.closes.Add(1)
	return nil
}

type fakeDevice struct {
	mu      sync.Mutex
	err     error
	streams []*fakeStream
	opens   int
}

func (d *fakeDevice) Open(_ context.Context, _, _ int) (ports.CaptureStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.opens++
	if d.err != nil {
		return nil, d.err
	}
	stream := newFakeStream()
	d.streams = append(d.streams, stream)
	return stream, nil
}

func (d *fakeDevice) openCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

func (d *fakeDevice) stream(i int) *fakeStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streams[i]
}

type fakePlayback struct {
	done chan struct{}
	once sync.Once
}

func (p *fakePlayback) Done() <-chan struct{} { return p.done }

func (p *fakePlayback) finish() { p.once.Do(func() { close(p.done) }) }

type fakePlayer struct {
	mu        sync.Mutex
	playbacks []*fakePlayback
	buffers   []audio.Buffer
}

func (p *fakePlayer) Play(_ context.Context, buffer audio.Buffer) (ports.Playback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	playback := &fakePlayback{done: make(chan struct{})}
	p.playbacks = append(p.playbacks, playback)
	p.buffers = append(p.buffers, buffer)
	return playback, nil
}

func (p *fakePlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.playbacks)
}

func (p *fakePlayer) finish(i int) {
	p.mu.Lock()
	playback := p.playbacks[i]
	p.mu.Unlock()
	playback.finish()
}

type spoken struct {
	text    string
	persona domain.VoicePersona
}

type fakeAnnouncer struct {
	said chan spoken
	err  error
}

func newFakeAnnouncer() *fakeAnnouncer {
	return &fakeAnnouncer{said: make(chan spoken, 32)}
}

func (a *fakeAnnouncer) Speak(_ context.Context, text string, persona domain.VoicePersona) error {
	a.said <- spoken{text: text, persona: persona}
	return a.err
}

func (a *fakeAnnouncer) expect(t *testing.T, want spoken) {
	t.Helper()
	select {
	case got := <-a.said:
		require.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatalf("announcer never said %q", want.text)
	}
}

func (a *fakeAnnouncer) expectSilence(t *testing.T) {
	t.Helper()
	select {
	case got := <-a.said:
		t.Fatalf("unexpected announcement %q", got.text)
	case <-time.After(50 * time.Millisecond):
	}
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testRig struct {
	service   *SessionService
	device    *fakeDevice
	player    *fakePlayer
	announcer *fakeAnnouncer
}

func newTestRig(t *testing.T, bus *memorybus.Bus, mutate func(*SessionDeps)) *testRig {
	t.Helper()

	rig := &testRig{
		device:    &fakeDevice{},
		player:    &fakePlayer{},
		announcer: newFakeAnnouncer(),
	}
	deps := SessionDeps{
		Bus:       bus,
		Capture:   rig.device,
		Player:    rig.player,
		Codec:     audio.PCMCodec{},
		Announcer: rig.announcer,
	}
	if mutate != nil {
		mutate(&deps)
	}
	rig.service = NewSessionService(deps)
	t.Cleanup(func() { _ = rig.service.LeaveRoom() })

	return rig
}

func (r *testRig) join(t *testing.T, callsign, room string, persona domain.VoicePersona) {
	t.Helper()

	_, err := r.service.JoinRoom(context.Background(), JoinRoomCommand{Callsign: callsign, RoomCode: room, Persona: persona})
	require.NoError(t, err)
	r.announcer.expect(t, spoken{text: "Operator " + callsign + " connected.", persona: persona})
}

func (r *testRig) userMessages() []domain.ChatMessage {
	var out []domain.ChatMessage
	for _, msg := range r.service.Snapshot().Messages {
		if msg.Origin == domain.OriginUser {
			out = append(out, msg)
		}
	}
	return out
}

func mockAnyContext() interface{} {
	return mock.Anything
}
