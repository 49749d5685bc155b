package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	memorybus "github.com/bnema/talkie/internal/adapters/bus/memory"
	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

func TestJoinRoomValidatesInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cmd     JoinRoomCommand
		wantErr error
	}{
		{name: "short callsign", cmd: JoinRoomCommand{Callsign: "a", RoomCode: "AB12CD", Persona: domain.PersonaMale}, wantErr: domain.ErrInvalidCallsign},
		{name: "short room", cmd: JoinRoomCommand{Callsign: "ALPHA-1", RoomCode: "AB1", Persona: domain.PersonaMale}, wantErr: domain.ErrInvalidRoomCode},
		{name: "unknown persona", cmd: JoinRoomCommand{Callsign: "ALPHA-1", RoomCode: "AB12CD", Persona: "robot"}, wantErr: domain.ErrInvalidPersona},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rig := newTestRig(t, memorybus.NewBus(8, nil), nil)

			_, err := rig.service.JoinRoom(context.Background(), tc.cmd)

			require.ErrorIs(t, err, tc.wantErr)
			assert.False(t, rig.service.Snapshot().InRoom)
		})
	}
}

func TestJoinRoomNormalizesAndAnnouncesConnection(t *testing.T) {
	t.Parallel()

	wakeLock := mocks.NewMockWakeLock(t)
	wakeLock.EXPECT().Acquire(mockAnyContext()).Return(nil).Once()
	wakeLock.EXPECT().Release().Return(nil).Once()

	rig := newTestRig(t, memorybus.NewBus(8, nil), func(deps *SessionDeps) {
		deps.WakeLock = wakeLock
	})

	session, err := rig.service.JoinRoom(context.Background(), JoinRoomCommand{Callsign: " alpha-1 ", RoomCode: "ab12cd", Persona: domain.PersonaFemale})
	require.NoError(t, err)

	assert.Equal(t, domain.Callsign("ALPHA-1"), session.Callsign)
	assert.Equal(t, domain.RoomCode("AB12CD"), session.RoomCode)
	assert.Equal(t, domain.StatusIdle, session.Status)
	rig.announcer.expect(t, spoken{text: "Operator ALPHA-1 connected.", persona: domain.PersonaFemale})

	snapshot := rig.service.Snapshot()
	require.Len(t, snapshot.Messages, 1)
	assert.Equal(t, domain.OriginSystem, snapshot.Messages[0].Origin)
	assert.Equal(t, "Operator ALPHA-1 connected.", snapshot.Messages[0].Text)

	require.NoError(t, rig.service.LeaveRoom())
}

func TestJoinRoomIgnoresWakeLockAndAnnouncerFailures(t *testing.T) {
	t.Parallel()

	wakeLock := mocks.NewMockWakeLock(t)
	wakeLock.EXPECT().Acquire(mockAnyContext()).Return(errors.New("inhibit unavailable")).Once()
	wakeLock.EXPECT().Release().Return(errors.New("nothing to release")).Once()

	rig := newTestRig(t, memorybus.NewBus(8, nil), func(deps *SessionDeps) {
		deps.WakeLock = wakeLock
	})
	rig.announcer.err = errors.New("no speech engine")

	_, err := rig.service.JoinRoom(context.Background(), JoinRoomCommand{Callsign: "ALPHA-1", RoomCode: "AB12CD", Persona: domain.PersonaMale})
	require.NoError(t, err)
	assert.True(t, rig.service.Snapshot().InRoom)

	assert.NoError(t, rig.service.LeaveRoom())
}

func TestRejoinTearsDownPreviousBinding(t *testing.T) {
	t.Parallel()

	bus := memorybus.NewBus(8, nil)
	rig := newTestRig(t, bus, nil)

	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	rig.join(t, "ALPHA-1", "ZZ9900", domain.PersonaMale)

	assert.Equal(t, 0, bus.Subscribers("AB12CD"))
	assert.Equal(t, 1, bus.Subscribers("ZZ9900"))
	assert.Equal(t, domain.RoomCode("ZZ9900"), rig.service.Snapshot().Session.RoomCode)
}

func TestAnnouncementReachesOtherOperatorWithTheirVoice(t *testing.T) {
	t.Parallel()

	bus := memorybus.NewBus(8, nil)
	alpha := newTestRig(t, bus, nil)
	bravo := newTestRig(t, bus, nil)
	alpha.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	bravo.join(t, "BRAVO-2", "AB12CD", domain.PersonaFemale)

	require.NoError(t, alpha.service.Announce(context.Background(), "  Status verde "))

	alpha.announcer.expect(t, spoken{text: "ALPHA-1 reports: Status verde", persona: domain.PersonaMale})
	bravo.announcer.expect(t, spoken{text: "ALPHA-1 reports: Status verde", persona: domain.PersonaFemale})

	require.Eventually(t, func() bool { return len(bravo.userMessages()) == 1 }, waitFor, tick)
	received := bravo.userMessages()[0]
	assert.Equal(t, "Status verde", received.Text)
	assert.Equal(t, "ALPHA-1", received.CallsignLabel)

	// the sender keeps exactly one copy and does not re-announce its echo
	assert.Never(t, func() bool { return len(alpha.userMessages()) != 1 }, 50*time.Millisecond, tick)
	alpha.announcer.expectSilence(t)
	assert.Equal(t, domain.StatusIdle, alpha.service.Status())
}

func TestAnnounceRestoresIdleWhenSynthesisFails(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, memorybus.NewBus(8, nil), nil)
	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	rig.announcer.err = errors.New("speech engine crashed")

	require.NoError(t, rig.service.Announce(context.Background(), "copy"))

	rig.announcer.expect(t, spoken{text: "ALPHA-1 reports: copy", persona: domain.PersonaMale})
	assert.Equal(t, domain.StatusIdle, rig.service.Status())
	assert.Len(t, rig.userMessages(), 1)
}

func TestAnnounceIgnoresBlankTextAndRequiresRoom(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, memorybus.NewBus(8, nil), nil)

	assert.ErrorIs(t, rig.service.Announce(context.Background(), "hello"), domain.ErrNotInRoom)

	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	require.NoError(t, rig.service.Announce(context.Background(), "   "))
	rig.announcer.expectSilence(t)
	assert.Empty(t, rig.userMessages())
}

func TestInboundAudioPlaysUntilLastFrameFinishes(t *testing.T) {
	t.Parallel()

	bus := memorybus.NewBus(8, nil)
	alpha := newTestRig(t, bus, nil)
	bravo := newTestRig(t, bus, nil)
	alpha.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	bravo.join(t, "BRAVO-2", "AB12CD", domain.PersonaFemale)

	require.NoError(t, alpha.service.StartTransmission(context.Background()))
	stream := alpha.device.stream(0)
	for i := 0; i < 3; i++ {
		stream.frames <- []float32{0.1 * float32(i+1), -0.1}
	}

	require.Eventually(t, func() bool { return bravo.player.count() == 3 }, waitFor, tick)
	assert.Equal(t, domain.StatusReceiving, bravo.service.Status())
	assert.Equal(t, 3, bravo.service.Snapshot().ActivePlaybacks)

	// the sender hears its own frames without leaving Talking
	require.Eventually(t, func() bool { return alpha.player.count() == 3 }, waitFor, tick)
	assert.Equal(t, domain.StatusTalking, alpha.service.Status())

	bravo.player.finish(0)
	bravo.player.finish(1)
	assert.Never(t, func() bool { return bravo.service.Status() != domain.StatusReceiving }, 50*time.Millisecond, tick)

	bravo.player.finish(2)
	require.Eventually(t, func() bool { return bravo.service.Status() == domain.StatusIdle }, waitFor, tick)
	assert.Equal(t, 0, bravo.service.Snapshot().ActivePlaybacks)

	bravo.player.mu.Lock()
	first := bravo.player.buffers[0]
	bravo.player.mu.Unlock()
	assert.Equal(t, DefaultSampleRate, first.SampleRate)
	assert.InDelta(t, 0.1, first.Samples[0], 1.0/32768)
}

func TestMalformedAudioIsDropped(t *testing.T) {
	t.Parallel()

	bus := memorybus.NewBus(8, nil)
	rig := newTestRig(t, bus, nil)
	rig.join(t, "BRAVO-2", "AB12CD", domain.PersonaMale)

	envelope, err := domain.NewAudioEnvelope(domain.TransmissionFrame{EncodedAudio: "AQID", OriginCallsign: "ALPHA-1"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), "AB12CD", envelope))

	garbage := domain.Envelope{Type: domain.KindAudio, Payload: []byte(`"nope"`)}
	require.NoError(t, bus.Publish(context.Background(), "AB12CD", garbage))

	assert.Never(t, func() bool { return rig.player.count() > 0 }, 50*time.Millisecond, tick)
	assert.Equal(t, domain.StatusIdle, rig.service.Status())
}

func TestStartTransmissionPermissionDenied(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, memorybus.NewBus(8, nil), nil)
	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	rig.device.err = fmt.Errorf("open microphone: %w", domain.ErrPermission)

	err := rig.service.StartTransmission(context.Background())

	require.ErrorIs(t, err, domain.ErrPermission)
	assert.Equal(t, domain.StatusIdle, rig.service.Status())
	assert.False(t, rig.service.Snapshot().Capturing)
	assert.Equal(t, 1, rig.device.openCount())
}

func TestStartAndStopAreIdempotent(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, memorybus.NewBus(8, nil), nil)
	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)

	require.NoError(t, rig.service.StartTransmission(context.Background()))
	require.NoError(t, rig.service.StartTransmission(context.Background()))
	assert.Equal(t, 1, rig.device.openCount())
	assert.Equal(t, domain.StatusTalking, rig.service.Status())
	assert.True(t, rig.service.Snapshot().Capturing)

	require.NoError(t, rig.service.StopTransmission())
	require.NoError(t, rig.service.StopTransmission())
	assert.Equal(t, int32(1), rig.device.stream(0).closes.Load())
	assert.Equal(t, domain.StatusIdle, rig.service.Status())
	assert.False(t, rig.service.Snapshot().Capturing)
}

func TestStartTransmissionOnlyFromIdle(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, memorybus.NewBus(8, nil), nil)
	assert.ErrorIs(t, rig.service.StartTransmission(context.Background()), domain.ErrNotInRoom)

	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)

	// an announcement in progress holds Receiving
	block := make(chan struct{})
	started := make(chan struct{})
	rig.service.announcer = announcerFunc(func(context.Context, string, domain.VoicePersona) error {
		close(started)
		<-block
		return nil
	})
	go func() { _ = rig.service.Announce(context.Background(), "hold") }()
	<-started

	assert.Equal(t, domain.StatusReceiving, rig.service.Status())
	require.NoError(t, rig.service.StartTransmission(context.Background()))
	assert.Equal(t, 0, rig.device.openCount())

	close(block)
	require.Eventually(t, func() bool { return rig.service.Status() == domain.StatusIdle }, waitFor, tick)
}

func TestHandsFreeWhileTalkingDoesNotReacquire(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, memorybus.NewBus(8, nil), nil)
	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)

	require.NoError(t, rig.service.PressTalk(context.Background()))
	require.NoError(t, rig.service.SetHandsFree(context.Background(), true))
	assert.Equal(t, 1, rig.device.openCount())
	assert.True(t, rig.service.Snapshot().Session.HandsFree)

	// manual controls are ignored while hands-free is on
	require.NoError(t, rig.service.ReleaseTalk())
	assert.Equal(t, domain.StatusTalking, rig.service.Status())

	require.NoError(t, rig.service.SetHandsFree(context.Background(), false))
	assert.Equal(t, domain.StatusIdle, rig.service.Status())
	assert.Equal(t, int32(1), rig.device.stream(0).closes.Load())
}

func TestHandsFreeRollsBackWhenCaptureFails(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, memorybus.NewBus(8, nil), nil)
	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	rig.device.err = fmt.Errorf("%w: denied", domain.ErrPermission)

	err := rig.service.SetHandsFree(context.Background(), true)

	require.ErrorIs(t, err, domain.ErrPermission)
	snapshot := rig.service.Snapshot()
	assert.False(t, snapshot.Session.HandsFree)
	assert.Equal(t, domain.StatusIdle, snapshot.Session.Status)
}

func TestCaptureSourceEndingReturnsToIdle(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, memorybus.NewBus(8, nil), nil)
	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	require.NoError(t, rig.service.SetHandsFree(context.Background(), true))

	stream := rig.device.stream(0)
	close(stream.frames)

	require.Eventually(t, func() bool { return rig.service.Status() == domain.StatusIdle }, waitFor, tick)
	assert.False(t, rig.service.Snapshot().Session.HandsFree)
	require.Eventually(t, func() bool { return stream.closes.Load() == 1 }, waitFor, tick)
}

func TestLeaveRoomReleasesEverything(t *testing.T) {
	t.Parallel()

	bus := memorybus.NewBus(8, nil)
	rig := newTestRig(t, bus, nil)
	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	require.NoError(t, rig.service.StartTransmission(context.Background()))

	require.NoError(t, rig.service.LeaveRoom())
	require.NoError(t, rig.service.LeaveRoom())

	assert.Equal(t, int32(1), rig.device.stream(0).closes.Load())
	assert.Equal(t, 0, bus.Subscribers("AB12CD"))
	snapshot := rig.service.Snapshot()
	assert.False(t, snapshot.InRoom)
	assert.Empty(t, snapshot.Messages)
	assert.ErrorIs(t, rig.service.StartTransmission(context.Background()), domain.ErrNotInRoom)
}

func TestSessionThatLeftReceivesNothing(t *testing.T) {
	t.Parallel()

	bus := memorybus.NewBus(8, nil)
	alpha := newTestRig(t, bus, nil)
	bravo := newTestRig(t, bus, nil)
	alpha.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	bravo.join(t, "BRAVO-2", "AB12CD", domain.PersonaMale)
	require.NoError(t, bravo.service.LeaveRoom())

	require.NoError(t, alpha.service.Announce(context.Background(), "anyone?"))
	require.NoError(t, alpha.service.StartTransmission(context.Background()))
	alpha.device.stream(0).frames <- []float32{0.5}

	require.Eventually(t, func() bool { return alpha.player.count() == 1 }, waitFor, tick)
	bravo.announcer.expectSilence(t)
	assert.Equal(t, 0, bravo.player.count())
}

func TestSweepMessagesHonorsRetention(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	rig := newTestRig(t, memorybus.NewBus(8, nil), func(deps *SessionDeps) {
		deps.Clock = clock
	})
	assert.Equal(t, 0, rig.service.SweepMessages())

	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)
	clock.Advance(10 * time.Second)
	require.NoError(t, rig.service.Announce(context.Background(), "fresh"))
	rig.announcer.expect(t, spoken{text: "ALPHA-1 reports: fresh", persona: domain.PersonaMale})

	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, rig.service.SweepMessages(), "an entry exactly at the retention edge stays")

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, rig.service.SweepMessages())

	messages := rig.service.Snapshot().Messages
	require.Len(t, messages, 1)
	assert.Equal(t, "fresh", messages[0].Text)
}

func TestRunSweeperStopsWithContext(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, memorybus.NewBus(8, nil), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- rig.service.RunSweeper(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(waitFor):
		t.Fatal("sweeper did not stop")
	}
}

type announcerFunc func(ctx context.Context, text string, persona domain.VoicePersona) error

func (f announcerFunc) Speak(ctx context.Context, text string, persona domain.VoicePersona) error {
	return f(ctx, text, persona)
}

func TestStartTransmissionOpensDeviceWithCaptureFormat(t *testing.T) {
	t.Parallel()

	device := mocks.NewMockCaptureDevice(t)
	device.EXPECT().Open(mockAnyContext(), 16000, 1024).Return(nil, fmt.Errorf("%w: no input", domain.ErrPermission)).Once()

	rig := newTestRig(t, memorybus.NewBus(8, nil), func(deps *SessionDeps) {
		deps.Capture = device
		deps.Settings = SessionSettings{FrameSize: 1024}
	})
	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)

	err := rig.service.StartTransmission(context.Background())

	require.ErrorIs(t, err, domain.ErrPermission)
	assert.Equal(t, domain.StatusIdle, rig.service.Status())
}

func TestJoinRoomStampsEntriesWithClock(t *testing.T) {
	t.Parallel()

	joinedAt := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(joinedAt).Once()
	clock.EXPECT().Now().Return(joinedAt.Add(16 * time.Second)).Once()

	rig := newTestRig(t, memorybus.NewBus(8, nil), func(deps *SessionDeps) {
		deps.Clock = clock
	})
	rig.join(t, "ALPHA-1", "AB12CD", domain.PersonaMale)

	messages := rig.service.Snapshot().Messages
	require.Len(t, messages, 1)
	assert.Equal(t, joinedAt, messages[0].CreatedAt)

	assert.Equal(t, 1, rig.service.SweepMessages())
	assert.Empty(t, rig.service.Snapshot().Messages)
}
