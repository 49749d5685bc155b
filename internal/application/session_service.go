package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/metrics"
	"github.com/bnema/talkie/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const systemCallsign = "SYSTEM"

type SessionDeps struct {
	Bus       ports.RoomBus
	Capture   ports.CaptureDevice
	Player    ports.Player
	Codec     ports.FrameCodec
	Announcer ports.Announcer
	// WakeLock is optional.
	WakeLock ports.WakeLock
	Clock    ports.Clock
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	NewID    func() string
	Settings SessionSettings
}

// SessionService is the walkie-talkie state machine for one client. Every
// event (user input, bus delivery, capture end, playback end, sweep tick) is
// applied under mu; device, bus and announcer calls happen outside it.
type SessionService struct {
	bus       ports.RoomBus
	device    ports.CaptureDevice
	player    ports.Player
	codec     ports.FrameCodec
	announcer ports.Announcer
	wakeLock  ports.WakeLock
	clock     ports.Clock
	logger    *zap.Logger
	metrics   *metrics.Metrics
	newID     func() string
	settings  SessionSettings

	mu sync.Mutex
	// generation changes on every join and leave; work started under an
	// older generation is discarded.
	generation uint64
	session    *domain.Session
	roomCtx    context.Context
	roomCancel context.CancelFunc
	sub        ports.Subscription
	log        *domain.MessageLog
	sent       map[string]time.Time

	active  *captureHandle
	opening bool
	attempt uint64

	playbacks    map[uint64]ports.Playback
	nextPlayback uint64
	speaking     int
}

func NewSessionService(deps SessionDeps) *SessionService {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	return &SessionService{
		bus:       deps.Bus,
		device:    deps.Capture,
		player:    deps.Player,
		codec:     deps.Codec,
		announcer: deps.Announcer,
		wakeLock:  deps.WakeLock,
		clock:     deps.Clock,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		newID:     deps.NewID,
		settings:  deps.Settings.withDefaults(),
	}
}

func (s *SessionService) JoinRoom(ctx context.Context, cmd JoinRoomCommand) (domain.Session, error) {
	callsign, err := domain.NormalizeCallsign(cmd.Callsign)
	if err != nil {
		return domain.Session{}, err
	}
	code, err := domain.NormalizeRoomCode(cmd.RoomCode)
	if err != nil {
		return domain.Session{}, err
	}
	persona, err := domain.ParsePersona(string(cmd.Persona))
	if err != nil {
		return domain.Session{}, err
	}

	if err := s.LeaveRoom(); err != nil {
		s.logger.Warn("leave previous room", zap.Error(err))
	}

	roomCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session := domain.Session{
		Callsign: callsign,
		RoomCode: code,
		Persona:  persona,
		Status:   domain.StatusIdle,
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.session = &session
	s.roomCtx = roomCtx
	s.roomCancel = cancel
	s.log = domain.NewMessageLog(s.settings.Retention)
	s.sent = map[string]time.Time{}
	s.playbacks = map[uint64]ports.Playback{}
	s.speaking = 0
	s.mu.Unlock()

	sub, err := s.bus.Subscribe(code, func(envelope domain.Envelope) {
		s.deliver(gen, envelope)
	})
	if err != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.detachLocked()
		}
		s.mu.Unlock()
		cancel()
		return domain.Session{}, fmt.Errorf("subscribe to room %s: %w", code, err)
	}

	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		sub.Unsubscribe()
		return domain.Session{}, domain.ErrNotInRoom
	}
	s.sub = sub
	connected := fmt.Sprintf(s.settings.ConnectTemplate, callsign)
	s.log.Append(domain.ChatMessage{
		ID:            s.newID(),
		Origin:        domain.OriginSystem,
		Text:          connected,
		CallsignLabel: systemCallsign,
		CreatedAt:     s.clock.Now(),
	})
	joined := *s.session
	s.mu.Unlock()

	logger := s.logger.With(zap.String("room", string(code)), zap.String("callsign", string(callsign)))
	if s.wakeLock != nil {
		if err := s.wakeLock.Acquire(roomCtx); err != nil {
			logger.Debug("acquire wake lock", zap.Error(err))
		}
	}
	logger.Info("joined room")

	if err := s.announcer.Speak(ctx, connected, persona); err != nil {
		s.metrics.SynthesisFailure()
		logger.Warn("announce connection", zap.Error(fmt.Errorf("%w: %w", domain.ErrSynthesis, err)))
	}

	return joined, nil
}

// LeaveRoom tears down the room binding and everything started under it.
// Calling it outside a room is a no-op.
func (s *SessionService) LeaveRoom() error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil
	}
	room := s.session.RoomCode
	capture, sub, cancel := s.detachLocked()
	s.mu.Unlock()

	cancel()

	var errs []error
	if capture != nil {
		if err := capture.release(); err != nil {
			errs = append(errs, fmt.Errorf("release capture: %w", err))
		}
	}
	if sub != nil {
		sub.Unsubscribe()
	}
	if s.wakeLock != nil {
		if err := s.wakeLock.Release(); err != nil {
			s.logger.Debug("release wake lock", zap.Error(err))
		}
	}

	s.metrics.SetActivePlaybacks(0)
	s.logger.Info("left room", zap.String("room", string(room)))

	return errors.Join(errs...)
}

func (s *SessionService) detachLocked() (*captureHandle, ports.Subscription, context.CancelFunc) {
	capture, sub, cancel := s.active, s.sub, s.roomCancel
	if cancel == nil {
		cancel = func() {}
	}

	s.generation++
	s.session = nil
	s.roomCtx = nil
	s.roomCancel = nil
	s.sub = nil
	s.log = nil
	s.sent = nil
	s.active = nil
	s.opening = false
	s.playbacks = nil
	s.speaking = 0

	return capture, sub, cancel
}

// StartTransmission moves Idle to Talking and opens the capture device. In
// any other state it does nothing. A failed open leaves the session Idle and
// is returned to the caller.
func (s *SessionService) StartTransmission(ctx context.Context) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return domain.ErrNotInRoom
	}
	if s.session.Status != domain.StatusIdle {
		s.mu.Unlock()
		return nil
	}
	s.session.Status = domain.StatusTalking
	s.attempt++
	s.opening = true
	gen, attempt := s.generation, s.attempt
	room, callsign, roomCtx := s.session.RoomCode, s.session.Callsign, s.roomCtx
	s.mu.Unlock()

	stream, err := s.device.Open(ctx, s.settings.CaptureSampleRate, s.settings.FrameSize)

	s.mu.Lock()
	current := s.currentLocked(gen) && s.opening && s.attempt == attempt
	if err != nil {
		if current {
			s.opening = false
			s.session.Status = domain.StatusIdle
		}
		s.mu.Unlock()
		s.metrics.CaptureFailure()
		s.logger.Warn("open capture", zap.String("room", string(room)), zap.Error(err))
		return fmt.Errorf("open capture: %w", err)
	}
	if !current {
		// stopped or left while the device was opening
		s.mu.Unlock()
		if closeErr := stream.Close(); closeErr != nil {
			s.logger.Debug("close abandoned capture", zap.Error(closeErr))
		}
		return nil
	}
	pumpCtx, cancel := context.WithCancel(roomCtx)
	handle := newCaptureHandle(stream, cancel)
	s.active = handle
	s.opening = false
	s.mu.Unlock()

	go s.pump(pumpCtx, gen, handle, room, callsign)

	return nil
}

// StopTransmission moves Talking to Idle and releases capture before
// returning. In any other state it does nothing.
func (s *SessionService) StopTransmission() error {
	s.mu.Lock()
	if s.session == nil || s.session.Status != domain.StatusTalking {
		s.mu.Unlock()
		return nil
	}
	s.session.Status = domain.StatusIdle
	handle := s.active
	s.active = nil
	s.opening = false
	s.mu.Unlock()

	if handle == nil {
		return nil
	}
	if err := handle.release(); err != nil {
		return fmt.Errorf("release capture: %w", err)
	}

	return nil
}

// SetHandsFree toggles continuous transmission. Enabling starts capture;
// if that fails the flag is cleared again and the error returned.
func (s *SessionService) SetHandsFree(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return domain.ErrNotInRoom
	}
	if s.session.HandsFree == enabled {
		s.mu.Unlock()
		return nil
	}
	s.session.HandsFree = enabled
	gen := s.generation
	s.mu.Unlock()

	if !enabled {
		return s.StopTransmission()
	}

	if err := s.StartTransmission(ctx); err != nil {
		s.mu.Lock()
		if s.currentLocked(gen) {
			s.session.HandsFree = false
		}
		s.mu.Unlock()
		return err
	}

	return nil
}

// PressTalk and ReleaseTalk are the manual push-to-talk controls. They are
// ignored while hands-free is on.
func (s *SessionService) PressTalk(ctx context.Context) error {
	if s.handsFree() {
		return nil
	}
	return s.StartTransmission(ctx)
}

func (s *SessionService) ReleaseTalk() error {
	if s.handsFree() {
		return nil
	}
	return s.StopTransmission()
}

func (s *SessionService) handsFree() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session != nil && s.session.HandsFree
}

// Announce logs the text locally, shares it with the room and reads it out
// with the local voice. The session shows Receiving while it is spoken.
func (s *SessionService) Announce(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return domain.ErrNotInRoom
	}
	msg := domain.ChatMessage{
		ID:            s.newID(),
		Origin:        domain.OriginUser,
		Text:          text,
		CallsignLabel: string(s.session.Callsign),
		CreatedAt:     s.clock.Now(),
	}
	s.log.Append(msg)
	s.sent[msg.ID] = msg.CreatedAt
	if s.session.Status == domain.StatusIdle {
		s.session.Status = domain.StatusReceiving
	}
	s.speaking++
	gen := s.generation
	room, callsign, persona := s.session.RoomCode, s.session.Callsign, s.session.Persona
	s.mu.Unlock()

	logger := s.logger.With(zap.String("room", string(room)), zap.String("callsign", string(callsign)))

	if envelope, err := domain.NewChatEnvelope(msg); err != nil {
		logger.Warn("encode chat envelope", zap.Error(err))
	} else if err := s.bus.Publish(ctx, room, envelope); err != nil {
		s.metrics.DeliveryFailure()
		logger.Warn("publish chat", zap.String("kind", string(domain.KindChat)), zap.Error(err))
	}

	if err := s.announcer.Speak(ctx, fmt.Sprintf(s.settings.ReportTemplate, callsign, text), persona); err != nil {
		s.metrics.SynthesisFailure()
		logger.Warn("announce message", zap.Error(fmt.Errorf("%w: %w", domain.ErrSynthesis, err)))
	}

	s.mu.Lock()
	if s.currentLocked(gen) {
		s.speaking--
		s.settleLocked()
	}
	s.mu.Unlock()

	return nil
}

// SweepMessages evicts log entries older than the retention window.
func (s *SessionService) SweepMessages() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return 0
	}

	now := s.clock.Now()
	removed := s.log.Sweep(now)
	cutoff := now.Add(-s.log.Retention())
	for id, sentAt := range s.sent {
		if sentAt.Before(cutoff) {
			delete(s.sent, id)
		}
	}
	s.metrics.MessagesSwept(removed)

	return removed
}

// RunSweeper sweeps the log every interval until ctx is done.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.SweepMessages()
		}
	}
}

func (s *SessionService) Status() domain.TransmitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.StatusIdle
	}
	return s.session.Status
}

func (s *SessionService) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return SessionSnapshot{Session: domain.Session{Status: domain.StatusIdle}}
	}

	return SessionSnapshot{
		InRoom:          true,
		Session:         *s.session,
		Messages:        s.log.Entries(),
		ActivePlaybacks: len(s.playbacks),
		Capturing:       s.active != nil,
	}
}

func (s *SessionService) currentLocked(gen uint64) bool {
	return s.session != nil && s.generation == gen
}

// settleLocked ends a Receiving phase once nothing is playing or being
// spoken.
func (s *SessionService) settleLocked() {
	if s.session.Status == domain.StatusReceiving && len(s.playbacks) == 0 && s.speaking == 0 {
		s.session.Status = domain.StatusIdle
	}
}
