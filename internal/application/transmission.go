package application

import (
	"context"
	"fmt"

	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
	"go.uber.org/zap"
)

// pump encodes captured frames and publishes them until the capture is
// released or the device runs dry.
func (s *SessionService) pump(ctx context.Context, gen uint64, handle *captureHandle, room domain.RoomCode, callsign domain.Callsign) {
	ended := false
	defer func() {
		close(handle.done)
		if ended {
			if err := handle.release(); err != nil {
				s.logger.Debug("close finished capture", zap.Error(err))
			}
		}
	}()

	frames := handle.stream.Frames()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				ended = s.captureEnded(gen, handle)
				return
			}
			s.transmit(ctx, room, callsign, frame)
		}
	}
}

func (s *SessionService) transmit(ctx context.Context, room domain.RoomCode, callsign domain.Callsign, frame []float32) {
	encoded, err := s.codec.Encode(frame)
	if err != nil {
		s.logger.Warn("encode captured frame", zap.String("room", string(room)), zap.Error(err))
		return
	}

	envelope, err := domain.NewAudioEnvelope(domain.TransmissionFrame{EncodedAudio: encoded, OriginCallsign: callsign})
	if err != nil {
		s.logger.Warn("encode audio envelope", zap.String("room", string(room)), zap.Error(err))
		return
	}

	if err := s.bus.Publish(ctx, room, envelope); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.metrics.DeliveryFailure()
		s.logger.Warn("publish audio frame",
			zap.String("room", string(room)),
			zap.String("kind", string(domain.KindAudio)),
			zap.Error(err),
		)
		return
	}

	s.metrics.FrameSent()
}

// captureEnded handles a capture source that stopped on its own. It reports
// whether the handle was still the active one.
func (s *SessionService) captureEnded(gen uint64, handle *captureHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != handle {
		return false
	}
	s.active = nil
	if s.currentLocked(gen) {
		if s.session.Status == domain.StatusTalking {
			s.session.Status = domain.StatusIdle
		}
		s.session.HandsFree = false
	}
	s.logger.Info("capture source ended")

	return true
}

func (s *SessionService) deliver(gen uint64, envelope domain.Envelope) {
	switch envelope.Type {
	case domain.KindChat:
		msg, err := envelope.Chat()
		if err != nil {
			s.logger.Warn("drop chat envelope", zap.Error(err))
			return
		}
		s.receiveChat(gen, msg)
	case domain.KindAudio:
		frame, err := envelope.Audio()
		if err != nil {
			s.metrics.DecodeError()
			s.logger.Warn("drop audio envelope", zap.Error(fmt.Errorf("%w: %w", domain.ErrDecode, err)))
			return
		}
		s.receiveAudio(gen, frame)
	default:
		s.logger.Debug("ignore envelope", zap.String("kind", string(envelope.Type)))
	}
}

func (s *SessionService) receiveChat(gen uint64, msg domain.ChatMessage) {
	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		return
	}
	if _, ok := s.sent[msg.ID]; ok {
		// our own message coming back; already logged and spoken
		delete(s.sent, msg.ID)
		s.mu.Unlock()
		return
	}
	s.log.Append(msg)
	self := msg.CallsignLabel == string(s.session.Callsign)
	persona, roomCtx := s.session.Persona, s.roomCtx
	s.mu.Unlock()

	if self {
		return
	}

	text := fmt.Sprintf(s.settings.ReportTemplate, msg.CallsignLabel, msg.Text)
	go func() {
		if err := s.announcer.Speak(roomCtx, text, persona); err != nil && roomCtx.Err() == nil {
			s.metrics.SynthesisFailure()
			s.logger.Warn("announce remote message",
				zap.String("callsign", msg.CallsignLabel),
				zap.Error(fmt.Errorf("%w: %w", domain.ErrSynthesis, err)),
			)
		}
	}()
}

func (s *SessionService) receiveAudio(gen uint64, frame domain.TransmissionFrame) {
	buffer, err := s.codec.Decode(frame.EncodedAudio, s.settings.PlaybackSampleRate, s.settings.Channels)
	if err != nil {
		s.metrics.DecodeError()
		s.logger.Warn("drop audio frame", zap.String("callsign", string(frame.OriginCallsign)), zap.Error(err))
		return
	}

	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		return
	}
	if s.session.Status == domain.StatusIdle {
		s.session.Status = domain.StatusReceiving
	}
	s.nextPlayback++
	id := s.nextPlayback
	// reserve the slot so a concurrent settle cannot drop back to Idle
	s.playbacks[id] = nil
	s.metrics.SetActivePlaybacks(len(s.playbacks))
	roomCtx := s.roomCtx
	s.mu.Unlock()

	playback, err := s.player.Play(roomCtx, buffer)
	if err != nil {
		s.logger.Warn("start playback", zap.String("callsign", string(frame.OriginCallsign)), zap.Error(err))
		s.finishPlayback(gen, id)
		return
	}
	s.metrics.FrameReceived()

	s.mu.Lock()
	if s.currentLocked(gen) {
		if _, ok := s.playbacks[id]; ok {
			s.playbacks[id] = playback
		}
	}
	s.mu.Unlock()

	go s.awaitPlayback(roomCtx, gen, id, playback)
}

func (s *SessionService) awaitPlayback(ctx context.Context, gen, id uint64, playback ports.Playback) {
	select {
	case <-playback.Done():
	case <-ctx.Done():
	}
	s.finishPlayback(gen, id)
}

func (s *SessionService) finishPlayback(gen, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentLocked(gen) {
		return
	}
	delete(s.playbacks, id)
	s.metrics.SetActivePlaybacks(len(s.playbacks))
	s.settleLocked()
}
