package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
	"go.uber.org/zap"
)

const DefaultQueueSize = 256

// Bus is an in-process room bus. Envelopes are encoded once per publish and
// decoded per subscriber, so every handler sees its own copy, exactly as a
// network transport would deliver it.
type Bus struct {
	queueSize int
	logger    *zap.Logger

	mu       sync.RWMutex
	channels map[string]map[*subscription]struct{}
}

var _ ports.RoomBus = (*Bus)(nil)

func NewBus(queueSize int, logger *zap.Logger) *Bus {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Bus{
		queueSize: queueSize,
		logger:    logger,
		channels:  map[string]map[*subscription]struct{}{},
	}
}

// Publish hands the envelope to every subscriber of the room, the caller's
// own subscription included. Subscribers whose queue is full miss the
// envelope; those misses are reported as ErrDelivery.
func (b *Bus) Publish(ctx context.Context, room domain.RoomCode, envelope domain.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", envelope.Type, err)
	}

	channel := domain.ChannelName(room)

	b.mu.RLock()
	targets := make([]*subscription, 0, len(b.channels[channel]))
	for sub := range b.channels[channel] {
		targets = append(targets, sub)
	}
	b.mu.RUnlock()

	var errs []error
	for _, sub := range targets {
		if !sub.enqueue(raw) {
			errs = append(errs, fmt.Errorf("%w: queue full on %s", domain.ErrDelivery, channel))
		}
	}

	return errors.Join(errs...)
}

func (b *Bus) Subscribe(room domain.RoomCode, handler ports.EnvelopeHandler) (ports.Subscription, error) {
	if handler == nil {
		return nil, errors.New("subscribe: handler is nil")
	}
	if _, err := domain.NormalizeRoomCode(string(room)); err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	sub := &subscription{
		bus:     b,
		channel: domain.ChannelName(room),
		handler: handler,
		queue:   make(chan []byte, b.queueSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	b.mu.Lock()
	subs, ok := b.channels[sub.channel]
	if !ok {
		subs = map[*subscription]struct{}{}
		b.channels[sub.channel] = subs
	}
	subs[sub] = struct{}{}
	b.mu.Unlock()

	go sub.run()

	return sub, nil
}

// Subscribers reports how many subscriptions are bound to the room.
func (b *Bus) Subscribers(room domain.RoomCode) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.channels[domain.ChannelName(room)])
}

func (b *Bus) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.channels[sub.channel]
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.channels, sub.channel)
	}
}

type subscription struct {
	bus     *Bus
	channel string
	handler ports.EnvelopeHandler
	queue   chan []byte
	quit    chan struct{}
	done    chan struct{}

	// mu is held while the handler runs so Unsubscribe can wait out an
	// in-flight delivery.
	mu     sync.Mutex
	closed bool
	once   sync.Once
}

func (s *subscription) enqueue(raw []byte) bool {
	select {
	case s.queue <- raw:
		return true
	default:
		return false
	}
}

func (s *subscription) run() {
	defer close(s.done)

	for {
		select {
		case <-s.quit:
			return
		case raw := <-s.queue:
			var envelope domain.Envelope
			if err := json.Unmarshal(raw, &envelope); err != nil {
				s.bus.logger.Warn("drop undecodable envelope", zap.String("room", s.channel), zap.Error(err))
				continue
			}

			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			s.handler(envelope)
			s.mu.Unlock()
		}
	}
}

// Unsubscribe detaches the handler. Once it returns the handler is never
// invoked again. It must not be called from inside the handler.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s)

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.quit)
		<-s.done
	})
}
