package ports

import (
	"context"

	"github.com/bnema/talkie/internal/domain"
)

type EnvelopeHandler func(domain.Envelope)

// RoomBus fans envelopes out to every subscriber of a room, the publisher's
// own subscription included.
type RoomBus interface {
	Publish(ctx context.Context, room domain.RoomCode, envelope domain.Envelope) error
	Subscribe(room domain.RoomCode, handler EnvelopeHandler) (Subscription, error)
}

type Subscription interface {
	Unsubscribe()
}
