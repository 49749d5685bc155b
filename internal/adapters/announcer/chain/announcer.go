package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
)

// Announcer tries primary first and falls back when it fails, unless the
// caller gave up.
type Announcer struct {
	primary  ports.Announcer
	fallback ports.Announcer
}

var _ ports.Announcer = (*Announcer)(nil)

var (
	errNilPrimaryAnnouncer  = errors.New("primary announcer is nil")
	errNilFallbackAnnouncer = errors.New("fallback announcer is nil")
)

func NewAnnouncer(primary ports.Announcer, fallback ports.Announcer) (*Announcer, error) {
	if primary == nil {
		return nil, errNilPrimaryAnnouncer
	}
	if fallback == nil {
		return nil, errNilFallbackAnnouncer
	}

	return &Announcer{primary: primary, fallback: fallback}, nil
}

func (a *Announcer) Speak(ctx context.Context, text string, persona domain.VoicePersona) error {
	err := a.primary.Speak(ctx, text, persona)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := a.fallback.Speak(ctx, text, persona)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary announcer failed: %w; fallback announcer failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
