package ports

import (
	"context"

	"github.com/bnema/talkie/internal/domain"
)

type Announcer interface {
	Speak(ctx context.Context, text string, persona domain.VoicePersona) error
}
