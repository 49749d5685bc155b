package logging

import (
	"context"

	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
	"go.uber.org/zap"
)

// Announcer writes announcements to the log instead of speaking them.
type Announcer struct {
	logger *zap.Logger
}

var _ ports.Announcer = (*Announcer)(nil)

func NewAnnouncer(logger *zap.Logger) *Announcer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Announcer{logger: logger.Named("announcer")}
}

func (a *Announcer) Speak(ctx context.Context, text string, persona domain.VoicePersona) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.logger.Info("announce", zap.String("persona", string(persona)), zap.String("text", text))
	return nil
}
