package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"

	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
)

const DefaultCommand = "espeak-ng"

var ErrUnavailable = errors.New("speech command unavailable")

type runFunc func(ctx context.Context, input string, name string, args ...string) (stdout string, stderr string, err error)

// Announcer speaks through an espeak-compatible command. Text goes in on
// stdin so it is never parsed as flags.
type Announcer struct {
	command string
	voices  map[domain.VoicePersona]string
	run     runFunc
}

var _ ports.Announcer = (*Announcer)(nil)

func NewAnnouncer(command, maleVoice, femaleVoice string) *Announcer {
	if command == "" {
		command = DefaultCommand
	}

	return &Announcer{
		command: command,
		voices: map[domain.VoicePersona]string{
			domain.PersonaMale:   maleVoice,
			domain.PersonaFemale: femaleVoice,
		},
		run: runCommand,
	}
}

func (a *Announcer) Speak(ctx context.Context, text string, persona domain.VoicePersona) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	args := make([]string, 0, 3)
	if voice := a.voices[persona]; voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args, "--stdin")

	_, stderr, err := a.run(ctx, text+"\n", a.command, args...)
	if err != nil {
		return formatError(a.command, persona, err, stderr)
	}

	return nil
}

func runCommand(ctx context.Context, input string, name string, args ...string) (string, string, error) {
	path, err := osexec.LookPath(name)
	if err != nil {
		if errors.Is(err, osexec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate %s command: %w", name, err)
	}

	cmd := osexec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(input)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(command string, persona domain.VoicePersona, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("%w: %s (%s voice): %w", domain.ErrSynthesis, command, persona, err)
	}

	return fmt.Errorf("%w: %s (%s voice): %w: %s", domain.ErrSynthesis, command, persona, err, stderr)
}
