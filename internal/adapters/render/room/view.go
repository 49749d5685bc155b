package room

import (
	"fmt"
	"time"

	"github.com/bnema/talkie/internal/application"
	"github.com/bnema/talkie/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Theme domain.Theme
	// MaxMessages caps the log lines shown; zero shows all.
	MaxMessages int
}

func renderView(snapshot application.SessionSnapshot, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("TALKIE")}

	if !snapshot.InRoom {
		lines = append(lines, s.empty.Render("Not in a room."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	session := snapshot.Session
	lines = append(lines,
		s.header.Render(fmt.Sprintf("room: %s  callsign: %s  voice: %s", session.RoomCode, session.Callsign, session.Persona)),
		s.section.Render(statusLine(snapshot, s)),
		s.section.Render(messageLines(snapshot.Messages, opts.MaxMessages, s)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statusLine(snapshot application.SessionSnapshot, s styles) string {
	status := snapshot.Session.Status
	label := status.Label()

	var badge string
	switch status {
	case domain.StatusTalking:
		badge = s.transmit.Render(label)
	case domain.StatusReceiving:
		badge = s.receive.Render(label)
	default:
		badge = s.standby.Render(label)
	}

	mode := "push-to-talk"
	if snapshot.Session.HandsFree {
		mode = "hands-free"
	}
	parts := []string{badge, "  ", s.detail.Render(mode)}
	if snapshot.ActivePlaybacks > 0 {
		parts = append(parts, "  ", s.detail.Render(fmt.Sprintf("playing: %d", snapshot.ActivePlaybacks)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func messageLines(messages []domain.ChatMessage, limit int, s styles) string {
	if len(messages) == 0 {
		return s.empty.Render("No messages.")
	}
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, messageLine(msg, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func messageLine(msg domain.ChatMessage, s styles) string {
	stamp := s.timestamp.Render(formatStamp(msg.CreatedAt))
	if msg.Origin == domain.OriginSystem {
		return stamp + " " + s.system.Render(msg.Text)
	}

	return stamp + " " + s.callsign.Render(msg.CallsignLabel+":") + " " + s.detail.Render(msg.Text)
}

func formatStamp(at time.Time) string {
	if at.IsZero() {
		return "--:--:--"
	}
	return at.Format("15:04:05")
}
