package application

import "github.com/bnema/talkie/internal/domain"

type SessionSnapshot struct {
	InRoom          bool
	Session         domain.Session
	Messages        []domain.ChatMessage
	ActivePlaybacks int
	Capturing       bool
}
