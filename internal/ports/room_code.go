package ports

import "github.com/bnema/talkie/internal/domain"

type RoomCodeGenerator interface {
	Generate() domain.RoomCode
}
