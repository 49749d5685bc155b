package roomcode

import (
	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
	"github.com/thanhpk/randstr"
)

// Alphabet leaves out 0/O and 1/I so codes survive being read aloud.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type Generator struct{}

var _ ports.RoomCodeGenerator = Generator{}

func (Generator) Generate() domain.RoomCode {
	return domain.RoomCode(randstr.String(domain.RoomCodeLength, Alphabet))
}
