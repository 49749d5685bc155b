//go:build !opus

package audio

import "errors"

var ErrOpusUnavailable = errors.New("opus not available: build with -tags opus and libopus installed")

type OpusCodec struct{}

func NewOpusCodec(sampleRate, channels int) (*OpusCodec, error) {
	return nil, ErrOpusUnavailable
}

func (*OpusCodec) Encode([]float32) (string, error) {
	return "", ErrOpusUnavailable
}

func (*OpusCodec) Decode(string, int, int) (Buffer, error) {
	return Buffer{}, ErrOpusUnavailable
}
