package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// WAVHeader is the canonical 44 byte PCM header.
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

var ErrInvalidWAV = errors.New("invalid wav stream")

func WriteWAV(w io.Writer, buffer Buffer) error {
	if buffer.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", buffer.SampleRate)
	}
	if buffer.Channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", buffer.Channels)
	}

	channels := uint16(buffer.Channels)
	bitsPerSample := uint16(16)
	dataSize := uint32(len(buffer.Samples) * bytesPerSample)

	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   channels,
		SampleRate:    uint32(buffer.SampleRate),
		ByteRate:      uint32(buffer.SampleRate) * uint32(channels) * uint32(bitsPerSample) / 8,
		BlockAlign:    channels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	pcm := make([]int16, len(buffer.Samples))
	for i, sample := range buffer.Samples {
		pcm[i] = ToPCM16(sample)
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}

	return nil
}

func EncodeWAV(buffer Buffer) ([]byte, error) {
	var out bytes.Buffer
	if err := WriteWAV(&out, buffer); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ReadWAV reads a 16-bit PCM stream. Chunks other than "fmt " and "data" are
// skipped.
func ReadWAV(r io.Reader) (Buffer, error) {
	var riff struct {
		ChunkID   [4]byte
		ChunkSize uint32
		Format    [4]byte
	}
	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return Buffer{}, fmt.Errorf("read riff header: %w", err)
	}
	if string(riff.ChunkID[:]) != "RIFF" || string(riff.Format[:]) != "WAVE" {
		return Buffer{}, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalidWAV)
	}

	var (
		format struct {
			AudioFormat   uint16
			NumChannels   uint16
			SampleRate    uint32
			ByteRate      uint32
			BlockAlign    uint16
			BitsPerSample uint16
		}
		haveFormat bool
	)

	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return Buffer{}, fmt.Errorf("%w: missing data chunk", ErrInvalidWAV)
			}
			return Buffer{}, fmt.Errorf("read wav chunk: %w", err)
		}

		switch string(chunk.ID[:]) {
		case "fmt ":
			if chunk.Size < 16 {
				return Buffer{}, fmt.Errorf("%w: fmt chunk too short (%d bytes)", ErrInvalidWAV, chunk.Size)
			}
			if err := binary.Read(r, binary.LittleEndian, &format); err != nil {
				return Buffer{}, fmt.Errorf("read fmt chunk: %w", err)
			}
			if err := skip(r, int64(chunk.Size)-16); err != nil {
				return Buffer{}, err
			}
			haveFormat = true
		case "data":
			if !haveFormat {
				return Buffer{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidWAV)
			}
			if format.AudioFormat != 1 {
				return Buffer{}, fmt.Errorf("%w: unsupported audio format %d (only PCM)", ErrInvalidWAV, format.AudioFormat)
			}
			if format.BitsPerSample != 16 {
				return Buffer{}, fmt.Errorf("%w: unsupported bit depth %d (only 16-bit)", ErrInvalidWAV, format.BitsPerSample)
			}
			if format.NumChannels == 0 || format.SampleRate == 0 {
				return Buffer{}, fmt.Errorf("%w: empty channel count or sample rate", ErrInvalidWAV)
			}

			pcm := make([]int16, chunk.Size/bytesPerSample)
			if err := binary.Read(r, binary.LittleEndian, pcm); err != nil {
				return Buffer{}, fmt.Errorf("read wav samples: %w", err)
			}
			samples := make([]float32, len(pcm))
			for i, s := range pcm {
				samples[i] = FromPCM16(s)
			}

			return Buffer{
				SampleRate: int(format.SampleRate),
				Channels:   int(format.NumChannels),
				Samples:    samples,
			}, nil
		default:
			// chunks are word aligned
			if err := skip(r, int64(chunk.Size)+int64(chunk.Size%2)); err != nil {
				return Buffer{}, err
			}
		}
	}
}

func DecodeWAV(data []byte) (Buffer, error) {
	return ReadWAV(bytes.NewReader(data))
}

func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return fmt.Errorf("skip wav chunk: %w", err)
	}
	return nil
}
