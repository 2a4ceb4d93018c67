package audio

import (
	"errors"
	"io"
)

// Common decoder errors
var (
	ErrInvalidData       = errors.New("invalid audio data")
	ErrReadFailure       = errors.New("failed to read audio data")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// AudioData represents decoded audio ready for playback
type AudioData struct {
	Samples        []byte // Raw interleaved PCM data, little-endian
	Channels       uint32 // Number of audio channels
	SampleRate     uint32 // Sample rate in Hz
	BytesPerSample uint32 // 2 (16-bit), 3 (24-bit) or 4 (32-bit)
}

// FrameSize returns the size in bytes of one interleaved sample frame.
func (d *AudioData) FrameSize() uint32 {
	return d.Channels * d.BytesPerSample
}

// ByteRate returns the number of PCM bytes per second of playback.
func (d *AudioData) ByteRate() uint64 {
	return uint64(d.SampleRate) * uint64(d.FrameSize())
}

// Decoder interface for audio format decoding
type Decoder interface {
	// Decode reads audio data from reader and returns decoded PCM data
	Decode(reader io.Reader) (*AudioData, error)

	// CanDecode checks if this decoder can handle the given filename
	CanDecode(filename string) bool

	// FormatName returns the name of the format this decoder handles
	FormatName() string
}
