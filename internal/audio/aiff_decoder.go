package audio

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
)

// AiffDecoder handles AIFF audio format decoding
type AiffDecoder struct{}

// NewAiffDecoder creates a new AIFF decoder instance
func NewAiffDecoder() *AiffDecoder {
	slog.Debug("creating new AIFF decoder instance")
	return &AiffDecoder{}
}

// FormatName returns the name of the format this decoder handles
func (d *AiffDecoder) FormatName() string {
	return "AIFF"
}

// CanDecode checks if this decoder can handle the given filename
func (d *AiffDecoder) CanDecode(filename string) bool {
	lower := strings.ToLower(filename)
	canDecode := strings.HasSuffix(lower, ".aiff") || strings.HasSuffix(lower, ".aif")

	slog.Debug("AIFF decoder file check",
		"filename", filename,
		"can_decode", canDecode)

	return canDecode
}

// Decode reads AIFF audio data from reader and returns decoded PCM data
func (d *AiffDecoder) Decode(reader io.Reader) (*AudioData, error) {
	slog.Debug("starting AIFF decode operation")

	// go-audio/aiff needs a ReadSeeker
	data, err := io.ReadAll(reader)
	if err != nil {
		slog.Error("failed to read AIFF data", "error", err)
		return nil, ErrReadFailure
	}

	if len(data) == 0 {
		slog.Error("empty AIFF data")
		return nil, ErrInvalidData
	}

	decoder := aiff.NewDecoder(bytes.NewReader(data))
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		slog.Error("invalid AIFF file format")
		return nil, ErrInvalidData
	}

	sampleRate := uint32(decoder.SampleRate)
	channels := uint32(decoder.NumChans)
	bitDepth := decoder.SampleBitDepth()

	slog.Debug("AIFF format detected",
		"sample_rate", sampleRate,
		"channels", channels,
		"bits_per_sample", bitDepth)

	if channels == 0 || sampleRate == 0 || bitDepth == 0 {
		slog.Error("invalid AIFF format parameters",
			"channels", channels,
			"sample_rate", sampleRate,
			"bit_depth", bitDepth)
		return nil, ErrInvalidData
	}

	var bytesPerSample uint32
	switch bitDepth {
	case 16:
		bytesPerSample = 2
	case 24:
		bytesPerSample = 3
	case 32:
		bytesPerSample = 4
	default:
		slog.Error("unsupported bit depth", "bits", bitDepth)
		return nil, ErrUnsupportedFormat
	}

	pcmBuffer, err := decoder.FullPCMBuffer()
	if err != nil {
		slog.Error("failed to read AIFF samples", "error", err)
		return nil, ErrReadFailure
	}

	if pcmBuffer == nil || len(pcmBuffer.Data) == 0 {
		slog.Error("no audio data found in AIFF file")
		return nil, ErrInvalidData
	}

	rawBytes := interleavedBytes(pcmBuffer, bytesPerSample)

	audioData := &AudioData{
		Samples:        rawBytes,
		Channels:       channels,
		SampleRate:     sampleRate,
		BytesPerSample: bytesPerSample,
	}

	slog.Info("AIFF decode completed successfully",
		"total_bytes", len(rawBytes),
		"channels", channels,
		"sample_rate", sampleRate,
		"bytes_per_sample", bytesPerSample)

	return audioData, nil
}

// interleavedBytes converts an interleaved int buffer to raw little-endian
// PCM bytes
func interleavedBytes(buf *goaudio.IntBuffer, bytesPerSample uint32) []byte {
	rawBytes := make([]byte, 0, len(buf.Data)*int(bytesPerSample))
	for _, val := range buf.Data {
		switch bytesPerSample {
		case 2:
			rawBytes = append(rawBytes, byte(val), byte(val>>8))
		case 3:
			rawBytes = append(rawBytes, byte(val), byte(val>>8), byte(val>>16))
		case 4:
			rawBytes = append(rawBytes, byte(val), byte(val>>8), byte(val>>16), byte(val>>24))
		}
	}
	return rawBytes
}
