package audio

import (
	"io"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DecoderRegistry manages audio format decoders and provides format detection
type DecoderRegistry struct {
	decoders []Decoder
}

// NewDecoderRegistry creates a new empty decoder registry
func NewDecoderRegistry() *DecoderRegistry {
	slog.Debug("creating new decoder registry")
	return &DecoderRegistry{
		decoders: make([]Decoder, 0),
	}
}

// NewDefaultRegistry creates a registry with default WAV, MP3, and AIFF decoders
func NewDefaultRegistry() *DecoderRegistry {
	slog.Debug("creating default decoder registry with WAV, MP3, and AIFF support")

	registry := NewDecoderRegistry()

	registry.Register(NewWavDecoder())
	registry.Register(NewMp3Decoder())
	registry.Register(NewAiffDecoder())

	slog.Info("default decoder registry initialized",
		"supported_formats", registry.GetSupportedFormats())

	return registry
}

// Register adds a decoder to the registry
func (r *DecoderRegistry) Register(decoder Decoder) {
	if decoder == nil {
		slog.Warn("attempted to register nil decoder")
		return
	}

	formatName := decoder.FormatName()
	slog.Debug("registering decoder", "format", formatName)

	r.decoders = append(r.decoders, decoder)

	slog.Info("decoder registered successfully",
		"format", formatName,
		"total_decoders", len(r.decoders))
}

// GetSupportedFormats returns a list of all supported format names
func (r *DecoderRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(r.decoders))

	for _, decoder := range r.decoders {
		formats = append(formats, decoder.FormatName())
	}

	return formats
}

// DetectFormat detects the appropriate decoder based on filename extension only
func (r *DecoderRegistry) DetectFormat(filename string) Decoder {
	slog.Debug("detecting format by extension", "filename", filename)

	if filename == "" {
		return nil
	}

	// Try each decoder in registration order (first registered has priority)
	for _, decoder := range r.decoders {
		if decoder.CanDecode(filename) {
			slog.Debug("format detected by extension",
				"filename", filename,
				"format", decoder.FormatName())
			return decoder
		}
	}

	slog.Debug("no decoder found for filename", "filename", filename)
	return nil
}

// DetectFormatFromContent detects format using magic bytes first, with
// extension-based detection as the fallback. The provided header should be
// the first few hundred bytes of the source.
func (r *DecoderRegistry) DetectFormatFromContent(filename string, header []byte) Decoder {
	slog.Debug("detecting format with content analysis",
		"filename", filename,
		"header_bytes", len(header))

	if len(header) == 0 {
		slog.Debug("empty content, using extension fallback")
		return r.DetectFormat(filename)
	}

	mtype := mimetype.Detect(header)
	formatName := formatNameForMimeType(mtype.String())
	if formatName != "" {
		for _, decoder := range r.decoders {
			if strings.EqualFold(decoder.FormatName(), formatName) {
				slog.Debug("format detected by magic bytes",
					"filename", filename,
					"mime_type", mtype.String(),
					"format", decoder.FormatName())
				return decoder
			}
		}
	}

	slog.Debug("magic byte detection inconclusive, using extension fallback",
		"filename", filename,
		"mime_type", mtype.String())
	return r.DetectFormat(filename)
}

// DetectFormatFromReader buffers the head of reader for magic detection and
// returns the detected decoder along with a reader replaying the full
// content.
func (r *DecoderRegistry) DetectFormatFromReader(filename string, reader io.Reader) (Decoder, io.Reader) {
	header := make([]byte, 512)
	n, err := io.ReadFull(reader, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		slog.Error("failed to read header for magic detection", "error", err)
		return r.DetectFormat(filename), reader
	}

	header = header[:n]
	replay := io.MultiReader(strings.NewReader(string(header)), reader)
	return r.DetectFormatFromContent(filename, header), replay
}

// formatNameForMimeType maps detected MIME types to decoder format names.
func formatNameForMimeType(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "audio/wav"), strings.Contains(mimeType, "audio/x-wav"):
		return "WAV"
	case strings.Contains(mimeType, "audio/mpeg"), strings.Contains(mimeType, "audio/mp3"):
		return "MP3"
	case strings.Contains(mimeType, "audio/aiff"), strings.Contains(mimeType, "audio/x-aiff"):
		return "AIFF"
	default:
		return ""
	}
}
