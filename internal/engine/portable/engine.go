// Package portable implements the bass.Engine call surface in pure Go:
// decoding through internal/audio and playback through a pluggable output
// device. It reports failures through the same numeric error codes as the
// native engine, so callers classify errors identically against either.
package portable

import (
	"bytes"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"basso.audio/internal/audio"
	"basso.audio/pkg/bass"
)

// Channel playback states
const (
	stateStopped = iota
	statePlaying
	statePaused
)

// channel is the engine's per-handle playback state.
type channel struct {
	// lockMu is the engine-level exclusive section exposed through
	// ChannelLock. The data thread takes it around every pull, so a
	// caller holding it sees no concurrent position/attribute access.
	lockMu sync.Mutex

	mu    sync.Mutex
	data  *audio.AudioData
	pos   uint64
	state int
	attrs map[uint32]float32
	out   Output
}

// Engine is a pure-Go bass.Engine. Handles are allocated monotonically
// and never reused.
type Engine struct {
	mu         sync.Mutex
	channels   map[uint32]*channel
	nextHandle uint32
	lastErr    int

	registry  *audio.DecoderRegistry
	newOutput OutputFactory
	client    *http.Client
}

// New creates an engine playing through the system audio device,
// preferring malgo and falling back to oto.
func New() *Engine {
	return NewWithOutput(NewSystemOutput)
}

// NewWithOutput creates an engine with an injected output factory. Tests
// and headless environments pass NewNullOutput.
func NewWithOutput(factory OutputFactory) *Engine {
	slog.Debug("creating portable engine")
	return &Engine{
		channels:   make(map[uint32]*channel),
		nextHandle: 1,
		registry:   audio.NewDefaultRegistry(),
		newOutput:  factory,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient replaces the client used for URL sources.
func (e *Engine) SetHTTPClient(client *http.Client) {
	e.mu.Lock()
	e.client = client
	e.mu.Unlock()
}

// setError records code as the outcome of the current call.
func (e *Engine) setError(code int) {
	e.mu.Lock()
	e.lastErr = code
	e.mu.Unlock()
}

// LastErrorCode returns the error code of the most recent call.
func (e *Engine) LastErrorCode() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// lookup fetches a channel, recording ErrorCodeHandle when absent.
func (e *Engine) lookup(handle uint32) *channel {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, ok := e.channels[handle]
	if !ok {
		e.lastErr = bass.ErrorCodeHandle
		return nil
	}
	return ch
}

// StreamCreateFile opens path, decodes it fully and registers a channel.
func (e *Engine) StreamCreateFile(path string, offset, length uint64, flags uint32) uint32 {
	slog.Debug("portable engine opening file", "path", path, "offset", offset, "length", length)

	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("file open failed", "path", path, "error", err)
		e.setError(bass.ErrorCodeFileOpen)
		return 0
	}

	if offset > 0 {
		if offset >= uint64(len(raw)) {
			e.setError(bass.ErrorCodeFileOpen)
			return 0
		}
		raw = raw[offset:]
	}
	if length > 0 && length < uint64(len(raw)) {
		raw = raw[:length]
	}

	return e.registerDecoded(path, raw)
}

// StreamCreateURL fetches url and registers a channel for its content.
func (e *Engine) StreamCreateURL(rawURL string, offset uint64, flags uint32) uint32 {
	slog.Debug("portable engine opening URL", "url", rawURL, "offset", offset)

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		slog.Debug("unsupported URL scheme", "url", rawURL)
		e.setError(bass.ErrorCodeProtocol)
		return 0
	}

	e.mu.Lock()
	client := e.client
	e.mu.Unlock()

	resp, err := client.Get(rawURL)
	if err != nil {
		e.setError(classifyNetworkError(err))
		slog.Debug("URL fetch failed", "url", rawURL, "error", err)
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("URL fetch returned non-OK status", "url", rawURL, "status", resp.StatusCode)
		e.setError(bass.ErrorCodeFileOpen)
		return 0
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		e.setError(classifyNetworkError(err))
		return 0
	}

	if offset > 0 {
		if offset >= uint64(len(raw)) {
			e.setError(bass.ErrorCodeFileOpen)
			return 0
		}
		raw = raw[offset:]
	}

	return e.registerDecoded(parsed.Path, raw)
}

// registerDecoded decodes raw audio bytes and allocates a handle for the
// resulting channel.
func (e *Engine) registerDecoded(name string, raw []byte) uint32 {
	head := raw
	if len(head) > 512 {
		head = head[:512]
	}

	decoder := e.registry.DetectFormatFromContent(name, head)
	if decoder == nil {
		slog.Debug("no decoder for source", "name", name)
		e.setError(bass.ErrorCodeFileForm)
		return 0
	}

	data, err := decoder.Decode(bytes.NewReader(raw))
	if err != nil {
		e.setError(classifyDecodeError(err))
		slog.Debug("decode failed", "name", name, "format", decoder.FormatName(), "error", err)
		return 0
	}

	ch := &channel{
		data:  data,
		state: stateStopped,
		attrs: map[uint32]float32{
			bass.AttribVol:       1,
			bass.AttribPan:       0,
			bass.AttribFreq:      float32(data.SampleRate),
			bass.AttribSrc:       1,
			bass.AttribBuffer:    0.5,
			bass.AttribGranule:   0,
			bass.AttribNetResume: 50,
			bass.AttribNoBuffer:  0,
			bass.AttribNoRamp:    0,
			bass.AttribBitrate:   float32(data.ByteRate()) * 8 / 1000,
		},
	}

	e.mu.Lock()
	handle := e.nextHandle
	e.nextHandle++
	e.channels[handle] = ch
	e.lastErr = bass.ErrorCodeOK
	e.mu.Unlock()

	slog.Debug("channel registered",
		"handle", handle,
		"format", decoder.FormatName(),
		"pcm_bytes", len(data.Samples),
		"sample_rate", data.SampleRate,
		"channels", data.Channels)
	return handle
}

// StreamFree releases the channel and its output device.
func (e *Engine) StreamFree(handle uint32) bool {
	e.mu.Lock()
	ch, ok := e.channels[handle]
	if !ok {
		e.lastErr = bass.ErrorCodeHandle
		e.mu.Unlock()
		return false
	}
	delete(e.channels, handle)
	e.lastErr = bass.ErrorCodeOK
	e.mu.Unlock()

	ch.mu.Lock()
	out := ch.out
	ch.out = nil
	ch.state = stateStopped
	ch.mu.Unlock()

	if out != nil {
		if err := out.Close(); err != nil {
			slog.Error("failed to close channel output", "handle", handle, "error", err)
		}
	}

	slog.Debug("channel freed", "handle", handle)
	return true
}

// ChannelPlay starts or resumes playback.
func (e *Engine) ChannelPlay(handle uint32, restart bool) bool {
	ch := e.lookup(handle)
	if ch == nil {
		return false
	}

	ch.mu.Lock()
	if restart {
		ch.pos = 0
	}

	if ch.out == nil {
		spec := OutputSpec{
			Channels:       ch.data.Channels,
			SampleRate:     ch.data.SampleRate,
			BytesPerSample: ch.data.BytesPerSample,
		}
		out, err := e.newOutput(spec, ch.pull)
		if err != nil {
			ch.mu.Unlock()
			slog.Error("failed to create output for channel", "handle", handle, "error", err)
			e.setError(bass.ErrorCodeStart)
			return false
		}
		ch.out = out
	}
	out := ch.out
	ch.state = statePlaying
	ch.mu.Unlock()

	if err := out.Start(); err != nil {
		ch.mu.Lock()
		ch.state = stateStopped
		ch.mu.Unlock()
		slog.Error("failed to start output for channel", "handle", handle, "error", err)
		e.setError(bass.ErrorCodeStart)
		return false
	}

	e.setError(bass.ErrorCodeOK)
	return true
}

// ChannelPause suspends playback, keeping the position.
func (e *Engine) ChannelPause(handle uint32) bool {
	ch := e.lookup(handle)
	if ch == nil {
		return false
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.state != statePlaying {
		e.setError(bass.ErrorCodeNoPlay)
		return false
	}

	ch.state = statePaused
	e.setError(bass.ErrorCodeOK)
	return true
}

// ChannelStop halts playback and stops the output device.
func (e *Engine) ChannelStop(handle uint32) bool {
	ch := e.lookup(handle)
	if ch == nil {
		return false
	}

	ch.mu.Lock()
	ch.state = stateStopped
	out := ch.out
	ch.mu.Unlock()

	if out != nil {
		if err := out.Stop(); err != nil {
			slog.Error("failed to stop channel output", "handle", handle, "error", err)
		}
	}

	e.setError(bass.ErrorCodeOK)
	return true
}

// ChannelLock acquires or releases the channel's exclusive section.
func (e *Engine) ChannelLock(handle uint32, lock bool) bool {
	ch := e.lookup(handle)
	if ch == nil {
		return false
	}

	if lock {
		ch.lockMu.Lock()
	} else {
		ch.lockMu.Unlock()
	}

	e.setError(bass.ErrorCodeOK)
	return true
}

// ChannelGetAttribute reads a channel attribute.
func (e *Engine) ChannelGetAttribute(handle uint32, attrib uint32) (float32, bool) {
	ch := e.lookup(handle)
	if ch == nil {
		return 0, false
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	value, ok := ch.attrs[attrib]
	if !ok {
		e.setError(bass.ErrorCodeIllType)
		return 0, false
	}

	e.setError(bass.ErrorCodeOK)
	return value, true
}

// ChannelSetAttribute writes a channel attribute.
func (e *Engine) ChannelSetAttribute(handle uint32, attrib uint32, value float32) bool {
	ch := e.lookup(handle)
	if ch == nil {
		return false
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if _, ok := ch.attrs[attrib]; !ok {
		e.setError(bass.ErrorCodeIllType)
		return false
	}

	switch attrib {
	case bass.AttribVol:
		if value < 0 {
			e.setError(bass.ErrorCodeIllParam)
			return false
		}
	case bass.AttribPan:
		if value < -1 || value > 1 {
			e.setError(bass.ErrorCodeIllParam)
			return false
		}
	}

	ch.attrs[attrib] = value
	e.setError(bass.ErrorCodeOK)
	return true
}

// ChannelGetPosition returns the playback position in the requested unit.
func (e *Engine) ChannelGetPosition(handle uint32, mode uint32) uint64 {
	ch := e.lookup(handle)
	if ch == nil {
		return 0
	}

	if mode != bass.PosByte {
		e.setError(bass.ErrorCodeIllType)
		return 0
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	e.setError(bass.ErrorCodeOK)
	return ch.pos
}

// ChannelBytesToSeconds converts a byte position on the channel into
// elapsed seconds.
func (e *Engine) ChannelBytesToSeconds(handle uint32, pos uint64) float64 {
	ch := e.lookup(handle)
	if ch == nil {
		return 0
	}

	e.setError(bass.ErrorCodeOK)
	return float64(pos) / float64(ch.data.ByteRate())
}

// pull feeds the output device the next slice of PCM, applying volume and
// pan in-line for 16-bit content. Runs on the device's data thread.
func (c *channel) pull(buf []byte) {
	c.lockMu.Lock()
	defer c.lockMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != statePlaying || c.pos >= uint64(len(c.data.Samples)) {
		for i := range buf {
			buf[i] = 0
		}
		return
	}

	n := copy(buf, c.data.Samples[c.pos:])
	c.pos += uint64(n)
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}

	if c.pos >= uint64(len(c.data.Samples)) {
		// End of stream: back to stopped, position stays at the end.
		c.state = stateStopped
	}

	volume := c.attrs[bass.AttribVol]
	pan := c.attrs[bass.AttribPan]
	if c.data.BytesPerSample != 2 || (volume == 1 && pan == 0) {
		return
	}

	leftGain := volume
	rightGain := volume
	if c.data.Channels == 2 {
		if pan > 0 {
			leftGain *= 1 - pan
		} else if pan < 0 {
			rightGain *= 1 + pan
		}
	}

	frameSize := int(c.data.FrameSize())
	for i := 0; i+1 < n; i += 2 {
		gain := leftGain
		if c.data.Channels == 2 && (i%frameSize) == 2 {
			gain = rightGain
		}
		sample := int16(buf[i]) | int16(buf[i+1])<<8
		sample = int16(float32(sample) * gain)
		buf[i] = byte(sample)
		buf[i+1] = byte(sample >> 8)
	}
}

// classifyNetworkError maps a transport failure to an engine error code.
func classifyNetworkError(err error) int {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return bass.ErrorCodeTimeout
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tls") || strings.Contains(msg, "certificate") || strings.Contains(msg, "ssl") {
		return bass.ErrorCodeSSL
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return bass.ErrorCodeTimeout
	}

	return bass.ErrorCodeNoNet
}

// classifyDecodeError maps a decoder failure to an engine error code.
func classifyDecodeError(err error) int {
	switch err {
	case audio.ErrUnsupportedFormat:
		return bass.ErrorCodeFormat
	case audio.ErrInvalidData:
		return bass.ErrorCodeNotAudio
	case audio.ErrReadFailure:
		return bass.ErrorCodeFileOpen
	default:
		return bass.ErrorCodeFileForm
	}
}
