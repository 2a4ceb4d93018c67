package bass

import (
	"log/slog"
)

// Stream is an owning handle to one playback channel inside an Engine.
//
// Ownership is exclusive: a handle is never shared between two Stream
// values, and the channel is released exactly once, when Close is called.
// Pair every successful constructor call with a deferred Close so the
// channel is released on every exit path:
//
//	stream, err := bass.NewStreamFromFile(engine, path)
//	if err != nil {
//		return err
//	}
//	defer stream.Close()
//
// A Stream adds no synchronization of its own on top of the engine's
// thread-safe call surface. Callers performing multi-step attribute
// updates that must appear atomic to the engine's playback thread hold
// Lock/Unlock around the sequence themselves.
type Stream struct {
	engine Engine
	handle uint32
}

// NewStreamFromFile asks the engine to open path as a decodable audio
// source and returns a Stream owning the resulting channel.
func NewStreamFromFile(engine Engine, path string) (*Stream, error) {
	slog.Debug("creating stream from file", "path", path)

	handle := engine.StreamCreateFile(path, 0, 0, 0)
	if handle == 0 {
		code := engine.LastErrorCode()
		err := classifyFileOpen(code)
		slog.Debug("stream creation failed", "path", path, "engine_code", code, "error", err)
		return nil, err
	}

	slog.Debug("stream created", "path", path, "handle", handle)
	return &Stream{engine: engine, handle: handle}, nil
}

// NewStreamFromURL asks the engine to open url as a streamed audio source
// and returns a Stream owning the resulting channel. The engine does not
// retain the URL text after the call returns.
func NewStreamFromURL(engine Engine, url string) (*Stream, error) {
	slog.Debug("creating stream from URL", "url", url)

	handle := engine.StreamCreateURL(url, 0, 0)
	if handle == 0 {
		code := engine.LastErrorCode()
		err := classifyURLOpen(code)
		slog.Debug("stream creation failed", "url", url, "engine_code", code, "error", err)
		return nil, err
	}

	slog.Debug("stream created", "url", url, "handle", handle)
	return &Stream{engine: engine, handle: handle}, nil
}

// Close releases the underlying channel. It is idempotent; only the first
// call reaches the engine, and the handle is never reused afterwards. An
// engine-reported failure to free is fatal: a dangling channel would break
// the exclusive-ownership contract.
func (s *Stream) Close() {
	if s.handle == 0 {
		slog.Debug("stream already closed")
		return
	}

	handle := s.handle
	s.handle = 0

	if !s.engine.StreamFree(handle) {
		engineFault("free stream", s.engine.LastErrorCode())
	}

	slog.Debug("stream released", "handle", handle)
}

// Play starts or resumes playback from the current position. Returns
// ErrOutputIsPausedOrStopped when the engine reports that output cannot
// start; any other engine failure is fatal.
func (s *Stream) Play() error {
	if !s.engine.ChannelPlay(s.handle, false) {
		code := s.engine.LastErrorCode()
		if code == ErrorCodeStart {
			return ErrOutputIsPausedOrStopped
		}
		engineFault("play stream", code)
	}
	return nil
}

// Pause suspends playback without resetting the position. Returns
// ErrStreamIsNotPlaying when the engine reports the channel isn't playing;
// any other engine failure is fatal.
func (s *Stream) Pause() error {
	if !s.engine.ChannelPause(s.handle) {
		code := s.engine.LastErrorCode()
		if code == ErrorCodeNoPlay {
			return ErrStreamIsNotPlaying
		}
		engineFault("pause stream", code)
	}
	return nil
}

// Stop halts playback. The engine documents no recoverable failure for
// stop, so a non-success result is fatal.
func (s *Stream) Stop() error {
	if !s.engine.ChannelStop(s.handle) {
		engineFault("stop stream", s.engine.LastErrorCode())
	}
	return nil
}

// Lock acquires the engine-level exclusive section for the channel,
// serializing attribute mutation against the engine's playback thread.
// Failure is a programming error, not a user-facing condition.
func (s *Stream) Lock() {
	if !s.engine.ChannelLock(s.handle, true) {
		engineFault("lock stream", s.engine.LastErrorCode())
	}
}

// Unlock releases the exclusive section acquired by Lock.
func (s *Stream) Unlock() {
	if !s.engine.ChannelLock(s.handle, false) {
		engineFault("unlock stream", s.engine.LastErrorCode())
	}
}

// GetPosition returns the current playback position as a byte offset from
// the start of the stream.
func (s *Stream) GetPosition() uint64 {
	return s.engine.ChannelGetPosition(s.handle, PosByte)
}

// GetTime returns the elapsed playback time in seconds. It is recomputed
// from the current byte position on every call, never cached.
func (s *Stream) GetTime() float64 {
	return s.engine.ChannelBytesToSeconds(s.handle, s.GetPosition())
}

// RawHandle exposes the underlying engine handle for advanced use, e.g.
// engine add-ons the wrapper doesn't cover. This is a trapdoor out of the
// ownership envelope: callers must not free the handle or retain it past
// Close.
func (s *Stream) RawHandle() uint32 {
	return s.handle
}

// getAttribute reads a channel attribute, returning 0 when the engine
// call fails. Attribute reads are best-effort.
func (s *Stream) getAttribute(attrib uint32) float32 {
	value, ok := s.engine.ChannelGetAttribute(s.handle, attrib)
	if !ok {
		return 0
	}
	return value
}

// GetBitRate returns the bitrate of the file stream in kbps.
func (s *Stream) GetBitRate() float32 {
	return s.getAttribute(AttribBitrate)
}

// SetBitRate sets the bitrate the engine assumes for buffering estimates.
// Read-only in practice on most sources.
func (s *Stream) SetBitRate(value float32) {
	s.engine.ChannelSetAttribute(s.handle, AttribBitrate, value)
}

// GetBufferingLength returns the playback buffering length in seconds.
func (s *Stream) GetBufferingLength() float32 {
	return s.getAttribute(AttribBuffer)
}

// SetBufferingLength sets the playback buffering length in seconds.
func (s *Stream) SetBufferingLength(value float32) {
	s.engine.ChannelSetAttribute(s.handle, AttribBuffer, value)
}

// GetSampleRate returns the playback sample rate in Hz.
func (s *Stream) GetSampleRate() float32 {
	return s.getAttribute(AttribFreq)
}

// SetSampleRate sets the playback sample rate in Hz.
func (s *Stream) SetSampleRate(value float32) {
	s.engine.ChannelSetAttribute(s.handle, AttribFreq, value)
}

// GetProcessingGranularity returns the processing granularity in
// milliseconds.
func (s *Stream) GetProcessingGranularity() float32 {
	return s.getAttribute(AttribGranule)
}

// SetProcessingGranularity sets the processing granularity in
// milliseconds.
func (s *Stream) SetProcessingGranularity(value float32) {
	s.engine.ChannelSetAttribute(s.handle, AttribGranule, value)
}

// GetResumeBufferLevel returns the buffer level (0-100%) required to
// resume stalled playback of a network stream.
func (s *Stream) GetResumeBufferLevel() float32 {
	return s.getAttribute(AttribNetResume)
}

// SetResumeBufferLevel sets the buffer level (0-100%) required to resume
// stalled playback of a network stream.
func (s *Stream) SetResumeBufferLevel(value float32) {
	s.engine.ChannelSetAttribute(s.handle, AttribNetResume, value)
}

// GetPlaybackBufferingSwitch reports whether playback buffering is
// disabled (non-zero = disabled).
func (s *Stream) GetPlaybackBufferingSwitch() float32 {
	return s.getAttribute(AttribNoBuffer)
}

// SetPlaybackBufferingSwitch disables (non-zero) or enables (zero)
// playback buffering.
func (s *Stream) SetPlaybackBufferingSwitch(value float32) {
	s.engine.ChannelSetAttribute(s.handle, AttribNoBuffer, value)
}

// GetPlaybackRampingSwitch reports whether playback ramping is disabled
// (non-zero = disabled).
func (s *Stream) GetPlaybackRampingSwitch() float32 {
	return s.getAttribute(AttribNoRamp)
}

// SetPlaybackRampingSwitch disables (non-zero) or enables (zero) playback
// ramping.
func (s *Stream) SetPlaybackRampingSwitch(value float32) {
	s.engine.ChannelSetAttribute(s.handle, AttribNoRamp, value)
}

// GetPanningPosition returns the panning/balance position (-1 full left,
// 0 centre, +1 full right).
func (s *Stream) GetPanningPosition() float32 {
	return s.getAttribute(AttribPan)
}

// SetPanningPosition sets the panning/balance position (-1 to +1).
func (s *Stream) SetPanningPosition(value float32) {
	s.engine.ChannelSetAttribute(s.handle, AttribPan, value)
}

// GetSampleRateConversionQuality returns the sample rate conversion
// quality of the channel. Read-only.
func (s *Stream) GetSampleRateConversionQuality() float32 {
	return s.getAttribute(AttribSrc)
}

// GetVolume returns the channel volume (0 silent, 1 full).
func (s *Stream) GetVolume() float32 {
	return s.getAttribute(AttribVol)
}

// SetVolume sets the channel volume (0 silent, 1 full).
func (s *Stream) SetVolume(value float32) {
	s.engine.ChannelSetAttribute(s.handle, AttribVol, value)
}
