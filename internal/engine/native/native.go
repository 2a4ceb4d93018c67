// Package native binds bass.Engine to the BASS shared library loaded at
// runtime. No cgo: symbols are resolved with purego, so cross-compilation
// stays trivial and the library is only required when this engine is
// actually selected.
package native

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/ebitengine/purego"
)

// Engine calls straight into the loaded BASS library. All engine
// functions are thread-safe per the BASS documentation; the wrapper adds
// no locking.
type Engine struct {
	lib uintptr

	bassInit             func(device int32, freq uint32, flags uint32, win uintptr, dsguid uintptr) int32
	bassFree             func() int32
	streamCreateFile     func(mem int32, file uintptr, offset uint64, length uint64, flags uint32) uint32
	streamCreateURL      func(url uintptr, offset uint32, flags uint32, proc uintptr, user uintptr) uint32
	streamFree           func(handle uint32) int32
	channelPlay          func(handle uint32, restart int32) int32
	channelPause         func(handle uint32) int32
	channelStop          func(handle uint32) int32
	channelLock          func(handle uint32, lock int32) int32
	channelGetAttribute  func(handle uint32, attrib uint32, value *float32) int32
	channelSetAttribute  func(handle uint32, attrib uint32, value float32) int32
	channelGetPosition   func(handle uint32, mode uint32) uint64
	channelBytes2Seconds func(handle uint32, pos uint64) float64
	errorGetCode         func() int32
}

// Load opens the BASS shared library and resolves the call surface.
// An empty libraryPath means the platform's default soname, resolved by
// the system loader.
func Load(libraryPath string) (*Engine, error) {
	if libraryPath == "" {
		libraryPath = defaultLibraryName
	}

	slog.Debug("loading native engine library", "path", libraryPath)

	lib, err := openLibrary(libraryPath)
	if err != nil {
		slog.Debug("native engine library unavailable", "path", libraryPath, "error", err)
		return nil, fmt.Errorf("failed to load engine library %q: %w", libraryPath, err)
	}

	e := &Engine{lib: lib}
	purego.RegisterLibFunc(&e.bassInit, lib, "BASS_Init")
	purego.RegisterLibFunc(&e.bassFree, lib, "BASS_Free")
	purego.RegisterLibFunc(&e.streamCreateFile, lib, "BASS_StreamCreateFile")
	purego.RegisterLibFunc(&e.streamCreateURL, lib, "BASS_StreamCreateURL")
	purego.RegisterLibFunc(&e.streamFree, lib, "BASS_StreamFree")
	purego.RegisterLibFunc(&e.channelPlay, lib, "BASS_ChannelPlay")
	purego.RegisterLibFunc(&e.channelPause, lib, "BASS_ChannelPause")
	purego.RegisterLibFunc(&e.channelStop, lib, "BASS_ChannelStop")
	purego.RegisterLibFunc(&e.channelLock, lib, "BASS_ChannelLock")
	purego.RegisterLibFunc(&e.channelGetAttribute, lib, "BASS_ChannelGetAttribute")
	purego.RegisterLibFunc(&e.channelSetAttribute, lib, "BASS_ChannelSetAttribute")
	purego.RegisterLibFunc(&e.channelGetPosition, lib, "BASS_ChannelGetPosition")
	purego.RegisterLibFunc(&e.channelBytes2Seconds, lib, "BASS_ChannelBytes2Seconds")
	purego.RegisterLibFunc(&e.errorGetCode, lib, "BASS_ErrorGetCode")

	slog.Info("native engine library loaded", "path", libraryPath)
	return e, nil
}

// Init initializes the engine's default output device. device -1 selects
// the system default.
func (e *Engine) Init(device int, freq int) error {
	if e.bassInit(int32(device), uint32(freq), 0, 0, 0) == 0 {
		return fmt.Errorf("failed to initialize engine output device, engine error code: %d", e.LastErrorCode())
	}
	slog.Debug("native engine initialized", "device", device, "freq", freq)
	return nil
}

// Free releases the engine's output device and all its streams.
func (e *Engine) Free() {
	e.bassFree()
	slog.Debug("native engine freed")
}

// StreamCreateFile opens a file stream. The path is transcoded to the
// platform's native text representation for the duration of the call.
func (e *Engine) StreamCreateFile(path string, offset, length uint64, flags uint32) uint32 {
	text, textFlags := marshalText(path)
	handle := e.streamCreateFile(0, textPtr(text), offset, length, flags|textFlags)
	runtime.KeepAlive(text)
	return handle
}

// StreamCreateURL opens a URL stream. BASS copies the URL text during the
// call and does not retain it, so the transcoded buffer is released as
// soon as the call returns.
func (e *Engine) StreamCreateURL(url string, offset uint64, flags uint32) uint32 {
	text, textFlags := marshalText(url)
	handle := e.streamCreateURL(textPtr(text), uint32(offset), flags|textFlags, 0, 0)
	runtime.KeepAlive(text)
	return handle
}

// StreamFree releases the stream.
func (e *Engine) StreamFree(handle uint32) bool {
	return e.streamFree(handle) != 0
}

// ChannelPlay starts or resumes playback.
func (e *Engine) ChannelPlay(handle uint32, restart bool) bool {
	return e.channelPlay(handle, boolToInt32(restart)) != 0
}

// ChannelPause suspends playback.
func (e *Engine) ChannelPause(handle uint32) bool {
	return e.channelPause(handle) != 0
}

// ChannelStop halts playback.
func (e *Engine) ChannelStop(handle uint32) bool {
	return e.channelStop(handle) != 0
}

// ChannelLock acquires or releases the channel's exclusive section.
func (e *Engine) ChannelLock(handle uint32, lock bool) bool {
	return e.channelLock(handle, boolToInt32(lock)) != 0
}

// ChannelGetAttribute reads a channel attribute.
func (e *Engine) ChannelGetAttribute(handle uint32, attrib uint32) (float32, bool) {
	var value float32
	if e.channelGetAttribute(handle, attrib, &value) == 0 {
		return 0, false
	}
	return value, true
}

// ChannelSetAttribute writes a channel attribute.
func (e *Engine) ChannelSetAttribute(handle uint32, attrib uint32, value float32) bool {
	return e.channelSetAttribute(handle, attrib, value) != 0
}

// ChannelGetPosition returns the playback position.
func (e *Engine) ChannelGetPosition(handle uint32, mode uint32) uint64 {
	return e.channelGetPosition(handle, mode)
}

// ChannelBytesToSeconds converts a byte position into seconds.
func (e *Engine) ChannelBytesToSeconds(handle uint32, pos uint64) float64 {
	return e.channelBytes2Seconds(handle, pos)
}

// LastErrorCode returns the error code of the most recent engine call.
func (e *Engine) LastErrorCode() int {
	return int(e.errorGetCode())
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
