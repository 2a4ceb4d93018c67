package bass

// Engine is the call surface of a BASS-style native audio engine. Streams
// are identified by opaque non-zero handles; a zero handle means the call
// failed and the reason is available from LastErrorCode.
//
// The production implementation binds to the BASS shared library
// (internal/engine/native); a pure-Go stand-in lives in
// internal/engine/portable. Tests substitute mocks.
type Engine interface {
	// StreamCreateFile opens a decodable audio source from a filesystem
	// path. Returns 0 on failure.
	StreamCreateFile(path string, offset, length uint64, flags uint32) uint32

	// StreamCreateURL opens a decodable audio source from a network URL.
	// Returns 0 on failure.
	StreamCreateURL(url string, offset uint64, flags uint32) uint32

	// StreamFree releases the stream and its channel.
	StreamFree(handle uint32) bool

	// ChannelPlay starts or resumes playback. When restart is true,
	// playback restarts from the beginning of the stream.
	ChannelPlay(handle uint32, restart bool) bool

	// ChannelPause suspends playback without resetting the position.
	ChannelPause(handle uint32) bool

	// ChannelStop halts playback.
	ChannelStop(handle uint32) bool

	// ChannelLock acquires (lock=true) or releases (lock=false) the
	// engine-level exclusive section for the channel.
	ChannelLock(handle uint32, lock bool) bool

	// ChannelGetAttribute reads a numeric channel attribute. The second
	// return value is false when the engine reports failure.
	ChannelGetAttribute(handle uint32, attrib uint32) (float32, bool)

	// ChannelSetAttribute writes a numeric channel attribute.
	ChannelSetAttribute(handle uint32, attrib uint32, value float32) bool

	// ChannelGetPosition returns the playback position in the unit
	// selected by mode (PosByte: a byte offset from stream start).
	ChannelGetPosition(handle uint32, mode uint32) uint64

	// ChannelBytesToSeconds converts a byte position on the channel into
	// elapsed seconds.
	ChannelBytesToSeconds(handle uint32, pos uint64) float64

	// LastErrorCode returns the error code of the most recent engine
	// call (ErrorCodeOK after a successful one).
	LastErrorCode() int
}

// Engine error codes, numerically identical to BASS_ERROR_* so the native
// binding can pass them through verbatim.
const (
	ErrorCodeOK           = 0  // all is OK
	ErrorCodeMem          = 1  // memory error
	ErrorCodeFileOpen     = 2  // can't open the file
	ErrorCodeDriver       = 3  // can't find a free/valid driver
	ErrorCodeBufLost      = 4  // the sample buffer was lost
	ErrorCodeHandle       = 5  // invalid handle
	ErrorCodeFormat       = 6  // unsupported sample format
	ErrorCodePosition     = 7  // invalid position
	ErrorCodeInit         = 8  // BASS_Init has not been successfully called
	ErrorCodeStart        = 9  // BASS_Start has not been successfully called
	ErrorCodeSSL          = 10 // SSL/HTTPS support isn't available
	ErrorCodeAlready      = 14 // already initialized/paused/whatever
	ErrorCodeNotAudio     = 17 // the file does not contain audio
	ErrorCodeNoChannel    = 18 // can't get a free channel
	ErrorCodeIllType      = 19 // an illegal type was specified
	ErrorCodeIllParam     = 20 // an illegal parameter was specified
	ErrorCodeNo3D         = 21 // no 3D support
	ErrorCodeNoEAX        = 22 // no EAX support
	ErrorCodeDevice       = 23 // illegal device number
	ErrorCodeNoPlay       = 24 // not playing
	ErrorCodeFreq         = 25 // illegal sample rate
	ErrorCodeNotFile      = 27 // the stream is not a file stream
	ErrorCodeNoHW         = 29 // no hardware voices available
	ErrorCodeEmpty        = 31 // the MOD music has no sequence data
	ErrorCodeNoNet        = 32 // no internet connection could be opened
	ErrorCodeCreate       = 33 // couldn't create the file
	ErrorCodeNoFX         = 34 // effects are not available
	ErrorCodeNotAvail     = 37 // requested data is not available
	ErrorCodeDecode       = 38 // the channel is a "decoding channel"
	ErrorCodeDX           = 39 // a sufficient DirectX version is not installed
	ErrorCodeTimeout      = 40 // connection timed out
	ErrorCodeFileForm     = 41 // unsupported file format
	ErrorCodeSpeaker      = 42 // unavailable speaker
	ErrorCodeVersion      = 43 // invalid BASS version
	ErrorCodeCodec        = 44 // codec is not available/supported
	ErrorCodeEnded        = 45 // the channel/file has ended
	ErrorCodeBusy         = 46 // the device is busy
	ErrorCodeUnstreamable = 47 // unstreamable file
	ErrorCodeProtocol     = 48 // unsupported protocol
	ErrorCodeDenied       = 49 // access denied
	ErrorCodeUnknown      = -1 // some other mystery problem
)

// Channel attribute identifiers, numerically identical to BASS_ATTRIB_*.
const (
	AttribFreq      uint32 = 1  // sample rate
	AttribVol       uint32 = 2  // volume level
	AttribPan       uint32 = 3  // panning/balance position
	AttribNoBuffer  uint32 = 5  // playback buffering switch
	AttribSrc       uint32 = 8  // sample rate conversion quality
	AttribNetResume uint32 = 9  // buffer level required to resume stalled playback
	AttribNoRamp    uint32 = 11 // playback ramping switch
	AttribBitrate   uint32 = 12 // bitrate of the file stream
	AttribBuffer    uint32 = 13 // playback buffering length
	AttribGranule   uint32 = 14 // processing granularity
)

// Position modes for ChannelGetPosition.
const (
	PosByte uint32 = 0 // byte position from the start of the stream
)

// Stream creation flags.
const (
	// FlagUnicode marks the source text as UTF-16. The Windows text
	// marshaling seam in the native binding sets it; callers never need
	// to.
	FlagUnicode uint32 = 0x80000000
)
