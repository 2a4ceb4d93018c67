package bass

import (
	"errors"
	"fmt"
)

// The closed set of recoverable stream errors. Every user-facing failure a
// Stream can return is one of these; any engine error code outside the
// mapped set indicates a broken contract with the engine and is fatal
// rather than returned.
var (
	ErrOutputIsPausedOrStopped     = errors.New("the output is paused or stopped")
	ErrStreamIsNotPlayable         = errors.New("the stream is not playable")
	ErrStreamIsNotPlaying          = errors.New("the stream is not playing")
	ErrFileCouldNotBeOpened        = errors.New("the file couldn't be opened")
	ErrInvalidFileFormat           = errors.New("the file format isn't supported or recognised")
	ErrInvalidFileContent          = errors.New("the file doesn't contain audio or it contains audio and video")
	ErrInvalidCodec                = errors.New("the codec isn't supported")
	ErrInvalidSampleFormat         = errors.New("the sample format isn't supported")
	ErrInsufficientMemory          = errors.New("there is too little free memory")
	ErrCouldNotInitialize3DSupport = errors.New("couldn't initialize 3d support")
	ErrNoInternetConnection        = errors.New("internet connection isn't available")
	ErrInvalidProtocol             = errors.New("the protocol isn't supported")
	ErrSslSupportNotAvailable      = errors.New("SSL support is not available")
	ErrUnstreamableFile            = errors.New("the file can't be streamed")
	ErrTimeOut                     = errors.New("the server didn't respond to the request within the timeout period")
)

// ErrStreamIsNotPlayable and ErrCouldNotInitialize3DSupport have no
// producing call site here. They stay part of the set because the engine
// documents the underlying conditions and embedding applications match on
// the full taxonomy.

// classifyFileOpen maps the engine error code after a failed file open to
// a stream error. Unmapped codes are an engine contract violation.
func classifyFileOpen(code int) error {
	switch code {
	case ErrorCodeFileOpen:
		return ErrFileCouldNotBeOpened
	case ErrorCodeFileForm:
		return ErrInvalidFileFormat
	case ErrorCodeNotAudio:
		return ErrInvalidFileContent
	case ErrorCodeCodec:
		return ErrInvalidCodec
	case ErrorCodeFormat:
		return ErrInvalidSampleFormat
	case ErrorCodeMem:
		return ErrInsufficientMemory
	default:
		engineFault("create stream from file", code)
		return nil
	}
}

// classifyURLOpen maps the engine error code after a failed URL open.
// Superset of the file-open mapping plus the network conditions.
func classifyURLOpen(code int) error {
	switch code {
	case ErrorCodeNoNet:
		return ErrNoInternetConnection
	case ErrorCodeProtocol:
		return ErrInvalidProtocol
	case ErrorCodeSSL:
		return ErrSslSupportNotAvailable
	case ErrorCodeTimeout:
		return ErrTimeOut
	case ErrorCodeFileOpen:
		return ErrFileCouldNotBeOpened
	case ErrorCodeFileForm:
		return ErrInvalidFileFormat
	case ErrorCodeUnstreamable:
		return ErrUnstreamableFile
	case ErrorCodeNotAudio:
		return ErrInvalidFileContent
	case ErrorCodeCodec:
		return ErrInvalidCodec
	case ErrorCodeFormat:
		return ErrInvalidSampleFormat
	case ErrorCodeMem:
		return ErrInsufficientMemory
	default:
		engineFault("create stream from URL", code)
		return nil
	}
}

// engineFault terminates on an engine error code that the contract with
// the engine says cannot happen. Recovering here would leave the wrapper
// holding views of an engine state it no longer understands.
func engineFault(op string, code int) {
	panic(fmt.Sprintf("bass: failed to %s, engine error code: %d", op, code))
}
