//go:build windows

package native

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unsafe"

	"basso.audio/pkg/bass"
)

// textBuffer holds source text transcoded for the engine: a
// null-terminated UTF-16 string on this platform, passed with the
// engine's unicode flag.
type textBuffer []uint16

// marshalText transcodes s for the engine call. An embedded null rune is
// a broken caller contract, not an engine condition, so it aborts.
func marshalText(s string) (textBuffer, uint32) {
	if strings.IndexByte(s, 0) >= 0 {
		panic(fmt.Sprintf("bass: source text contains an embedded null byte: %q", s))
	}

	encoded := utf16.Encode([]rune(s))
	buf := make(textBuffer, len(encoded)+1)
	copy(buf, encoded)
	return buf, bass.FlagUnicode
}

func textPtr(b textBuffer) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}
