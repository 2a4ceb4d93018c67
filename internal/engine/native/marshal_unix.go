//go:build !windows

package native

import (
	"fmt"
	"strings"
	"unsafe"
)

// textBuffer holds source text transcoded for the engine: a
// null-terminated byte string on this platform.
type textBuffer []byte

// marshalText transcodes s for the engine call. An embedded null byte is
// a broken caller contract, not an engine condition, so it aborts.
func marshalText(s string) (textBuffer, uint32) {
	if strings.IndexByte(s, 0) >= 0 {
		panic(fmt.Sprintf("bass: source text contains an embedded null byte: %q", s))
	}

	buf := make(textBuffer, len(s)+1)
	copy(buf, s)
	return buf, 0
}

func textPtr(b textBuffer) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}
