//go:build !windows

package native

import "testing"

func TestMarshalTextNullTerminated(t *testing.T) {
	buf, flags := marshalText("/tmp/música.mp3")

	if flags != 0 {
		t.Errorf("expected no text flags on this platform, got %#x", flags)
	}
	if buf[len(buf)-1] != 0 {
		t.Error("expected null terminator")
	}
	if string(buf[:len(buf)-1]) != "/tmp/música.mp3" {
		t.Errorf("text mangled: %q", string(buf[:len(buf)-1]))
	}
}

func TestMarshalTextEmpty(t *testing.T) {
	buf, _ := marshalText("")
	if len(buf) != 1 || buf[0] != 0 {
		t.Errorf("expected lone null terminator, got %v", buf)
	}
}

func TestMarshalTextEmbeddedNullPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for embedded null byte")
		}
	}()
	marshalText("/tmp/bad\x00path.wav")
}
