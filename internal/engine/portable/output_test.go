package portable

import (
	"strings"
	"testing"
)

func TestOtoOutputRequires16BitSamples(t *testing.T) {
	tests := []struct {
		name           string
		bytesPerSample uint32
	}{
		{"24-bit", 3},
		{"32-bit", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := OutputSpec{Channels: 2, SampleRate: 44100, BytesPerSample: tt.bytesPerSample}
			out, err := NewOtoOutput(spec, func(buf []byte) {})
			if err == nil {
				out.Close()
				t.Fatal("expected wide sample formats to be rejected")
			}
			if !strings.Contains(err.Error(), "16-bit") {
				t.Errorf("unexpected rejection message: %v", err)
			}
		})
	}
}

func TestNullOutputLifecycle(t *testing.T) {
	spec := OutputSpec{Channels: 1, SampleRate: 44100, BytesPerSample: 2}
	out, err := NewNullOutput(spec, func(buf []byte) {})
	if err != nil {
		t.Fatalf("null output creation failed: %v", err)
	}

	if err := out.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := out.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// A closed output cannot be restarted
	if err := out.Start(); err != ErrOutputClosed {
		t.Errorf("expected ErrOutputClosed after close, got %v", err)
	}
}
