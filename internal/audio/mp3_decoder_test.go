package audio

import (
	"bytes"
	"testing"
)

func TestMp3DecoderCanDecode(t *testing.T) {
	decoder := NewMp3Decoder()

	tests := []struct {
		filename string
		want     bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"song.wav", false},
		{"song.mp3.bak", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := decoder.CanDecode(tt.filename); got != tt.want {
			t.Errorf("CanDecode(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestMp3DecoderInvalidData(t *testing.T) {
	decoder := NewMp3Decoder()

	_, err := decoder.Decode(bytes.NewReader([]byte("definitely not an mp3 frame header")))
	if err == nil {
		t.Error("expected error for invalid MP3 data")
	}
}

func TestMp3DecoderFormatName(t *testing.T) {
	if NewMp3Decoder().FormatName() != "MP3" {
		t.Error("expected format name MP3")
	}
}
