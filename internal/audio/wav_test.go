package audio

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestEncodeWAVHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1}
	wav := EncodeWAV(samples, SampleRate)

	if len(wav) != 44+len(samples)*2 {
		t.Fatalf("len = %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q %q %q", wav[0:4], wav[8:12], wav[36:40])
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != SampleRate {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(samples)*2) {
		t.Errorf("data size = %d", got)
	}
}

func TestEncodeWAVSamples(t *testing.T) {
	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-3, -32767},
		{0.5, 16384},
	}
	for _, tt := range tests {
		wav := EncodeWAV([]float32{tt.in}, SampleRate)
		got := int16(binary.LittleEndian.Uint16(wav[44:46]))
		if got != tt.want {
			t.Errorf("sample %v -> %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClipDuration(t *testing.T) {
	c := Clip{Samples: make([]float32, SampleRate/2), SampleRate: SampleRate}
	if got := c.Duration(); got != 500*time.Millisecond {
		t.Errorf("duration = %v", got)
	}
	if got := (Clip{}).Duration(); got != 0 {
		t.Errorf("empty clip duration = %v", got)
	}
}
