// ABOUTME: Unit tests for PCM decoder
// ABOUTME: Tests normalization, channel layout, strict framing and allocation
package decode

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

func TestPCMSpeechPayload(t *testing.T) {
	data, err := Base64("AAB/AAB/")
	if err != nil {
		t.Fatalf("Base64() failed: %v", err)
	}

	buf, err := PCM(data, nil, 24000, 1)
	if err != nil {
		t.Fatalf("PCM() failed: %v", err)
	}

	if buf.SampleRate != 24000 {
		t.Errorf("SampleRate = %d, want 24000", buf.SampleRate)
	}
	if buf.NumberOfChannels() != 1 {
		t.Errorf("NumberOfChannels() = %d, want 1", buf.NumberOfChannels())
	}
	if buf.Length() != len(data)/2 {
		t.Errorf("Length() = %d, want %d", buf.Length(), len(data)/2)
	}

	// 00 00 | 7F 00 | 00 7F
	want := []float32{0, 127.0 / 32768.0, 32512.0 / 32768.0}
	for i, w := range want {
		if got := buf.ChannelData(0)[i]; got != w {
			t.Errorf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestPCMNormalization(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		want  float32
	}{
		{"zero", []byte{0x00, 0x00}, 0},
		{"min", []byte{0x00, 0x80}, -1.0},
		{"max", []byte{0xFF, 0x7F}, 32767.0 / 32768.0},
		{"minus one", []byte{0xFF, 0xFF}, -1.0 / 32768.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := PCM(tt.bytes, nil, 8000, 1)
			if err != nil {
				t.Fatalf("PCM() failed: %v", err)
			}
			if got := buf.ChannelData(0)[0]; got != tt.want {
				t.Errorf("sample = %v, want %v", got, tt.want)
			}
			if got := buf.ChannelData(0)[0]; got >= 1.0 || got < -1.0 {
				t.Errorf("sample %v outside [-1, 1)", got)
			}
		})
	}
}

func TestPCMStereoDeinterleave(t *testing.T) {
	// L0=16384 R0=-16384 L1=8192 R1=0
	data := []byte{0x00, 0x40, 0x00, 0xC0, 0x00, 0x20, 0x00, 0x00}

	buf, err := PCM(data, nil, 48000, 2)
	if err != nil {
		t.Fatalf("PCM() failed: %v", err)
	}

	if buf.Length() != 2 {
		t.Fatalf("Length() = %d, want 2", buf.Length())
	}
	left, right := buf.ChannelData(0), buf.ChannelData(1)
	if left[0] != 0.5 || left[1] != 0.25 {
		t.Errorf("left = %v, want [0.5 0.25]", left)
	}
	if right[0] != -0.5 || right[1] != 0 {
		t.Errorf("right = %v, want [-0.5 0]", right)
	}
}

func TestPCMFraming(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		channels int
		rate     int
		wantErr  error
	}{
		{"empty", 0, 1, 24000, nil},
		{"odd length", 3, 1, 24000, ErrOddLength},
		{"partial stereo frame", 6, 2, 24000, ErrPartialFrame},
		{"zero channels", 4, 0, 24000, ErrInvalidChannels},
		{"zero rate", 4, 1, 0, ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := PCM(make([]byte, tt.length), nil, tt.rate, tt.channels)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("PCM() unexpected error = %v", err)
				}
				if buf.Length() != 0 {
					t.Errorf("Length() = %d, want 0", buf.Length())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PCM() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPCMDoesNotModifyInput(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	original := append([]byte(nil), data...)

	if _, err := PCM(data, nil, 24000, 1); err != nil {
		t.Fatalf("PCM() failed: %v", err)
	}
	if !bytes.Equal(data, original) {
		t.Error("PCM() modified its input")
	}
}

type countingAllocator struct {
	calls int
}

func (a *countingAllocator) NewBuffer(channels, frames, sampleRate int) *audio.Buffer {
	a.calls++
	return audio.NewBuffer(channels, frames, sampleRate)
}

func TestPCMUsesAllocator(t *testing.T) {
	alloc := &countingAllocator{}

	buf, err := PCM(make([]byte, 8), alloc, 24000, 1)
	if err != nil {
		t.Fatalf("PCM() failed: %v", err)
	}
	if alloc.calls != 1 {
		t.Errorf("allocator called %d times, want 1", alloc.calls)
	}
	if buf.Length() != 4 {
		t.Errorf("Length() = %d, want 4", buf.Length())
	}
}

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name    string
		format  audio.Format
		wantErr bool
	}{
		{"valid", audio.Format{Codec: "pcm", SampleRate: 24000, Channels: 1, BitDepth: 16}, false},
		{"wrong codec", audio.Format{Codec: "opus", SampleRate: 48000, Channels: 2, BitDepth: 16}, true},
		{"24-bit", audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 24}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := NewPCM(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Error("NewPCM() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPCM() unexpected error = %v", err)
			}
			buf, err := dec.Decode([]byte{0x00, 0x40})
			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if buf.SampleRate != tt.format.SampleRate {
				t.Errorf("SampleRate = %d, want %d", buf.SampleRate, tt.format.SampleRate)
			}
		})
	}
}
