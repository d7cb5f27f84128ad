// ABOUTME: Unit tests for container sniffing and decoding
// ABOUTME: Tests format detection and WAV decoding of encoder output
package decode

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/lotsdraw/fortune-audio/pkg/audio/encode"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"wav", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), CodecWAV},
		{"aiff", []byte("FORM\x00\x00\x00\x00AIFFCOMM"), CodecAIFF},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), CodecFLAC},
		{"opus", []byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00\x00\x00OpusHead\x01\x02"), CodecOpus},
		{"vorbis", []byte("OggS\x00\x02\x00\x00\x00\x00\x01vorbis\x00\x00"), CodecVorbis},
		{"unknown ogg", []byte("OggS\x00\x02theora"), ""},
		{"id3", []byte("ID3\x04\x00"), CodecMP3},
		{"mpeg sync", []byte{0xFF, 0xFB, 0x90, 0x00}, CodecMP3},
		{"riff without wave", []byte("RIFF\x00\x00\x00\x00AVI "), ""},
		{"text", []byte("hello"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.data); got != tt.want {
				t.Errorf("Sniff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewDecoder(t *testing.T) {
	for _, codec := range []string{CodecWAV, CodecAIFF, CodecMP3, CodecFLAC, CodecOpus, CodecVorbis} {
		if _, err := NewDecoder(codec); err != nil {
			t.Errorf("NewDecoder(%q) unexpected error = %v", codec, err)
		}
	}
	if _, err := NewDecoder("aac"); err == nil {
		t.Error("NewDecoder(aac) expected error, got nil")
	}
}

func TestContainerWAV(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767, -32768, 8192}
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}

	tests := []struct {
		name     string
		rate     int
		channels int
	}{
		{"mono", 24000, 1},
		{"stereo", 44100, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := encode.WAV(pcm, tt.rate, tt.channels)

			buf, err := Container(blob.Data)
			if err != nil {
				t.Fatalf("Container() failed: %v", err)
			}

			if buf.SampleRate != tt.rate {
				t.Errorf("SampleRate = %d, want %d", buf.SampleRate, tt.rate)
			}
			if buf.NumberOfChannels() != tt.channels {
				t.Errorf("NumberOfChannels() = %d, want %d", buf.NumberOfChannels(), tt.channels)
			}

			// Container decoding must agree with raw PCM decoding
			raw, err := PCM(pcm, nil, tt.rate, tt.channels)
			if err != nil {
				t.Fatalf("PCM() failed: %v", err)
			}
			if buf.Length() != raw.Length() {
				t.Fatalf("Length() = %d, want %d", buf.Length(), raw.Length())
			}
			for ch := 0; ch < tt.channels; ch++ {
				for i := range raw.Data[ch] {
					if buf.Data[ch][i] != raw.Data[ch][i] {
						t.Errorf("ch %d frame %d = %v, want %v", ch, i, buf.Data[ch][i], raw.Data[ch][i])
					}
				}
			}
		})
	}
}

func TestContainerErrors(t *testing.T) {
	if _, err := Container([]byte("not audio at all")); !errors.Is(err, ErrUnknownContainer) {
		t.Errorf("Container(text) error = %v, want ErrUnknownContainer", err)
	}

	// A bare MPEG sync word with no decodable frames
	if _, err := Container([]byte{0xFF, 0xFB}); err == nil {
		t.Error("Container(truncated mp3) expected error, got nil")
	}
}

func TestContainerAIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chime.aiff")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	enc := aiff.NewEncoder(f, 22050, 16, 1)
	src := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 22050},
		Data:           []int{0, 16384, -16384, 32767},
		SourceBitDepth: 16,
	}
	if err := enc.Write(src); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}

	buf, err := Container(data)
	if err != nil {
		t.Fatalf("Container() failed: %v", err)
	}
	if buf.SampleRate != 22050 || buf.NumberOfChannels() != 1 {
		t.Errorf("format = %d Hz x %d, want 22050 Hz x 1", buf.SampleRate, buf.NumberOfChannels())
	}
	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0}
	if buf.Length() != len(want) {
		t.Fatalf("Length() = %d, want %d", buf.Length(), len(want))
	}
	for i, w := range want {
		if got := buf.ChannelData(0)[i]; got != w {
			t.Errorf("sample %d = %v, want %v", i, got, w)
		}
	}
}
