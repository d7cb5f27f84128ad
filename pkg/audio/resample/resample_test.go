// ABOUTME: Unit tests for resampling and channel remixing
// ABOUTME: Tests frame counts, interpolation and channel conversion
package resample

import (
	"math"
	"testing"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

func TestOutputFrames(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		inRate  int
		outRate int
		want    int
	}{
		{"speech to device", 24000, 24000, 48000, 48000},
		{"cd to device", 44100, 44100, 48000, 48000},
		{"warm-up frame", 1, 22050, 48000, 3},
		{"downsample", 480, 48000, 24000, 240},
		{"empty", 0, 24000, 48000, 0},
		{"bad rate", 10, 0, 48000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputFrames(tt.in, tt.inRate, tt.outRate); got != tt.want {
				t.Errorf("OutputFrames() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConvertSameRate(t *testing.T) {
	buf := audio.NewBuffer(1, 10, 48000)
	if got := Convert(buf, 48000); got != buf {
		t.Error("Convert() at the same rate should return the input buffer")
	}
}

func TestConvertUpsampleInterpolates(t *testing.T) {
	buf := &audio.Buffer{SampleRate: 24000, Data: [][]float32{{0, 1, 0}}}

	out := Convert(buf, 48000)

	if out.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", out.SampleRate)
	}
	want := []float32{0, 0.5, 1, 0.5, 0, 0}
	if out.Length() != len(want) {
		t.Fatalf("Length() = %d, want %d", out.Length(), len(want))
	}
	for i, w := range want {
		if got := out.Data[0][i]; math.Abs(float64(got-w)) > 1e-6 {
			t.Errorf("frame %d = %v, want %v", i, got, w)
		}
	}
}

func TestConvertPreservesDuration(t *testing.T) {
	buf := audio.NewBuffer(2, 22050, 22050)

	out := Convert(buf, 48000)

	if out.NumberOfChannels() != 2 {
		t.Errorf("NumberOfChannels() = %d, want 2", out.NumberOfChannels())
	}
	if out.Duration() != buf.Duration() {
		t.Errorf("Duration() = %v, want %v", out.Duration(), buf.Duration())
	}
}

func TestRemix(t *testing.T) {
	mono := &audio.Buffer{SampleRate: 24000, Data: [][]float32{{0.25, -0.5}}}
	stereo := &audio.Buffer{SampleRate: 24000, Data: [][]float32{{1, 0}, {0, -1}}}

	tests := []struct {
		name     string
		in       *audio.Buffer
		channels int
		want     [][]float32
	}{
		{"mono to stereo", mono, 2, [][]float32{{0.25, -0.5}, {0.25, -0.5}}},
		{"stereo to mono", stereo, 1, [][]float32{{0.5, -0.5}}},
		{"stereo to three", stereo, 3, [][]float32{{1, 0}, {0, -1}, {0, -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Remix(tt.in, tt.channels)
			if out.NumberOfChannels() != tt.channels {
				t.Fatalf("NumberOfChannels() = %d, want %d", out.NumberOfChannels(), tt.channels)
			}
			for ch := range tt.want {
				for i, w := range tt.want[ch] {
					if got := out.Data[ch][i]; got != w {
						t.Errorf("ch %d frame %d = %v, want %v", ch, i, got, w)
					}
				}
			}
		})
	}

	if got := Remix(stereo, 2); got != stereo {
		t.Error("Remix() with matching channels should return the input buffer")
	}
}
