// ABOUTME: Audio output tests
// ABOUTME: Verifies backend selection, context states and source lifetimes on the null backend
package output

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

func TestOtoImplementsContext(t *testing.T) {
	var _ Context = (*Oto)(nil)
	var _ Context = (*Null)(nil)
}

func TestOpenNull(t *testing.T) {
	ctx, err := Open(Config{Backends: []string{"null"}, SampleRate: 24000, Channels: 1})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if ctx.SampleRate() != 24000 || ctx.Channels() != 1 {
		t.Errorf("format = %dHz %dch, want 24000Hz 1ch", ctx.SampleRate(), ctx.Channels())
	}
	if ctx.State() != StateSuspended {
		t.Errorf("State() = %v, want suspended", ctx.State())
	}
}

func TestOpenFallsBack(t *testing.T) {
	ctx, err := Open(Config{Backends: []string{"coreaudio", "null"}})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if ctx.SampleRate() != DefaultSampleRate || ctx.Channels() != DefaultChannels {
		t.Errorf("format = %dHz %dch, want defaults", ctx.SampleRate(), ctx.Channels())
	}
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(Config{Backends: []string{"coreaudio"}})
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("Open() error = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestNullStateTransitions(t *testing.T) {
	n := NewNull(48000, 2)

	if err := n.Resume(context.Background()); err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}
	if n.State() != StateRunning {
		t.Errorf("State() = %v, want running", n.State())
	}

	if err := n.Suspend(); err != nil {
		t.Fatalf("Suspend() failed: %v", err)
	}
	if n.State() != StateSuspended {
		t.Errorf("State() = %v, want suspended", n.State())
	}

	n.Close()
	if err := n.Resume(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Resume() after Close error = %v, want ErrClosed", err)
	}
	if _, err := n.Start(audio.NewBuffer(1, 1, 48000), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Start() after Close error = %v, want ErrClosed", err)
	}
}

func TestNullResumeHonorsContext(t *testing.T) {
	n := NewNull(48000, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.Resume(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Resume() error = %v, want context.Canceled", err)
	}
	if n.State() != StateSuspended {
		t.Errorf("State() = %v, want suspended", n.State())
	}
}

func TestNullStartRendersDeviceFormat(t *testing.T) {
	n := NewNull(48000, 2)
	buf := &audio.Buffer{SampleRate: 24000, Data: [][]float32{{0.5, 0.5}}}

	if _, err := n.Start(buf, 0.5); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	plays := n.Playbacks()
	if len(plays) != 1 {
		t.Fatalf("Playbacks() = %d, want 1", len(plays))
	}
	p := plays[0]
	if p.Frames != 2 || p.SampleRate != 24000 || p.Channels != 1 || p.Gain != 0.5 {
		t.Errorf("Playback = %+v", p)
	}

	// 2 frames at 24kHz -> 4 frames at 48kHz, stereo, 16-bit
	if len(p.PCM) != 4*2*2 {
		t.Fatalf("PCM size = %d, want 16", len(p.PCM))
	}
	if got := int16(binary.LittleEndian.Uint16(p.PCM[0:])); got != 8192 {
		t.Errorf("first sample = %d, want 8192", got)
	}
}

func TestNullVolume(t *testing.T) {
	n := NewNull(8000, 1)
	buf := &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0.5}}}

	n.SetVolume(50)
	n.Start(buf, 1)
	n.SetMuted(true)
	n.Start(buf, 1)

	plays := n.Playbacks()
	if got := int16(binary.LittleEndian.Uint16(plays[0].PCM)); got != 8192 {
		t.Errorf("half volume sample = %d, want 8192", got)
	}
	if got := int16(binary.LittleEndian.Uint16(plays[1].PCM)); got != 0 {
		t.Errorf("muted sample = %d, want 0", got)
	}

	n.SetVolume(150)
	if n.Volume() != 100 {
		t.Errorf("Volume() = %d, want clamped 100", n.Volume())
	}
}

func TestNullSourceFinishes(t *testing.T) {
	n := NewNull(48000, 2)
	// 10ms of audio
	src, err := n.Start(audio.NewBuffer(2, 480, 48000), 1)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if !src.IsPlaying() {
		t.Error("IsPlaying() = false right after Start")
	}

	select {
	case <-src.Done():
	case <-time.After(time.Second):
		t.Fatal("source did not finish")
	}
	if src.IsPlaying() {
		t.Error("IsPlaying() = true after Done")
	}
}

func TestNullSourceStop(t *testing.T) {
	n := NewNull(48000, 2)
	src, _ := n.Start(audio.NewBuffer(2, 48000*60, 48000), 1)

	if err := src.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if src.IsPlaying() {
		t.Error("IsPlaying() = true after Stop")
	}
	// Stopping twice is a no-op
	if err := src.Stop(); err != nil {
		t.Errorf("second Stop() failed: %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateSuspended: "suspended",
		StateRunning:   "running",
		StateClosed:    "closed",
		State(9):       "State(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
