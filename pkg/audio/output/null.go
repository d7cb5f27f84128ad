// ABOUTME: Device-less audio output implementation
// ABOUTME: Tracks context state and source lifetimes on a software clock
package output

import (
	"context"
	"sync"
	"time"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// Playback records one Start call on a Null context
type Playback struct {
	Frames     int
	SampleRate int
	Channels   int
	Gain       float32
	PCM        []byte
}

// Null is an output context with no device. Sources finish after their
// buffer duration. Failures can be injected with FailResume and FailStart.
type Null struct {
	mixer

	sampleRate int
	channels   int

	mu        sync.Mutex
	state     State
	playbacks []Playback
	resumeErr error
	startErr  error
}

func openNull(cfg Config) (Context, error) {
	return NewNull(cfg.SampleRate, cfg.Channels), nil
}

// NewNull creates a suspended Null context
func NewNull(sampleRate, channels int) *Null {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = DefaultChannels
	}
	return &Null{
		mixer:      mixer{volume: 100},
		sampleRate: sampleRate,
		channels:   channels,
		state:      StateSuspended,
	}
}

// State returns the context state
func (n *Null) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Resume moves a suspended context to running
func (n *Null) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.resumeErr != nil {
		return n.resumeErr
	}
	if n.state == StateClosed {
		return ErrClosed
	}
	n.state = StateRunning
	return nil
}

// Suspend moves a running context to suspended
func (n *Null) Suspend() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state == StateRunning {
		n.state = StateSuspended
	}
	return nil
}

// FailResume makes Resume return err; nil clears it
func (n *Null) FailResume(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resumeErr = err
}

// FailStart makes Start return err; nil clears it
func (n *Null) FailStart(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.startErr = err
}

// Close permanently closes the context
func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = StateClosed
	return nil
}

// SampleRate returns the context sample rate
func (n *Null) SampleRate() int { return n.sampleRate }

// Channels returns the context channel count
func (n *Null) Channels() int { return n.channels }

// NewBuffer allocates a silent buffer
func (n *Null) NewBuffer(channels, frames, sampleRate int) *audio.Buffer {
	return audio.NewBuffer(channels, frames, sampleRate)
}

// Start records buf and returns a source that finishes after its duration
func (n *Null) Start(buf *audio.Buffer, gain float32) (Source, error) {
	n.mu.Lock()
	if n.startErr != nil {
		err := n.startErr
		n.mu.Unlock()
		return nil, err
	}
	if n.state == StateClosed {
		n.mu.Unlock()
		return nil, ErrClosed
	}
	n.playbacks = append(n.playbacks, Playback{
		Frames:     buf.Length(),
		SampleRate: buf.SampleRate,
		Channels:   buf.NumberOfChannels(),
		Gain:       gain,
		PCM:        n.render(buf, n.sampleRate, n.channels, gain),
	})
	n.mu.Unlock()

	src := &nullSource{done: make(chan struct{})}
	src.timer = time.AfterFunc(buf.Duration(), src.finish)
	return src, nil
}

// Playbacks returns every buffer started so far
func (n *Null) Playbacks() []Playback {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Playback, len(n.playbacks))
	copy(out, n.playbacks)
	return out
}

type nullSource struct {
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

func (s *nullSource) finish() {
	s.once.Do(func() { close(s.done) })
}

func (s *nullSource) Stop() error {
	s.timer.Stop()
	s.finish()
	return nil
}

func (s *nullSource) IsPlaying() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *nullSource) Done() <-chan struct{} {
	return s.done
}
