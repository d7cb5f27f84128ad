// ABOUTME: Audio output interface definition
// ABOUTME: Common context/source interfaces and the backend factory
package output

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// State is the lifecycle state of an output context
type State int

const (
	StateSuspended State = iota
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrUnsupportedPlatform is returned when no backend could be opened
	ErrUnsupportedPlatform = errors.New("no audio output backend available")

	// ErrClosed is returned by operations on a closed context
	ErrClosed = errors.New("audio context closed")
)

// Context represents the audio output device
type Context interface {
	// State reports whether the device is suspended, running or closed
	State() State

	// Resume starts (or restarts) the device
	Resume(ctx context.Context) error

	// Suspend pauses the device; started sources resume with it
	Suspend() error

	// SampleRate returns the device sample rate
	SampleRate() int

	// Channels returns the device channel count
	Channels() int

	// NewBuffer allocates a silent buffer owned by this context
	NewBuffer(channels, frames, sampleRate int) *audio.Buffer

	// Start schedules buf for immediate playback scaled by gain
	Start(buf *audio.Buffer, gain float32) (Source, error)

	// SetVolume sets the master volume (0-100)
	SetVolume(volume int)

	// Volume returns the master volume
	Volume() int

	// SetMuted sets the master mute state
	SetMuted(muted bool)

	// IsMuted returns the master mute state
	IsMuted() bool
}

// Source is one started buffer
type Source interface {
	// Stop halts playback; stopping a finished source is a no-op
	Stop() error

	// IsPlaying reports whether the source has not finished or been stopped
	IsPlaying() bool

	// Done is closed when the source finishes or is stopped
	Done() <-chan struct{}
}

// Config selects and configures the output backend
type Config struct {
	// Backends are tried in order; the first that opens wins
	Backends []string

	SampleRate int
	Channels   int

	// BufferSize is the device buffer latency (oto only, 0 = platform default)
	BufferSize time.Duration
}

const (
	DefaultSampleRate = 48000
	DefaultChannels   = 2
	DefaultBackend    = "oto"
)

func (c Config) withDefaults() Config {
	if len(c.Backends) == 0 {
		c.Backends = []string{DefaultBackend}
	}
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Channels <= 0 {
		c.Channels = DefaultChannels
	}
	return c
}

// backends maps backend names to their constructors
var backends = map[string]func(Config) (Context, error){
	"oto":  openOto,
	"null": openNull,
}

// Open opens the first configured backend that is available on this host
func Open(cfg Config) (Context, error) {
	cfg = cfg.withDefaults()

	var lastErr error
	for _, name := range cfg.Backends {
		open, ok := backends[name]
		if !ok {
			lastErr = fmt.Errorf("unknown output backend: %s", name)
			log.Printf("Audio output: %v", lastErr)
			continue
		}

		ctx, err := open(cfg)
		if err != nil {
			lastErr = err
			log.Printf("Audio output: backend %s unavailable: %v", name, err)
			continue
		}

		log.Printf("Audio output: using %s backend (%dHz, %d channels)", name, ctx.SampleRate(), ctx.Channels())
		return ctx, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPlatform, lastErr)
	}
	return nil, ErrUnsupportedPlatform
}
