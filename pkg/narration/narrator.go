// ABOUTME: Narrator implementation
// ABOUTME: Synthesizes speech, decodes PCM, encodes WAV and owns the playing narration
package narration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lotsdraw/fortune-audio/pkg/audio"
	"github.com/lotsdraw/fortune-audio/pkg/audio/decode"
	"github.com/lotsdraw/fortune-audio/pkg/audio/encode"
	"github.com/lotsdraw/fortune-audio/pkg/audio/output"
	"github.com/lotsdraw/fortune-audio/pkg/audiogate"
)

const (
	// DefaultSampleRate and DefaultChannels match the provider's PCM format
	DefaultSampleRate = 24000
	DefaultChannels   = 1
)

var (
	// ErrNoGate is returned by playback calls on a narrator without a gate
	ErrNoGate = errors.New("narrator has no audio gate")

	// ErrLocked is returned when audio output could not be unlocked
	ErrLocked = errors.New("audio output is locked")

	// ErrNothingToPlay is returned when no narration has been generated
	ErrNothingToPlay = errors.New("no narration to play")
)

// Synthesizer turns text into base64 PCM; "" means no audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Summarizer condenses text before it is spoken
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Config configures a Narrator
type Config struct {
	Provider   Synthesizer
	Summarizer Summarizer
	Gate       *audiogate.Gate

	SampleRate int
	Channels   int
}

// Result is one generated narration
type Result struct {
	ID        uuid.UUID
	Text      string
	Buffer    *audio.Buffer
	Blob      *encode.Blob
	Duration  time.Duration
	CreatedAt time.Time
}

// SaveWAV writes the narration as a WAV file
func (r *Result) SaveWAV(path string) error {
	if err := r.Blob.Save(path); err != nil {
		return fmt.Errorf("failed to save narration: %w", err)
	}
	return nil
}

// DownloadName builds the file name offered for a narration download
func DownloadName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%d.wav", prefix, t.UnixMilli())
}

// Narrator generates narrations and owns the one currently playing
type Narrator struct {
	cfg Config

	mu      sync.Mutex
	current output.Source
	last    *Result
}

// New creates a narrator
func New(cfg Config) *Narrator {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = DefaultChannels
	}
	return &Narrator{cfg: cfg}
}

// Generate produces a narration of text without playing it. Provider
// failures and empty audio yield (nil, nil); a malformed payload is an
// error.
func (n *Narrator) Generate(ctx context.Context, text string) (*Result, error) {
	if n.cfg.Provider == nil {
		return nil, fmt.Errorf("narrator has no speech provider")
	}

	script := text
	if n.cfg.Summarizer != nil {
		summary, err := n.cfg.Summarizer.Summarize(ctx, text)
		if err != nil {
			log.Printf("Narration: summary failed: %v", err)
			return nil, nil
		}
		script = summary
	}

	payload, err := n.cfg.Provider.Synthesize(ctx, script)
	if err != nil {
		log.Printf("Narration: TTS failed: %v", err)
		return nil, nil
	}
	if payload == "" {
		log.Printf("Narration: provider returned no audio")
		return nil, nil
	}

	return n.build(script, payload)
}

// build decodes a base64 PCM payload into a Result
func (n *Narrator) build(script, payload string) (*Result, error) {
	raw, err := decode.Base64(payload)
	if err != nil {
		return nil, err
	}

	buf, err := decode.PCM(raw, n.allocator(), n.cfg.SampleRate, n.cfg.Channels)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:        uuid.New(),
		Text:      script,
		Buffer:    buf,
		Blob:      encode.WAV(raw, n.cfg.SampleRate, n.cfg.Channels),
		Duration:  buf.Duration(),
		CreatedAt: time.Now(),
	}

	n.mu.Lock()
	n.last = res
	n.mu.Unlock()

	log.Printf("Narration: generated %s (%v, %d bytes)", res.ID, res.Duration, res.Blob.Size())
	return res, nil
}

// allocator returns the gate's context when one is available
func (n *Narrator) allocator() decode.BufferAllocator {
	if n.cfg.Gate == nil {
		return nil
	}
	out, err := n.cfg.Gate.Context()
	if err != nil {
		return nil
	}
	return out
}

// Narrate generates a narration and starts playing it. A playback failure
// is logged; the generated Result is still returned.
func (n *Narrator) Narrate(ctx context.Context, text string) (*Result, error) {
	res, err := n.Generate(ctx, text)
	if err != nil || res == nil {
		return res, err
	}

	if err := n.Play(ctx, res); err != nil {
		log.Printf("Narration: playback failed: %v", err)
	}
	return res, nil
}

// Play starts res, stopping whatever narration was playing. A nil res
// replays the last generated narration.
func (n *Narrator) Play(ctx context.Context, res *Result) error {
	if n.cfg.Gate == nil {
		return ErrNoGate
	}

	n.mu.Lock()
	if res == nil {
		res = n.last
	}
	n.mu.Unlock()
	if res == nil {
		return ErrNothingToPlay
	}

	if !n.cfg.Gate.IsUnlocked() && !n.cfg.Gate.Unlock(ctx) {
		return ErrLocked
	}

	out, err := n.cfg.Gate.Context()
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopLocked()

	src, err := out.Start(res.Buffer, 1)
	if err != nil {
		return fmt.Errorf("failed to start narration: %w", err)
	}
	n.current = src
	return nil
}

// Toggle stops the narration if it is playing, otherwise replays the last
// one. It reports whether narration is playing afterwards.
func (n *Narrator) Toggle(ctx context.Context) (bool, error) {
	if n.IsPlaying() {
		return false, n.Stop()
	}
	if err := n.Play(ctx, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Stop stops the current narration
func (n *Narrator) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stopLocked()
}

func (n *Narrator) stopLocked() error {
	if n.current == nil {
		return nil
	}
	err := n.current.Stop()
	n.current = nil
	return err
}

// IsPlaying reports whether a narration is audible
func (n *Narrator) IsPlaying() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current != nil && n.current.IsPlaying()
}

// Last returns the most recent narration, or nil
func (n *Narrator) Last() *Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// Reset stops playback and forgets the last narration
func (n *Narrator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked()
	n.last = nil
}
