// ABOUTME: Oto-based audio output implementation
// ABOUTME: Wraps the single process-wide oto context with suspend/resume and one-shot sources
package output

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// otoPollInterval is how often a source checks whether its player drained
const otoPollInterval = 20 * time.Millisecond

var (
	otoOnce   sync.Once
	otoShared *Oto
	otoErr    error
)

// Oto output implementation using oto library
type Oto struct {
	mixer

	otoCtx     *oto.Context
	sampleRate int
	channels   int

	stateMu sync.Mutex
	state   State
}

// openOto returns the process-wide oto output. oto allows one context per
// process, so later calls reuse the first one whatever format they ask for.
func openOto(cfg Config) (Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   cfg.SampleRate,
			ChannelCount: cfg.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   cfg.BufferSize,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-readyChan

		// Stay silent until the first user gesture resumes the device
		if err := ctx.Suspend(); err != nil {
			log.Printf("Audio output: initial suspend failed: %v", err)
		}

		otoShared = &Oto{
			mixer:      mixer{volume: 100},
			otoCtx:     ctx,
			sampleRate: cfg.SampleRate,
			channels:   cfg.Channels,
			state:      StateSuspended,
		}
	})

	if otoErr != nil {
		return nil, otoErr
	}

	if otoShared.sampleRate != cfg.SampleRate || otoShared.channels != cfg.Channels {
		log.Printf("Warning: format change requested (%dHz %dch -> %dHz %dch) but oto doesn't support reinitialization. Continuing with existing context.",
			otoShared.sampleRate, otoShared.channels, cfg.SampleRate, cfg.Channels)
	}
	return otoShared, nil
}

// State returns the device state
func (o *Oto) State() State {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	return o.state
}

// Resume starts the device
func (o *Oto) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.stateMu.Lock()
	defer o.stateMu.Unlock()

	switch o.state {
	case StateClosed:
		return ErrClosed
	case StateRunning:
		return nil
	}

	if err := o.otoCtx.Resume(); err != nil {
		return fmt.Errorf("oto resume failed: %w", err)
	}
	if err := o.otoCtx.Err(); err != nil {
		return fmt.Errorf("oto device error: %w", err)
	}
	o.state = StateRunning
	return nil
}

// Suspend pauses the device
func (o *Oto) Suspend() error {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()

	if o.state != StateRunning {
		return nil
	}
	if err := o.otoCtx.Suspend(); err != nil {
		return fmt.Errorf("oto suspend failed: %w", err)
	}
	o.state = StateSuspended
	return nil
}

// SampleRate returns the device sample rate
func (o *Oto) SampleRate() int { return o.sampleRate }

// Channels returns the device channel count
func (o *Oto) Channels() int { return o.channels }

// NewBuffer allocates a silent buffer
func (o *Oto) NewBuffer(channels, frames, sampleRate int) *audio.Buffer {
	return audio.NewBuffer(channels, frames, sampleRate)
}

// Start plays buf once through a dedicated oto player
func (o *Oto) Start(buf *audio.Buffer, gain float32) (Source, error) {
	if o.State() == StateClosed {
		return nil, ErrClosed
	}

	data := o.render(buf, o.sampleRate, o.channels, gain)

	player := o.otoCtx.NewPlayer(bytes.NewReader(data))
	player.Play()

	src := &otoSource{
		player: player,
		done:   make(chan struct{}),
	}
	go src.reap()
	return src, nil
}

// otoSource is one oto player reading a fixed PCM payload
type otoSource struct {
	player    *oto.Player
	done      chan struct{}
	closeOnce sync.Once
}

// reap releases the player once it has drained
func (s *otoSource) reap() {
	ticker := time.NewTicker(otoPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if !s.player.IsPlaying() {
				s.release()
				return
			}
		}
	}
}

func (s *otoSource) release() {
	s.closeOnce.Do(func() {
		if err := s.player.Close(); err != nil {
			log.Printf("Audio output: player close failed: %v", err)
		}
		close(s.done)
	})
}

// Stop halts playback
func (s *otoSource) Stop() error {
	s.player.Pause()
	s.release()
	return nil
}

// IsPlaying reports whether the source is still audible
func (s *otoSource) IsPlaying() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Done is closed when the source finishes or is stopped
func (s *otoSource) Done() <-chan struct{} {
	return s.done
}
