// ABOUTME: Main application orchestration
// ABOUTME: Wires config, audio gate, narration, control server and UI together
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lotsdraw/fortune-audio/internal/assets"
	"github.com/lotsdraw/fortune-audio/internal/config"
	"github.com/lotsdraw/fortune-audio/internal/control"
	"github.com/lotsdraw/fortune-audio/internal/tts"
	"github.com/lotsdraw/fortune-audio/internal/ui"
	"github.com/lotsdraw/fortune-audio/pkg/audio/output"
	"github.com/lotsdraw/fortune-audio/pkg/audiogate"
	"github.com/lotsdraw/fortune-audio/pkg/narration"
	"golang.org/x/sync/errgroup"
)

// DownloadPrefix names saved narrations
const DownloadPrefix = "master_voice"

var (
	ErrNarrationDisabled = errors.New("narration disabled: no TTS API key")
	ErrNoNarration       = errors.New("no narration to save")
	ErrUnknownSound      = errors.New("unknown sound")
)

// Config holds application configuration
type Config struct {
	Settings *config.Config

	// Text is what the UI narrates on n
	Text string

	// DownloadDir receives saved narrations (default: working directory)
	DownloadDir string

	// TUI runs the interactive terminal UI; without it Run waits for ctx
	TUI bool

	// Speech overrides the configured TTS provider
	Speech narration.Synthesizer
}

// App owns every long-lived component
type App struct {
	config   Config
	settings *config.Config

	bus      *audiogate.Bus
	gate     *audiogate.Gate
	loader   *assets.Loader
	narrator *narration.Narrator
	control  *control.Server

	tasks sync.WaitGroup
}

// New creates the application without touching the audio device
func New(cfg Config) (*App, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loader, err := assets.NewLoader(settings.Assets.CacheDir)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   cfg,
		settings: settings,
		bus:      audiogate.NewBus(),
		loader:   loader,
	}

	outCfg := output.Config{
		Backends:   settings.Output.Backends,
		SampleRate: settings.Output.SampleRate,
		Channels:   settings.Output.Channels,
		BufferSize: settings.Output.BufferSize(),
	}
	a.gate = audiogate.New(audiogate.Config{
		Open: func() (output.Context, error) {
			return output.Open(outCfg)
		},
		Fetcher:          loader,
		MaxQueue:         settings.Gate.MaxQueue,
		Activation:       a.bus,
		ActivationWindow: time.Duration(settings.Gate.ActivationWindow) * time.Millisecond,
		OnAttempt: func(req audiogate.Request) {
			log.Printf("SFX %s: %s", req.State, req.URL)
		},
	})
	a.gate.Init(a.bus)

	a.narrator = a.newNarrator()

	if settings.Control.Enabled {
		a.control, err = control.NewServer(control.Config{
			Port:       settings.Control.Port,
			Name:       settings.Control.Name,
			Gate:       a.gate,
			Bus:        a.bus,
			Narrator:   a.narrator,
			EnableMDNS: settings.Control.MDNS,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create control server: %w", err)
		}
	}

	return a, nil
}

func (a *App) newNarrator() *narration.Narrator {
	ncfg := narration.Config{
		Provider:   a.config.Speech,
		Gate:       a.gate,
		SampleRate: tts.SampleRate,
		Channels:   tts.Channels,
	}

	if ncfg.Provider == nil {
		t := a.settings.TTS
		if !t.Enabled() {
			log.Printf("Narration disabled: set %s or tts.api_key", config.APIKeyEnv)
			return nil
		}
		gemini := tts.NewGemini(tts.Config{
			APIKey:       t.APIKey,
			BaseURL:      t.BaseURL,
			Model:        t.Model,
			TextModel:    t.TextModel,
			Voice:        t.Voice,
			FallbackText: t.FallbackText,
			Timeout:      time.Duration(t.Timeout) * time.Second,
			RetryCount:   t.MaxRetries,
		})
		ncfg.Provider = gemini
		if t.Summarize {
			ncfg.Summarizer = gemini
		}
	}

	return narration.New(ncfg)
}

// Gate returns the audio gate
func (a *App) Gate() *audiogate.Gate {
	return a.gate
}

// Run serves the control server and the UI until ctx is done or the user
// quits, then shuts everything down
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if a.control != nil {
		g.Go(func() error {
			if err := a.control.Start(); err != nil {
				return fmt.Errorf("control server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			a.control.Stop()
			return nil
		})
	}

	if a.config.TUI {
		g.Go(func() error {
			defer cancel()
			return ui.Run(a, a.settings.SoundNames(), a.config.Text)
		})
	} else {
		g.Go(func() error {
			<-ctx.Done()
			return nil
		})
	}

	err := g.Wait()
	a.Close()
	return err
}

// Close stops narration and waits for background work
func (a *App) Close() {
	if a.narrator != nil {
		a.narrator.Reset()
	}
	a.tasks.Wait()
	a.gate.Wait()
	if a.settings.Assets.ClearOnExit {
		if err := a.loader.Cleanup(); err != nil {
			log.Printf("Failed to clean sound cache: %v", err)
		}
	}
}

// Gesture records a user interaction. After the first gesture of each kind
// the gate has no listeners left, so a locked gate is unlocked directly.
func (a *App) Gesture(kind audiogate.GestureKind) {
	if a.bus.Emit(kind) > 0 || a.gate.IsUnlocked() {
		return
	}
	a.tasks.Add(1)
	go func() {
		defer a.tasks.Done()
		a.gate.Unlock(context.Background())
	}()
}

// Background suspends output while the app is not in front
func (a *App) Background() {
	if err := a.gate.Suspend(); err != nil {
		log.Printf("Failed to suspend audio: %v", err)
	}
}

// PlaySound plays a catalog sound by name
func (a *App) PlaySound(ctx context.Context, name string) bool {
	location, ok := a.settings.Sounds[name]
	if !ok {
		log.Printf("%v: %s", ErrUnknownSound, name)
		return false
	}
	return a.gate.PlaySFX(ctx, location)
}

// Narrate generates and plays a narration of text
func (a *App) Narrate(ctx context.Context, text string) (*narration.Result, error) {
	if a.narrator == nil {
		return nil, ErrNarrationDisabled
	}
	return a.narrator.Narrate(ctx, text)
}

// ToggleNarration stops or replays the last narration
func (a *App) ToggleNarration(ctx context.Context) (bool, error) {
	if a.narrator == nil {
		return false, ErrNarrationDisabled
	}
	return a.narrator.Toggle(ctx)
}

// SaveNarration writes the last narration into the download directory
func (a *App) SaveNarration() (string, error) {
	if a.narrator == nil {
		return "", ErrNarrationDisabled
	}
	res := a.narrator.Last()
	if res == nil {
		return "", ErrNoNarration
	}

	dir := a.config.DownloadDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to resolve download directory: %w", err)
		}
		dir = wd
	}

	path := filepath.Join(dir, narration.DownloadName(DownloadPrefix, res.CreatedAt))
	if err := res.SaveWAV(path); err != nil {
		return "", err
	}
	log.Printf("Saved narration to %s", path)
	return path, nil
}

// Status returns the gate status
func (a *App) Status() audiogate.Status {
	return a.gate.Status()
}

// Speaking reports whether a narration is playing
func (a *App) Speaking() bool {
	return a.narrator != nil && a.narrator.IsPlaying()
}

var _ ui.Controller = (*App)(nil)
