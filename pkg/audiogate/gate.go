// ABOUTME: Audio output gate implementation
// ABOUTME: Lazily opens the output context, unlocks it on gesture and plays or queues SFX
package audiogate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
	"github.com/lotsdraw/fortune-audio/pkg/audio/decode"
	"github.com/lotsdraw/fortune-audio/pkg/audio/output"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMaxQueue is the number of requests held while locked
	DefaultMaxQueue = 5

	// warmupSampleRate is the rate of the one-frame priming buffer
	warmupSampleRate = 22050
)

var errNoActivation = errors.New("no recent user gesture")

// Config configures a Gate
type Config struct {
	// Open creates the output context. Called at most once.
	Open func() (output.Context, error)

	// Fetcher loads sound effects (default HTTPFetcher)
	Fetcher Fetcher

	// Decode turns a fetched file into a buffer (default decode.Container)
	Decode func(data []byte) (*audio.Buffer, error)

	// MaxQueue bounds the pre-unlock queue (default 5)
	MaxQueue int

	// OnAttempt observes every request once it has played or failed
	OnAttempt func(Request)

	// Activation and ActivationWindow, when both set, only allow an unlock
	// within ActivationWindow of the last user gesture
	Activation       ActivationSource
	ActivationWindow time.Duration
}

// Status is a snapshot of the gate
type Status struct {
	Unlocked bool
	State    string
	Pending  int
}

// Gate owns the output context and the pre-unlock request queue
type Gate struct {
	cfg Config

	ctxOnce  sync.Once
	out      output.Context
	outErr   error
	ctxReady atomic.Bool

	mu       sync.Mutex
	unlocked bool
	queue    []*Request

	inflight singleflight.Group
	tasks    sync.WaitGroup
}

// New creates a gate. The output context is not opened until needed.
func New(cfg Config) *Gate {
	if cfg.Open == nil {
		cfg.Open = func() (output.Context, error) {
			return output.Open(output.Config{})
		}
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = HTTPFetcher{}
	}
	if cfg.Decode == nil {
		cfg.Decode = decode.Container
	}
	if cfg.MaxQueue <= 0 {
		cfg.MaxQueue = DefaultMaxQueue
	}
	return &Gate{cfg: cfg}
}

// Context returns the output context, opening it on first use. Every call
// returns the same instance; an open failure is returned on every call.
func (g *Gate) Context() (output.Context, error) {
	g.ctxOnce.Do(func() {
		out, err := g.cfg.Open()
		if err != nil {
			g.outErr = fmt.Errorf("failed to open audio output: %w", err)
			log.Printf("AudioGate: %v", g.outErr)
			return
		}
		g.out = out
		g.ctxReady.Store(true)
	})
	return g.out, g.outErr
}

// Init registers one-shot listeners on src so the first click, touch or
// key press starts an unlock. Call it once at startup.
func (g *Gate) Init(src GestureSource) {
	if g.cfg.Activation == nil {
		if as, ok := src.(ActivationSource); ok {
			g.cfg.Activation = as
		}
	}

	tryUnlock := func() {
		if !g.IsUnlocked() {
			g.unlockDetached()
		}
	}
	for _, kind := range []GestureKind{GestureClick, GestureTouchEnd, GestureKeyDown} {
		src.Once(kind, tryUnlock)
	}
}

// Unlock resumes the output context, primes it with a silent frame and
// plays every queued request in order. It reports false, leaving the gate
// locked and the queue untouched, when resume or priming fails. Concurrent
// calls share a single attempt.
func (g *Gate) Unlock(ctx context.Context) bool {
	v, _, _ := g.inflight.Do("unlock", func() (interface{}, error) {
		return g.unlock(ctx), nil
	})
	return v.(bool)
}

func (g *Gate) unlock(ctx context.Context) bool {
	if g.IsUnlocked() {
		return true
	}

	out, err := g.Context()
	if err != nil {
		log.Printf("AudioGate: Unlock failed: %v", err)
		return false
	}

	if err := g.checkActivation(); err != nil {
		log.Printf("AudioGate: Unlock failed: %v", err)
		return false
	}

	if out.State() == output.StateSuspended {
		if err := out.Resume(ctx); err != nil {
			log.Printf("AudioGate: Unlock failed: resume: %v", err)
			return false
		}
	}

	warmup := out.NewBuffer(1, 1, warmupSampleRate)
	if _, err := out.Start(warmup, 1); err != nil {
		log.Printf("AudioGate: Unlock failed: warm-up: %v", err)
		return false
	}

	g.mu.Lock()
	g.unlocked = true
	pending := g.queue
	g.queue = nil
	g.mu.Unlock()

	if len(pending) > 0 {
		log.Printf("AudioGate: unlocked, playing %d queued request(s)", len(pending))
	}
	for _, req := range pending {
		g.attempt(ctx, out, req)
	}
	return true
}

func (g *Gate) checkActivation() error {
	if g.cfg.Activation == nil || g.cfg.ActivationWindow <= 0 {
		return nil
	}
	last := g.cfg.Activation.LastGesture()
	if last.IsZero() || time.Since(last) > g.cfg.ActivationWindow {
		return errNoActivation
	}
	return nil
}

// unlockDetached runs Unlock in the background; Wait observes completion
func (g *Gate) unlockDetached() {
	g.tasks.Add(1)
	go func() {
		defer g.tasks.Done()
		if !g.Unlock(context.Background()) {
			log.Printf("AudioGate: background unlock did not complete")
		}
	}()
}

// IsUnlocked reports whether the unlock handshake has succeeded and the
// context is running right now. It never opens the context.
func (g *Gate) IsUnlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isUnlockedLocked()
}

func (g *Gate) isUnlockedLocked() bool {
	if !g.unlocked || !g.ctxReady.Load() {
		return false
	}
	return g.out.State() == output.StateRunning
}

// PlaySFX plays the sound at url. While locked the request is queued, an
// unlock is started in the background and PlaySFX returns false. Once
// unlocked the sound is fetched, decoded and started; any failure is
// logged and reported as false.
func (g *Gate) PlaySFX(ctx context.Context, url string, opts ...SFXOption) bool {
	o := sfxOptions{volume: 1}
	for _, opt := range opts {
		opt(&o)
	}
	req := newRequest(url, o.volume)

	g.mu.Lock()
	if !g.isUnlockedLocked() {
		g.enqueueLocked(req)
		g.mu.Unlock()
		g.unlockDetached()
		return false
	}
	out := g.out
	g.mu.Unlock()

	return g.attempt(ctx, out, req)
}

// enqueueLocked appends req, dropping the oldest request when full
func (g *Gate) enqueueLocked(req *Request) {
	if len(g.queue) >= g.cfg.MaxQueue {
		dropped := g.queue[0]
		dropped.State = RequestDropped
		g.queue = g.queue[1:]
		log.Printf("AudioGate: queue full, dropping oldest request %s (%s)", dropped.ID, dropped.URL)
	}
	g.queue = append(g.queue, req)
}

// attempt fetches, decodes and starts req exactly once
func (g *Gate) attempt(ctx context.Context, out output.Context, req *Request) bool {
	req.State = RequestAttempted

	err := g.play(ctx, out, req)
	if err != nil {
		req.State = RequestFailed
		req.Err = err
		log.Printf("AudioGate: Failed to play SFX (%s): %v", req.URL, err)
	} else {
		req.State = RequestPlayed
	}

	if g.cfg.OnAttempt != nil {
		g.cfg.OnAttempt(*req)
	}
	return err == nil
}

func (g *Gate) play(ctx context.Context, out output.Context, req *Request) error {
	data, err := g.cfg.Fetcher.Load(ctx, req.URL)
	if err != nil {
		return err
	}

	buf, err := g.cfg.Decode(data)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if _, err := out.Start(buf, float32(req.Volume)); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}
	return nil
}

// Suspend pauses the output context, for example when the app loses
// focus. The gate reports locked until the context runs again.
func (g *Gate) Suspend() error {
	if !g.ctxReady.Load() {
		return nil
	}
	return g.out.Suspend()
}

// Pending returns a copy of the queued requests, oldest first
func (g *Gate) Pending() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Request, len(g.queue))
	for i, req := range g.queue {
		out[i] = *req
	}
	return out
}

// Status returns a snapshot of the gate without opening the context
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := "uninitialized"
	if g.ctxReady.Load() {
		state = g.out.State().String()
	}
	return Status{
		Unlocked: g.isUnlockedLocked(),
		State:    state,
		Pending:  len(g.queue),
	}
}

// Wait blocks until every background unlock started so far has finished
func (g *Gate) Wait() {
	g.tasks.Wait()
}
