// ABOUTME: Shared master volume state for output backends
// ABOUTME: Converts buffers to device-format PCM with software volume control
package output

import (
	"log"
	"sync"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
	"github.com/lotsdraw/fortune-audio/pkg/audio/encode"
	"github.com/lotsdraw/fortune-audio/pkg/audio/resample"
)

// mixer holds master volume and mute, shared by every backend
type mixer struct {
	mu     sync.RWMutex
	volume int
	muted  bool
}

// SetVolume sets the volume (0-100)
func (m *mixer) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	m.mu.Lock()
	m.volume = volume
	m.mu.Unlock()
	log.Printf("Volume set to %d", volume)
}

// Volume returns current volume
func (m *mixer) Volume() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// SetMuted sets mute state
func (m *mixer) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
	log.Printf("Muted: %v", muted)
}

// IsMuted returns mute state
func (m *mixer) IsMuted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// multiplier combines a per-source gain with the master volume
func (m *mixer) multiplier(gain float32) float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return gain * getVolumeMultiplier(m.volume, m.muted)
}

// render converts buf to the device format as 16-bit PCM bytes
func (m *mixer) render(buf *audio.Buffer, sampleRate, channels int, gain float32) []byte {
	buf = resample.Convert(buf, sampleRate)
	buf = resample.Remix(buf, channels)
	return encode.PCM16(buf, m.multiplier(gain))
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float32 {
	if muted {
		return 0.0
	}
	return float32(volume) / 100.0
}
