// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to normalized buffers using go-mp3
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// mp3Channels is fixed: go-mp3 always emits interleaved stereo
const mp3Channels = 2

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// Decode converts MP3 bytes to a normalized buffer
func (MP3Decoder) Decode(data []byte) (*audio.Buffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	// Drop a trailing partial frame left by a truncated stream
	frameBytes := mp3Channels * audio.BytesPerSample16
	pcm = pcm[:len(pcm)/frameBytes*frameBytes]

	return PCM(pcm, nil, decoder.SampleRate(), mp3Channels)
}
