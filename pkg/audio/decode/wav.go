// ABOUTME: WAV and AIFF container decoders
// ABOUTME: Decodes integer PCM RIFF/WAVE and AIFF files using go-audio
package decode

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag
const wavFormatPCM = 1

var (
	errNotWAV  = errors.New("not a valid WAV file")
	errNotAIFF = errors.New("not a valid AIFF file")
)

// WAVDecoder decodes RIFF/WAVE audio
type WAVDecoder struct{}

// Decode converts WAV bytes to a normalized buffer
func (WAVDecoder) Decode(data []byte) (*audio.Buffer, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, errNotWAV
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("unsupported wav format tag: %d (supported: 1)", d.WavAudioFormat)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav samples: %w", err)
	}

	// 8-bit WAV is unsigned
	return fromIntBuffer(pcm, int(d.BitDepth), d.BitDepth == 8)
}

// AIFFDecoder decodes AIFF audio
type AIFFDecoder struct{}

// Decode converts AIFF bytes to a normalized buffer
func (AIFFDecoder) Decode(data []byte) (*audio.Buffer, error) {
	d := aiff.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, errNotAIFF
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read aiff samples: %w", err)
	}

	return fromIntBuffer(pcm, int(d.BitDepth), false)
}

// fromIntBuffer normalizes a go-audio integer buffer by its bit depth
func fromIntBuffer(pcm *goaudio.IntBuffer, bitDepth int, unsigned bool) (*audio.Buffer, error) {
	if pcm.Format == nil || pcm.Format.NumChannels < 1 {
		return nil, ErrInvalidChannels
	}
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	scale := float32(int64(1) << (bitDepth - 1))
	offset := 0
	if unsigned {
		offset = 1 << (bitDepth - 1)
	}

	samples := make([]float32, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = float32(v-offset) / scale
	}

	return audio.FromInterleaved(samples, pcm.Format.NumChannels, pcm.Format.SampleRate), nil
}
