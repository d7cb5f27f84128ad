// ABOUTME: PCM audio decoder
// ABOUTME: Decodes interleaved 16-bit little-endian PCM into normalized buffers
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// BufferAllocator creates buffers owned by an audio context.
// output.Context satisfies it.
type BufferAllocator interface {
	NewBuffer(channels, frames, sampleRate int) *audio.Buffer
}

// PCM interprets data as tightly packed signed 16-bit little-endian samples
// interleaved by channel and returns a normalized buffer allocated through
// alloc (or a detached buffer when alloc is nil). data is never modified.
//
// Framing is strict: an odd byte count fails with ErrOddLength and a sample
// count that does not divide into whole frames fails with ErrPartialFrame.
func PCM(data []byte, alloc BufferAllocator, sampleRate, channels int) (*audio.Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChannels, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleRate, sampleRate)
	}
	if len(data)%audio.BytesPerSample16 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrOddLength, len(data))
	}

	totalSamples := len(data) / audio.BytesPerSample16
	if totalSamples%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d channels", ErrPartialFrame, totalSamples, channels)
	}
	frameCount := totalSamples / channels

	var buf *audio.Buffer
	if alloc != nil {
		buf = alloc.NewBuffer(channels, frameCount, sampleRate)
	} else {
		buf = audio.NewBuffer(channels, frameCount, sampleRate)
	}

	for ch := 0; ch < channels; ch++ {
		channelData := buf.ChannelData(ch)
		for i := 0; i < frameCount; i++ {
			offset := (i*channels + ch) * audio.BytesPerSample16
			sample := int16(binary.LittleEndian.Uint16(data[offset:]))
			channelData[i] = audio.SampleFromInt16(sample)
		}
	}

	return buf, nil
}

// PCMDecoder decodes raw PCM with a fixed layout
type PCMDecoder struct {
	sampleRate int
	channels   int
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (*PCMDecoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}
	return &PCMDecoder{
		sampleRate: format.SampleRate,
		channels:   format.Channels,
	}, nil
}

// Decode converts PCM bytes to a normalized buffer
func (d *PCMDecoder) Decode(data []byte) (*audio.Buffer, error) {
	return PCM(data, nil, d.sampleRate, d.channels)
}
