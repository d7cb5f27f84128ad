// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, normalized buffers and sample conversions
package audio

import "time"

const (
	// Int16Scale is the divisor used to normalize signed 16-bit samples
	Int16Scale = 32768.0

	// BytesPerSample16 is the size of one 16-bit PCM sample
	BytesPerSample16 = 2
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer represents decoded, normalized audio. Data holds one slice per
// channel, every slice Length() frames long.
type Buffer struct {
	SampleRate int
	Data       [][]float32
}

// NewBuffer allocates a silent buffer of the given shape
func NewBuffer(channels, frames, sampleRate int) *Buffer {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}
	return &Buffer{
		SampleRate: sampleRate,
		Data:       data,
	}
}

// NumberOfChannels returns the channel count
func (b *Buffer) NumberOfChannels() int {
	return len(b.Data)
}

// Length returns the number of frames
func (b *Buffer) Length() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// ChannelData returns the samples of one channel
func (b *Buffer) ChannelData(channel int) []float32 {
	return b.Data[channel]
}

// Duration returns the playback length at the buffer's sample rate
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Length()) * time.Second / time.Duration(b.SampleRate)
}

// Format returns the buffer format as 16-bit PCM
func (b *Buffer) Format() Format {
	return Format{
		Codec:      "pcm",
		SampleRate: b.SampleRate,
		Channels:   b.NumberOfChannels(),
		BitDepth:   16,
	}
}

// SampleFromInt16 converts a signed 16-bit sample to a normalized float
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / Int16Scale
}

// SampleToInt16 converts a normalized float back to 16-bit, clipping
// anything outside the representable range
func SampleToInt16(sample float32) int16 {
	scaled := float64(sample) * Int16Scale
	if scaled >= 32767 {
		return 32767
	}
	if scaled <= -32768 {
		return -32768
	}
	return int16(scaled)
}

// Interleave flattens the buffer into frame-major order
// (frame*channels + channel)
func (b *Buffer) Interleave() []float32 {
	channels := b.NumberOfChannels()
	frames := b.Length()
	out := make([]float32, frames*channels)
	for ch, data := range b.Data {
		for i, s := range data {
			out[i*channels+ch] = s
		}
	}
	return out
}

// FromInterleaved builds a buffer from frame-major samples. A trailing
// partial frame is dropped.
func FromInterleaved(samples []float32, channels, sampleRate int) *Buffer {
	if channels <= 0 {
		return NewBuffer(0, 0, sampleRate)
	}
	frames := len(samples) / channels
	buf := NewBuffer(channels, frames, sampleRate)
	for ch := 0; ch < channels; ch++ {
		data := buf.Data[ch]
		for i := 0; i < frames; i++ {
			data[i] = samples[i*channels+ch]
		}
	}
	return buf
}
