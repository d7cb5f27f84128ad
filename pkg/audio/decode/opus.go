// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Decodes Ogg-encapsulated Opus files using hraban/opus
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

const (
	// opusSampleRate is the rate opusfile always decodes at
	opusSampleRate = 48000

	// opusMaxFrame is the largest Opus frame (120ms at 48kHz) per channel
	opusMaxFrame = 5760
)

// OpusDecoder decodes Ogg Opus audio
type OpusDecoder struct{}

// Decode converts Ogg Opus bytes to a normalized buffer
func (OpusDecoder) Decode(data []byte) (*audio.Buffer, error) {
	channels, err := opusHeadChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create opus stream: %w", err)
	}
	defer stream.Close()

	pcm := make([]float32, opusMaxFrame*channels)
	var interleaved []float32
	for {
		n, err := stream.ReadFloat32(pcm)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		interleaved = append(interleaved, pcm[:n*channels]...)
	}

	return audio.FromInterleaved(interleaved, channels, opusSampleRate), nil
}

// opusHeadChannels reads the channel count from the OpusHead packet
// ("OpusHead", version byte, channel count byte)
func opusHeadChannels(data []byte) (int, error) {
	idx := bytes.Index(data[:min(len(data), sniffWindow)], []byte("OpusHead"))
	if idx < 0 || idx+9 >= len(data) {
		return 0, fmt.Errorf("opus header not found")
	}
	channels := int(data[idx+9])
	if channels < 1 {
		return 0, fmt.Errorf("%w: opus header declares %d", ErrInvalidChannels, channels)
	}
	return channels, nil
}
