// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC files frame by frame using mewkiz/flac
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// Decode converts FLAC bytes to a normalized buffer
func (FLACDecoder) Decode(data []byte) (*audio.Buffer, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)
	if channels < 1 || bitDepth < 1 {
		return nil, fmt.Errorf("invalid flac stream info: %d channels, %d bits", channels, bitDepth)
	}
	scale := float32(int64(1) << (bitDepth - 1))

	out := make([][]float32, channels)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame error: %w", err)
		}

		for ch, sub := range frame.Subframes {
			if ch >= channels {
				break
			}
			for _, s := range sub.Samples {
				out[ch] = append(out[ch], float32(s)/scale)
			}
		}
	}

	return &audio.Buffer{
		SampleRate: int(stream.Info.SampleRate),
		Data:       out,
	}, nil
}
