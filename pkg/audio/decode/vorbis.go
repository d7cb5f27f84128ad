// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes Ogg Vorbis files using jfreymuth/oggvorbis
package decode

import (
	"bytes"
	"fmt"

	"github.com/jfreymuth/oggvorbis"
	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// VorbisDecoder decodes Ogg Vorbis audio
type VorbisDecoder struct{}

// Decode converts Ogg Vorbis bytes to a normalized buffer
func (VorbisDecoder) Decode(data []byte) (*audio.Buffer, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vorbis decode failed: %w", err)
	}
	if format.Channels < 1 {
		return nil, fmt.Errorf("%w: vorbis stream declares %d", ErrInvalidChannels, format.Channels)
	}
	return audio.FromInterleaved(samples, format.Channels, format.SampleRate), nil
}
