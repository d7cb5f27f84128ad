// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all container decoders plus codec lookup
package decode

import (
	"fmt"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// Codec names understood by NewDecoder
const (
	CodecWAV    = "wav"
	CodecAIFF   = "aiff"
	CodecMP3    = "mp3"
	CodecFLAC   = "flac"
	CodecOpus   = "opus"
	CodecVorbis = "vorbis"
)

// Decoder decodes a complete encoded file into a normalized buffer
type Decoder interface {
	Decode(data []byte) (*audio.Buffer, error)
}

// NewDecoder returns the container decoder for codec
func NewDecoder(codec string) (Decoder, error) {
	switch codec {
	case CodecWAV:
		return WAVDecoder{}, nil
	case CodecAIFF:
		return AIFFDecoder{}, nil
	case CodecMP3:
		return MP3Decoder{}, nil
	case CodecFLAC:
		return FLACDecoder{}, nil
	case CodecOpus:
		return OpusDecoder{}, nil
	case CodecVorbis:
		return VorbisDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported codec: %s", codec)
	}
}
