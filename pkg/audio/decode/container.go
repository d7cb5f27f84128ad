// ABOUTME: Container sniffing and dispatch
// ABOUTME: Detects the file format from magic bytes and decodes it
package decode

import (
	"bytes"
	"fmt"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// sniffWindow bounds how far into an Ogg stream codec headers are searched
const sniffWindow = 512

// Sniff reports the codec of an encoded file from its leading bytes, or ""
// when the format is not recognized
func Sniff(data []byte) string {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return CodecWAV
	case len(data) >= 12 && string(data[0:4]) == "FORM" && (string(data[8:12]) == "AIFF" || string(data[8:12]) == "AIFC"):
		return CodecAIFF
	case bytes.HasPrefix(data, []byte("fLaC")):
		return CodecFLAC
	case bytes.HasPrefix(data, []byte("OggS")):
		head := data[:min(len(data), sniffWindow)]
		if bytes.Contains(head, []byte("OpusHead")) {
			return CodecOpus
		}
		if bytes.Contains(head, []byte("\x01vorbis")) {
			return CodecVorbis
		}
		return ""
	case bytes.HasPrefix(data, []byte("ID3")):
		return CodecMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return CodecMP3
	default:
		return ""
	}
}

// Container decodes a complete audio file of any supported format
func Container(data []byte) (*audio.Buffer, error) {
	codec := Sniff(data)
	if codec == "" {
		return nil, ErrUnknownContainer
	}

	decoder, err := NewDecoder(codec)
	if err != nil {
		return nil, err
	}

	buf, err := decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s decode failed: %w", codec, err)
	}
	if buf.Length() == 0 {
		return nil, fmt.Errorf("%s: %w", codec, ErrEmptyContainer)
	}
	return buf, nil
}
