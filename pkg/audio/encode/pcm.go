// ABOUTME: PCM audio encoder
// ABOUTME: Encodes normalized buffers to interleaved 16-bit PCM bytes
package encode

import (
	"encoding/binary"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
)

// PCM16 encodes buf as interleaved signed 16-bit little-endian samples,
// scaling each sample by gain and clipping to the int16 range
func PCM16(buf *audio.Buffer, gain float32) []byte {
	channels := buf.NumberOfChannels()
	frames := buf.Length()

	output := make([]byte, frames*channels*audio.BytesPerSample16)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			sample := audio.SampleToInt16(buf.Data[ch][i] * gain)
			binary.LittleEndian.PutUint16(output[(i*channels+ch)*audio.BytesPerSample16:], uint16(sample))
		}
	}
	return output
}
