// ABOUTME: WAV container encoder
// ABOUTME: Builds a 44-byte RIFF/WAVE header in front of 16-bit PCM samples
package encode

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
)

const (
	// HeaderSize is the size of the canonical WAV header
	HeaderSize = 44

	// MediaTypeWAV is the media type of encoded blobs
	MediaTypeWAV = "audio/wav"

	wavBitsPerSample = 16
	wavFormatPCM     = 1
	wavFmtChunkSize  = 16
)

// Blob is an encoded audio file ready to be served or saved
type Blob struct {
	MediaType string
	Data      []byte
}

// WAV wraps 16-bit PCM samples in a RIFF/WAVE header. samples is copied
// verbatim after the header and is not inspected, so an odd length is
// accepted as-is.
func WAV(samples []byte, sampleRate, channels int) *Blob {
	data := make([]byte, HeaderSize+len(samples))

	blockAlign := channels * wavBitsPerSample / 8
	byteRate := sampleRate * blockAlign

	copy(data[0:4], "RIFF")
	binary.LittleEndian.PutUint32(data[4:8], uint32(36+len(samples)))
	copy(data[8:12], "WAVE")

	copy(data[12:16], "fmt ")
	binary.LittleEndian.PutUint32(data[16:20], wavFmtChunkSize)
	binary.LittleEndian.PutUint16(data[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(data[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(data[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(data[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(data[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(data[34:36], wavBitsPerSample)

	copy(data[36:40], "data")
	binary.LittleEndian.PutUint32(data[40:44], uint32(len(samples)))

	copy(data[HeaderSize:], samples)

	return &Blob{
		MediaType: MediaTypeWAV,
		Data:      data,
	}
}

// Size returns the total blob size in bytes
func (b *Blob) Size() int {
	return len(b.Data)
}

// Payload returns the bytes following the header
func (b *Blob) Payload() []byte {
	if len(b.Data) < HeaderSize {
		return nil
	}
	return b.Data[HeaderSize:]
}

// Reader returns a reader over the blob contents
func (b *Blob) Reader() *bytes.Reader {
	return bytes.NewReader(b.Data)
}

// WriteTo writes the blob to w
func (b *Blob) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Data)
	return int64(n), err
}

// Save writes the blob to a file at path
func (b *Blob) Save(path string) error {
	return os.WriteFile(path, b.Data, 0o644)
}
