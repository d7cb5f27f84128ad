// ABOUTME: Audio encoder package for packaging PCM as downloadable files
// ABOUTME: Provides the WAV blob encoder and float-to-int16 PCM conversion
// Package encode packages raw PCM for storage and playback elsewhere.
//
// WAV produces a canonical 44-byte RIFF/WAVE header followed by the PCM
// payload copied verbatim. PCM16 converts a normalized buffer back to
// interleaved 16-bit little-endian bytes.
//
// Example:
//
//	blob := encode.WAV(pcm, 24000, 1)
//	_, err := blob.WriteTo(file)
package encode
