// ABOUTME: Audio decoder package for PCM payloads and container formats
// ABOUTME: Provides base64/PCM decoding and WAV, AIFF, MP3, FLAC, Opus, Vorbis decoders
// Package decode turns encoded audio into normalized audio.Buffer values.
//
// Two families of decoders live here:
//   - Raw payloads: Base64 and PCM turn a text-to-speech response (base64 of
//     signed 16-bit little-endian samples) into a playable buffer. Malformed
//     input is a broken upstream contract and is always reported as an error.
//   - Containers: Container sniffs a complete file (WAV, AIFF, MP3, FLAC, Ogg
//     Opus, Ogg Vorbis) and dispatches to the matching codec decoder.
//
// Example:
//
//	raw, err := decode.Base64(payload)
//	buf, err := decode.PCM(raw, nil, 24000, 1)
package decode
