// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides the fundamental audio types shared by the codec,
// output and gate packages.
//
// This package defines:
//   - Format: Describes an audio stream (codec, sample rate, channels, bit depth)
//   - Buffer: Normalized floating point audio, one sample slice per channel
//
// Samples are normalized by linear rescaling of signed 16-bit integers, so
// -32768 maps to -1.0 and 32767 maps to just under 1.0.
//
// Example:
//
//	buf := audio.NewBuffer(1, 24000, 24000) // one second of mono silence
//	buf.ChannelData(0)[0] = audio.SampleFromInt16(-32768) // -1.0
package audio
