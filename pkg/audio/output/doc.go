// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides the Context interface with oto and null backends
// Package output provides the process audio output context.
//
// A Context starts suspended and plays nothing until Resume is called,
// mirroring platforms that only allow sound after a user gesture. Buffers
// started on a Context are resampled and remixed to the device format.
//
// Backends:
//   - "oto": the system audio device via github.com/ebitengine/oto/v3
//   - "null": a software clock with no device, for tests and headless hosts
//
// Example:
//
//	ctx, err := output.Open(output.Config{})
//	err = ctx.Resume(context.Background())
//	src, err := ctx.Start(buf, 1.0)
package output
