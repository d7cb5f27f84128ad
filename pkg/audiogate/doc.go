// ABOUTME: Audio output gate package
// ABOUTME: Owns the shared output context, gesture unlock and the pre-unlock SFX queue
// Package audiogate manages the single audio output context of the process.
//
// Audio output starts suspended. A Gate resumes it on the first user gesture
// ("unlock"), primes it with a one-frame silent buffer and then plays any
// sound effects requested before the unlock, oldest first. At most MaxQueue
// requests wait; when the queue is full the oldest request is dropped.
//
// Example:
//
//	gate := audiogate.New(audiogate.Config{})
//	gate.Init(bus)
//	played := gate.PlaySFX(ctx, "https://example.com/chime.mp3", audiogate.WithVolume(0.5))
package audiogate
