// ABOUTME: Sentinel errors for the decode package
// ABOUTME: Shared by the PCM, base64 and container decoders
package decode

import "errors"

var (
	ErrInvalidBase64     = errors.New("invalid base64 payload")
	ErrOddLength         = errors.New("pcm payload has an odd number of bytes")
	ErrPartialFrame      = errors.New("pcm sample count is not a multiple of the channel count")
	ErrInvalidChannels   = errors.New("channel count must be positive")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrUnknownContainer  = errors.New("unrecognized audio container")
	ErrEmptyContainer    = errors.New("audio container holds no samples")
)
