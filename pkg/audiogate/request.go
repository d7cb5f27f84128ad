// ABOUTME: Playback request type and lifecycle states
// ABOUTME: A request moves Pending -> Attempted -> Played or Failed
package audiogate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestState is the lifecycle state of a playback request
type RequestState int

const (
	RequestPending RequestState = iota
	RequestAttempted
	RequestPlayed
	RequestFailed
	RequestDropped
)

func (s RequestState) String() string {
	switch s {
	case RequestPending:
		return "pending"
	case RequestAttempted:
		return "attempted"
	case RequestPlayed:
		return "played"
	case RequestFailed:
		return "failed"
	case RequestDropped:
		return "dropped"
	default:
		return fmt.Sprintf("RequestState(%d)", int(s))
	}
}

// Request is one sound effect playback request
type Request struct {
	ID       uuid.UUID
	URL      string
	Volume   float64
	State    RequestState
	Enqueued time.Time
	Err      error
}

func newRequest(url string, volume float64) *Request {
	return &Request{
		ID:       uuid.New(),
		URL:      url,
		Volume:   volume,
		State:    RequestPending,
		Enqueued: time.Now(),
	}
}

// SFXOption configures a PlaySFX call
type SFXOption func(*sfxOptions)

type sfxOptions struct {
	volume float64
}

// WithVolume sets the gain applied to the sound. 1 is unchanged; values
// above 1 are allowed and amplify.
func WithVolume(volume float64) SFXOption {
	return func(o *sfxOptions) {
		if volume < 0 {
			volume = 0
		}
		o.volume = volume
	}
}
