// ABOUTME: Control protocol message type definitions
// ABOUTME: JSON envelope and payloads exchanged over the /gate WebSocket
package control

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the version of the control protocol
const ProtocolVersion = 1

// Message types
const (
	TypeClientHello   = "client/hello"
	TypeServerHello   = "server/hello"
	TypeGesture       = "gesture"
	TypeSFX           = "sfx"
	TypeSFXResult     = "sfx/result"
	TypeNarrate       = "narrate"
	TypeNarrateResult = "narrate/result"
	TypeStatus        = "status"
	TypeError         = "error"
)

// Message is the top-level wrapper for all control messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ClientHello is sent by clients to open a session
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// ServerHello answers ClientHello
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
	Software string `json:"software,omitempty"`
}

// GestureRequest forwards a user interaction
type GestureRequest struct {
	Gesture string `json:"gesture"`
}

// SFXRequest asks for a sound effect
type SFXRequest struct {
	URL    string   `json:"url"`
	Volume *float64 `json:"volume,omitempty"`
}

// SFXResult reports whether the sound played immediately
type SFXResult struct {
	URL    string `json:"url"`
	Played bool   `json:"played"`
}

// NarrateRequest asks for a spoken narration of Text
type NarrateRequest struct {
	Text string `json:"text"`
}

// NarrateResult describes the generated narration; Available is false
// when the provider returned no audio
type NarrateResult struct {
	Available  bool   `json:"available"`
	ID         string `json:"id,omitempty"`
	Text       string `json:"text,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	Bytes      int    `json:"bytes,omitempty"`
	Download   string `json:"download,omitempty"`
	Playing    bool   `json:"playing"`
}

// Status is a snapshot of the audio state
type Status struct {
	Unlocked  bool   `json:"unlocked"`
	State     string `json:"state"`
	Pending   int    `json:"pending"`
	Narrating bool   `json:"narrating"`
}

// ErrorPayload reports a rejected request
type ErrorPayload struct {
	Message string `json:"message"`
}

// decodePayload re-decodes a generic payload into v
func decodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}
	return nil
}
