// ABOUTME: Text-to-speech provider errors
// ABOUTME: Error type carrying provider, code and whether a retry may help
package tts

import "fmt"

// Error is a failed provider call
type Error struct {
	Provider string
	Code     string
	Message  string
	Retry    bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}
