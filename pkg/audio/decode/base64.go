// ABOUTME: Base64 payload decoding
// ABOUTME: Decodes the standard-alphabet base64 text returned by TTS providers
package decode

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Base64 decodes standard base64 text into raw bytes. Surrounding
// whitespace is ignored; anything else that is not valid base64 fails.
func Base64(text string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return data, nil
}
