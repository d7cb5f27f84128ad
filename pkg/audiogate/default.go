// ABOUTME: Process-wide default gate
// ABOUTME: Created once on first use and never torn down
package audiogate

import "sync"

var (
	defaultOnce sync.Once
	defaultGate *Gate
)

// Default returns the process-wide gate using the default output backend
func Default() *Gate {
	defaultOnce.Do(func() {
		defaultGate = New(Config{})
	})
	return defaultGate
}
