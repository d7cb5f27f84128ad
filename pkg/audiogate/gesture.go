// ABOUTME: User gesture signals that may unlock audio output
// ABOUTME: Provides the GestureSource interface and an in-process Bus implementation
package audiogate

import (
	"fmt"
	"sync"
	"time"
)

// GestureKind identifies a user interaction
type GestureKind int

const (
	GestureClick GestureKind = iota
	GestureTouchEnd
	GestureKeyDown
)

func (k GestureKind) String() string {
	switch k {
	case GestureClick:
		return "click"
	case GestureTouchEnd:
		return "touchend"
	case GestureKeyDown:
		return "keydown"
	default:
		return fmt.Sprintf("GestureKind(%d)", int(k))
	}
}

// ParseGesture maps a gesture name to its kind
func ParseGesture(name string) (GestureKind, error) {
	switch name {
	case "click":
		return GestureClick, nil
	case "touchend":
		return GestureTouchEnd, nil
	case "keydown":
		return GestureKeyDown, nil
	default:
		return 0, fmt.Errorf("unknown gesture: %s", name)
	}
}

// GestureSource delivers user interactions. A listener registered with
// Once runs for the next gesture of that kind only.
type GestureSource interface {
	Once(kind GestureKind, fn func())
}

// ActivationSource reports when the user last interacted
type ActivationSource interface {
	LastGesture() time.Time
}

// Bus is an in-process GestureSource fed by the UI or remote clients
type Bus struct {
	mu        sync.Mutex
	listeners map[GestureKind][]func()
	last      time.Time
}

// NewBus creates an empty gesture bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[GestureKind][]func()),
	}
}

// Once registers fn for the next gesture of kind
func (b *Bus) Once(kind GestureKind, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[kind] = append(b.listeners[kind], fn)
}

// Emit records a gesture and runs, then removes, the listeners waiting
// for it. It returns how many listeners ran.
func (b *Bus) Emit(kind GestureKind) int {
	b.mu.Lock()
	b.last = time.Now()
	fns := b.listeners[kind]
	delete(b.listeners, kind)
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// LastGesture returns the time of the most recent gesture of any kind
func (b *Bus) LastGesture() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}
