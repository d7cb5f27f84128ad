// ABOUTME: Tests for gesture parsing and the gesture bus
// ABOUTME: Verifies one-shot listeners and activation timestamps
package audiogate

import (
	"testing"
	"time"
)

func TestParseGesture(t *testing.T) {
	for _, kind := range []GestureKind{GestureClick, GestureTouchEnd, GestureKeyDown} {
		got, err := ParseGesture(kind.String())
		if err != nil {
			t.Errorf("ParseGesture(%q) failed: %v", kind, err)
		}
		if got != kind {
			t.Errorf("ParseGesture(%q) = %v", kind, got)
		}
	}
	if _, err := ParseGesture("scroll"); err == nil {
		t.Error("ParseGesture(scroll) expected error")
	}
}

func TestBusOnce(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Once(GestureClick, func() { calls++ })
	bus.Once(GestureClick, func() { calls++ })

	if ran := bus.Emit(GestureTouchEnd); ran != 0 {
		t.Errorf("Emit(touchend) ran %d, want 0", ran)
	}
	if ran := bus.Emit(GestureClick); ran != 2 {
		t.Errorf("Emit(click) ran %d, want 2", ran)
	}
	bus.Emit(GestureClick)
	if calls != 2 {
		t.Errorf("listeners called %d times, want 2", calls)
	}
}

func TestBusLastGesture(t *testing.T) {
	bus := NewBus()
	if !bus.LastGesture().IsZero() {
		t.Error("LastGesture() set before any gesture")
	}

	before := time.Now()
	bus.Emit(GestureKeyDown)
	if last := bus.LastGesture(); last.Before(before) {
		t.Errorf("LastGesture() = %v, want after %v", last, before)
	}
}
