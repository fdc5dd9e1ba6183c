package game

import (
	"github.com/iburimskiy/gridfield/internal/field"
)

// pointerTap wraps a field.Source and records the last N pointer events into a
// ring buffer so the renderer can draw a trail behind the pointer.
type pointerTap struct {
	Source    field.Source
	buffer    []field.PointerEvent
	nextIndex int
	filled    int
}

func newPointerTap(src field.Source, ringSize int) *pointerTap {
	return &pointerTap{
		Source: src,
		buffer: make([]field.PointerEvent, ringSize),
	}
}

func (t *pointerTap) Subscribe(fn func(field.PointerEvent)) func() {
	return t.Source.Subscribe(func(ev field.PointerEvent) {
		t.record(ev)
		fn(ev)
	})
}

func (t *pointerTap) record(ev field.PointerEvent) {
	if len(t.buffer) == 0 {
		return
	}
	t.buffer[t.nextIndex] = ev
	t.nextIndex++
	if t.nextIndex >= len(t.buffer) {
		t.nextIndex = 0
	}
	if t.filled < len(t.buffer) {
		t.filled++
	}
}

// snapshot returns up to the last n events, oldest first.
func (t *pointerTap) snapshot(n int) []field.PointerEvent {
	if n > t.filled {
		n = t.filled
	}
	out := make([]field.PointerEvent, n)
	// Walk backwards from nextIndex - 1
	idx := t.nextIndex - 1
	for i := n - 1; i >= 0; i-- {
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
		out[i] = t.buffer[idx]
		idx--
	}
	return out
}
