package field

// Source delivers pointer events to subscribers. The returned function removes
// the subscription and is safe to call more than once.
type Source interface {
	Subscribe(fn func(PointerEvent)) (unsubscribe func())
}

type listener struct {
	id int
	fn func(PointerEvent)
}

// Hub is a synchronous Source. Front ends call Publish from their event loop
// and every listener runs on that goroutine before Publish returns.
type Hub struct {
	listeners []listener
	nextID    int
}

func (h *Hub) Subscribe(fn func(PointerEvent)) func() {
	id := h.nextID
	h.nextID++
	h.listeners = append(h.listeners, listener{id: id, fn: fn})

	return func() {
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish hands ev to every listener in subscription order.
func (h *Hub) Publish(ev PointerEvent) {
	// Listeners may unsubscribe while being notified.
	snapshot := append([]listener(nil), h.listeners...)
	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Len is the number of active listeners.
func (h *Hub) Len() int {
	return len(h.listeners)
}
