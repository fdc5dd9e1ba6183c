package field

// PointerPosition is the pointer location as a percentage of the tracked
// surface on each axis. Values are not clamped; a pointer outside the surface
// yields coordinates below 0 or above 100.
type PointerPosition struct {
	X, Y float64
}

// PointerEvent carries absolute pointer coordinates in the same space as the
// surface Rect.
type PointerEvent struct {
	ClientX, ClientY float64
}

// Rect is the bounding box of the tracked surface.
type Rect struct {
	Left, Top, Width, Height float64
}

// Bounds measures the tracked surface at the moment of an event. It reports
// false when the surface is not attached or has not been laid out yet.
type Bounds func() (Rect, bool)

// FixedBounds returns a Bounds that always reports r.
func FixedBounds(r Rect) Bounds {
	return func() (Rect, bool) { return r, true }
}

// Tracker converts pointer events into fractional coordinates and holds the
// most recent observation.
type Tracker struct {
	pos PointerPosition
}

// Position returns the last accepted pointer position, {0,0} before the first.
func (t *Tracker) Position() PointerPosition {
	return t.pos
}

// Observe maps ev into fractional coordinates relative to rect. When the rect
// was not measured (ok is false, or it has no area) the event is dropped and
// the previous position stays in effect.
func (t *Tracker) Observe(ev PointerEvent, rect Rect, ok bool) (PointerPosition, bool) {
	if !ok || rect.Width <= 0 || rect.Height <= 0 {
		return t.pos, false
	}
	t.pos = PointerPosition{
		X: (ev.ClientX - rect.Left) / rect.Width * 100,
		Y: (ev.ClientY - rect.Top) / rect.Height * 100,
	}
	return t.pos, true
}
