package field

import (
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"
)

// Options configures a Field. The zero value gives a stable animation draw
// with the default chance and delay, synchronous recompute and no logging.
type Options struct {
	// Bounds measures the tracked surface. A nil Bounds drops every event.
	Bounds Bounds
	Mode   AnimationMode
	// Params sets the animation chance and delay. A nil Params uses
	// DefaultAnimationParams; a zero Chance turns animation off.
	Params *AnimationParams
	// Rand seeds the animation draw. A nil Rand uses a randomly seeded PCG.
	Rand *rand.Rand
	// FrameAligned defers recompute to Flush.
	FrameAligned bool
	Logger       *zap.Logger
}

// Field owns a Tracker, an Animator and the current cell list. It is driven
// from a single event loop and is not safe for concurrent use.
type Field struct {
	spec         GridSpec
	bounds       Bounds
	mode         AnimationMode
	anim         Animator
	frameAligned bool
	log          *zap.Logger

	tracker  Tracker
	cells    []Cell
	dirty    bool
	onChange func([]Cell)

	unsubscribe func()
}

// New builds a Field and computes its initial cells for the pointer at {0,0}.
func New(g GridSpec, opts Options) (*Field, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	mode, err := ParseAnimationMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	params := DefaultAnimationParams()
	if opts.Params != nil {
		params = *opts.Params
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	f := &Field{
		spec:         g,
		bounds:       opts.Bounds,
		mode:         mode,
		anim:         NewAnimator(mode, g, params, rng),
		frameAligned: opts.FrameAligned,
		log:          log.Named("field"),
	}
	f.recompute()
	return f, nil
}

func (f *Field) Spec() GridSpec           { return f.spec }
func (f *Field) Mode() AnimationMode      { return f.mode }
func (f *Field) Pointer() PointerPosition { return f.tracker.Position() }

// Cells returns a copy of the current cell list.
func (f *Field) Cells() []Cell { return slices.Clone(f.cells) }

func (f *Field) OnChange(fn func(cells []Cell)) { f.onChange = fn }

// Mount subscribes the field to src, replacing any previous subscription.
func (f *Field) Mount(src Source) {
	f.Unmount()
	f.unsubscribe = src.Subscribe(func(ev PointerEvent) { f.HandlePointer(ev) })
	f.log.Debug("mounted", zap.Int("columns", f.spec.Columns), zap.Int("rows", f.spec.Rows))
}

// Unmount drops the current subscription. Calling it when not mounted is a
// no-op.
func (f *Field) Unmount() {
	if f.unsubscribe == nil {
		return
	}
	f.unsubscribe()
	f.unsubscribe = nil
	f.log.Debug("unmounted")
}

func (f *Field) Mounted() bool {
	return f.unsubscribe != nil
}

// HandlePointer feeds one pointer event. It reports whether the surface could
// be measured and the pointer position was updated.
func (f *Field) HandlePointer(ev PointerEvent) bool {
	var (
		rect Rect
		ok   bool
	)
	if f.bounds != nil {
		rect, ok = f.bounds()
	}
	if _, ok = f.tracker.Observe(ev, rect, ok); !ok {
		f.log.Debug("pointer event dropped, surface not measured",
			zap.Float64("x", ev.ClientX), zap.Float64("y", ev.ClientY))
		return false
	}

	if f.frameAligned {
		f.dirty = true
		return true
	}
	f.recompute()
	return true
}

// Flush recomputes a frame-aligned field if a pointer event arrived since the
// last flush. It reports whether the cells changed.
func (f *Field) Flush() bool {
	if !f.dirty {
		return false
	}
	f.recompute()
	return true
}

func (f *Field) recompute() {
	f.cells = Generate(f.spec, f.tracker.Position(), f.anim)
	f.dirty = false
	if f.onChange != nil {
		f.onChange(f.cells)
	}
}
