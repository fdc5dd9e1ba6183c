// Package term renders a grid field in the terminal with tcell. Mouse motion
// over the terminal drives the pointer.
package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/iburimskiy/gridfield/internal/config"
	"github.com/iburimskiy/gridfield/internal/field"
	"github.com/iburimskiy/gridfield/internal/palette"
)

const frameInterval = 33 * time.Millisecond

// shades go from unlit to fully lit.
var shades = []rune{'·', '░', '▒', '▓', '█'}

// App is the terminal front end. It owns the screen once Run starts.
type App struct {
	screen  tcell.Screen
	field   *field.Field
	hub     field.Hub
	palette palette.Palette
	log     *zap.Logger

	width, height int
	elapsed       time.Duration
}

// New initializes screen and builds the field described by cfg. opts
// overrides the field options derived from cfg; bounds and logger are always
// set by the App.
func New(screen tcell.Screen, cfg *config.Config, log *zap.Logger, opts *field.Options) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pal, err := palette.Parse(config.BaseColor, config.HighlightColor, config.GlowColor)
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	a := &App{
		screen:  screen,
		palette: pal,
		log:     log.Named("term"),
	}
	a.width, a.height = screen.Size()

	fopts := cfg.FieldOptions()
	if opts != nil {
		fopts = *opts
	}
	fopts.Bounds = a.bounds
	fopts.Logger = log

	a.field, err = field.New(cfg.Grid, fopts)
	if err != nil {
		screen.Fini()
		return nil, fmt.Errorf("failed to build grid field: %w", err)
	}
	return a, nil
}

func (a *App) bounds() (field.Rect, bool) {
	if a.width <= 0 || a.height <= 0 {
		return field.Rect{}, false
	}
	return field.Rect{Width: float64(a.width), Height: float64(a.height)}, true
}

// Field exposes the underlying grid field.
func (a *App) Field() *field.Field { return a.field }

// Run drives the event loop until ctx is canceled or the user quits. The
// screen is finalized before Run returns.
func (a *App) Run(ctx context.Context) error {
	a.field.Mount(&a.hub)
	defer a.field.Unmount()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.screen.ChannelEvents(events, quit)
	}()
	defer func() {
		close(quit)
		a.screen.Fini()
		for {
			select {
			case <-done:
				return
			case <-events:
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.log.Info("terminal grid running", zap.Int("width", a.width), zap.Int("height", a.height))
	a.draw()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.handle(ev) {
				return nil
			}

		case <-ticker.C:
			a.elapsed += frameInterval
			a.field.Flush()
			a.draw()
		}
	}
}

// handle processes one event and reports whether the loop should continue.
func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			return false
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		a.hub.Publish(field.PointerEvent{ClientX: float64(x), ClientY: float64(y)})

	case *tcell.EventResize:
		a.width, a.height = a.screen.Size()
		a.screen.Sync()
		a.log.Debug("terminal resized", zap.Int("width", a.width), zap.Int("height", a.height))
	}
	return true
}

func (a *App) draw() {
	a.screen.Clear()
	if a.width <= 0 || a.height <= 0 {
		a.screen.Show()
		return
	}

	spec := a.field.Spec()
	cells := a.field.Cells()
	for ty := 0; ty < a.height; ty++ {
		row := ty * spec.Rows / a.height
		for tx := 0; tx < a.width; tx++ {
			col := tx * spec.Columns / a.width
			r, style := a.glyph(cells[row*spec.Columns+col])
			a.screen.SetContent(tx, ty, r, nil, style)
		}
	}
	a.screen.Show()
}

// glyph picks the shade and color for a grid cell.
func (a *App) glyph(c field.Cell) (rune, tcell.Style) {
	t := palette.Intensity(c.Opacity)
	r := shades[int(t*float64(len(shades)-1)+0.5)]

	col := a.palette.Border(c.Opacity)
	if c.Animated {
		col = a.palette.GlowMix(col, pulse(a.elapsed, c.AnimationDelay))
	}
	style := tcell.StyleDefault.Foreground(toTcell(col)).Bold(c.Scale > field.NeutralScale)
	return r, style
}

// pulse is a triangle wave in [0,1] with one rise and one fall per glow leg,
// dark until delay seconds have passed.
func pulse(elapsed time.Duration, delay float64) float64 {
	t := elapsed.Seconds() - delay
	if t <= 0 {
		return 0
	}
	period := 2 * config.GlowLegSeconds
	phase := t - period*float64(int(t/period))
	if phase < config.GlowLegSeconds {
		return phase / config.GlowLegSeconds
	}
	return 2 - phase/config.GlowLegSeconds
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
