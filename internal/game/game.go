package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/iburimskiy/gridfield/internal/config"
	"github.com/iburimskiy/gridfield/internal/field"
	"github.com/iburimskiy/gridfield/internal/palette"
	"github.com/iburimskiy/gridfield/internal/search"
)

const (
	trailSize   = 24
	cellGap     = 4
	borderWidth = 1.5
)

// Game is the ebiten window front end for a single grid field.
type Game struct {
	cfg *config.Config
	log *zap.Logger

	field   *field.Field
	hub     field.Hub
	tap     *pointerTap
	palette palette.Palette

	fieldOpts *field.Options

	// surface is known once ebiten has called Layout.
	surface field.Rect
	laidOut bool
	screenW int
	screenH int

	// input
	cursor   func() (int, int)
	keys     func(ebiten.Key) bool
	prevKey  map[ebiten.Key]bool
	lastX    int
	lastY    int
	seenMove bool

	// glow
	glows      map[int]*glow
	glowsDirty bool
	paused     bool

	// search button
	mouse            func(ebiten.MouseButton) bool
	mouseDown        bool
	buttonHovered    bool
	buttonPressed    bool
	pick             func() ([]byte, string, error)
	searcher         Searcher
	searchConfigured bool
	searching        bool
	searchDone       chan searchOutcome
	searchStatus     string
	ctx              context.Context
	cancel           context.CancelFunc
}

// Option customizes a Game.
type Option func(*Game)

// WithCursor replaces ebiten.CursorPosition as the pointer source.
func WithCursor(fn func() (int, int)) Option {
	return func(g *Game) { g.cursor = fn }
}

// WithKeys replaces ebiten.IsKeyPressed.
func WithKeys(fn func(ebiten.Key) bool) Option {
	return func(g *Game) { g.keys = fn }
}

// WithMouse replaces ebiten.IsMouseButtonPressed.
func WithMouse(fn func(ebiten.MouseButton) bool) Option {
	return func(g *Game) { g.mouse = fn }
}

// WithImageSearch replaces the file dialog and the search client behind the
// search button. A nil searcher hides the button.
func WithImageSearch(pick func() ([]byte, string, error), s Searcher) Option {
	return func(g *Game) {
		g.pick = pick
		g.searcher = s
		g.searchConfigured = true
	}
}

// WithFieldOptions overrides the field options derived from the config. The
// bounds and logger are always set by the Game.
func WithFieldOptions(opts field.Options) Option {
	return func(g *Game) { g.fieldOpts = &opts }
}

func New(cfg *config.Config, log *zap.Logger, opts ...Option) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pal, err := palette.Parse(config.BaseColor, config.HighlightColor, config.GlowColor)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:        cfg,
		log:        log.Named("game"),
		palette:    pal,
		cursor:     ebiten.CursorPosition,
		keys:       ebiten.IsKeyPressed,
		mouse:      ebiten.IsMouseButtonPressed,
		prevKey:    map[ebiten.Key]bool{},
		glows:      map[int]*glow{},
		pick:       search.PickImage,
		searchDone: make(chan searchOutcome, 1),
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(g)
	}
	if !g.searchConfigured {
		client, err := search.NewClient(cfg.Search.BaseURL, cfg.Search.Timeout, log)
		if err != nil {
			g.log.Warn("image search disabled", zap.Error(err))
		} else {
			g.searcher = client
		}
	}

	fopts := cfg.FieldOptions()
	if g.fieldOpts != nil {
		fopts = *g.fieldOpts
	}
	fopts.Bounds = g.bounds
	fopts.Logger = log

	f, err := field.New(cfg.Grid, fopts)
	if err != nil {
		g.cancel()
		return nil, fmt.Errorf("failed to build grid field: %w", err)
	}
	g.field = f
	g.field.OnChange(func([]field.Cell) { g.glowsDirty = true })
	g.glowsDirty = true

	g.tap = newPointerTap(&g.hub, trailSize)
	g.field.Mount(g.tap)

	g.log.Info("grid ready",
		zap.Int("columns", cfg.Grid.Columns),
		zap.Int("rows", cfg.Grid.Rows),
		zap.String("animation", string(f.Mode())))
	return g, nil
}

func (g *Game) bounds() (field.Rect, bool) {
	return g.surface, g.laidOut
}

// Field exposes the underlying grid field.
func (g *Game) Field() *field.Field { return g.field }

// Close detaches the field from the pointer source and cancels a running
// image search.
func (g *Game) Close() {
	g.field.Unmount()
	g.cancel()
}

func (g *Game) Update() error {

	justPressed := func(k ebiten.Key) bool {
		pressed := g.keys(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if justPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}

	x, y := g.cursor()
	g.updateButton(x, y)
	g.collectSearch()

	// Publish only real movement
	if !g.seenMove || x != g.lastX || y != g.lastY {
		g.hub.Publish(field.PointerEvent{ClientX: float64(x), ClientY: float64(y)})
		g.lastX, g.lastY = x, y
		g.seenMove = g.laidOut
	}
	g.field.Flush()

	if g.glowsDirty {
		syncGlows(g.glows, animatedDelays(g.field.Cells()))
		g.glowsDirty = false
	}
	if !g.paused {
		dt := float32(1.0 / float64(ebiten.TPS()))
		for _, gl := range g.glows {
			gl.Update(dt)
		}
	}
	return nil
}

func animatedDelays(cells []field.Cell) map[int]float64 {
	out := map[int]float64{}
	for _, c := range cells {
		if c.Animated {
			out[c.ID] = c.AnimationDelay
		}
	}
	return out
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 10, G: 12, B: 20, A: 255})

	g.drawCells(screen)
	g.drawTrail(screen)
	g.drawButton(screen)

	p := g.field.Pointer()
	status := fmt.Sprintf("pointer %.1f, %.1f | %d glowing", p.X, p.Y, len(g.glows))
	if g.paused {
		status += " | glow paused, Space to resume"
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 8)
}

func (g *Game) drawCells(screen *ebiten.Image) {
	spec := g.field.Spec()
	for _, c := range g.field.Cells() {
		box := layoutCell(c, spec, g.surface, cellGap)
		border := g.palette.Border(c.Opacity)

		if gl, ok := g.glows[c.ID]; ok && gl.value > 0 {
			fill := toNRGBA(g.palette.Glow, float64(gl.value)*config.GlowFillAlpha)
			vector.DrawFilledRect(screen, box.X, box.Y, box.W, box.H, fill, false)
			border = g.palette.GlowMix(border, float64(gl.value))
		}
		vector.StrokeRect(screen, box.X, box.Y, box.W, box.H, borderWidth, toNRGBA(border, c.Opacity), false)
	}
}

func (g *Game) drawTrail(screen *ebiten.Image) {
	trail := g.tap.snapshot(trailSize)
	for i, ev := range trail {
		age := float64(i+1) / float64(len(trail))
		c := toNRGBA(g.palette.Highlight, age*0.6)
		vector.DrawFilledCircle(screen, float32(ev.ClientX), float32(ev.ClientY), float32(1+age*3), c, true)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.cfg.Window.Width, g.cfg.Window.Height
	if !g.laidOut || w != g.screenW || h != g.screenH {
		g.screenW, g.screenH = w, h
		g.surface = field.Rect{
			Left:   config.SurfaceMargin,
			Top:    config.SurfaceMargin,
			Width:  float64(w - 2*config.SurfaceMargin),
			Height: float64(h - 2*config.SurfaceMargin),
		}
		g.laidOut = true
	}
	return w, h
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.cfg.Window.Width, g.cfg.Window.Height)
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
