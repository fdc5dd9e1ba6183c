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
	"github.com/iburimskiy/gridfield/internal/search"
)

// Button dimensions. The button sits in the top margin, right aligned with
// the grid surface.
const (
	buttonWidth  = 140
	buttonHeight = 22
	buttonY      = 5
	buttonLabel  = "Search by image"
)

// Searcher runs a search request. *search.Client implements it.
type Searcher interface {
	Search(ctx context.Context, req search.Request) ([]search.Result, error)
}

type searchOutcome struct {
	results []search.Result
	err     error
}

func (g *Game) buttonX() int {
	return g.screenW - config.SurfaceMargin - buttonWidth
}

// updateButton runs hover and click detection for the search button. A click
// is a press and release that both happen over the button.
func (g *Game) updateButton(mouseX, mouseY int) {
	down := g.mouse(ebiten.MouseButtonLeft)
	justPressed := down && !g.mouseDown
	justReleased := !down && g.mouseDown
	g.mouseDown = down

	if g.searcher == nil || !g.laidOut {
		return
	}

	bx := g.buttonX()
	g.buttonHovered = mouseX >= bx && mouseX <= bx+buttonWidth &&
		mouseY >= buttonY && mouseY <= buttonY+buttonHeight

	if g.buttonHovered && justPressed {
		g.buttonPressed = true
	}
	if justReleased {
		if g.buttonPressed && g.buttonHovered {
			g.startImageSearch()
		}
		g.buttonPressed = false
	}
}

// startImageSearch asks for an image and sends it to the search API in the
// background. The file dialog blocks the frame, the request does not.
func (g *Game) startImageSearch() {
	if g.searching {
		return
	}
	data, path, err := g.pick()
	if errors.Is(err, search.ErrCanceled) {
		return
	}
	if err != nil {
		g.log.Warn("image selection failed", zap.Error(err))
		g.searchStatus = fmt.Sprintf("could not open image: %v", err)
		return
	}

	g.log.Info("searching by image", zap.String("path", path))
	g.searching = true
	g.searchStatus = "searching..."
	req := search.Request{Image: data, Limit: g.cfg.Search.Limit}
	go func() {
		res, err := g.searcher.Search(g.ctx, req)
		g.searchDone <- searchOutcome{results: res, err: err}
	}()
}

// collectSearch picks up a finished search without blocking the frame.
func (g *Game) collectSearch() {
	select {
	case out := <-g.searchDone:
		g.searching = false
		switch {
		case out.err != nil:
			g.log.Warn("image search failed", zap.Error(out.err))
			g.searchStatus = fmt.Sprintf("search failed: %v", out.err)
		case len(out.results) == 0:
			g.searchStatus = "no matches"
		default:
			top := out.results[0]
			g.searchStatus = fmt.Sprintf("top match: %s (%.2f), %d results", top.Title, top.Score, len(out.results))
		}
	default:
	}
}

func (g *Game) drawButton(screen *ebiten.Image) {
	if g.searcher == nil {
		return
	}

	var bg color.Color
	switch {
	case g.buttonPressed || g.searching:
		bg = color.NRGBA{R: 40, G: 52, B: 78, A: 255}
	case g.buttonHovered:
		bg = color.NRGBA{R: 58, G: 76, B: 110, A: 255}
	default:
		bg = color.NRGBA{R: 30, G: 42, B: 58, A: 255}
	}

	x, y := float32(g.buttonX()), float32(buttonY)
	vector.DrawFilledRect(screen, x, y, buttonWidth, buttonHeight, bg, false)
	vector.StrokeRect(screen, x, y, buttonWidth, buttonHeight, 1, toNRGBA(g.palette.Highlight, 0.8), false)

	textX := g.buttonX() + (buttonWidth-len(buttonLabel)*6)/2
	ebitenutil.DebugPrintAt(screen, buttonLabel, textX, buttonY+3)

	if g.searchStatus != "" {
		ebitenutil.DebugPrintAt(screen, g.searchStatus, 12, g.screenH-config.SurfaceMargin+8)
	}
}
