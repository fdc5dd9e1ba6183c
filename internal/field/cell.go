// Package field computes the pointer-reactive grid: pointer tracking, per-cell
// highlight and the animated subset.
package field

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MaxDistance is the highlight radius in fractional units.
	MaxDistance = 20.0

	MinOpacity = 0.1
	MaxOpacity = 1.0
	MinScale   = 0.8
	MaxScale   = 1.2

	// NeutralScale is the scale of a cell outside the highlight band.
	NeutralScale = 1.0

	scaleGain = 0.3
)

// ErrInvalidGrid is returned for grids with a non-positive dimension.
var ErrInvalidGrid = errors.New("grid dimensions must be positive")

// GridSpec is the fixed shape of a field.
type GridSpec struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// NewGridSpec validates and returns a GridSpec.
func NewGridSpec(columns, rows int) (GridSpec, error) {
	g := GridSpec{Columns: columns, Rows: rows}
	if err := g.Validate(); err != nil {
		return GridSpec{}, err
	}
	return g, nil
}

// Validate reports ErrInvalidGrid when either dimension is not positive.
func (g GridSpec) Validate() error {
	if g.Columns <= 0 || g.Rows <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, g.Columns, g.Rows)
	}
	return nil
}

// Len is the number of cells in the grid.
func (g GridSpec) Len() int {
	return g.Columns * g.Rows
}

// CellPosition returns the fractional coordinate of the cell at (row, col).
func (g GridSpec) CellPosition(row, col int) PointerPosition {
	return PointerPosition{
		X: float64(col) / float64(g.Columns) * 100,
		Y: float64(row) / float64(g.Rows) * 100,
	}
}

// Cell is one grid position's render attributes for a single recompute.
type Cell struct {
	ID             int
	Position       PointerPosition
	Distance       float64
	Opacity        float64
	Scale          float64
	Animated       bool
	AnimationDelay float64
}

// Row and Col recover the grid coordinates from the cell ID.
func (c Cell) Row(g GridSpec) int { return c.ID / g.Columns }
func (c Cell) Col(g GridSpec) int { return c.ID % g.Columns }

// Highlighted reports whether the cell sits inside the highlight band.
func (c Cell) Highlighted() bool {
	return c.Distance < MaxDistance
}

// Highlight maps a distance from the pointer to opacity and scale. It is
// continuous and non-increasing in distance inside the band and constant
// outside it.
func Highlight(distance float64) (opacity, scale float64) {
	if !(distance < MaxDistance) {
		return MinOpacity, NeutralScale
	}
	raw := (MaxDistance - distance) / MaxDistance
	opacity = clamp(raw, MinOpacity, MaxOpacity)
	scale = clamp(1+raw*scaleGain, MinScale, MaxScale)
	return opacity, scale
}

// Generate builds the full row-major cell list for pointer. Animation flags
// come from anim; a nil anim leaves every cell unanimated.
func Generate(g GridSpec, pointer PointerPosition, anim Animator) []Cell {
	cells := make([]Cell, 0, g.Len())
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Columns; col++ {
			id := row*g.Columns + col
			pos := g.CellPosition(row, col)
			d := math.Hypot(pos.X-pointer.X, pos.Y-pointer.Y)
			opacity, scale := Highlight(d)

			c := Cell{
				ID:       id,
				Position: pos,
				Distance: d,
				Opacity:  opacity,
				Scale:    scale,
			}
			if anim != nil {
				c.Animated, c.AnimationDelay = anim.Animation(id)
			}
			cells = append(cells, c)
		}
	}
	return cells
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
