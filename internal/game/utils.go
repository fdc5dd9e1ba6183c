package game

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/gridfield/internal/field"
)

// toNRGBA converts c with a straight alpha in [0,1].
func toNRGBA(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(alpha)*255 + 0.5)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// cellBox is the on-screen rectangle of a cell after its scale transform.
type cellBox struct {
	X, Y, W, H float32
}

// layoutCell places c inside surface, scaled about the center of its slot.
// gap is the spacing left between neighbouring unscaled boxes.
func layoutCell(c field.Cell, g field.GridSpec, surface field.Rect, gap float64) cellBox {
	slotW := surface.Width / float64(g.Columns)
	slotH := surface.Height / float64(g.Rows)
	cx := surface.Left + (float64(c.Col(g))+0.5)*slotW
	cy := surface.Top + (float64(c.Row(g))+0.5)*slotH

	w := (slotW - gap) * c.Scale
	h := (slotH - gap) * c.Scale
	return cellBox{
		X: float32(cx - w/2),
		Y: float32(cy - h/2),
		W: float32(w),
		H: float32(h),
	}
}
