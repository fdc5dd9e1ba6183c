package field

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridSpecRejectsNonPositive(t *testing.T) {
	for _, tc := range []struct{ cols, rows int }{{0, 1}, {1, 0}, {-3, 4}, {0, 0}} {
		_, err := NewGridSpec(tc.cols, tc.rows)
		assert.ErrorIs(t, err, ErrInvalidGrid, "%dx%d", tc.cols, tc.rows)
	}

	g, err := NewGridSpec(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, g.Len())
}

func TestGenerateCellCountAndIDs(t *testing.T) {
	grids := []GridSpec{{1, 1}, {2, 2}, {7, 3}, {40, 20}}
	for _, g := range grids {
		cells := Generate(g, PointerPosition{X: 33, Y: 66}, nil)
		require.Len(t, cells, g.Columns*g.Rows)
		for i, c := range cells {
			assert.Equal(t, i, c.ID)
			assert.Equal(t, g.CellPosition(c.Row(g), c.Col(g)), c.Position)
		}
	}
}

func TestHighlightBoundaries(t *testing.T) {
	opacity, scale := Highlight(0)
	assert.Equal(t, 1.0, opacity)
	assert.Equal(t, 1.2, scale)

	opacity, scale = Highlight(MaxDistance)
	assert.Equal(t, 0.1, opacity)
	assert.Equal(t, 1.0, scale)

	opacity, scale = Highlight(1e9)
	assert.Equal(t, 0.1, opacity)
	assert.Equal(t, 1.0, scale)
}

func TestHighlightStaysInRange(t *testing.T) {
	for d := 0.0; d < 60; d += 0.037 {
		opacity, scale := Highlight(d)
		if opacity < MinOpacity || opacity > MaxOpacity {
			t.Fatalf("opacity(%v) = %v out of range", d, opacity)
		}
		if scale < MinScale || scale > MaxScale {
			t.Fatalf("scale(%v) = %v out of range", d, scale)
		}
	}
}

func TestHighlightMonotonicInBand(t *testing.T) {
	prevO, prevS := Highlight(0)
	for d := 0.01; d < MaxDistance; d += 0.01 {
		o, s := Highlight(d)
		if o > prevO || s > prevS {
			t.Fatalf("not monotonic at %v: (%v,%v) after (%v,%v)", d, o, s, prevO, prevS)
		}
		prevO, prevS = o, s
	}
}

func TestGenerateTwoByTwoAtOrigin(t *testing.T) {
	g := GridSpec{Columns: 2, Rows: 2}
	cells := Generate(g, PointerPosition{}, nil)
	require.Len(t, cells, 4)

	wantPos := []PointerPosition{{0, 0}, {50, 0}, {0, 50}, {50, 50}}
	wantDist := []float64{0, 50, 50, math.Sqrt(50*50 + 50*50)}
	for i, c := range cells {
		assert.Equal(t, wantPos[i], c.Position)
		assert.InDelta(t, wantDist[i], c.Distance, 1e-9)
	}

	assert.Equal(t, 1.0, cells[0].Opacity)
	assert.Equal(t, 1.2, cells[0].Scale)
	for _, c := range cells[1:] {
		assert.Equal(t, 0.1, c.Opacity)
		assert.Equal(t, 1.0, c.Scale)
	}
}

func TestGenerateDeterministicApartFromAnimation(t *testing.T) {
	g := GridSpec{Columns: 40, Rows: 20}
	p := PointerPosition{X: 41.3, Y: 57.9}

	a := Generate(g, p, NewRerollAnimator(DefaultAnimationParams(), rand.New(rand.NewPCG(1, 1))))
	b := Generate(g, p, NewRerollAnimator(DefaultAnimationParams(), rand.New(rand.NewPCG(9, 9))))
	require.Len(t, b, len(a))
	for i := range a {
		if a[i].Distance != b[i].Distance || a[i].Opacity != b[i].Opacity || a[i].Scale != b[i].Scale {
			t.Fatalf("cell %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGeneratePointerShift(t *testing.T) {
	g := GridSpec{Columns: 40, Rows: 20}
	cellW, cellH := 100.0/40, 100.0/20
	// Lit area in percent units stays inside the highlight disc.
	bound := math.Pi * MaxDistance * MaxDistance

	lit := func(cells []Cell) map[int]bool {
		out := map[int]bool{}
		for _, c := range cells {
			if c.Opacity > MinOpacity {
				out[c.ID] = true
			}
		}
		return out
	}

	center := lit(Generate(g, PointerPosition{X: 50, Y: 50}, nil))
	corner := lit(Generate(g, PointerPosition{X: 0, Y: 0}, nil))

	require.NotEmpty(t, center)
	require.NotEmpty(t, corner)
	assert.NotEqual(t, center, corner)
	assert.LessOrEqual(t, float64(len(center))*cellW*cellH, bound)
	assert.LessOrEqual(t, float64(len(corner))*cellW*cellH, bound)
	assert.Less(t, len(corner), len(center), "corner pointer clips the highlight region")

	for id := range corner {
		c := Generate(g, PointerPosition{}, nil)[id]
		assert.Less(t, math.Hypot(c.Position.X, c.Position.Y), MaxDistance)
	}
	assert.True(t, center[20*40/2+20], "cell under the pointer is lit")
	assert.False(t, corner[20*40/2+20])
}

func TestGenerateFarPointerIsNeutral(t *testing.T) {
	g := GridSpec{Columns: 5, Rows: 5}
	for _, p := range []PointerPosition{{-500, -500}, {1000, 50}, {50, -300}} {
		for _, c := range Generate(g, p, nil) {
			assert.Equal(t, MinOpacity, c.Opacity)
			assert.Equal(t, NeutralScale, c.Scale)
			assert.False(t, c.Highlighted())
		}
	}
}
