package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette(t *testing.T) Palette {
	t.Helper()
	p, err := Parse("#000000", "#ffffff", "#ff0000")
	require.NoError(t, err)
	return p
}

func TestParseRejectsBadHex(t *testing.T) {
	_, err := Parse("nope", "#ffffff", "#ff0000")
	assert.Error(t, err)
	_, err = Parse("#000000", "#fff", "#zzzzzz")
	assert.Error(t, err)
}

func TestIntensity(t *testing.T) {
	assert.Equal(t, 0.0, Intensity(0.1))
	assert.Equal(t, 1.0, Intensity(1.0))
	assert.InDelta(t, 0.5, Intensity(0.55), 1e-9)
	assert.Equal(t, 0.0, Intensity(-3))
	assert.Equal(t, 1.0, Intensity(7))
}

func TestBorderEndpoints(t *testing.T) {
	p := testPalette(t)
	assert.Equal(t, "#000000", p.Border(0.1).Hex())
	assert.Equal(t, "#ffffff", p.Border(1.0).Hex())
}

func TestBorderBrightensTowardsPointer(t *testing.T) {
	p := testPalette(t)
	prev := -1.0
	for o := 0.1; o <= 1.0; o += 0.05 {
		_, _, l := p.Border(o).Hcl()
		assert.GreaterOrEqual(t, l, prev-1e-6)
		prev = l
	}
}

func TestGlowMix(t *testing.T) {
	p := testPalette(t)
	c := p.Border(0.1)
	assert.Equal(t, c, p.GlowMix(c, 0))
	assert.Equal(t, "#ff0000", p.GlowMix(c, 1).Hex())
	assert.Equal(t, p.GlowMix(c, 1), p.GlowMix(c, 4))
}
