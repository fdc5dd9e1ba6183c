package game

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/gridfield/internal/config"
)

// glow is the looping 0→1→0 pulse of an animated cell. It stays dark until
// its start delay has elapsed.
type glow struct {
	delay  float64
	wait   float32
	tween  *gween.Tween
	rising bool
	value  float32
}

func newGlow(delay float64) *glow {
	return &glow{
		delay:  delay,
		wait:   float32(delay),
		tween:  gween.New(0, 1, config.GlowLegSeconds, ease.InOutSine),
		rising: true,
	}
}

// Update advances the pulse by dt seconds and returns its brightness.
func (g *glow) Update(dt float32) float32 {
	if g.wait > 0 {
		g.wait -= dt
		if g.wait > 0 {
			return 0
		}
		dt = -g.wait
		g.wait = 0
	}

	val, finished := g.tween.Update(dt)
	g.value = val
	if finished {
		g.rising = !g.rising
		from, to := float32(1), float32(0)
		if g.rising {
			from, to = 0, 1
		}
		g.tween = gween.New(from, to, config.GlowLegSeconds, ease.InOutSine)
	}
	return g.value
}

// syncGlows keeps one glow per animated cell. Cells whose delay is unchanged
// keep their running pulse.
func syncGlows(glows map[int]*glow, animated map[int]float64) {
	for id, gl := range glows {
		if d, ok := animated[id]; !ok || d != gl.delay {
			delete(glows, id)
		}
	}
	for id, d := range animated {
		if _, ok := glows[id]; !ok {
			glows[id] = newGlow(d)
		}
	}
}
