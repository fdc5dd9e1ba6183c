package field

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *rand.Rand { return rand.New(rand.NewPCG(42, 7)) }

func TestParseAnimationMode(t *testing.T) {
	m, err := ParseAnimationMode("")
	require.NoError(t, err)
	assert.Equal(t, AnimationStable, m)

	m, err = ParseAnimationMode("reroll")
	require.NoError(t, err)
	assert.Equal(t, AnimationReroll, m)

	_, err = ParseAnimationMode("sometimes")
	assert.Error(t, err)
}

func TestAnimationDrawRate(t *testing.T) {
	a := NewRerollAnimator(DefaultAnimationParams(), seeded())
	const n = 20000
	animated := 0
	for i := 0; i < n; i++ {
		ok, delay := a.Animation(i)
		if !ok {
			assert.Zero(t, delay)
			continue
		}
		animated++
		if delay < 0 || delay >= DefaultMaxAnimationDelay {
			t.Fatalf("delay %v out of [0,5)", delay)
		}
	}
	rate := float64(animated) / n
	assert.InDelta(t, DefaultAnimationChance, rate, 0.01)
}

func TestAnimationChanceExtremes(t *testing.T) {
	never := NewRerollAnimator(AnimationParams{Chance: 0, MaxDelay: 5}, seeded())
	always := NewRerollAnimator(AnimationParams{Chance: 1, MaxDelay: 5}, seeded())
	for i := 0; i < 100; i++ {
		ok, _ := never.Animation(i)
		assert.False(t, ok)
		ok, _ = always.Animation(i)
		assert.True(t, ok)
	}
}

func TestStableAnimatorReplays(t *testing.T) {
	g := GridSpec{Columns: 10, Rows: 10}
	a := NewStableAnimator(g, AnimationParams{Chance: 0.5, MaxDelay: 5}, seeded())
	for id := 0; id < g.Len(); id++ {
		ok1, d1 := a.Animation(id)
		ok2, d2 := a.Animation(id)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, d1, d2)
	}

	ok, d := a.Animation(g.Len())
	assert.False(t, ok)
	assert.Zero(t, d)
}
