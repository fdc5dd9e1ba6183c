package field

import (
	"fmt"
	"math/rand/v2"
)

const (
	// DefaultAnimationChance is the probability that a cell runs its own glow.
	DefaultAnimationChance = 0.05
	// DefaultMaxAnimationDelay bounds the glow start offset, in seconds.
	DefaultMaxAnimationDelay = 5.0
)

// AnimationMode selects when the per-cell animation draw happens.
type AnimationMode string

const (
	// AnimationStable draws once per field and keeps membership across moves.
	AnimationStable AnimationMode = "stable"
	// AnimationReroll draws again on every recompute, so membership changes
	// with every pointer move.
	AnimationReroll AnimationMode = "reroll"
)

// ParseAnimationMode accepts "stable", "reroll" or "" (stable).
func ParseAnimationMode(s string) (AnimationMode, error) {
	switch AnimationMode(s) {
	case "", AnimationStable:
		return AnimationStable, nil
	case AnimationReroll:
		return AnimationReroll, nil
	}
	return "", fmt.Errorf("unknown animation mode %q", s)
}

// Animator supplies the animated flag and start delay for a cell.
type Animator interface {
	Animation(id int) (animated bool, delay float64)
}

// AnimationParams configures the random draw.
type AnimationParams struct {
	Chance   float64
	MaxDelay float64
}

// DefaultAnimationParams returns the 5% / 5s draw.
func DefaultAnimationParams() AnimationParams {
	return AnimationParams{Chance: DefaultAnimationChance, MaxDelay: DefaultMaxAnimationDelay}
}

func (p AnimationParams) draw(rng *rand.Rand) (bool, float64) {
	if rng.Float64() >= p.Chance {
		return false, 0
	}
	return true, rng.Float64() * p.MaxDelay
}

// RerollAnimator draws a fresh result on every call.
type RerollAnimator struct {
	params AnimationParams
	rng    *rand.Rand
}

func NewRerollAnimator(params AnimationParams, rng *rand.Rand) *RerollAnimator {
	return &RerollAnimator{params: params, rng: rng}
}

func (a *RerollAnimator) Animation(int) (bool, float64) {
	return a.params.draw(a.rng)
}

type slot struct {
	animated bool
	delay    float64
}

// StableAnimator draws every cell once up front and replays the result.
type StableAnimator struct {
	slots []slot
}

func NewStableAnimator(g GridSpec, params AnimationParams, rng *rand.Rand) *StableAnimator {
	a := &StableAnimator{slots: make([]slot, g.Len())}
	for i := range a.slots {
		a.slots[i].animated, a.slots[i].delay = params.draw(rng)
	}
	return a
}

func (a *StableAnimator) Animation(id int) (bool, float64) {
	if id < 0 || id >= len(a.slots) {
		return false, 0
	}
	s := a.slots[id]
	return s.animated, s.delay
}

// NewAnimator builds the Animator for mode.
func NewAnimator(mode AnimationMode, g GridSpec, params AnimationParams, rng *rand.Rand) Animator {
	if mode == AnimationReroll {
		return NewRerollAnimator(params, rng)
	}
	return NewStableAnimator(g, params, rng)
}
