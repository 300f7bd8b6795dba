package cinder

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default particle tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// WithOpacity returns the color with its alpha multiplied by the clamped
// [0, 1] opacity factor.
func (c Color) WithOpacity(opacity float64) Color {
	c.A *= clamp01(opacity)
	return c
}

// Vec2 is a 2D vector used for positions, offsets, and surface sizes
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns the component-wise sum v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Range is a min/max interval sampled uniformly when an effect randomizes
// a particle parameter.
type Range struct {
	Min, Max float64
}

// Sample returns a uniformly distributed value in [Min, Max] drawn from rng.
// Sampling a reversed range (Min > Max) is rejected at effect construction
// time, so Sample never sees one.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Lerp returns the value at t along the range: Min at 0, Max at 1.
// t is not clamped; curves with overshoot (back, elastic) extrapolate.
func (r Range) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp01 clamps v to [0, 1]. Out-of-range numeric inputs are silently
// corrected, never rejected.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BlendMode selects a compositing operation for a particle configuration.
// Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendErase                   // destination-out (punch transparent holes)
	BlendBelow                   // destination-over (draw behind existing content)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendBelow:
		return ebiten.BlendDestinationOver
	default:
		return ebiten.BlendSourceOver
	}
}
