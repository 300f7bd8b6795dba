package cinder

import "math"

// ParticleAnimation fixes an animated particle's trajectory and appearance
// timeline at emission. All fields are immutable for the particle's lifetime;
// randomized effects sample them from their configured ranges.
//
// Times are in engine-clock milliseconds (the owning effect's totalElapsed
// timeline). Curve fields left nil default to Linear.
type ParticleAnimation struct {
	// StartTime is the effect-clock time of emission.
	StartTime float64
	// Duration is the particle's lifetime in milliseconds. The owning effect
	// retires the particle once Duration has elapsed past StartTime.
	Duration float64

	// Distance is the total travel distance in pixels, reached at progress 1
	// along DistanceCurve.
	Distance float64
	// Angle is the travel direction in radians.
	Angle         float64
	DistanceCurve Curve

	// FadeInLimit is the progress at which the fade-in window ends. Zero
	// disables fade-in.
	FadeInLimit float64
	FadeInCurve Curve
	// FadeOutThreshold is the progress at which the fade-out window begins.
	// One disables fade-out.
	FadeOutThreshold float64
	FadeOutCurve     Curve

	// BeginScale and EndScale bound the multiplicative scale applied to the
	// particle's creation-time size, interpolated along ScaleCurve.
	BeginScale float64
	EndScale   float64
	ScaleCurve Curve

	// OnResize, when non-nil, is invoked from OnSurfaceResized so custom
	// particle types can reposition when the render surface changes size.
	OnResize func(p *Particle, oldSize, newSize Vec2)
}

// AnimatedParticle binds a Particle to a fixed animation timeline and
// recomputes its visual state from normalized progress each frame.
type AnimatedParticle struct {
	particle *Particle
	anim     ParticleAnimation

	// Angle trigonometry is computed once here; the angle never changes for
	// the lifetime of the particle.
	cosAngle, sinAngle float64
	baseSize           float64
}

// NewAnimatedParticle pairs a particle with its animation parameters,
// precomputing the direction vector and capturing the creation-time size that
// scaling multiplies against.
func NewAnimatedParticle(p *Particle, anim ParticleAnimation) *AnimatedParticle {
	sin, cos := math.Sincos(anim.Angle)
	anim.DistanceCurve = orLinear(anim.DistanceCurve)
	anim.FadeInCurve = orLinear(anim.FadeInCurve)
	anim.FadeOutCurve = orLinear(anim.FadeOutCurve)
	anim.ScaleCurve = orLinear(anim.ScaleCurve)
	return &AnimatedParticle{
		particle: p,
		anim:     anim,
		cosAngle: cos,
		sinAngle: sin,
		baseSize: p.Size,
	}
}

// Particle returns the particle this animation drives.
func (ap *AnimatedParticle) Particle() *Particle {
	return ap.particle
}

// Animation returns the immutable animation parameters fixed at emission.
func (ap *AnimatedParticle) Animation() ParticleAnimation {
	return ap.anim
}

// OnAnimationUpdate recomputes the particle's position, size, and color for
// the given normalized progress. Called once per frame by the owning effect.
func (ap *AnimatedParticle) OnAnimationUpdate(progress float64) {
	progress = clamp01(progress)
	a := &ap.anim
	p := ap.particle

	// Opacity windows. When both overlap the fade-out write wins; it must
	// stay the second branch.
	opacity := 1.0
	if a.FadeInLimit > 0 && progress <= a.FadeInLimit {
		opacity = a.FadeInCurve(progress / a.FadeInLimit)
	}
	if a.FadeOutThreshold < 1 && progress >= a.FadeOutThreshold {
		local := (progress - a.FadeOutThreshold) / (1 - a.FadeOutThreshold)
		opacity = 1 - a.FadeOutCurve(local)
	}

	// Scale multiplies the creation-time size, not the current one.
	scale := lerp(a.BeginScale, a.EndScale, a.ScaleCurve(progress))
	p.Size = ap.baseSize * scale

	travel := a.Distance * a.DistanceCurve(progress)
	p.Position = p.initialPosition.Add(Vec2{travel * ap.cosAngle, travel * ap.sinAngle})

	p.UpdateColor(progress)
	p.UpdateOpacity(opacity)
}

// OnSurfaceResized reacts to a render surface resize. The default behavior
// keeps in-flight particles where they are; set ParticleAnimation.OnResize to
// reposition.
func (ap *AnimatedParticle) OnSurfaceResized(oldSize, newSize Vec2) {
	if ap.anim.OnResize != nil {
		ap.anim.OnResize(ap.particle, oldSize, newSize)
	}
}
