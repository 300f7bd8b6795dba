package cinder

// ColorFunc maps normalized particle progress to a color, supporting
// time-varying tints. Progress is clamped to [0, 1] before the function is
// applied.
type ColorFunc func(progress float64) Color

// SolidColor returns a ColorFunc that ignores progress and always yields c.
func SolidColor(c Color) ColorFunc {
	return func(float64) Color { return c }
}

// ColorFade returns a ColorFunc interpolating all four components from one
// color to another along the curve. A nil curve means linear.
func ColorFade(from, to Color, curve Curve) ColorFunc {
	fn := orLinear(curve)
	return func(progress float64) Color {
		t := fn(progress)
		return Color{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: lerp(from.A, to.A, t),
		}
	}
}

// PostEffectFactory synthesizes a chained effect from a retiring particle's
// final state. Returning nil skips chaining for that particle.
type PostEffectFactory func(p *Particle) Effect

// ParticleConfiguration describes the visual identity shared by every
// particle an effect emits. It is immutable once handed to an effect;
// particles hold it by pointer and never write through it.
type ParticleConfiguration struct {
	// Region is the sprite drawn for each particle.
	Region TextureRegion
	// Size is the rendered base size in pixels. Animated particles scale it
	// multiplicatively over their lifetime.
	Size float64
	// Color produces the particle tint for a given progress. Nil means
	// constant white.
	Color ColorFunc
	// BlendMode is the compositing operation for this configuration's
	// particles.
	BlendMode BlendMode
	// PostEffect, when non-nil, is invoked for each particle of this
	// configuration as it retires. The returned effect is chained into the
	// scheduler on a later tick.
	PostEffect PostEffectFactory
}

// colorAt applies the configuration's color function at clamped progress.
func (c *ParticleConfiguration) colorAt(progress float64) Color {
	if c.Color == nil {
		return ColorWhite
	}
	return c.Color(clamp01(progress))
}

// Particle is the mutable visual state of one sprite instance. It holds no
// animation logic of its own; an AnimatedParticle (or a custom owner) drives
// it frame by frame.
type Particle struct {
	configuration   *ParticleConfiguration
	initialPosition Vec2

	Position Vec2
	Size     float64
	Rotation float64
	Color    Color
}

// NewParticle creates a particle at the given position with the
// configuration's base size and progress-zero color.
func NewParticle(cfg *ParticleConfiguration, position Vec2) *Particle {
	return &Particle{
		configuration:   cfg,
		initialPosition: position,
		Position:        position,
		Size:            cfg.Size,
		Color:           cfg.colorAt(0),
	}
}

// Configuration returns the particle's shared, read-only configuration.
func (p *Particle) Configuration() *ParticleConfiguration {
	return p.configuration
}

// InitialPosition returns the position the particle was created at. It never
// changes; Position is the mutable counterpart.
func (p *Particle) InitialPosition() Vec2 {
	return p.initialPosition
}

// UpdateColor recomputes the particle color from the configuration's color
// function. Progress outside [0, 1] is clamped, never rejected.
func (p *Particle) UpdateColor(progress float64) {
	p.Color = p.configuration.colorAt(progress)
}

// UpdateOpacity multiplies the current color's alpha by a clamped [0, 1]
// opacity factor. Call after UpdateColor; UpdateColor resets alpha to the
// color function's value.
func (p *Particle) UpdateOpacity(opacity float64) {
	p.Color.A *= clamp01(opacity)
}
