package cinder

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// EffectState identifies where an effect is in its lifecycle.
type EffectState uint8

const (
	// EffectRunning is the initial state: the effect emits on schedule and
	// animates its particles.
	EffectRunning EffectState = iota
	// EffectStopped pauses emission. In-flight particles keep animating
	// unless they were cancelled by Stop(true).
	EffectStopped
	// EffectKilled is terminal: no emission, no particles, not restartable.
	EffectKilled
)

// String returns the lowercase state name.
func (s EffectState) String() string {
	switch s {
	case EffectRunning:
		return "running"
	case EffectStopped:
		return "stopped"
	case EffectKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// ErrEffectKilled is returned by Start on a killed effect. Killed is terminal;
// create a new effect instead.
var ErrEffectKilled = errors.New("cinder: effect is killed and cannot be restarted")

// StateChangeFunc observes effect lifecycle transitions. Registering one also
// fires it immediately with the current state, so late subscribers never miss
// setup they depend on.
type StateChangeFunc func(e Effect, state EffectState)

// PostEffectFunc receives effects synthesized at particle retirement. The
// scheduler buffers them and merges on a later tick.
type PostEffectFunc func(e Effect)

// ParticleFactory instantiates one animated particle at emission time. The
// surface size is the current render canvas, for initial placement. The
// effect stamps the emission time onto the returned particle itself.
type ParticleFactory func(rng *rand.Rand, surfaceSize Vec2) *AnimatedParticle

// OriginFunc picks the spawn position for a new particle. The default places
// particles at the surface center.
type OriginFunc func(rng *rand.Rand, surfaceSize Vec2) Vec2

// Effect is a configured emission policy owning zero or more in-flight
// particles. BaseEffect is the one concrete implementation; emission variants
// differ only in the ParticleFactory they supply.
type Effect interface {
	// Start resumes emission. Running is a no-op; killed returns
	// ErrEffectKilled without changing state.
	Start() error
	// Stop pauses emission. With cancel, all active particles are cleared
	// immediately, bypassing post-effect chaining. No-op when killed.
	Stop(cancel bool)
	// Kill cancels all particles, detaches the post-effect callback, and
	// moves to the terminal killed state.
	Kill()
	// Forward advances the effect by the elapsed delta in milliseconds:
	// emit, retire, update, completion check, in that order.
	Forward(deltaMillis float64)
	// Particles returns the active particle set. The slice is owned by the
	// effect and only valid until the next Forward call.
	Particles() []*AnimatedParticle
	// State reports the current lifecycle state.
	State() EffectState
	// Configuration returns a copy of the effect's configuration.
	Configuration() EffectConfiguration
	// Root resolves the original effect this one descends from through
	// post-effect chaining. An unchained effect is its own root.
	Root() Effect
	// AddedAtRuntime reports whether the effect was spawned through
	// post-effect chaining rather than declared by the host.
	AddedAtRuntime() bool
	// OnStateChange registers the state observer, firing it once immediately
	// with the current state. Passing nil detaches.
	OnStateChange(fn StateChangeFunc)
	// OnSurfaceResized records the new surface size for future emissions and
	// notifies every active particle.
	OnSurfaceResized(oldSize, newSize Vec2)

	// attach wires everything an effect needs to participate in a scheduler
	// layer in one operation, so an effect is never half-wired.
	attach(surfaceSize Vec2, onPostEffect PostEffectFunc)
	// markRuntime flags the effect as chained at runtime under root.
	markRuntime(root Effect)
}

// EffectConfiguration is the immutable parameter set for an effect: emission
// cadence and budget, plus min/max ranges that randomized emission samples
// per particle. Durations are in milliseconds.
type EffectConfiguration struct {
	// EmitDuration is the minimum interval between emission bursts. Zero
	// emits a burst on every tick.
	EmitDuration float64
	// ParticlesPerEmit is the burst size. Values below one are treated as one.
	ParticlesPerEmit int
	// ParticleCount caps total emissions. Zero or negative means unbounded;
	// unbounded effects run until killed externally.
	ParticleCount int
	// Foreground selects the draw layer the scheduler files the effect under.
	Foreground bool

	// Distance is the travel distance range in pixels.
	Distance Range
	// Angle is the travel direction range in radians.
	Angle Range
	// Duration is the particle lifetime range in milliseconds. Lifetimes
	// sampled at zero or below fall back to one second.
	Duration Range
	// BeginScale is the range of scale factors at emission.
	BeginScale Range
	// EndScale is the range of scale factors at retirement. Nil means end
	// scale equals the sampled begin scale.
	EndScale *Range
	// FadeInLimit is the range of fade-in window ends; sampled values are
	// clamped to [0, 1]. The zero range disables fade-in.
	FadeInLimit Range
	// FadeOutThreshold is the range of fade-out window starts; sampled
	// values are clamped to [0, 1]. Nil disables fade-out.
	FadeOutThreshold *Range

	// Curves shaping the sampled parameters over particle progress. Nil
	// means linear.
	DistanceCurve Curve
	FadeInCurve   Curve
	FadeOutCurve  Curve
	ScaleCurve    Curve

	// Origin picks the spawn position for each particle. Nil spawns at the
	// surface center.
	Origin OriginFunc
}

// Validate rejects reversed ranges (Min > Max). Sampling behavior for a
// reversed range is undefined, so construction fails fast instead.
func (c EffectConfiguration) Validate() error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"distance", c.Distance},
		{"angle", c.Angle},
		{"duration", c.Duration},
		{"begin scale", c.BeginScale},
		{"fade-in limit", c.FadeInLimit},
	}
	if c.EndScale != nil {
		ranges = append(ranges, struct {
			name string
			r    Range
		}{"end scale", *c.EndScale})
	}
	if c.FadeOutThreshold != nil {
		ranges = append(ranges, struct {
			name string
			r    Range
		}{"fade-out threshold", *c.FadeOutThreshold})
	}
	for _, rr := range ranges {
		if rr.r.Min > rr.r.Max {
			return fmt.Errorf("cinder: reversed %s range (min %v > max %v)", rr.name, rr.r.Min, rr.r.Max)
		}
	}
	return nil
}

// BaseEffect is the shared effect implementation: the lifecycle state
// machine, the rate- and count-limited emission policy, and the per-tick
// particle bookkeeping. Emission variants plug in through ParticleFactory.
type BaseEffect struct {
	cfg         EffectConfiguration
	particleCfg *ParticleConfiguration
	factory     ParticleFactory
	rng         *rand.Rand

	particles    []*AnimatedParticle
	state        EffectState
	totalElapsed float64
	lastEmission float64
	emittedCount int

	surfaceSize Vec2
	root        Effect
	runtime     bool

	onState      StateChangeFunc
	onPostEffect PostEffectFunc
}

// NewEffect creates an effect with a custom particle factory. The randomness
// source is handed to the factory on every emission; pass a seeded one for
// deterministic tests. A nil rng gets a fresh PCG source.
func NewEffect(cfg EffectConfiguration, particleCfg *ParticleConfiguration, factory ParticleFactory, rng *rand.Rand) (*BaseEffect, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, errors.New("cinder: effect requires a particle factory")
	}
	if cfg.ParticlesPerEmit < 1 {
		cfg.ParticlesPerEmit = 1
	}
	if cfg.EmitDuration < 0 {
		cfg.EmitDuration = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &BaseEffect{
		cfg:         cfg,
		particleCfg: particleCfg,
		factory:     factory,
		rng:         rng,
		state:       EffectRunning,
	}, nil
}

// NewRandomizedEffect creates the standard emission variant: every particle
// parameter is sampled uniformly from the configuration's ranges.
func NewRandomizedEffect(cfg EffectConfiguration, particleCfg *ParticleConfiguration, rng *rand.Rand) (*BaseEffect, error) {
	if particleCfg == nil {
		return nil, errors.New("cinder: randomized effect requires a particle configuration")
	}
	factory := func(rng *rand.Rand, surfaceSize Vec2) *AnimatedParticle {
		origin := Vec2{surfaceSize.X / 2, surfaceSize.Y / 2}
		if cfg.Origin != nil {
			origin = cfg.Origin(rng, surfaceSize)
		}

		duration := cfg.Duration.Sample(rng)
		if duration <= 0 {
			duration = 1000
		}

		beginScale := cfg.BeginScale.Sample(rng)
		endScale := beginScale
		if cfg.EndScale != nil {
			endScale = cfg.EndScale.Sample(rng)
		}

		fadeOut := 1.0
		if cfg.FadeOutThreshold != nil {
			fadeOut = clamp01(cfg.FadeOutThreshold.Sample(rng))
		}

		return NewAnimatedParticle(NewParticle(particleCfg, origin), ParticleAnimation{
			Duration:         duration,
			Distance:         cfg.Distance.Sample(rng),
			Angle:            cfg.Angle.Sample(rng),
			DistanceCurve:    cfg.DistanceCurve,
			FadeInLimit:      clamp01(cfg.FadeInLimit.Sample(rng)),
			FadeInCurve:      cfg.FadeInCurve,
			FadeOutThreshold: fadeOut,
			FadeOutCurve:     cfg.FadeOutCurve,
			BeginScale:       beginScale,
			EndScale:         endScale,
			ScaleCurve:       cfg.ScaleCurve,
		})
	}
	return NewEffect(cfg, particleCfg, factory, rng)
}

// Start resumes emission. See Effect.Start.
func (e *BaseEffect) Start() error {
	if e.state == EffectKilled {
		return ErrEffectKilled
	}
	e.setState(EffectRunning)
	return nil
}

// Stop pauses emission; with cancel, active particles vanish immediately
// without completing their animation or chaining post-effects.
func (e *BaseEffect) Stop(cancel bool) {
	if e.state == EffectKilled {
		return
	}
	if cancel {
		e.clearParticles()
	}
	e.setState(EffectStopped)
}

// Kill is Stop(true) plus a forced transition to the terminal killed state.
// The post-effect callback is detached so no further chaining can occur.
func (e *BaseEffect) Kill() {
	if e.state == EffectKilled {
		return
	}
	e.Stop(true)
	e.onPostEffect = nil
	e.setState(EffectKilled)
}

// State reports the current lifecycle state.
func (e *BaseEffect) State() EffectState {
	return e.state
}

// Configuration returns a copy of the effect's configuration.
func (e *BaseEffect) Configuration() EffectConfiguration {
	return e.cfg
}

// Particles returns the active particle set, oldest first. The slice is owned
// by the effect and only valid until the next Forward call.
func (e *BaseEffect) Particles() []*AnimatedParticle {
	return e.particles
}

// TotalEmitted returns how many particles the effect has emitted so far.
func (e *BaseEffect) TotalEmitted() int {
	return e.emittedCount
}

// Root resolves the original effect this one descends from. See Effect.Root.
func (e *BaseEffect) Root() Effect {
	if e.root != nil {
		return e.root
	}
	return e
}

// AddedAtRuntime reports whether the effect was spawned through post-effect
// chaining.
func (e *BaseEffect) AddedAtRuntime() bool {
	return e.runtime
}

// OnStateChange registers the state observer and fires it once immediately
// with the current state.
func (e *BaseEffect) OnStateChange(fn StateChangeFunc) {
	e.onState = fn
	if fn != nil {
		fn(e, e.state)
	}
}

// OnSurfaceResized records the new surface size and notifies every active
// particle.
func (e *BaseEffect) OnSurfaceResized(oldSize, newSize Vec2) {
	e.surfaceSize = newSize
	for _, ap := range e.particles {
		ap.OnSurfaceResized(oldSize, newSize)
	}
}

// Forward advances the effect clock by deltaMillis and runs one simulation
// step. The order is load-bearing: emit, then retire, then update, then the
// completion check. Reordering changes visible particle counts and can
// overshoot the emission budget.
func (e *BaseEffect) Forward(deltaMillis float64) {
	if e.state == EffectKilled {
		return
	}
	e.totalElapsed += deltaMillis

	// Emit. The gate is strict: a tick landing exactly EmitDuration after
	// the last burst does not open it.
	if e.totalElapsed-e.lastEmission > e.cfg.EmitDuration {
		e.lastEmission = e.totalElapsed
		for i := 0; i < e.cfg.ParticlesPerEmit && e.state == EffectRunning; i++ {
			if e.cfg.ParticleCount > 0 && e.emittedCount >= e.cfg.ParticleCount {
				break
			}
			ap := e.factory(e.rng, e.surfaceSize)
			ap.anim.StartTime = e.totalElapsed
			e.particles = append(e.particles, ap)
			e.emittedCount++
		}
	}

	// Retire expired particles, compacting in place to keep emission order.
	kept := 0
	for _, ap := range e.particles {
		if ap.anim.Duration < e.totalElapsed-ap.anim.StartTime {
			e.chainPostEffect(ap)
			continue
		}
		e.particles[kept] = ap
		kept++
	}
	for i := kept; i < len(e.particles); i++ {
		e.particles[i] = nil
	}
	e.particles = e.particles[:kept]

	// Update survivors from normalized progress.
	for _, ap := range e.particles {
		ap.OnAnimationUpdate((e.totalElapsed - ap.anim.StartTime) / ap.anim.Duration)
	}

	// Completion: budget exhausted and nothing left in flight.
	if len(e.particles) == 0 && e.cfg.ParticleCount > 0 && e.emittedCount == e.cfg.ParticleCount {
		e.setState(EffectKilled)
	}
}

// chainPostEffect synthesizes and hands off a chained effect for a retiring
// particle. The receiving callback buffers it; the chained effect joins a
// layer on a later tick, never the current one.
func (e *BaseEffect) chainPostEffect(ap *AnimatedParticle) {
	if e.onPostEffect == nil {
		return
	}
	factory := ap.particle.configuration.PostEffect
	if factory == nil {
		return
	}
	chained := factory(ap.particle)
	if chained == nil {
		return
	}
	chained.markRuntime(e.Root())
	e.onPostEffect(chained)
}

func (e *BaseEffect) setState(s EffectState) {
	if e.state == s {
		return
	}
	e.state = s
	if e.onState != nil {
		e.onState(e, s)
	}
}

func (e *BaseEffect) clearParticles() {
	for i := range e.particles {
		e.particles[i] = nil
	}
	e.particles = e.particles[:0]
}

// attach wires the surface size and post-effect callback in one step. A
// killed effect stays detached.
func (e *BaseEffect) attach(surfaceSize Vec2, onPostEffect PostEffectFunc) {
	e.surfaceSize = surfaceSize
	if e.state != EffectKilled {
		e.onPostEffect = onPostEffect
	}
}

// markRuntime flags the effect as chained at runtime under root. Roots are
// transitively stable: the root of a chained effect is always the original.
func (e *BaseEffect) markRuntime(root Effect) {
	e.runtime = true
	e.root = root
}
