// Package cinder is a real-time particle effect engine for [Ebitengine].
//
// Cinder simulates effects — configured emission policies that spawn, animate,
// and retire short-lived sprite particles — and reports each particle's
// per-frame transform to a renderer. The engine owns no clock: the host feeds
// it elapsed time once per frame and cinder advances every active effect by
// the computed delta.
//
// # Quick start
//
// Build an [EffectConfiguration], create an effect, hand it to a
// [FrameScheduler], and tick the scheduler from your game loop:
//
//	cfg := cinder.EffectConfiguration{
//		EmitDuration:     50,
//		ParticlesPerEmit: 4,
//		ParticleCount:    200,
//		Distance:         cinder.Range{Min: 60, Max: 140},
//		Angle:            cinder.Range{Min: 0, Max: 2 * math.Pi},
//		Duration:         cinder.Range{Min: 800, Max: 1600},
//		BeginScale:       cinder.Range{Min: 0.6, Max: 1.2},
//	}
//	effect, err := cinder.NewRandomizedEffect(cfg, particleCfg, rng)
//	// ...
//	scheduler := cinder.NewFrameScheduler()
//	scheduler.AddEffect(effect)
//
//	// each frame:
//	scheduler.Tick(elapsedSinceStart)
//	renderer.Draw(screen, scheduler, cinder.LayerBackground)
//
// # Effects and lifecycle
//
// An [Effect] moves through three states: running (emitting), stopped
// (emission paused, in-flight particles still animate), and killed (terminal).
// Effects with a bounded particle budget kill themselves once the budget is
// spent and the last particle has retired. A particle's configuration may
// carry a post-effect factory; when such a particle retires, a new effect is
// synthesized from its final state and chained into the scheduler on the next
// tick (e.g. a splash effect where a raindrop lands).
//
// # Curves
//
// Every time-varying quantity — travel distance, fade-in, fade-out, scale,
// color — is shaped by a [Curve]: a pure function from normalized progress to
// an eased value. The standard set wraps [gween]'s easing functions; any
// func(float64) float64 works.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package cinder
